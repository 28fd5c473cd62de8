package models

import (
	"testing"

	"mediafolio/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) {
	t.Helper()
	gormDB, err := gorm.Open(sqlite.Open(t.TempDir()+"/test.sqlite3"), &gorm.Config{})
	require.NoError(t, err)
	db.Instance = gormDB
	Init()
}

func TestUserCreateRejectsDuplicates(t *testing.T) {
	setupTestDB(t)
	backend := newMemoryBackend()

	alice, err := UserCreate(backend, "alice", "shared@example.com", "letmein12")
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)
	assert.Contains(t, backend.objects, "profiles/alice/")

	_, err = UserCreate(backend, "alice2", "shared@example.com", "letmein12")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = UserCreate(backend, "alice", "other@example.com", "letmein12")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUserCreateRejectsBadInput(t *testing.T) {
	setupTestDB(t)
	backend := newMemoryBackend()

	_, err := UserCreate(backend, "bad name", "a@example.com", "letmein12")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = UserCreate(backend, "goodname", "a@example.com", "1234")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}
