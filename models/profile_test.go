package models

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"mediafolio/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryBackend tracks which logical paths exist, enough to drive avatar
// relocation without a disk or a bucket.
type memoryBackend struct {
	objects map[string][]byte
	ops     []string
	failOp  string
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{objects: map[string][]byte{}}
}

func (m *memoryBackend) fail(op string) error {
	if m.failOp == op {
		return errors.New(op + " failed")
	}
	return nil
}

func (m *memoryBackend) Exists(path string) (bool, error) {
	if err := m.fail("exists"); err != nil {
		return false, err
	}
	_, ok := m.objects[path]
	return ok, nil
}

func (m *memoryBackend) CreateFolder(path string) error {
	if err := m.fail("create-folder"); err != nil {
		return err
	}
	m.ops = append(m.ops, "create-folder "+path)
	m.objects[path] = nil
	return nil
}

func (m *memoryBackend) DeleteFolder(path string) error {
	if err := m.fail("delete-folder"); err != nil {
		return err
	}
	m.ops = append(m.ops, "delete-folder "+path)
	for key := range m.objects {
		if strings.HasPrefix(key, path) {
			delete(m.objects, key)
		}
	}
	return nil
}

func (m *memoryBackend) DeleteFile(path string) error {
	if err := m.fail("delete-file"); err != nil {
		return err
	}
	m.ops = append(m.ops, "delete-file "+path)
	delete(m.objects, path)
	return nil
}

func (m *memoryBackend) MoveFile(oldPath, newPath string) error {
	if err := m.fail("move-file"); err != nil {
		return err
	}
	m.ops = append(m.ops, "move-file "+oldPath+" "+newPath)
	m.objects[newPath] = m.objects[oldPath]
	delete(m.objects, oldPath)
	return nil
}

func (m *memoryBackend) Save(path string, reader io.Reader) (int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, err
	}
	m.objects[path] = data
	return int64(len(data)), nil
}

func (m *memoryBackend) Load(path string, writer io.Writer) (int64, error) {
	data, ok := m.objects[path]
	if !ok {
		return 0, errors.New("not found: " + path)
	}
	count, err := writer.Write(data)
	return int64(count), err
}

func (m *memoryBackend) Serve(path string, request *http.Request, writer http.ResponseWriter) {
}

func testProfile(folderName, username, avatar string) *Profile {
	return &Profile{
		UserID:         1,
		User:           User{ID: 1, Username: username},
		UserFolderName: folderName,
		Avatar:         avatar,
	}
}

func TestRelocateFirstSaveCreatesFolder(t *testing.T) {
	backend := newMemoryBackend()
	profile := testProfile("alice", "alice", "")

	require.NoError(t, profile.relocateAvatar(backend))

	exists, err := backend.Exists("profiles/alice/")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, "alice", profile.UserFolderName)
}

func TestRelocateNormalisesFreshUpload(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	backend.objects["profiles/alice/avatar.png"] = []byte("png")
	profile := testProfile("alice", "alice", "profiles/alice/avatar.png")

	require.NoError(t, profile.relocateAvatar(backend))

	assert.Equal(t, "profiles/alice/avatar.png", profile.Avatar)
	assert.Empty(t, backend.ops)
}

func TestRelocateClearedAvatarDeletesFile(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	backend.objects["profiles/alice/avatar.png"] = []byte("png")
	profile := testProfile("alice", "alice", "")

	require.NoError(t, profile.relocateAvatar(backend))

	exists, err := backend.Exists("profiles/alice/avatar.png")
	require.NoError(t, err)
	assert.False(t, exists)
	exists, err = backend.Exists("profiles/alice/")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRelocateRenameMovesAvatar(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	backend.objects["profiles/alice/avatar.png"] = []byte("png")
	profile := testProfile("alice", "bob", "profiles/alice/avatar.png")

	require.NoError(t, profile.relocateAvatar(backend))

	assert.Equal(t, "bob", profile.UserFolderName)
	assert.Equal(t, "profiles/bob/avatar.png", profile.Avatar)
	assert.Contains(t, backend.objects, "profiles/bob/")
	assert.Contains(t, backend.objects, "profiles/bob/avatar.png")
	assert.NotContains(t, backend.objects, "profiles/alice/")
	assert.NotContains(t, backend.objects, "profiles/alice/avatar.png")
}

func TestRelocateRenameDropsStaleTargetFolder(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	backend.objects["profiles/bob/"] = nil
	backend.objects["profiles/bob/leftover.png"] = []byte("stale")
	profile := testProfile("alice", "bob", "")

	require.NoError(t, profile.relocateAvatar(backend))

	assert.NotContains(t, backend.objects, "profiles/bob/leftover.png")
	assert.Contains(t, backend.objects, "profiles/bob/")
	assert.Equal(t, "bob", profile.UserFolderName)
}

func TestRelocateRenameClearsOrphanedReference(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	profile := testProfile("alice", "bob", "profiles/alice/avatar.png")

	require.NoError(t, profile.relocateAvatar(backend))

	assert.Empty(t, profile.Avatar)
	assert.Equal(t, "bob", profile.UserFolderName)
}

func TestRelocateRenameWithClearedAvatar(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	backend.objects["profiles/alice/avatar.png"] = []byte("png")
	profile := testProfile("alice", "bob", "")

	require.NoError(t, profile.relocateAvatar(backend))

	assert.NotContains(t, backend.objects, "profiles/bob/avatar.png")
	assert.NotContains(t, backend.objects, "profiles/alice/avatar.png")
	assert.Empty(t, profile.Avatar)
}

func TestRelocateIsIdempotent(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	backend.objects["profiles/alice/avatar.png"] = []byte("png")
	profile := testProfile("alice", "bob", "profiles/alice/avatar.png")

	require.NoError(t, profile.relocateAvatar(backend))
	opsAfterFirst := len(backend.ops)
	require.NoError(t, profile.relocateAvatar(backend))

	assert.Equal(t, opsAfterFirst, len(backend.ops))
	assert.Equal(t, "bob", profile.UserFolderName)
	assert.Equal(t, "profiles/bob/avatar.png", profile.Avatar)
}

func TestRelocateBackendErrorAborts(t *testing.T) {
	backend := newMemoryBackend()
	backend.objects["profiles/alice/"] = nil
	backend.failOp = "create-folder"
	profile := testProfile("alice", "bob", "")

	err := profile.relocateAvatar(backend)

	require.Error(t, err)
	assert.Equal(t, "alice", profile.UserFolderName)
}

func TestRelocateRenameOnDisk(t *testing.T) {
	backend, err := storage.NewDiskBackend(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, backend.CreateFolder("profiles/"))
	require.NoError(t, backend.CreateFolder("profiles/alice/"))
	require.NoError(t, storage.SaveBytes(backend, "profiles/alice/avatar.png", []byte("png bytes")))
	profile := testProfile("alice", "bob", "profiles/alice/avatar.png")

	require.NoError(t, profile.relocateAvatar(backend))

	assert.Equal(t, "profiles/bob/avatar.png", profile.Avatar)
	var moved strings.Builder
	_, err = backend.Load("profiles/bob/avatar.png", &moved)
	require.NoError(t, err)
	assert.Equal(t, "png bytes", moved.String())
	exists, err := backend.Exists("profiles/alice/")
	require.NoError(t, err)
	assert.False(t, exists)
}
