package models

import (
	"strconv"
	"sync"

	"mediafolio/db"
	"mediafolio/storage"

	cmap "github.com/orcaman/concurrent-map/v2"
)

const (
	ProfilesFolderName    = "profiles"
	ProfileAvatarFileName = "avatar.png"
)

// Profile is owned one-to-one by a User and tracks the storage folder that
// held the user's files at the time of the last successful save.
type Profile struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	UserID    uint64 `gorm:"not null;index:uniq_profile_user,unique"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	// UserFolderName is the last folder name used in storage. The relocation
	// run on every save converges it to the user's current username.
	UserFolderName string `gorm:"type:varchar(150)"`
	// Avatar is the logical storage path of the avatar, empty when unset.
	Avatar string `gorm:"type:varchar(300)"`
}

// Two concurrent saves of the same profile would interleave storage steps, so
// each profile's relocation + row write runs under its own mutex.
var profileLocks = cmap.New[*sync.Mutex]()

func (p *Profile) lock() *sync.Mutex {
	return profileLocks.Upsert(strconv.FormatUint(p.UserID, 10), &sync.Mutex{},
		func(exists bool, valueInMap, newValue *sync.Mutex) *sync.Mutex {
			if exists {
				return valueInMap
			}
			return newValue
		})
}

func (p *Profile) folderKey() string {
	return ProfilesFolderName + "/" + p.UserFolderName + "/"
}

func (p *Profile) newFolderKey() string {
	return ProfilesFolderName + "/" + p.User.Username + "/"
}

// AvatarFileKey is the canonical avatar path for the stored folder name. The
// file is always named avatar.png no matter what was uploaded.
func (p *Profile) AvatarFileKey() string {
	return p.folderKey() + ProfileAvatarFileName
}

func (p *Profile) newAvatarFileKey() string {
	return p.newFolderKey() + ProfileAvatarFileName
}

// relocateAvatar reconciles the profile's storage folder with the owning
// user's current username. It runs before the row write; any backend error
// aborts the save so the row is never persisted against unreconciled storage.
// The steps are not transactional - a crash mid-sequence leaves storage ahead
// of (or behind) the database and needs manual cleanup.
func (p *Profile) relocateAvatar(backend storage.Backend) error {
	oldFolder := p.folderKey()
	newFolder := p.newFolderKey()
	oldAvatarFile := p.AvatarFileKey()
	newAvatarFile := p.newAvatarFileKey()

	exists, err := backend.Exists(oldFolder)
	if err != nil {
		return err
	}
	if !exists {
		// First-ever save for this profile
		if err = backend.CreateFolder(oldFolder); err != nil {
			return err
		}
	}

	if oldFolder == newFolder {
		// Username unchanged. Normalise a fresh upload to the canonical path,
		// or delete the file when the avatar has been cleared.
		exists, err = backend.Exists(oldAvatarFile)
		if err != nil {
			return err
		}
		if exists {
			if p.Avatar != "" {
				p.Avatar = oldAvatarFile
			} else if err = backend.DeleteFile(oldAvatarFile); err != nil {
				return err
			}
		}
		return nil
	}

	// Username changed: rebuild the new folder, carry the avatar over, drop
	// the old folder and record the new baseline.
	exists, err = backend.Exists(newFolder)
	if err != nil {
		return err
	}
	if exists {
		// Stale leftover from an earlier failed run
		if err = backend.DeleteFolder(newFolder); err != nil {
			return err
		}
	}
	if err = backend.CreateFolder(newFolder); err != nil {
		return err
	}
	exists, err = backend.Exists(oldAvatarFile)
	if err != nil {
		return err
	}
	if exists {
		if p.Avatar != "" {
			if err = backend.MoveFile(oldAvatarFile, newAvatarFile); err != nil {
				return err
			}
			p.Avatar = newAvatarFile
		} else if err = backend.DeleteFile(oldAvatarFile); err != nil {
			return err
		}
	} else if p.Avatar != "" {
		// Nothing on storage to relocate: the reference is orphaned
		p.Avatar = ""
	}
	if err = backend.DeleteFolder(oldFolder); err != nil {
		return err
	}
	p.UserFolderName = p.User.Username
	return nil
}

// Save relocates storage first and writes the row only when relocation
// succeeded. Storage faults surface to the caller and leave the row unwritten.
func (p *Profile) Save(backend storage.Backend) error {
	mutex := p.lock()
	mutex.Lock()
	defer mutex.Unlock()

	if p.User.ID == 0 {
		if err := db.Instance.First(&p.User, p.UserID).Error; err != nil {
			return err
		}
	}
	if err := p.relocateAvatar(backend); err != nil {
		return err
	}
	return db.Instance.Save(p).Error
}

func ProfileOf(user *User) (Profile, error) {
	var profile Profile
	err := db.Instance.Where("user_id = ?", user.ID).First(&profile).Error
	profile.User = *user
	return profile, err
}
