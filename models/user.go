package models

import (
	"errors"
	"regexp"
	"time"

	"mediafolio/db"
	"mediafolio/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const UsernameMaxLength = 150

var (
	ErrUsernameTaken      = errors.New("User with this username already exists.")
	ErrEmailTaken         = errors.New("User with this email already exists.")
	ErrInvalidUsername    = errors.New("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	ErrInvalidCredentials = errors.New("Please enter a correct username and password.")
	ErrWrongPassword      = errors.New("Your current password was entered incorrectly. Please enter it again.")
	ErrPasswordMismatch   = errors.New("The two password fields didn't match.")
	ErrPasswordTooShort   = errors.New("This password is too short. It must contain at least 8 characters.")
	ErrPasswordNumeric    = errors.New("This password is entirely numeric.")
)

var usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	Username    string `gorm:"type:varchar(150);index:uniq_username,unique"`
	Email       string `gorm:"type:varchar(254)"`
	FirstName   string `gorm:"type:varchar(150)"`
	LastName    string `gorm:"type:varchar(150)"`
	Password    string `gorm:"type:varchar(128)"`
	IsActive    bool   `gorm:"not null;default:true"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	DateJoined  int64
	LastLogin   *int64
}

func ValidateUsername(username string) error {
	if username == "" || len(username) > UsernameMaxLength || !usernameRegexp.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(username, plainTextPassword string) error {
	if len(plainTextPassword) < 8 {
		return ErrPasswordTooShort
	}
	numeric := true
	for _, r := range plainTextPassword {
		if r < '0' || r > '9' {
			numeric = false
			break
		}
	}
	if numeric {
		return ErrPasswordNumeric
	}
	return nil
}

func usernameTaken(username string, excludeID uint64) (bool, error) {
	var other User
	err := db.Instance.Where("username = ? AND id != ?", username, excludeID).First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

func emailTaken(email string, excludeID uint64) (bool, error) {
	var other User
	err := db.Instance.Where("email = ? AND id != ?", email, excludeID).First(&other).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return err == nil, err
}

// UserCreate registers a new user and bootstraps their profile, which also
// creates the user's storage folder.
func UserCreate(backend storage.Backend, username, email, plainTextPassword string) (u User, err error) {
	if err = ValidateUsername(username); err != nil {
		return
	}
	if err = ValidatePassword(username, plainTextPassword); err != nil {
		return
	}
	taken, err := usernameTaken(username, 0)
	if err != nil {
		return
	}
	if taken {
		return User{}, ErrUsernameTaken
	}
	taken, err = emailTaken(email, 0)
	if err != nil {
		return
	}
	if taken {
		return User{}, ErrEmailTaken
	}
	u.Username = username
	u.Email = email
	u.IsActive = true
	u.DateJoined = time.Now().Unix()
	if err = u.SetPassword(plainTextPassword); err != nil {
		return
	}
	if err = db.Instance.Create(&u).Error; err != nil {
		return
	}
	profile := Profile{UserID: u.ID, User: u, UserFolderName: u.Username}
	return u, profile.Save(backend)
}

func (u *User) SetPassword(plainTextPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

func (u *User) CheckPassword(plainTextPassword string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plainTextPassword)) == nil
}

func UserLogin(username, plainTextPassword string) (u User, err error) {
	result := db.Instance.First(&u, "username = ? AND is_active = ?", username, true)
	if result.Error != nil || !u.CheckPassword(plainTextPassword) {
		return User{}, ErrInvalidCredentials
	}
	now := time.Now().Unix()
	u.LastLogin = &now
	db.Instance.Model(&u).Update("last_login", now)
	return u, nil
}

// Save persists the user row and then re-saves the profile, so a username
// change always triggers the avatar relocation before the save is reported
// successful. The profile is created here if it doesn't exist yet.
func (u *User) Save(backend storage.Backend) error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if err := db.Instance.Save(u).Error; err != nil {
		return err
	}
	profile, err := ProfileOf(u)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = Profile{UserID: u.ID, User: *u, UserFolderName: u.Username}
	} else if err != nil {
		return err
	}
	return profile.Save(backend)
}

// UpdateInfo applies a profile-info edit (names, username, email) with the
// uniqueness checks the registration form applies.
func (u *User) UpdateInfo(backend storage.Backend, firstName, lastName, username, email string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	taken, err := usernameTaken(username, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrUsernameTaken
	}
	taken, err = emailTaken(email, u.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrEmailTaken
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Username = username
	u.Email = email
	return u.Save(backend)
}

// ChangePassword verifies the current password, checks the confirmation and
// the password rules, and persists the new hash.
func (u *User) ChangePassword(backend storage.Backend, current, newPassword1, newPassword2 string) error {
	if !u.CheckPassword(current) {
		return ErrWrongPassword
	}
	if newPassword1 != newPassword2 {
		return ErrPasswordMismatch
	}
	if err := ValidatePassword(u.Username, newPassword1); err != nil {
		return err
	}
	if err := u.SetPassword(newPassword1); err != nil {
		return err
	}
	return u.Save(backend)
}

func UserByUsername(username string) (u User, err error) {
	err = db.Instance.First(&u, "username = ?", username).Error
	return
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
