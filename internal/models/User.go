package models

import (
	"errors"
	"time"
)

const UserRecordVersion = 1

var ErrMalformedUser = errors.New("malformed user record")

// User is the record stored at "user:<email>". Records without a version were
// written with a plain Pass secret; they stay readable.
type User struct {
	Version      int    `json:"version,omitempty"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash,omitempty"`
	Pass         string `json:"pass,omitempty"`
	// CreatedAt is unix milliseconds.
	CreatedAt int64 `json:"createdAt"`
}

type PublicUser struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func UserKey(email string) string {
	return "user:" + email
}

func (u *User) IsLegacy() bool {
	return u.Version == 0
}

func (u *User) Created() time.Time {
	if u.CreatedAt <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(u.CreatedAt)
}

// Validate reports whether a decoded record can be used for authentication.
func (u *User) Validate() error {
	if u.Email == "" {
		return ErrMalformedUser
	}
	if u.IsLegacy() {
		if u.Pass == "" {
			return ErrMalformedUser
		}
		return nil
	}
	if u.Version != UserRecordVersion || u.PasswordHash == "" {
		return ErrMalformedUser
	}
	return nil
}

func (u *User) Public() PublicUser {
	return PublicUser{
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.Created(),
	}
}
