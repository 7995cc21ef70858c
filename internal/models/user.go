package models

import (
	"strings"
	"time"
)

// User is a locally stored account verified by the local credential backend.
type User struct {
	ID           string `gorm:"primaryKey"`
	Username     string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"` // bcrypt
	Authorities  string // comma-separated, e.g. "ROLE_USER,ROLE_ADMIN"

	// Account state. Zero values describe a usable account.
	Disabled          bool
	Locked            bool
	AccountExpiresAt  *time.Time
	PasswordExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// AuthorityList splits Authorities preserving order and dropping blanks.
func (u *User) AuthorityList() []string {
	var out []string
	for _, a := range strings.Split(u.Authorities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// SetAuthorities joins authorities into the stored form.
func (u *User) SetAuthorities(authorities ...string) {
	u.Authorities = strings.Join(authorities, ",")
}

// IsAccountExpired reports whether the account expiry is at or before now.
func (u *User) IsAccountExpired(now time.Time) bool {
	return u.AccountExpiresAt != nil && !now.Before(*u.AccountExpiresAt)
}

// IsPasswordExpired reports whether the password expiry is at or before now.
func (u *User) IsPasswordExpired(now time.Time) bool {
	return u.PasswordExpiresAt != nil && !now.Before(*u.PasswordExpiresAt)
}
