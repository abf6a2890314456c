package models

import "time"

// User is a persisted account. PasswordHash is the bcrypt hash of the
// password; the plaintext is never stored.
type User struct {
	ID           string
	Name         string
	UserName     string
	Email        string
	PhotoURL     string
	IsAdmin      bool
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter selects a user by any of its unique fields. Non-empty fields
// are combined with OR; an all-empty filter matches nothing.
type UserFilter struct {
	ID       string
	Email    string
	UserName string
}

// IsEmpty reports whether the filter has no criteria.
func (f UserFilter) IsEmpty() bool {
	return f.ID == "" && f.Email == "" && f.UserName == ""
}

// UserUpdate is a partial update; nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Email        *string
	UserName     *string
	PhotoURL     *string
	IsAdmin      *bool
	PasswordHash *string
}

// IsEmpty reports whether the update changes nothing.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.UserName == nil &&
		u.PhotoURL == nil && u.IsAdmin == nil && u.PasswordHash == nil
}

// Apply copies the set fields of u onto user.
func (u UserUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Email != nil {
		user.Email = *u.Email
	}
	if u.UserName != nil {
		user.UserName = *u.UserName
	}
	if u.PhotoURL != nil {
		user.PhotoURL = *u.PhotoURL
	}
	if u.IsAdmin != nil {
		user.IsAdmin = *u.IsAdmin
	}
	if u.PasswordHash != nil {
		user.PasswordHash = *u.PasswordHash
	}
}
