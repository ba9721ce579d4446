package models

import "time"

// User is a registered identity. PasswordHash holds a bcrypt hash and is
// never serialized.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	TokenVersion int64     `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public returns a copy of u with the password hash cleared, suitable for
// crossing a trust boundary.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.PasswordHash = ""
	return &c
}

// UserWithPosts is a row of the public user listing.
type UserWithPosts struct {
	User
	Posts []Post `json:"posts"`
}
