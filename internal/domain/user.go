// Package domain contains entity without logic, just meta-data
package domain

type UserID string

// User is the presence record of one joined connection. ID is the
// connection id; Username is whatever the client sent in its join.
type User struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
// Names are not validated: empty and duplicate names are legal.
func NewUser(id UserID, username string) *User {
	return &User{ID: id, Username: username}
}

func (u *User) SetUsername(username string) {
	u.Username = username
}
