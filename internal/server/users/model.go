package users

import "time"

// User is the persisted account record. PasswordHash never leaves the
// service layer: responses are built from PublicUser or Summary instead.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Avatar       *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the client-safe projection of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Summary is the minimal user payload returned alongside a login token.
type Summary struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Avatar   *string `json:"avatar"`
}

// PublicView returns the public projection of u.
func (u *User) PublicView() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// LoginSummary returns the minimal projection of u.
func (u *User) LoginSummary() *Summary {
	return &Summary{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
	}
}
