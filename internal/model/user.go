package model

import "time"

// User mirrors an identity-provider account into the local store.
// UID is issued by the provider and never changes after creation.
type User struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Username  *string   `json:"username"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Profile is the public slice of a User cached in the session record.
type Profile struct {
	UID      string  `json:"uid"`
	Email    string  `json:"email"`
	Username *string `json:"username"`
	Avatar   *string `json:"avatar"`
}

func (u User) Profile() Profile {
	return Profile{
		UID:      u.UID,
		Email:    u.Email,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
