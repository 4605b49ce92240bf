package model

import "time"

// Session is a server-side login record referenced by an opaque cookie value.
// The profile fields are a cache of the user row at sync/profile-update time.
type Session struct {
	ID        string
	Profile   Profile
	ExpiresAt time.Time
	CreatedAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
