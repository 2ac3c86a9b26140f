package model

import "time"

// Session is a server-side login session. Token is the bearer secret the
// cookie carries; ID is only the surrogate row key and must never be used
// to look a session up.
type Session struct {
	ID        int64     `json:"id"`
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
