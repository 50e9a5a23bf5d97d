package model

import "time"

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash []byte
	IsAdmin      bool
	Watchlist    []string
	CreatedAt    time.Time
}

// Principal is the authenticated caller attached to a request.
type Principal struct {
	UserID    string
	Name      string
	IsAdmin   bool
	SessionID string
}
