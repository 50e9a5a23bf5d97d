package model

import (
	"time"

	"github.com/google/uuid"
)

const DefaultDisplayName = "Guest"

type Review struct {
	ID          uuid.UUID
	Movie       MovieRef
	UserID      string
	DisplayName string
	Rating      int
	Comment     string
	CreatedAt   time.Time
}

// IsGuest reports whether the review has no author account.
func (r Review) IsGuest() bool {
	return r.UserID == ""
}

type ReviewDraft struct {
	MovieID     string
	Rating      int    `validate:"gte=1,lte=5"`
	Comment     string `validate:"required,max=4096"`
	DisplayName string `validate:"max=64"`
	UserID      string
}
