package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated account
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
