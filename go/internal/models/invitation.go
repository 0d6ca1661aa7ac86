package models

import (
	"time"

	"github.com/google/uuid"
)

// InvitationStatus represents the lifecycle state of a team invitation
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
	InvitationDeclined InvitationStatus = "declined"
)

// TeamInvitation is a pending offer of team membership sent to an email
// address. Accepted and declined invitations keep their row; canceled
// invitations are deleted.
type TeamInvitation struct {
	ID        uuid.UUID        `json:"id"`
	TeamID    uuid.UUID        `json:"team_id"`
	Email     string           `json:"email"`
	InvitedBy uuid.UUID        `json:"invited_by"`
	Status    InvitationStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
}
