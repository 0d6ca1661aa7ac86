package teams

import "github.com/google/uuid"

// CreateTeamRequest carries the fields for a new team
type CreateTeamRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// UpdateTeamRequest carries a partial team update; nil fields are unchanged
type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// InviteRequest carries the email address to invite to a team
type InviteRequest struct {
	Email string `json:"email"`
}

// AddMemberRequest carries the user to add to a team
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
}
