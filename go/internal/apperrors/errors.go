// Package apperrors defines the error taxonomy shared across the domain
// layers. Repositories classify gateway failures into these sentinels; the
// service layer is the only place they are translated for presentation.
package apperrors

import "errors"

var (
	// ErrNotFound signals that a referenced entity is absent.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRegistration signals a uniqueness violation on a
	// registration insert for the same (hackathon, user) or
	// (hackathon, team) pair.
	ErrDuplicateRegistration = errors.New("already registered for this hackathon")

	// ErrInvalidParticipationType signals a team registration attempted
	// against an individual hackathon.
	ErrInvalidParticipationType = errors.New("this hackathon is not team-based")

	// ErrTeamTooSmall signals a team below the two-member minimum, either at
	// registration time or when a removal would drop membership below it.
	ErrTeamTooSmall = errors.New("team must have at least 2 members")

	// ErrTeamTooLarge signals a team above the hackathon's max team size.
	ErrTeamTooLarge = errors.New("team size exceeds hackathon max")

	// ErrAlreadyMember signals a duplicate team membership insert.
	ErrAlreadyMember = errors.New("user is already a member of this team")

	// ErrAlreadyExists signals a uniqueness violation outside registrations,
	// such as a duplicate account email.
	ErrAlreadyExists = errors.New("already exists")

	// ErrAuthRequired signals an operation attempted without a session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrForbidden signals an operation attempted by a user who is not the
	// owner of the target entity.
	ErrForbidden = errors.New("access forbidden")
)
