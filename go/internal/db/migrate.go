package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Statements are idempotent so Migrate can run on every startup. The unique
// indexes on hackathon_registrations and team_members carry the at-most-one
// invariant; every other rule is enforced in the app layer.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		email text NOT NULL UNIQUE,
		pass_hash text NOT NULL,
		full_name text,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		id uuid PRIMARY KEY,
		full_name text,
		username text,
		bio text,
		country text,
		avatar_url text,
		updated_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS hackathons (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		title text NOT NULL,
		description text,
		start_date timestamptz,
		end_date timestamptz,
		location text,
		prize text,
		image_url text,
		participation_type text NOT NULL CHECK (participation_type IN ('Individual', 'Team')),
		max_team_size int NOT NULL DEFAULT 1,
		created_by uuid NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS teams (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		name text NOT NULL,
		description text,
		created_by uuid NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS team_members (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		team_id uuid NOT NULL REFERENCES teams(id),
		user_id uuid NOT NULL,
		joined_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT uq_team_members_team_user UNIQUE (team_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS team_invitations (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		team_id uuid NOT NULL REFERENCES teams(id),
		email text NOT NULL,
		invited_by uuid NOT NULL,
		status text NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'declined')),
		created_at timestamptz NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS hackathon_registrations (
		id uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		hackathon_id uuid NOT NULL REFERENCES hackathons(id),
		user_id uuid,
		team_id uuid,
		registered_at timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT chk_registration_subject CHECK ((user_id IS NULL) <> (team_id IS NULL)),
		CONSTRAINT uq_registrations_hackathon_user UNIQUE (hackathon_id, user_id),
		CONSTRAINT uq_registrations_hackathon_team UNIQUE (hackathon_id, team_id)
	)`,
	`CREATE TABLE IF NOT EXISTS outbox_events (
		id uuid PRIMARY KEY,
		event_type text NOT NULL,
		hackathon_id uuid,
		payload jsonb NOT NULL,
		created_at timestamptz NOT NULL DEFAULT now(),
		sent_at timestamptz
	)`,
	`CREATE INDEX IF NOT EXISTS idx_outbox_unsent ON outbox_events (created_at) WHERE sent_at IS NULL`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_hackathon ON hackathon_registrations (hackathon_id)`,
}

// Migrate applies the schema. Statements run one at a time; the first
// failure aborts.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	log.Info().Int("statements", len(migrations)).Msg("schema migrations applied")
	return nil
}
