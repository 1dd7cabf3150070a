package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// RunMigrations applies the schema to PostgreSQL. Statements are
// idempotent so this is safe to run on every boot.
func RunMigrations(databaseURL string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx, pgSchema)
	return err
}

const pgSchema = `
CREATE EXTENSION IF NOT EXISTS pgcrypto;

CREATE TABLE IF NOT EXISTS families (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS caregivers (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	family_id UUID NOT NULL REFERENCES families(id) ON DELETE CASCADE,
	name TEXT NOT NULL DEFAULT '',
	email TEXT UNIQUE NOT NULL,
	password_hash TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS children (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	family_id UUID NOT NULL REFERENCES families(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	birth_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_children_family ON children(family_id);

CREATE TABLE IF NOT EXISTS activities (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	child_id UUID NOT NULL REFERENCES children(id) ON DELETE CASCADE,
	actor_id UUID NOT NULL REFERENCES caregivers(id),
	type TEXT NOT NULL,
	start_at TIMESTAMPTZ,
	end_at TIMESTAMPTZ,
	scheduled BOOLEAN NOT NULL DEFAULT FALSE,
	details TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_activities_child_start
	ON activities(child_id, start_at DESC)
	WHERE scheduled = FALSE AND start_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS milestones (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	child_id UUID NOT NULL REFERENCES children(id) ON DELETE CASCADE,
	title TEXT NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	achieved_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_milestones_child_achieved
	ON milestones(child_id, achieved_at DESC)
	WHERE achieved_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS chat_threads (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	child_id UUID NOT NULL REFERENCES children(id) ON DELETE CASCADE,
	created_by UUID NOT NULL REFERENCES caregivers(id),
	title TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_chat_threads_child_created
	ON chat_threads(child_id, created_at DESC);
`
