package store

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/seawatts/nugget-sub007/internal/models"
)

// SQLiteStore handles SQLite database operations. It exists so the server
// can run locally without a PostgreSQL instance.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
// If dbPath is empty, defaults to "./data/nugget.db"
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/nugget.db"
	}

	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		return nil, err
	}

	return store, nil
}

// initSchema creates tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS families (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS caregivers (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL REFERENCES families(id) ON DELETE CASCADE,
		name TEXT NOT NULL DEFAULT '',
		email TEXT UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS children (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL REFERENCES families(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		birth_date DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS activities (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL REFERENCES children(id) ON DELETE CASCADE,
		actor_id TEXT NOT NULL REFERENCES caregivers(id),
		type TEXT NOT NULL,
		start_at DATETIME,
		end_at DATETIME,
		scheduled INTEGER NOT NULL DEFAULT 0,
		details TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_activities_child_start ON activities(child_id, start_at DESC);

	CREATE TABLE IF NOT EXISTS milestones (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL REFERENCES children(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		achieved_at DATETIME,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_milestones_child_achieved ON milestones(child_id, achieved_at DESC);

	CREATE TABLE IF NOT EXISTS chat_threads (
		id TEXT PRIMARY KEY,
		child_id TEXT NOT NULL REFERENCES children(id) ON DELETE CASCADE,
		created_by TEXT NOT NULL REFERENCES caregivers(id),
		title TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_chat_threads_child_created ON chat_threads(child_id, created_at DESC);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	s.db.Close()
}

// Ping checks the database connection.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateCaregiver creates a new caregiver record within a family.
func (s *SQLiteStore) CreateCaregiver(ctx context.Context, familyID uuid.UUID, name, email, passwordHash string) (*models.Caregiver, error) {
	now := time.Now().UTC()
	cg := &models.Caregiver{
		ID:           uuid.New(),
		FamilyID:     familyID,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO caregivers (id, family_id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, cg.ID.String(), familyID.String(), name, email, passwordHash, now, now)
	if err != nil {
		return nil, err
	}
	return cg, nil
}

// GetCaregiverByID retrieves a caregiver by ID.
func (s *SQLiteStore) GetCaregiverByID(ctx context.Context, id uuid.UUID) (*models.Caregiver, error) {
	return s.getCaregiver(ctx, `SELECT id, family_id, name, email, password_hash, created_at, updated_at FROM caregivers WHERE id = ?`, id.String())
}

// GetCaregiverByEmail retrieves a caregiver by email.
func (s *SQLiteStore) GetCaregiverByEmail(ctx context.Context, email string) (*models.Caregiver, error) {
	return s.getCaregiver(ctx, `SELECT id, family_id, name, email, password_hash, created_at, updated_at FROM caregivers WHERE email = ?`, email)
}

func (s *SQLiteStore) getCaregiver(ctx context.Context, query string, arg any) (*models.Caregiver, error) {
	cg := &models.Caregiver{}
	var id, familyID string
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&id,
		&familyID,
		&cg.Name,
		&cg.Email,
		&cg.PasswordHash,
		&cg.CreatedAt,
		&cg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if cg.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if cg.FamilyID, err = uuid.Parse(familyID); err != nil {
		return nil, err
	}
	return cg, nil
}

// CreateFamily creates a new family.
func (s *SQLiteStore) CreateFamily(ctx context.Context, name string) (*models.Family, error) {
	f := &models.Family{ID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO families (id, name, created_at) VALUES (?, ?, ?)
	`, f.ID.String(), f.Name, f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateChild creates a new child record within a family.
func (s *SQLiteStore) CreateChild(ctx context.Context, familyID uuid.UUID, name string, birthDate *time.Time) (*models.Child, error) {
	c := &models.Child{
		ID:        uuid.New(),
		FamilyID:  familyID,
		Name:      name,
		BirthDate: birthDate,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO children (id, family_id, name, birth_date, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, c.ID.String(), familyID.String(), name, birthDate, c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetChildInFamily retrieves a child by ID, scoped to a family.
func (s *SQLiteStore) GetChildInFamily(ctx context.Context, childID, familyID uuid.UUID) (*models.Child, error) {
	c := &models.Child{}
	var id, famID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, family_id, name, birth_date, created_at
		FROM children WHERE id = ? AND family_id = ?
	`, childID.String(), familyID.String()).Scan(
		&id,
		&famID,
		&c.Name,
		&c.BirthDate,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if c.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if c.FamilyID, err = uuid.Parse(famID); err != nil {
		return nil, err
	}
	return c, nil
}

// ListChildren retrieves all children in a family.
func (s *SQLiteStore) ListChildren(ctx context.Context, familyID uuid.UUID) ([]models.Child, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, family_id, name, birth_date, created_at
		FROM children WHERE family_id = ? ORDER BY created_at ASC
	`, familyID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var c models.Child
		var id, famID string
		if err := rows.Scan(&id, &famID, &c.Name, &c.BirthDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		if c.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if c.FamilyID, err = uuid.Parse(famID); err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return children, rows.Err()
}

// CreateActivity inserts a logged activity.
func (s *SQLiteStore) CreateActivity(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	out := *a
	out.ID = uuid.New()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities (id, child_id, actor_id, type, start_at, end_at, scheduled, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, out.ID.String(), out.ChildID.String(), out.ActorID.String(), out.Type, out.StartAt, out.EndAt, out.Scheduled, out.Details, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListActivities retrieves already-occurred activities for a child,
// newest first. The Before bound is exclusive.
func (s *SQLiteStore) ListActivities(ctx context.Context, childID uuid.UUID, q ActivityQuery) ([]models.Activity, error) {
	query := `
		SELECT id, child_id, actor_id, type, start_at, end_at, scheduled, details, created_at
		FROM activities
		WHERE child_id = ? AND scheduled = 0 AND start_at IS NOT NULL`
	args := []any{childID.String()}

	if q.Before != nil {
		query += ` AND start_at < ?`
		args = append(args, *q.Before)
	}
	if len(q.Types) > 0 {
		query += ` AND type IN (?` + strings.Repeat(",?", len(q.Types)-1) + `)`
		for _, t := range q.Types {
			args = append(args, t)
		}
	}
	if len(q.ActorIDs) > 0 {
		query += ` AND actor_id IN (?` + strings.Repeat(",?", len(q.ActorIDs)-1) + `)`
		for _, a := range q.ActorIDs {
			args = append(args, a)
		}
	}
	query += ` ORDER BY start_at DESC LIMIT ?`
	args = append(args, q.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		var id, childIDStr, actorID string
		err := rows.Scan(&id, &childIDStr, &actorID, &a.Type, &a.StartAt, &a.EndAt, &a.Scheduled, &a.Details, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		if a.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if a.ChildID, err = uuid.Parse(childIDStr); err != nil {
			return nil, err
		}
		if a.ActorID, err = uuid.Parse(actorID); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// CreateMilestone inserts a milestone (achieved or pending).
func (s *SQLiteStore) CreateMilestone(ctx context.Context, m *models.Milestone) (*models.Milestone, error) {
	out := *m
	out.ID = uuid.New()
	out.CreatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO milestones (id, child_id, title, category, achieved_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, out.ID.String(), out.ChildID.String(), out.Title, out.Category, out.AchievedAt, out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AchieveMilestone marks a pending milestone as achieved.
func (s *SQLiteStore) AchieveMilestone(ctx context.Context, childID, milestoneID uuid.UUID, achievedAt time.Time) (*models.Milestone, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE milestones SET achieved_at = ? WHERE id = ? AND child_id = ?
	`, achievedAt, milestoneID.String(), childID.String())
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return s.getMilestone(ctx, milestoneID)
}

func (s *SQLiteStore) getMilestone(ctx context.Context, id uuid.UUID) (*models.Milestone, error) {
	m := &models.Milestone{}
	var idStr, childID string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, child_id, title, category, achieved_at, created_at
		FROM milestones WHERE id = ?
	`, id.String()).Scan(&idStr, &childID, &m.Title, &m.Category, &m.AchievedAt, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if m.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	if m.ChildID, err = uuid.Parse(childID); err != nil {
		return nil, err
	}
	return m, nil
}

// ListAchievedMilestones retrieves achieved milestones for a child, newest
// first. The Before bound is exclusive.
func (s *SQLiteStore) ListAchievedMilestones(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.Milestone, error) {
	query := `
		SELECT id, child_id, title, category, achieved_at, created_at
		FROM milestones
		WHERE child_id = ? AND achieved_at IS NOT NULL`
	args := []any{childID.String()}
	if before != nil {
		query += ` AND achieved_at < ?`
		args = append(args, *before)
	}
	query += ` ORDER BY achieved_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		var m models.Milestone
		var id, childIDStr string
		if err := rows.Scan(&id, &childIDStr, &m.Title, &m.Category, &m.AchievedAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		if m.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if m.ChildID, err = uuid.Parse(childIDStr); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// CreateChatThread creates a discussion thread for a child.
func (s *SQLiteStore) CreateChatThread(ctx context.Context, childID, createdBy uuid.UUID, title string) (*models.ChatThread, error) {
	t := &models.ChatThread{
		ID:        uuid.New(),
		ChildID:   childID,
		CreatedBy: createdBy,
		Title:     title,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO chat_threads (id, child_id, created_by, title, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID.String(), childID.String(), createdBy.String(), title, t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetChatThread retrieves a thread by ID.
func (s *SQLiteStore) GetChatThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error) {
	t := &models.ChatThread{}
	var idStr, childID, createdBy string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, child_id, created_by, title, created_at
		FROM chat_threads WHERE id = ?
	`, id.String()).Scan(&idStr, &childID, &createdBy, &t.Title, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if t.ID, err = uuid.Parse(idStr); err != nil {
		return nil, err
	}
	if t.ChildID, err = uuid.Parse(childID); err != nil {
		return nil, err
	}
	if t.CreatedBy, err = uuid.Parse(createdBy); err != nil {
		return nil, err
	}
	return t, nil
}

// ListChatThreads retrieves threads for a child, newest first. The Before
// bound is exclusive.
func (s *SQLiteStore) ListChatThreads(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.ChatThread, error) {
	query := `
		SELECT id, child_id, created_by, title, created_at
		FROM chat_threads WHERE child_id = ?`
	args := []any{childID.String()}
	if before != nil {
		query += ` AND created_at < ?`
		args = append(args, *before)
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []models.ChatThread
	for rows.Next() {
		var t models.ChatThread
		var id, childIDStr, createdBy string
		if err := rows.Scan(&id, &childIDStr, &createdBy, &t.Title, &t.CreatedAt); err != nil {
			return nil, err
		}
		if t.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if t.ChildID, err = uuid.Parse(childIDStr); err != nil {
			return nil, err
		}
		if t.CreatedBy, err = uuid.Parse(createdBy); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}
