package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/seawatts/nugget-sub007/internal/models"
)

// PostgresStore handles PostgreSQL database operations.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store with a connection pool.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the database connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping checks the database connection.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// CreateCaregiver creates a new caregiver record within a family.
func (s *PostgresStore) CreateCaregiver(ctx context.Context, familyID uuid.UUID, name, email, passwordHash string) (*models.Caregiver, error) {
	cg := &models.Caregiver{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO caregivers (family_id, name, email, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, family_id, name, email, password_hash, created_at, updated_at
	`, familyID, name, email, passwordHash).Scan(
		&cg.ID,
		&cg.FamilyID,
		&cg.Name,
		&cg.Email,
		&cg.PasswordHash,
		&cg.CreatedAt,
		&cg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return cg, nil
}

// GetCaregiverByID retrieves a caregiver by ID.
func (s *PostgresStore) GetCaregiverByID(ctx context.Context, id uuid.UUID) (*models.Caregiver, error) {
	cg := &models.Caregiver{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, family_id, name, email, password_hash, created_at, updated_at
		FROM caregivers WHERE id = $1
	`, id).Scan(
		&cg.ID,
		&cg.FamilyID,
		&cg.Name,
		&cg.Email,
		&cg.PasswordHash,
		&cg.CreatedAt,
		&cg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cg, nil
}

// GetCaregiverByEmail retrieves a caregiver by email.
func (s *PostgresStore) GetCaregiverByEmail(ctx context.Context, email string) (*models.Caregiver, error) {
	cg := &models.Caregiver{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, family_id, name, email, password_hash, created_at, updated_at
		FROM caregivers WHERE email = $1
	`, email).Scan(
		&cg.ID,
		&cg.FamilyID,
		&cg.Name,
		&cg.Email,
		&cg.PasswordHash,
		&cg.CreatedAt,
		&cg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cg, nil
}

// CreateFamily creates a new family.
func (s *PostgresStore) CreateFamily(ctx context.Context, name string) (*models.Family, error) {
	f := &models.Family{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO families (name)
		VALUES ($1)
		RETURNING id, name, created_at
	`, name).Scan(&f.ID, &f.Name, &f.CreatedAt)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateChild creates a new child record within a family.
func (s *PostgresStore) CreateChild(ctx context.Context, familyID uuid.UUID, name string, birthDate *time.Time) (*models.Child, error) {
	c := &models.Child{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO children (family_id, name, birth_date)
		VALUES ($1, $2, $3)
		RETURNING id, family_id, name, birth_date, created_at
	`, familyID, name, birthDate).Scan(
		&c.ID,
		&c.FamilyID,
		&c.Name,
		&c.BirthDate,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// GetChildInFamily retrieves a child by ID, scoped to a family. Returns
// nil when the child does not exist or belongs to a different family;
// callers cannot distinguish the two cases.
func (s *PostgresStore) GetChildInFamily(ctx context.Context, childID, familyID uuid.UUID) (*models.Child, error) {
	c := &models.Child{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, family_id, name, birth_date, created_at
		FROM children WHERE id = $1 AND family_id = $2
	`, childID, familyID).Scan(
		&c.ID,
		&c.FamilyID,
		&c.Name,
		&c.BirthDate,
		&c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// ListChildren retrieves all children in a family.
func (s *PostgresStore) ListChildren(ctx context.Context, familyID uuid.UUID) ([]models.Child, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, family_id, name, birth_date, created_at
		FROM children
		WHERE family_id = $1
		ORDER BY created_at ASC
	`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []models.Child
	for rows.Next() {
		var c models.Child
		if err := rows.Scan(&c.ID, &c.FamilyID, &c.Name, &c.BirthDate, &c.CreatedAt); err != nil {
			return nil, err
		}
		children = append(children, c)
	}
	return children, rows.Err()
}

// CreateActivity inserts a logged activity.
func (s *PostgresStore) CreateActivity(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	out := &models.Activity{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO activities (child_id, actor_id, type, start_at, end_at, scheduled, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, child_id, actor_id, type, start_at, end_at, scheduled, details, created_at
	`, a.ChildID, a.ActorID, a.Type, a.StartAt, a.EndAt, a.Scheduled, a.Details).Scan(
		&out.ID,
		&out.ChildID,
		&out.ActorID,
		&out.Type,
		&out.StartAt,
		&out.EndAt,
		&out.Scheduled,
		&out.Details,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListActivities retrieves already-occurred activities for a child,
// newest first. The Before bound is exclusive. Scheduled rows and rows
// without a start instant never match.
func (s *PostgresStore) ListActivities(ctx context.Context, childID uuid.UUID, q ActivityQuery) ([]models.Activity, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, child_id, actor_id, type, start_at, end_at, scheduled, details, created_at
		FROM activities
		WHERE child_id = $1
		  AND scheduled = FALSE
		  AND start_at IS NOT NULL
		  AND ($2::timestamptz IS NULL OR start_at < $2)
		  AND ($3::text[] IS NULL OR cardinality($3::text[]) = 0 OR type = ANY($3))
		  AND ($4::text[] IS NULL OR cardinality($4::text[]) = 0 OR actor_id::text = ANY($4))
		ORDER BY start_at DESC
		LIMIT $5
	`, childID, q.Before, q.Types, q.ActorIDs, q.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var a models.Activity
		err := rows.Scan(
			&a.ID,
			&a.ChildID,
			&a.ActorID,
			&a.Type,
			&a.StartAt,
			&a.EndAt,
			&a.Scheduled,
			&a.Details,
			&a.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// CreateMilestone inserts a milestone (achieved or pending).
func (s *PostgresStore) CreateMilestone(ctx context.Context, m *models.Milestone) (*models.Milestone, error) {
	out := &models.Milestone{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO milestones (child_id, title, category, achieved_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, child_id, title, category, achieved_at, created_at
	`, m.ChildID, m.Title, m.Category, m.AchievedAt).Scan(
		&out.ID,
		&out.ChildID,
		&out.Title,
		&out.Category,
		&out.AchievedAt,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AchieveMilestone marks a pending milestone as achieved. Returns nil if
// the milestone does not exist for the child.
func (s *PostgresStore) AchieveMilestone(ctx context.Context, childID, milestoneID uuid.UUID, achievedAt time.Time) (*models.Milestone, error) {
	out := &models.Milestone{}
	err := s.pool.QueryRow(ctx, `
		UPDATE milestones
		SET achieved_at = $3
		WHERE id = $1 AND child_id = $2
		RETURNING id, child_id, title, category, achieved_at, created_at
	`, milestoneID, childID, achievedAt).Scan(
		&out.ID,
		&out.ChildID,
		&out.Title,
		&out.Category,
		&out.AchievedAt,
		&out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}

// ListAchievedMilestones retrieves achieved milestones for a child, newest
// first. The Before bound is exclusive.
func (s *PostgresStore) ListAchievedMilestones(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.Milestone, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, child_id, title, category, achieved_at, created_at
		FROM milestones
		WHERE child_id = $1
		  AND achieved_at IS NOT NULL
		  AND ($2::timestamptz IS NULL OR achieved_at < $2)
		ORDER BY achieved_at DESC
		LIMIT $3
	`, childID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var milestones []models.Milestone
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.ChildID, &m.Title, &m.Category, &m.AchievedAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		milestones = append(milestones, m)
	}
	return milestones, rows.Err()
}

// CreateChatThread creates a discussion thread for a child.
func (s *PostgresStore) CreateChatThread(ctx context.Context, childID, createdBy uuid.UUID, title string) (*models.ChatThread, error) {
	t := &models.ChatThread{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO chat_threads (child_id, created_by, title)
		VALUES ($1, $2, $3)
		RETURNING id, child_id, created_by, title, created_at
	`, childID, createdBy, title).Scan(
		&t.ID,
		&t.ChildID,
		&t.CreatedBy,
		&t.Title,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetChatThread retrieves a thread by ID.
func (s *PostgresStore) GetChatThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error) {
	t := &models.ChatThread{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, child_id, created_by, title, created_at
		FROM chat_threads WHERE id = $1
	`, id).Scan(
		&t.ID,
		&t.ChildID,
		&t.CreatedBy,
		&t.Title,
		&t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// ListChatThreads retrieves threads for a child, newest first. The Before
// bound is exclusive.
func (s *PostgresStore) ListChatThreads(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.ChatThread, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, child_id, created_by, title, created_at
		FROM chat_threads
		WHERE child_id = $1
		  AND ($2::timestamptz IS NULL OR created_at < $2)
		ORDER BY created_at DESC
		LIMIT $3
	`, childID, before, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []models.ChatThread
	for rows.Next() {
		var t models.ChatThread
		if err := rows.Scan(&t.ID, &t.ChildID, &t.CreatedBy, &t.Title, &t.CreatedAt); err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, rows.Err()
}
