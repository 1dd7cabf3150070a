package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/seawatts/nugget-sub007/internal/models"
)

// ActivityQuery bounds and filters an activity list read. Before is an
// exclusive upper bound on start_at; Types and ActorIDs narrow the result
// set and are ignored when empty.
type ActivityQuery struct {
	Before   *time.Time
	Limit    int
	Types    []string
	ActorIDs []string
}

// DataStore defines the interface for persistent storage of families,
// children and their records. Both PostgresStore and SQLiteStore implement
// this interface.
type DataStore interface {
	// Connection management
	Close()
	Ping(ctx context.Context) error

	// Caregiver operations
	CreateCaregiver(ctx context.Context, familyID uuid.UUID, name, email, passwordHash string) (*models.Caregiver, error)
	GetCaregiverByID(ctx context.Context, id uuid.UUID) (*models.Caregiver, error)
	GetCaregiverByEmail(ctx context.Context, email string) (*models.Caregiver, error)

	// Family and child operations
	CreateFamily(ctx context.Context, name string) (*models.Family, error)
	CreateChild(ctx context.Context, familyID uuid.UUID, name string, birthDate *time.Time) (*models.Child, error)
	GetChildInFamily(ctx context.Context, childID, familyID uuid.UUID) (*models.Child, error)
	ListChildren(ctx context.Context, familyID uuid.UUID) ([]models.Child, error)

	// Activity operations. List reads are descending by start_at and
	// exclude scheduled and unstarted rows.
	CreateActivity(ctx context.Context, a *models.Activity) (*models.Activity, error)
	ListActivities(ctx context.Context, childID uuid.UUID, q ActivityQuery) ([]models.Activity, error)

	// Milestone operations. List reads are descending by achieved_at and
	// include only achieved rows.
	CreateMilestone(ctx context.Context, m *models.Milestone) (*models.Milestone, error)
	AchieveMilestone(ctx context.Context, childID, milestoneID uuid.UUID, achievedAt time.Time) (*models.Milestone, error)
	ListAchievedMilestones(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.Milestone, error)

	// Chat thread operations. List reads are descending by created_at.
	CreateChatThread(ctx context.Context, childID, createdBy uuid.UUID, title string) (*models.ChatThread, error)
	GetChatThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error)
	ListChatThreads(ctx context.Context, childID uuid.UUID, before *time.Time, limit int) ([]models.ChatThread, error)
}
