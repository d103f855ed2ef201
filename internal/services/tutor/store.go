package tutor

import (
	"context"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

// SearchQuery is a fully built listing request handed to the store.
type SearchQuery struct {
	Predicates []Predicate
	OrderBy    string
	Limit      int
	Offset     int
}

// Store is the persistence boundary of the tutor service. Find methods
// return (nil, nil) when nothing matches.
type Store interface {
	// Transaction runs fn against a store bound to one database transaction.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	CreateProfile(ctx context.Context, p *models.TutorProfile) error
	UpdateProfileBio(ctx context.Context, userID uuid.UUID, bio string) (bool, error)
	SetProfileStatus(ctx context.Context, id uuid.UUID, status models.ProfileStatus, verified bool) (bool, error)
	FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error)
	FindProfileDetail(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error)
	FindProfileWithUser(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error)
	SearchProfiles(ctx context.Context, q SearchQuery) ([]models.TutorProfile, int64, error)

	SetUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error

	UpsertSubject(ctx context.Context, name, slug string) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]models.Subject, error)
	CreateCategory(ctx context.Context, c *models.TutorCategory) error
	FindCategory(ctx context.Context, id uuid.UUID) (*models.TutorCategory, error)

	CreateAdminLog(ctx context.Context, l *models.AdminLog) error
}
