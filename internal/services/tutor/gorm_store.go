package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/db"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(gdb *gorm.DB) *GormStore {
	return &GormStore{db: gdb}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateProfile(ctx context.Context, p *models.TutorProfile) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return translate("create tutor profile", err)
	}
	return nil
}

func (s *GormStore) UpdateProfileBio(ctx context.Context, userID uuid.UUID, bio string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.TutorProfile{}).
		Where("user_id = ?", userID).
		Update("bio", bio)
	if res.Error != nil {
		return false, translate("update tutor bio", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) SetProfileStatus(ctx context.Context, id uuid.UUID, status models.ProfileStatus, verified bool) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.TutorProfile{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"is_verified": verified,
		})
	if res.Error != nil {
		return false, translate("update tutor status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *GormStore) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error) {
	var p models.TutorProfile
	err := s.db.WithContext(ctx).
		Preload("TutorCategories", func(tx *gorm.DB) *gorm.DB { return tx.Order("tutor_categories.created_at ASC") }).
		Preload("TutorCategories.Subject").
		Where("user_id = ?", userID).
		First(&p).Error
	return found(&p, err, "find tutor profile by user")
}

func (s *GormStore) FindProfileDetail(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error) {
	var p models.TutorProfile
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("TutorCategories.Subject").
		Preload("Reviews", func(tx *gorm.DB) *gorm.DB { return tx.Order("reviews.created_at DESC") }).
		Preload("Reviews.Student", func(tx *gorm.DB) *gorm.DB { return tx.Select("id", "name") }).
		Where("id = ?", id).
		First(&p).Error
	return found(&p, err, "find tutor profile")
}

func (s *GormStore) FindProfileWithUser(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error) {
	var p models.TutorProfile
	err := s.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&p).Error
	return found(&p, err, "find tutor profile with user")
}

func (s *GormStore) SearchProfiles(ctx context.Context, q SearchQuery) ([]models.TutorProfile, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.TutorProfile{}).
		Scopes(withPredicates(q.Predicates)).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count tutor profiles: %w", err)
	}

	rows := []models.TutorProfile{}
	if total == 0 {
		return rows, 0, nil
	}
	if err := searchQuery(s.db.WithContext(ctx), q).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("search tutor profiles: %w", err)
	}
	return rows, total, nil
}

func searchQuery(tx *gorm.DB, q SearchQuery) *gorm.DB {
	return tx.Model(&models.TutorProfile{}).
		Scopes(withPredicates(q.Predicates)).
		Preload("User").
		Preload("TutorCategories.Subject").
		Order(q.OrderBy).
		Limit(q.Limit).
		Offset(q.Offset)
}

func withPredicates(preds []Predicate) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		for _, p := range preds {
			tx = tx.Where(p.SQL, p.Args...)
		}
		return tx
	}
}

func (s *GormStore) SetUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("role", role)
	if res.Error != nil {
		return translate("update user role", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

// UpsertSubject inserts the subject unless its slug already exists and
// returns the stored row either way.
func (s *GormStore) UpsertSubject(ctx context.Context, name, slug string) (*models.Subject, error) {
	tx := s.db.WithContext(ctx)
	sub := models.Subject{Name: name, Slug: slug}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&sub).Error; err != nil {
		return nil, translate("upsert subject", err)
	}

	var out models.Subject
	if err := tx.Where("slug = ?", slug).First(&out).Error; err != nil {
		return nil, fmt.Errorf("reload subject: %w", err)
	}
	return &out, nil
}

func (s *GormStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects := []models.Subject{}
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

func (s *GormStore) CreateCategory(ctx context.Context, c *models.TutorCategory) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error; err != nil {
		return translate("create tutor category", err)
	}
	return nil
}

func (s *GormStore) FindCategory(ctx context.Context, id uuid.UUID) (*models.TutorCategory, error) {
	var c models.TutorCategory
	err := s.db.WithContext(ctx).
		Preload("Subject").
		Preload("TutorProfile.User").
		Where("id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tutor category: %w", err)
	}
	return &c, nil
}

func (s *GormStore) CreateAdminLog(ctx context.Context, l *models.AdminLog) error {
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create admin log: %w", err)
	}
	return nil
}

func found(p *models.TutorProfile, err error, op string) (*models.TutorProfile, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// translate turns unique-index violations into conflicts and wraps the rest.
func translate(op string, err error) error {
	if db.IsUniqueViolation(err) {
		return apperr.Wrap(apperr.KindConflict, conflictMessage(db.ConstraintName(err)), err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func conflictMessage(constraint string) string {
	switch constraint {
	case "idx_tutor_profiles_user_id":
		return "Tutor profile already exists for this user"
	case "idx_tutor_categories_profile_subject":
		return "You already teach this subject"
	case "idx_subjects_slug":
		return "Subject already exists"
	default:
		return "Resource already exists"
	}
}
