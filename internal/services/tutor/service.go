// Package tutor holds the tutor marketplace rules: profile lifecycle,
// teaching subjects, role-aware search and the admin approval workflow.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

const maxBioLength = 5000

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

type ListResult struct {
	Data       []models.TutorProfile `json:"data"`
	Pagination PageMeta              `json:"pagination"`
}

type TeachingSessionInput struct {
	SubjectName     string
	HourlyRate      float64
	ExperienceYears int
	Level           string
	Description     string
	IsPrimary       bool
}

func (s *Service) ListTutors(ctx context.Context, role models.Role, f Filter, p utils.Pagination) (*ListResult, error) {
	rows, total, err := s.store.SearchProfiles(ctx, SearchQuery{
		Predicates: BuildPredicates(VisibilityFor(role), f),
		OrderBy:    OrderClause(p.SortBy, p.SortOrder),
		Limit:      p.Limit,
		Offset:     p.Skip,
	})
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve tutors", err)
	}
	if rows == nil {
		rows = []models.TutorProfile{}
	}

	return &ListResult{
		Data: rows,
		Pagination: PageMeta{
			Total:      total,
			Page:       p.Page,
			Limit:      p.Limit,
			TotalPages: utils.TotalPages(total, p.Limit),
		},
	}, nil
}

// CreateTutorProfile opens a PENDING application. A user gets one profile;
// a second attempt is a conflict.
func (s *Service) CreateTutorProfile(ctx context.Context, userID uuid.UUID, bio string) (*models.TutorProfile, error) {
	bio, err := cleanBio(bio)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to create tutor profile", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("Tutor profile already exists for this user")
	}

	p := &models.TutorProfile{
		UserID:     userID,
		Bio:        bio,
		Status:     models.StatusPending,
		IsVerified: false,
	}
	if err := s.store.CreateProfile(ctx, p); err != nil {
		return nil, asInternal("Failed to create tutor profile", err)
	}
	return p, nil
}

func (s *Service) UpdateTutorBio(ctx context.Context, userID uuid.UUID, bio string) (*models.TutorProfile, error) {
	bio, err := cleanBio(bio)
	if err != nil {
		return nil, err
	}

	ok, err := s.store.UpdateProfileBio(ctx, userID, bio)
	if err != nil {
		return nil, asInternal("Failed to update bio", err)
	}
	if !ok {
		return nil, apperr.NotFound("Tutor profile not found.")
	}

	p, err := s.store.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to update bio", err)
	}
	if p == nil {
		return nil, apperr.NotFound("Tutor profile not found.")
	}
	return p, nil
}

// CreateTeachingSession registers a subject the caller teaches. The subject
// upsert, profile lookup and category insert share one transaction.
func (s *Service) CreateTeachingSession(ctx context.Context, userID uuid.UUID, in TeachingSessionInput) (*models.TutorCategory, error) {
	name := strings.TrimSpace(in.SubjectName)
	fields := apperr.FieldErrors{}
	if name == "" {
		fields["subjectName"] = append(fields["subjectName"], "Subject name is required")
	}
	if in.HourlyRate < 0 || math.IsNaN(in.HourlyRate) || in.HourlyRate > MaxHourlyRate {
		fields["hourlyRate"] = append(fields["hourlyRate"], "Hourly rate must be between 0 and 999999")
	}
	if in.ExperienceYears < 0 {
		fields["experienceYears"] = append(fields["experienceYears"], "Experience years cannot be negative")
	}
	level, ok := models.ParseTutorLevel(in.Level)
	if !ok {
		fields["level"] = append(fields["level"], "Level must be one of BEGINNER, INTERMEDIATE, ADVANCED, EXPERT")
	}
	if len(fields) > 0 {
		return nil, apperr.Validation("Validation failed", fields)
	}

	var created *models.TutorCategory
	err := s.store.Transaction(ctx, func(tx Store) error {
		subject, err := tx.UpsertSubject(ctx, name, utils.Slugify(name))
		if err != nil {
			return err
		}

		profile, err := tx.FindProfileByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if profile == nil {
			return apperr.NotFound("Tutor profile not found for the user")
		}

		c := &models.TutorCategory{
			TutorProfileID:  profile.ID,
			SubjectID:       subject.ID,
			HourlyRate:      in.HourlyRate,
			ExperienceYears: in.ExperienceYears,
			Level:           level,
			Description:     strings.TrimSpace(in.Description),
			IsPrimary:       in.IsPrimary,
		}
		if err := tx.CreateCategory(ctx, c); err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, asInternal("Failed to create teaching session", err)
	}

	out, err := s.store.FindCategory(ctx, created.ID)
	if err != nil || out == nil {
		return created, nil
	}
	return out, nil
}

// ApproveTutorProfile records an admin decision. Status, verification, role
// promotion and the audit row commit together; the profile is re-read after
// commit so callers see persisted state.
func (s *Service) ApproveTutorProfile(ctx context.Context, status models.ProfileStatus, profileID, adminID uuid.UUID) (*models.TutorProfile, error) {
	status, ok := models.ParseProfileStatus(string(status))
	if !ok {
		return nil, apperr.Invalid("Status must be one of APPROVED, REJECTED, PENDING")
	}
	if profileID == uuid.Nil {
		return nil, apperr.Invalid("tutorProfileId is required")
	}

	meta, err := json.Marshal(map[string]string{"status": string(status)})
	if err != nil {
		return nil, apperr.Internal("Failed to update tutor status", err)
	}

	err = s.store.Transaction(ctx, func(tx Store) error {
		ok, err := tx.SetProfileStatus(ctx, profileID, status, status == models.StatusApproved)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.NotFound("Tutor not found")
		}

		profile, err := tx.FindProfileWithUser(ctx, profileID)
		if err != nil {
			return err
		}
		if profile == nil || profile.User == nil {
			return apperr.NotFound("Tutor not found")
		}

		if status == models.StatusApproved && profile.User.Role != models.RoleAdmin {
			if err := tx.SetUserRole(ctx, profile.UserID, models.RoleTutor); err != nil {
				return err
			}
		}

		return tx.CreateAdminLog(ctx, &models.AdminLog{
			AdminID:  adminID,
			Action:   models.ActionForStatus(status),
			TargetID: profileID,
			Metadata: datatypes.JSON(meta),
		})
	})
	if err != nil {
		return nil, asInternal("Failed to update tutor status", err)
	}

	profile, err := s.store.FindProfileWithUser(ctx, profileID)
	if err != nil {
		return nil, apperr.Internal("Failed to load tutor profile", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("Tutor not found")
	}
	return profile, nil
}

func (s *Service) GetTutorProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error) {
	p, err := s.store.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve tutor profile", err)
	}
	return p, nil
}

func (s *Service) GetTutorProfileByID(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error) {
	p, err := s.store.FindProfileDetail(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve tutor profile", err)
	}
	return p, nil
}

// GetTeachingSession returns the caller's profile with its subjects.
func (s *Service) GetTeachingSession(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error) {
	p, err := s.store.FindProfileByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve teaching session", err)
	}
	if p != nil && p.TutorCategories == nil {
		p.TutorCategories = []models.TutorCategory{}
	}
	return p, nil
}

func (s *Service) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	subjects, err := s.store.ListSubjects(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to retrieve subjects", err)
	}
	return subjects, nil
}

func cleanBio(bio string) (string, error) {
	bio = strings.TrimSpace(bio)
	if len([]rune(bio)) > maxBioLength {
		return "", apperr.Validation("Validation failed", apperr.FieldErrors{
			"bio": {"Bio must be at most 5000 characters"},
		})
	}
	return bio, nil
}

// asInternal keeps typed errors as they are and wraps everything else.
func asInternal(msg string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Internal(msg, err)
}
