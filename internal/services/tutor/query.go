package tutor

import (
	"strings"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

// MaxHourlyRate is the upper bound used when only minPrice is supplied.
const MaxHourlyRate = 999999

// Filter holds the optional listing filters. A nil pointer means "not provided".
type Filter struct {
	Search      string
	SubjectSlug string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64

	// Honoured for admins only.
	Status     *models.ProfileStatus
	IsVerified *bool
}

// Predicate is one AND-combined WHERE fragment with its bind arguments.
type Predicate struct {
	SQL  string
	Args []interface{}
}

// Visibility decides which profiles a caller may see at all.
type Visibility interface {
	Base(f Filter) []Predicate
}

type adminVisibility struct{}

func (adminVisibility) Base(f Filter) []Predicate {
	var preds []Predicate
	if f.Status != nil {
		preds = append(preds, Predicate{SQL: "tutor_profiles.status = ?", Args: []interface{}{string(*f.Status)}})
	}
	if f.IsVerified != nil {
		preds = append(preds, Predicate{SQL: "tutor_profiles.is_verified = ?", Args: []interface{}{*f.IsVerified}})
	}
	return preds
}

type publicVisibility struct{}

func (publicVisibility) Base(Filter) []Predicate {
	return []Predicate{{
		SQL:  "tutor_profiles.status = ? AND tutor_profiles.is_verified = ?",
		Args: []interface{}{string(models.StatusApproved), true},
	}}
}

// VisibilityFor returns the admin strategy for ADMIN and the public one for
// everyone else, anonymous callers included.
func VisibilityFor(role models.Role) Visibility {
	if role == models.RoleAdmin {
		return adminVisibility{}
	}
	return publicVisibility{}
}

// BuildPredicates composes the visibility base with the caller's filters.
func BuildPredicates(v Visibility, f Filter) []Predicate {
	preds := v.Base(f)

	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := "%" + escapeLike(s) + "%"
		preds = append(preds, Predicate{
			SQL: "(tutor_profiles.bio ILIKE ? OR EXISTS (SELECT 1 FROM users u WHERE u.id = tutor_profiles.user_id AND (u.name ILIKE ? OR u.email ILIKE ?)))",
			Args: []interface{}{pattern, pattern, pattern},
		})
	}

	if slug := strings.TrimSpace(f.SubjectSlug); slug != "" {
		preds = append(preds, Predicate{
			SQL:  "EXISTS (SELECT 1 FROM tutor_categories tc JOIN subjects s ON s.id = tc.subject_id WHERE tc.tutor_profile_id = tutor_profiles.id AND s.slug = ?)",
			Args: []interface{}{slug},
		})
	}

	if provided(f.MinPrice) || provided(f.MaxPrice) {
		lo, hi := 0.0, float64(MaxHourlyRate)
		if f.MinPrice != nil {
			lo = *f.MinPrice
		}
		if f.MaxPrice != nil {
			hi = *f.MaxPrice
		}
		preds = append(preds, Predicate{
			SQL:  "EXISTS (SELECT 1 FROM tutor_categories tc WHERE tc.tutor_profile_id = tutor_profiles.id AND tc.hourly_rate BETWEEN ? AND ?)",
			Args: []interface{}{lo, hi},
		})
	}

	if provided(f.MinRating) {
		preds = append(preds, Predicate{
			SQL:  "tutor_profiles.average_rating >= ?",
			Args: []interface{}{*f.MinRating},
		})
	}

	return preds
}

// provided mirrors the listing contract: zero counts as absent.
func provided(v *float64) bool {
	return v != nil && *v != 0
}

var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"averageRating": "average_rating",
	"totalReviews":  "total_reviews",
	"status":        "status",
}

// OrderClause maps a whitelisted sort key onto a column. Unknown keys sort by
// creation time.
func OrderClause(sortBy, sortOrder string) string {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return "tutor_profiles." + col + " " + dir
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
