package tutor

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
)

// memStore is an in-memory Store. Transactions snapshot the maps and restore
// them when fn fails.
type memStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]models.User
	profiles   map[uuid.UUID]models.TutorProfile
	subjects   map[string]models.Subject
	categories map[uuid.UUID]models.TutorCategory
	logs       []models.AdminLog

	searches   []SearchQuery
	searchRows []models.TutorProfile
	searchErr  error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[uuid.UUID]models.User{},
		profiles:   map[uuid.UUID]models.TutorProfile{},
		subjects:   map[string]models.Subject{},
		categories: map[uuid.UUID]models.TutorCategory{},
	}
}

func (m *memStore) addUser(name string, role models.Role) models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := models.User{ID: uuid.New(), Name: name, Email: name + "@example.com", Role: role, IsActive: true}
	m.users[u.ID] = u
	return u
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	users := copyMap(m.users)
	profiles := copyMap(m.profiles)
	subjects := copyMap(m.subjects)
	categories := copyMap(m.categories)
	logs := append([]models.AdminLog(nil), m.logs...)
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.users, m.profiles, m.subjects, m.categories, m.logs = users, profiles, subjects, categories, logs
		m.mu.Unlock()
		return err
	}
	return nil
}

func copyMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memStore) CreateProfile(ctx context.Context, p *models.TutorProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.profiles {
		if existing.UserID == p.UserID {
			return apperr.Conflict("Tutor profile already exists for this user")
		}
	}
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	m.profiles[p.ID] = *p
	return nil
}

func (m *memStore) UpdateProfileBio(ctx context.Context, userID uuid.UUID, bio string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, p := range m.profiles {
		if p.UserID == userID {
			p.Bio = bio
			p.UpdatedAt = time.Now()
			m.profiles[id] = p
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) SetProfileStatus(ctx context.Context, id uuid.UUID, status models.ProfileStatus, verified bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return false, nil
	}
	p.Status = status
	p.IsVerified = verified
	m.profiles[id] = p
	return true, nil
}

func (m *memStore) FindProfileByUserID(ctx context.Context, userID uuid.UUID) (*models.TutorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.profiles {
		if p.UserID == userID {
			p.TutorCategories = m.categoriesOf(p.ID)
			return &p, nil
		}
	}
	return nil, nil
}

func (m *memStore) FindProfileDetail(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	if u, ok := m.users[p.UserID]; ok {
		p.User = &u
	}
	p.TutorCategories = m.categoriesOf(p.ID)
	return &p, nil
}

func (m *memStore) FindProfileWithUser(ctx context.Context, id uuid.UUID) (*models.TutorProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[id]
	if !ok {
		return nil, nil
	}
	if u, ok := m.users[p.UserID]; ok {
		p.User = &u
	}
	return &p, nil
}

func (m *memStore) SearchProfiles(ctx context.Context, q SearchQuery) ([]models.TutorProfile, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, q)
	if m.searchErr != nil {
		return nil, 0, m.searchErr
	}
	return m.searchRows, int64(len(m.searchRows)), nil
}

func (m *memStore) SetUserRole(ctx context.Context, userID uuid.UUID, role models.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.Role = role
	m.users[userID] = u
	return nil
}

func (m *memStore) UpsertSubject(ctx context.Context, name, slug string) (*models.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.subjects[slug]; ok {
		return &s, nil
	}
	s := models.Subject{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: time.Now()}
	m.subjects[slug] = s
	return &s, nil
}

func (m *memStore) ListSubjects(ctx context.Context) ([]models.Subject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Subject, 0, len(m.subjects))
	for _, s := range m.subjects {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CreateCategory(ctx context.Context, c *models.TutorCategory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.categories {
		if existing.TutorProfileID == c.TutorProfileID && existing.SubjectID == c.SubjectID {
			return apperr.Conflict("You already teach this subject")
		}
	}
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.categories[c.ID] = *c
	return nil
}

func (m *memStore) FindCategory(ctx context.Context, id uuid.UUID) (*models.TutorCategory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, nil
	}
	for _, s := range m.subjects {
		if s.ID == c.SubjectID {
			s := s
			c.Subject = &s
		}
	}
	return &c, nil
}

func (m *memStore) CreateAdminLog(ctx context.Context, l *models.AdminLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l.ID = uuid.New()
	l.CreatedAt = time.Now()
	m.logs = append(m.logs, *l)
	return nil
}

func (m *memStore) categoriesOf(profileID uuid.UUID) []models.TutorCategory {
	out := []models.TutorCategory{}
	for _, c := range m.categories {
		if c.TutorProfileID == profileID {
			out = append(out, c)
		}
	}
	return out
}
