package handlers

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"community-portal/internal/config"
	"community-portal/internal/models"
	"community-portal/internal/repository"
)

// In-memory repository fakes shared by the handler tests.

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: "8080", UploadDir: "uploads"},
		Session: config.SessionConfig{
			Secret:        "test-secret",
			CookieName:    "portal_session",
			SessionTTL:    time.Hour,
			ResetTokenTTL: 10 * time.Minute,
			CodeTTL:       3 * time.Minute,
		},
	}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*models.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return &repository.DuplicateError{Field: "username"}
		}
		if existing.Email == u.Email {
			return &repository.DuplicateError{Field: "email"}
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	clone := *u
	f.users[u.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) UpdateNames(_ context.Context, id uuid.UUID, firstName, lastName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: map[uuid.UUID]*models.Profile{}}
}

func (f *fakeProfileRepo) GetOrCreate(_ context.Context, userID uuid.UUID) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[userID]; ok {
		clone := *p
		return &clone, nil
	}
	p := &models.Profile{ID: uuid.New(), UserID: userID, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.profiles[userID] = p
	clone := *p
	return &clone, nil
}

func (f *fakeProfileRepo) Update(_ context.Context, p *models.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.profiles[p.UserID]; !ok {
		return repository.ErrNotFound
	}
	clone := *p
	f.profiles[p.UserID] = &clone
	return nil
}

type fakeContactRepo struct {
	mu       sync.Mutex
	nextID   int64
	contacts []models.ContactInquiry
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{nextID: 1}
}

func (f *fakeContactRepo) Create(_ context.Context, c *models.ContactInquiry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = f.nextID
	f.nextID++
	c.CreatedAt = time.Now()
	f.contacts = append(f.contacts, *c)
	return nil
}

func (f *fakeContactRepo) Get(_ context.Context, id int64) (*models.ContactInquiry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.ID == id {
			clone := c
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeContactRepo) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.contacts {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContactRepo) List(_ context.Context, filter repository.ContactFilter) ([]models.ContactInquiry, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var matched []models.ContactInquiry
	for _, c := range f.contacts {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.Name), needle) &&
				!strings.Contains(strings.ToLower(c.Email), needle) &&
				!strings.Contains(strings.ToLower(c.Subject), needle) {
				continue
			}
		}
		switch filter.Status {
		case "resolved":
			if !c.IsResolved {
				continue
			}
		case "pending":
			if c.IsResolved {
				continue
			}
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	total := len(matched)
	start := (filter.Page - 1) * filter.PerPage
	if start > total {
		start = total
	}
	end := start + filter.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (f *fakeContactRepo) Recent(_ context.Context, limit int) ([]models.ContactInquiry, error) {
	out, _, err := f.List(context.Background(), repository.ContactFilter{Page: 1, PerPage: limit})
	return out, err
}

func (f *fakeContactRepo) SetResolved(_ context.Context, id int64, resolvedBy uuid.UUID, resolved bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.contacts {
		if f.contacts[i].ID == id {
			f.contacts[i].IsResolved = resolved
			if resolved {
				now := time.Now()
				f.contacts[i].ResolvedBy = &resolvedBy
				f.contacts[i].ResolvedAt = &now
			} else {
				f.contacts[i].ResolvedBy = nil
				f.contacts[i].ResolvedAt = nil
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeContactRepo) Counts(_ context.Context) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	resolved := 0
	for _, c := range f.contacts {
		if c.IsResolved {
			resolved++
		}
	}
	return len(f.contacts), resolved, nil
}

type fakeNewsletterRepo struct {
	mu     sync.Mutex
	emails map[string]*models.NewsletterSubscription
}

func newFakeNewsletterRepo() *fakeNewsletterRepo {
	return &fakeNewsletterRepo{emails: map[string]*models.NewsletterSubscription{}}
}

func (f *fakeNewsletterRepo) Subscribe(_ context.Context, email string) (*models.NewsletterSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.emails[email]; ok {
		return nil, &repository.DuplicateError{Field: "email"}
	}
	s := &models.NewsletterSubscription{ID: uuid.New(), Email: email, IsActive: true, SubscribedAt: time.Now()}
	f.emails[email] = s
	clone := *s
	return &clone, nil
}

func (f *fakeNewsletterRepo) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.emails[email]
	return ok, nil
}

func (f *fakeNewsletterRepo) CountActive(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.emails), nil
}

type fakeVerificationRepo struct {
	mu    sync.Mutex
	codes []*models.AuthVerification
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{}
}

func (f *fakeVerificationRepo) Create(_ context.Context, v *models.AuthVerification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	v.CreatedAt = time.Now()
	clone := *v
	f.codes = append(f.codes, &clone)
	return nil
}

func (f *fakeVerificationRepo) Latest(_ context.Context, userID uuid.UUID) (*models.AuthVerification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.codes) - 1; i >= 0; i-- {
		if f.codes[i].UserID == userID {
			clone := *f.codes[i]
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeVerificationRepo) MarkUsed(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.codes {
		if v.ID == id {
			v.Used = true
			return nil
		}
	}
	return repository.ErrNotFound
}
