package service

import (
	"alcyxob/fitness-program/internal/ai"
	"alcyxob/fitness-program/internal/domain"
	"alcyxob/fitness-program/internal/repository"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   []*domain.User
	creates int // Number of successful inserts

	findErr   error
	createErr error
	updateErr error
}

func (f *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	for _, u := range f.users {
		if u.ClerkID == user.ClerkID {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	copied := *user
	f.users = append(f.users, &copied)
	f.creates++
	return user.ID, nil
}

func (f *fakeUserRepo) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.ClerkID == clerkID {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) FindByClerkIDOrEmail(ctx context.Context, clerkID, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.ClerkID == clerkID || (email != "" && u.Email == email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, u := range f.users {
		if u.ID == id {
			u.Name = profile.Name
			u.Email = profile.Email
			u.Image = profile.Image
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakePlanRepo is an in-memory PlanRepository. CreateActive holds the lock
// across deactivate+insert, the same guarantee a transaction gives.
type fakePlanRepo struct {
	mu        sync.Mutex
	plans     []*domain.Plan
	createErr error
}

func (f *fakePlanRepo) CreateActive(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return primitive.NilObjectID, f.createErr
	}
	for _, p := range f.plans {
		if p.UserID == plan.UserID {
			p.IsActive = false
		}
	}
	plan.ID = primitive.NewObjectID()
	plan.IsActive = true
	plan.CreatedAt = time.Now().UTC().Add(time.Duration(len(f.plans)) * time.Millisecond)
	copied := *plan
	f.plans = append(f.plans, &copied)
	return plan.ID, nil
}

func (f *fakePlanRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePlanRepo) GetByUserID(ctx context.Context, userID string) ([]domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	plans := []domain.Plan{}
	for _, p := range f.plans {
		if p.UserID == userID {
			plans = append(plans, *p)
		}
	}
	sort.Slice(plans, func(i, j int) bool { return plans[i].CreatedAt.After(plans[j].CreatedAt) })
	return plans, nil
}

func (f *fakePlanRepo) GetActiveByUserID(ctx context.Context, userID string) (*domain.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.plans {
		if p.UserID == userID && p.IsActive {
			copied := *p
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakePlanRepo) activeCount(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.plans {
		if p.UserID == userID && p.IsActive {
			n++
		}
	}
	return n
}

// stubProvider answers workout and diet prompts with canned text.
type stubProvider struct {
	mu       sync.Mutex
	workout  string
	diet     string
	errOn    string // "workout" or "diet"
	err      error
	requests []ai.Request
}

func (s *stubProvider) ModelName() string { return "stub" }

func (s *stubProvider) Generate(ctx context.Context, req ai.Request) (string, error) {
	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	kind := "diet"
	if strings.Contains(req.Prompt, "workout plan") {
		kind = "workout"
	}
	if s.errOn == kind {
		return "", s.err
	}
	if kind == "workout" {
		return s.workout, nil
	}
	return s.diet, nil
}

// fakeStorage records archived objects.
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func (f *fakeStorage) PutObject(ctx context.Context, objectKey, contentType string, body []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if f.objects == nil {
		f.objects = make(map[string][]byte)
	}
	f.objects[objectKey] = body
	return nil
}
