package service

import (
	"alcyxob/fitness-program/internal/domain"
	"alcyxob/fitness-program/internal/repository"
	"alcyxob/fitness-program/internal/webhook"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// SyncOutcome tells the caller what a webhook event did to the user table.
type SyncOutcome string

const (
	SyncCreated   SyncOutcome = "created"
	SyncUpdated   SyncOutcome = "updated"
	SyncUnchanged SyncOutcome = "unchanged" // Duplicate create or update for an unknown user
	SyncIgnored   SyncOutcome = "ignored"   // Event type not handled
)

// --- Error Definitions ---
var (
	ErrInvalidEventData = errors.New("webhook event data is invalid")
)

// UserSyncService mirrors identity-provider users into the user table.
type UserSyncService interface {
	HandleEvent(ctx context.Context, event *webhook.Event) (SyncOutcome, error)
}

// userSyncService implements the UserSyncService interface.
type userSyncService struct {
	userRepo repository.UserRepository
	log      zerolog.Logger
}

// NewUserSyncService creates a new instance of userSyncService.
func NewUserSyncService(userRepo repository.UserRepository, log zerolog.Logger) UserSyncService {
	return &userSyncService{
		userRepo: userRepo,
		log:      log.With().Str("component", "user_sync").Logger(),
	}
}

// HandleEvent dispatches on the event type. Unknown types are acknowledged without error.
func (s *userSyncService) HandleEvent(ctx context.Context, event *webhook.Event) (SyncOutcome, error) {
	switch event.Type {
	case webhook.EventUserCreated:
		return s.handleCreated(ctx, event)
	case webhook.EventUserUpdated:
		return s.handleUpdated(ctx, event)
	default:
		s.log.Info().Str("type", event.Type).Msg("ignored webhook event")
		return SyncIgnored, nil
	}
}

// handleCreated inserts the user unless one already exists with the same
// Clerk ID or email, so redelivered create events never double-insert.
func (s *userSyncService) handleCreated(ctx context.Context, event *webhook.Event) (SyncOutcome, error) {
	data, err := event.UserData()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEventData, err)
	}
	email := data.PrimaryEmail()

	existing, err := s.userRepo.FindByClerkIDOrEmail(ctx, data.ID, email)
	if err == nil {
		s.log.Info().Str("clerk_id", data.ID).Str("user_id", existing.ID.Hex()).Msg("user already exists")
		return SyncUnchanged, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return "", fmt.Errorf("lookup user %s: %w", data.ID, err)
	}

	user := &domain.User{
		ClerkID: data.ID,
		Name:    data.FullName(),
		Email:   email,
		Image:   data.ImageURL,
	}
	userID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		// Lost a race against a concurrent delivery of the same event
		if errors.Is(err, repository.ErrDuplicateKey) {
			s.log.Info().Str("clerk_id", data.ID).Msg("user inserted concurrently")
			return SyncUnchanged, nil
		}
		return "", fmt.Errorf("create user %s: %w", data.ID, err)
	}

	s.log.Info().Str("clerk_id", data.ID).Str("user_id", userID.Hex()).Msg("user created")
	return SyncCreated, nil
}

// handleUpdated patches profile fields of a known user; unknown users are skipped.
func (s *userSyncService) handleUpdated(ctx context.Context, event *webhook.Event) (SyncOutcome, error) {
	data, err := event.UserData()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidEventData, err)
	}

	existing, err := s.userRepo.GetByClerkID(ctx, data.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Info().Str("clerk_id", data.ID).Msg("update for unknown user skipped")
			return SyncUnchanged, nil
		}
		return "", fmt.Errorf("lookup user %s: %w", data.ID, err)
	}

	profile := domain.UserProfile{
		Name:  data.FullName(),
		Email: data.PrimaryEmail(),
		Image: data.ImageURL,
	}
	if err := s.userRepo.UpdateProfile(ctx, existing.ID, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return SyncUnchanged, nil
		}
		return "", fmt.Errorf("update user %s: %w", data.ID, err)
	}

	s.log.Info().Str("clerk_id", data.ID).Msg("user updated")
	return SyncUpdated, nil
}
