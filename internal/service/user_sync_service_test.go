package service

import (
	"alcyxob/fitness-program/internal/domain"
	"alcyxob/fitness-program/internal/webhook"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userEvent(eventType, data string) *webhook.Event {
	return &webhook.Event{Type: eventType, Object: "event", Data: []byte(data)}
}

const adaCreated = `{"id":"user_ada","first_name":"Ada","last_name":"Lovelace","email_addresses":[{"email_address":"ada@example.com"}],"image_url":"https://img/ada.png"}`

func TestHandleEvent_CreateInsertsUser(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserSyncService(repo, zerolog.Nop())

	outcome, err := svc.HandleEvent(context.Background(), userEvent(webhook.EventUserCreated, adaCreated))
	require.NoError(t, err)
	assert.Equal(t, SyncCreated, outcome)

	require.Len(t, repo.users, 1)
	u := repo.users[0]
	assert.Equal(t, "user_ada", u.ClerkID)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "https://img/ada.png", u.Image)
}

func TestHandleEvent_CreateIsIdempotent(t *testing.T) {
	tests := []struct {
		name     string
		existing domain.User
	}{
		{name: "same clerk id", existing: domain.User{ClerkID: "user_ada", Email: "other@example.com"}},
		{name: "same email", existing: domain.User{ClerkID: "user_old", Email: "ada@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := tt.existing
			repo := &fakeUserRepo{users: []*domain.User{&existing}}
			svc := NewUserSyncService(repo, zerolog.Nop())

			for i := 0; i < 2; i++ {
				outcome, err := svc.HandleEvent(context.Background(), userEvent(webhook.EventUserCreated, adaCreated))
				require.NoError(t, err)
				assert.Equal(t, SyncUnchanged, outcome)
			}
			assert.Zero(t, repo.creates)
			assert.Len(t, repo.users, 1)
		})
	}
}

func TestHandleEvent_CreateMissingFields(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserSyncService(repo, zerolog.Nop())

	outcome, err := svc.HandleEvent(context.Background(), userEvent(webhook.EventUserCreated,
		`{"id":"user_min","first_name":null,"last_name":"Hopper","email_addresses":[]}`))
	require.NoError(t, err)
	assert.Equal(t, SyncCreated, outcome)

	require.Len(t, repo.users, 1)
	assert.Equal(t, "Hopper", repo.users[0].Name)
	assert.Equal(t, "", repo.users[0].Email)
}

func TestHandleEvent_CreateWithEmptyEmailDoesNotMatchOthers(t *testing.T) {
	// Another user without an email must not swallow this create.
	repo := &fakeUserRepo{users: []*domain.User{{ClerkID: "user_other", Email: ""}}}
	svc := NewUserSyncService(repo, zerolog.Nop())

	outcome, err := svc.HandleEvent(context.Background(), userEvent(webhook.EventUserCreated, `{"id":"user_new"}`))
	require.NoError(t, err)
	assert.Equal(t, SyncCreated, outcome)
	assert.Equal(t, 1, repo.creates)
}

func TestHandleEvent_UpdatePatchesKnownUser(t *testing.T) {
	existing := &domain.User{ClerkID: "user_ada", Name: "Ada", Email: "old@example.com"}
	repo := &fakeUserRepo{}
	_, err := repo.Create(context.Background(), existing)
	require.NoError(t, err)
	svc := NewUserSyncService(repo, zerolog.Nop())

	outcome, err := svc.HandleEvent(context.Background(), userEvent(webhook.EventUserUpdated,
		`{"id":"user_ada","first_name":"Ada","last_name":"King","email_addresses":[{"email_address":"ada@king.dev"}],"image_url":"https://img/new.png"}`))
	require.NoError(t, err)
	assert.Equal(t, SyncUpdated, outcome)

	u := repo.users[0]
	assert.Equal(t, "Ada King", u.Name)
	assert.Equal(t, "ada@king.dev", u.Email)
	assert.Equal(t, "https://img/new.png", u.Image)
}

func TestHandleEvent_UpdateUnknownUserIsNoop(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserSyncService(repo, zerolog.Nop())

	outcome, err := svc.HandleEvent(context.Background(), userEvent(webhook.EventUserUpdated, adaCreated))
	require.NoError(t, err)
	assert.Equal(t, SyncUnchanged, outcome)
	assert.Empty(t, repo.users)
}

func TestHandleEvent_UnknownTypeIgnored(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserSyncService(repo, zerolog.Nop())

	outcome, err := svc.HandleEvent(context.Background(), userEvent("session.created", `{"id":"sess_1"}`))
	require.NoError(t, err)
	assert.Equal(t, SyncIgnored, outcome)
}

func TestHandleEvent_Errors(t *testing.T) {
	storeDown := errors.New("connection refused")

	tests := []struct {
		name    string
		repo    *fakeUserRepo
		event   *webhook.Event
		wantErr error
	}{
		{
			name:    "create lookup failure",
			repo:    &fakeUserRepo{findErr: storeDown},
			event:   userEvent(webhook.EventUserCreated, adaCreated),
			wantErr: storeDown,
		},
		{
			name:    "create write failure",
			repo:    &fakeUserRepo{createErr: storeDown},
			event:   userEvent(webhook.EventUserCreated, adaCreated),
			wantErr: storeDown,
		},
		{
			name:    "update write failure",
			repo:    &fakeUserRepo{users: []*domain.User{{ClerkID: "user_ada"}}, updateErr: storeDown},
			event:   userEvent(webhook.EventUserUpdated, adaCreated),
			wantErr: storeDown,
		},
		{
			name:    "create without user id",
			repo:    &fakeUserRepo{},
			event:   userEvent(webhook.EventUserCreated, `{"first_name":"Nobody"}`),
			wantErr: ErrInvalidEventData,
		},
		{
			name:    "update with non-object data",
			repo:    &fakeUserRepo{},
			event:   userEvent(webhook.EventUserUpdated, `"oops"`),
			wantErr: ErrInvalidEventData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewUserSyncService(tt.repo, zerolog.Nop())
			_, err := svc.HandleEvent(context.Background(), tt.event)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
