package webhook

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Clerk event types consumed by the user sync.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
)

// Event is a verified Clerk webhook envelope. Data is decoded lazily because
// its shape depends on Type.
type Event struct {
	Type   string          `json:"type"`
	Object string          `json:"object"`
	Data   json.RawMessage `json:"data"`
}

// ClerkUser is the subset of the Clerk user object this service reads.
type ClerkUser struct {
	ID             string              `json:"id"`
	FirstName      *string             `json:"first_name"`
	LastName       *string             `json:"last_name"`
	EmailAddresses []ClerkEmailAddress `json:"email_addresses"`
	ImageURL       string              `json:"image_url"`
}

type ClerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// UserData decodes the event payload as a Clerk user.
func (e *Event) UserData() (*ClerkUser, error) {
	var user ClerkUser
	if err := json.Unmarshal(e.Data, &user); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", e.Type, err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("decode %s data: missing user id", e.Type)
	}
	return &user, nil
}

// FullName joins first and last name; missing parts become empty strings.
func (u *ClerkUser) FullName() string {
	var first, last string
	if u.FirstName != nil {
		first = *u.FirstName
	}
	if u.LastName != nil {
		last = *u.LastName
	}
	return strings.TrimSpace(first + " " + last)
}

// PrimaryEmail returns the first listed email address, or "" when there is none.
func (u *ClerkUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0].EmailAddress
}
