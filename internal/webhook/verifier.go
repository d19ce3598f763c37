// Package webhook authenticates identity-provider webhooks delivered through Svix.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	svix "github.com/svix/svix-webhooks/go"
)

// Svix transport headers.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

// --- Error Definitions ---
var (
	ErrMissingSecret    = errors.New("webhook signing secret is not configured")
	ErrMissingHeaders   = errors.New("missing svix headers")
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrMalformedEvent   = errors.New("verified webhook body is not a valid event")
)

// Verifier checks svix signatures against a pre-shared secret.
type Verifier struct {
	secret string
	log    zerolog.Logger
}

// NewVerifier creates a Verifier. An empty secret is accepted here and
// rejected on every Verify call, so a misconfigured deployment answers 400
// instead of failing at startup.
func NewVerifier(secret string, log zerolog.Logger) *Verifier {
	return &Verifier{
		secret: secret,
		log:    log.With().Str("component", "webhook_verifier").Logger(),
	}
}

// Verify authenticates payload, which must be the raw request body exactly as
// received. Any failure is logged and returned; it never panics.
func (v *Verifier) Verify(payload []byte, header http.Header) (*Event, error) {
	if v.secret == "" {
		v.log.Error().Msg("CLERK_WEBHOOK_SECRET is missing from configuration")
		return nil, ErrMissingSecret
	}

	id := header.Get(HeaderID)
	timestamp := header.Get(HeaderTimestamp)
	signature := header.Get(HeaderSignature)
	if id == "" || timestamp == "" || signature == "" {
		v.log.Warn().
			Bool("has_id", id != "").
			Bool("has_timestamp", timestamp != "").
			Bool("has_signature", signature != "").
			Msg("webhook rejected: missing svix headers")
		return nil, ErrMissingHeaders
	}

	wh, err := svix.NewWebhook(v.secret)
	if err != nil {
		v.log.Error().Err(err).Msg("webhook secret is not a valid svix secret")
		return nil, fmt.Errorf("%w: %v", ErrMissingSecret, err)
	}

	// Only the three svix headers take part in verification.
	svixHeaders := http.Header{}
	svixHeaders.Set(HeaderID, id)
	svixHeaders.Set(HeaderTimestamp, timestamp)
	svixHeaders.Set(HeaderSignature, signature)

	if err := wh.Verify(payload, svixHeaders); err != nil {
		v.log.Warn().Err(err).Str("svix_id", id).Msg("webhook rejected: signature mismatch")
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil || event.Type == "" {
		v.log.Warn().Err(err).Str("svix_id", id).Msg("webhook rejected: undecodable event")
		return nil, ErrMalformedEvent
	}

	v.log.Debug().Str("svix_id", id).Str("type", event.Type).Msg("webhook signature verified")
	return &event, nil
}
