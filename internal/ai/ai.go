// Package ai abstracts the generative model that writes workout and diet plans.
package ai

import (
	"context"
	"errors"
	"fmt"

	"alcyxob/fitness-program/internal/config"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("model returned an empty response")

// Request is a single text-completion call.
type Request struct {
	SystemInstruction string
	Prompt            string
	Temperature       float32
	TopP              float32
	JSON              bool // Ask the backend for application/json output
}

// Provider abstracts the LLM backend. The returned text is untrusted: callers
// must parse and validate it.
type Provider interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Generate sends one prompt and returns the complete response text.
	Generate(ctx context.Context, req Request) (string, error)
}

// NewProvider builds the backend selected by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini", "":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	case "ollama":
		return NewOllamaProvider(OllamaConfig{BaseURL: cfg.BaseURL, Model: cfg.Model, Token: cfg.APIKey}), nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}
