package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"alcyxob/fitness-program/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaProvider_Generate(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"{\"dailyCalories\":2000}"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL, Model: "llama3.1", Token: "secret-token"})
	text, err := p.Generate(context.Background(), Request{
		SystemInstruction: "be brief",
		Prompt:            "plan please",
		Temperature:       0.4,
		TopP:              0.8,
		JSON:              true,
	})
	require.NoError(t, err)

	assert.Equal(t, `{"dailyCalories":2000}`, text)
	assert.Equal(t, "llama3.1", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "plan please", got.Messages[1].Content)
	assert.InDelta(t, 0.4, got.Options.Temperature, 0.0001)
}

func TestOllamaProvider_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "upstream error status", status: http.StatusInternalServerError, body: `model not loaded`},
		{name: "empty content", status: http.StatusOK, body: `{"message":{"content":""}}`, wantErr: ErrEmptyResponse},
		{name: "undecodable body", status: http.StatusOK, body: `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewOllamaProvider(OllamaConfig{BaseURL: srv.URL, Model: "m"})
			text, err := p.Generate(context.Background(), Request{Prompt: "x"})
			require.Error(t, err)
			assert.Empty(t, text)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), config.AIConfig{Provider: "ollama", Model: "llama3.1", BaseURL: "http://localhost:11434"})
	require.NoError(t, err)
	assert.Equal(t, "llama3.1", p.ModelName())

	_, err = NewProvider(context.Background(), config.AIConfig{Provider: "gemini"})
	assert.Error(t, err, "gemini requires an api key")

	_, err = NewProvider(context.Background(), config.AIConfig{Provider: "openai"})
	assert.Error(t, err)
}
