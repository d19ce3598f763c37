package storage

import (
	"context"
	"testing"

	"alcyxob/fitness-program/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerationObjectKey(t *testing.T) {
	assert.Equal(t, "generations/user_1/abc/workout.json", GenerationObjectKey("user_1", "abc", "workout"))
}

func TestEndpointURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.S3Config
		want string
	}{
		{name: "explicit scheme kept", cfg: config.S3Config{Endpoint: "http://minio:9000", UseSSL: true}, want: "http://minio:9000"},
		{name: "bare host with ssl", cfg: config.S3Config{Endpoint: "nyc3.digitaloceanspaces.com", UseSSL: true}, want: "https://nyc3.digitaloceanspaces.com"},
		{name: "bare host without ssl", cfg: config.S3Config{Endpoint: "minio:9000"}, want: "http://minio:9000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, endpointURL(tt.cfg))
		})
	}
}

func TestNewFileStorage_DisabledWithoutBucket(t *testing.T) {
	fs, err := NewFileStorage(context.Background(), config.S3Config{})
	require.NoError(t, err)
	assert.IsType(t, NoopStorage{}, fs)
	assert.NoError(t, fs.PutObject(context.Background(), "k", "application/json", []byte("{}")))
}
