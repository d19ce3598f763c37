package storage

import (
	"context"
	"path"
)

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject stores body under objectKey, replacing any existing object.
	PutObject(ctx context.Context, objectKey, contentType string, body []byte) error
}

// NoopStorage discards every object. Used when no bucket is configured.
type NoopStorage struct{}

// PutObject implements FileStorage.
func (NoopStorage) PutObject(context.Context, string, string, []byte) error { return nil }

// GenerationObjectKey is the archive key of one raw model response,
// e.g. generations/user_2abc/652f.../workout.json.
func GenerationObjectKey(userID, planID, kind string) string {
	return path.Join("generations", userID, planID, kind+".json")
}
