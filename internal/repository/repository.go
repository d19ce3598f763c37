package repository

import (
	"alcyxob/fitness-program/internal/domain"
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error)
	// FindByClerkIDOrEmail matches on either key. An empty email only matches by Clerk ID.
	FindByClerkIDOrEmail(ctx context.Context, clerkID, email string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.UserProfile) error
}

// PlanRepository defines the interface for interacting with generated plans.
type PlanRepository interface {
	// CreateActive inserts plan as the user's only active plan. Every other
	// active plan of plan.UserID is deactivated before or atomically with the insert.
	CreateActive(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Plan, error) // Newest first
	GetActiveByUserID(ctx context.Context, userID string) (*domain.Plan, error)
}
