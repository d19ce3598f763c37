// internal/repository/mongo/plan_repo.go
package mongo

import (
	"alcyxob/fitness-program/internal/domain"
	"alcyxob/fitness-program/internal/repository"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	planCollectionName = "plans"

	// activePlanIndexName guarantees at most one isActive=true plan per user.
	activePlanIndexName = "userId_active_unique"

	// maxActivationAttempts bounds retries when a concurrent generation for
	// the same user wins the race on the active-plan index.
	maxActivationAttempts = 3
)

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	client          *mongo.Client
	collection      *mongo.Collection
	useTransactions bool // Requires a replica set or sharded cluster
}

// NewMongoPlanRepository creates a new Plan repository.
func NewMongoPlanRepository(db *mongo.Database, useTransactions bool) repository.PlanRepository {
	return &mongoPlanRepository{
		client:          db.Client(),
		collection:      db.Collection(planCollectionName),
		useTransactions: useTransactions,
	}
}

// CreateActive inserts plan as the only active plan of its user.
func (r *mongoPlanRepository) CreateActive(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.UserID == "" || plan.Name == "" {
		return primitive.NilObjectID, errors.New("plan requires userId and name")
	}
	plan.IsActive = true

	if r.useTransactions {
		return r.createActiveInTransaction(ctx, plan)
	}
	return r.createActiveSequential(ctx, plan)
}

// createActiveInTransaction deactivates and inserts inside one multi-document
// transaction. WithTransaction retries transient write conflicts.
func (r *mongoPlanRepository) createActiveInTransaction(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	session, err := r.client.StartSession()
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	result, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if err := r.deactivateAll(sc, plan.UserID); err != nil {
			return nil, err
		}
		return r.insert(sc, plan)
	})
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("activate plan transaction: %w", err)
	}

	insertedID, ok := result.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// createActiveSequential deactivates first and inserts second, so readers never
// observe two active plans. The partial unique index rejects a concurrent
// second insert, in which case the loser deactivates again and retries.
func (r *mongoPlanRepository) createActiveSequential(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	for attempt := 1; attempt <= maxActivationAttempts; attempt++ {
		if err := r.deactivateAll(ctx, plan.UserID); err != nil {
			return primitive.NilObjectID, err
		}

		insertedID, err := r.insert(ctx, plan)
		if err == nil {
			return insertedID, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, err
		}
	}
	return primitive.NilObjectID, fmt.Errorf("activate plan for user %s: %w", plan.UserID, repository.ErrUpdateFailed)
}

func (r *mongoPlanRepository) deactivateAll(ctx context.Context, userID string) error {
	filter := bson.M{"userId": userID, "isActive": true}
	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now().UTC()}}
	_, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("deactivate plans: %w", err)
	}
	return nil
}

func (r *mongoPlanRepository) insert(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetActiveByUserID retrieves the user's active plan.
func (r *mongoPlanRepository) GetActiveByUserID(ctx context.Context, userID string) (*domain.Plan, error) {
	return r.findOne(ctx, bson.M{"userId": userID, "isActive": true})
}

// GetByUserID retrieves all plans of a user, newest first.
func (r *mongoPlanRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Plan, error) {
	plans := []domain.Plan{}
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *mongoPlanRepository) findOne(ctx context.Context, filter bson.M) (*domain.Plan, error) {
	var plan domain.Plan
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Profile listing: plans for a user, newest first
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().
				SetName(activePlanIndexName).
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"isActive": true}),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
