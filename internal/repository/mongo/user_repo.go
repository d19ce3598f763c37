package mongo

import (
	"alcyxob/fitness-program/internal/domain"
	"alcyxob/fitness-program/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user into the database.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.ClerkID == "" {
		return primitive.NilObjectID, errors.New("user clerk ID is required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// The clerkId index is unique, a concurrent create for the same user lands here
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByClerkID retrieves a user by the identity provider ID (indexed lookup).
func (r *mongoUserRepository) GetByClerkID(ctx context.Context, clerkID string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"clerkId": clerkID})
}

// FindByClerkIDOrEmail runs a single $or query over the two indexed keys.
func (r *mongoUserRepository) FindByClerkIDOrEmail(ctx context.Context, clerkID, email string) (*domain.User, error) {
	predicates := bson.A{bson.M{"clerkId": clerkID}}
	if email != "" {
		predicates = append(predicates, bson.M{"email": email})
	}
	return r.findOne(ctx, bson.M{"$or": predicates})
}

// UpdateProfile patches name, email and image of an existing user.
func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.UserProfile) error {
	filter := bson.M{"_id": id}
	update := bson.M{
		"$set": bson.M{
			"name":      profile.Name,
			"email":     profile.Email,
			"image":     profile.Image,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clerkId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// Not unique: email uniqueness is best-effort only
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index(),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
