package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a profile mirrored from the identity provider (Clerk).
// Records are created by "user.created" webhooks and patched by "user.updated".
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID   string             `bson:"clerkId" json:"clerkId"` // Unique key from the identity provider
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`                     // Best-effort unique
	Image     string             `bson:"image,omitempty" json:"image,omitempty"` // Avatar URL
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserProfile holds the fields a "user.updated" event is allowed to patch.
type UserProfile struct {
	Name  string
	Email string
	Image string
}
