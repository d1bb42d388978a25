package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a platform user stored in MongoDB. The followers and
// following arrays are mutated only through the graph store so the two
// sides of every edge stay in sync.
type User struct {
	ID        primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name      string               `json:"name" bson:"name"`
	Username  string               `json:"username" bson:"username"`
	Email     string               `json:"email" bson:"email"`
	Password  string               `json:"-" bson:"password"`
	Avatar    string               `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Bio       string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Followers []primitive.ObjectID `json:"followers" bson:"followers"`
	Following []primitive.ObjectID `json:"following" bson:"following"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time            `json:"updated_at" bson:"updated_at"`
}

// UserCompact is the slimmed-down user shape embedded in list responses
// and enriched notifications.
type UserCompact struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// ToCompact converts a User to its compact representation
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:       u.ID.Hex(),
		Name:     u.Name,
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}

// UpdateProfileRequest defines the request body for updating a profile
type UpdateProfileRequest struct {
	Name   string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	Avatar string `json:"avatar,omitempty" validate:"omitempty,url"`
	Bio    string `json:"bio,omitempty" validate:"omitempty,max=300"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// UserID is the hex form of the user's MongoDB ObjectID.
type JwtCustomClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
