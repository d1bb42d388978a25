package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arifdev/recipely/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a referenced entity does not exist
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateProfile(ctx context.Context, id string, update *models.UpdateProfileRequest) (*models.User, error)
	SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error)
	AddFollowEdge(ctx context.Context, followerID, followeeID primitive.ObjectID) error
	RemoveFollowEdge(ctx context.Context, followerID, followeeID primitive.ObjectID) error
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

// CreateUser creates a new user in MongoDB
func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// GetUserByID retrieves a user by ID from MongoDB
func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	var user models.User
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by their unique handle
func (r *MongoUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// GetUsersByIDs retrieves the users whose IDs are in ids. Missing IDs are
// skipped rather than reported, so callers can resolve stale references.
func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateProfile applies the non-empty fields of update to the user's document
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id string, update *models.UpdateProfileRequest) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Name != "" {
		set["name"] = update.Name
	}
	if update.Avatar != "" {
		set["avatar"] = update.Avatar
	}
	if update.Bio != "" {
		set["bio"] = update.Bio
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var user models.User
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

// SearchUsers searches users by name or username (case-insensitive)
func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": bson.M{"$regex": query, "$options": "i"}},
		bson.M{"username": bson.M{"$regex": query, "$options": "i"}},
	}}

	var users []models.User
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// AddFollowEdge adds followeeID to the follower's following set and
// followerID to the followee's follower set. $addToSet keeps both arrays
// duplicate-free; the graph store serializes callers so the two updates
// are never interleaved with another mutation of the same pair.
func (r *MongoUserRepository) AddFollowEdge(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": followerID},
		bson.M{"$addToSet": bson.M{"following": followeeID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", followerID.Hex(), ErrNotFound)
	}

	res, err = r.collection.UpdateOne(ctx, bson.M{"_id": followeeID},
		bson.M{"$addToSet": bson.M{"followers": followerID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", followeeID.Hex(), ErrNotFound)
	}
	return nil
}

// RemoveFollowEdge removes the edge written by AddFollowEdge from both
// user documents.
func (r *MongoUserRepository) RemoveFollowEdge(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": followerID},
		bson.M{"$pull": bson.M{"following": followeeID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", followerID.Hex(), ErrNotFound)
	}

	res, err = r.collection.UpdateOne(ctx, bson.M{"_id": followeeID},
		bson.M{"$pull": bson.M{"followers": followerID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user %s: %w", followeeID.Hex(), ErrNotFound)
	}
	return nil
}
