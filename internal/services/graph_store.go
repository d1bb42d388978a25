package services

import (
	"context"
	"errors"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FollowResult carries the post-mutation state of both sides of the edge
// so callers can publish accurate sets without a second read.
type FollowResult struct {
	ActorID         string   `json:"actor_id"`
	TargetID        string   `json:"target_id"`
	ActorFollowing  []string `json:"actor_following"`
	TargetFollowers []string `json:"target_followers"`
}

// GraphStore owns the follower/following adjacency. Every edge mutation
// touches two user documents; the store serializes mutations per user
// pair so the two sides never diverge under concurrent calls.
type GraphStore struct {
	users repositories.UserRepository
	locks stripedMutex
}

// NewGraphStore creates a new GraphStore
func NewGraphStore(users repositories.UserRepository) *GraphStore {
	return &GraphStore{users: users}
}

// Follow adds the actor→target edge to both adjacency sets. Following
// yourself and following twice are rejected, not silently ignored.
func (s *GraphStore) Follow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == targetID {
		return nil, ErrSelfFollow
	}

	s.locks.LockPair(actorID, targetID)
	defer s.locks.UnlockPair(actorID, targetID)

	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if containsID(actor.Following, target.ID) {
		return nil, ErrAlreadyFollowing
	}

	if err := s.users.AddFollowEdge(ctx, actor.ID, target.ID); err != nil {
		return nil, mapUserErr(err)
	}

	return &FollowResult{
		ActorID:         actorID,
		TargetID:        targetID,
		ActorFollowing:  hexIDs(append(actor.Following, target.ID)),
		TargetFollowers: hexIDs(append(target.Followers, actor.ID)),
	}, nil
}

// Unfollow removes the actor→target edge from both adjacency sets
func (s *GraphStore) Unfollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	if actorID == targetID {
		return nil, ErrSelfFollow
	}

	s.locks.LockPair(actorID, targetID)
	defer s.locks.UnlockPair(actorID, targetID)

	actor, target, err := s.loadPair(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	if !containsID(actor.Following, target.ID) {
		return nil, ErrNotFollowing
	}

	if err := s.users.RemoveFollowEdge(ctx, actor.ID, target.ID); err != nil {
		return nil, mapUserErr(err)
	}

	return &FollowResult{
		ActorID:         actorID,
		TargetID:        targetID,
		ActorFollowing:  hexIDs(withoutID(actor.Following, target.ID)),
		TargetFollowers: hexIDs(withoutID(target.Followers, actor.ID)),
	}, nil
}

// Followers resolves a user's follower set to full user records
func (s *GraphStore) Followers(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return s.users.GetUsersByIDs(ctx, user.Followers)
}

// Following resolves a user's following set to full user records
func (s *GraphStore) Following(ctx context.Context, userID string) ([]models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserErr(err)
	}
	return s.users.GetUsersByIDs(ctx, user.Following)
}

func (s *GraphStore) loadPair(ctx context.Context, actorID, targetID string) (*models.User, *models.User, error) {
	actor, err := s.users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, nil, mapUserErr(err)
	}
	target, err := s.users.GetUserByID(ctx, targetID)
	if err != nil {
		return nil, nil, mapUserErr(err)
	}
	return actor, target, nil
}

func mapUserErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func withoutID(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}
