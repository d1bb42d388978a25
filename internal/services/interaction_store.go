package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LikeResult carries the recipe's liker set after a like/unlike
type LikeResult struct {
	RecipeID  string   `json:"recipe_id"`
	AuthorID  string   `json:"author_id"`
	Likers    []string `json:"likers"`
	LikeCount int      `json:"like_count"`
}

// SaveResult carries the recipe's saver count after a save/unsave
type SaveResult struct {
	RecipeID  string `json:"recipe_id"`
	AuthorID  string `json:"author_id"`
	Saved     bool   `json:"saved"`
	SaveCount int    `json:"save_count"`
}

// RatingResult carries the recomputed aggregate after a rating upsert
type RatingResult struct {
	RecipeID    string  `json:"recipe_id"`
	AuthorID    string  `json:"author_id"`
	Average     float64 `json:"average"`
	RatingCount int     `json:"rating_count"`
}

// CommentResult carries the appended comment record
type CommentResult struct {
	RecipeID string         `json:"recipe_id"`
	AuthorID string         `json:"author_id"`
	Comment  models.Comment `json:"comment"`
}

// InteractionStore owns the per-recipe like/save sets, the rating set and
// the comment sequence. Mutations on the same recipe are serialized so
// aggregates are never lost to a stale read; distinct recipes proceed in
// parallel.
type InteractionStore struct {
	recipes repositories.RecipeRepository
	locks   stripedMutex
}

// NewInteractionStore creates a new InteractionStore
func NewInteractionStore(recipes repositories.RecipeRepository) *InteractionStore {
	return &InteractionStore{recipes: recipes}
}

// Like adds userID to the recipe's liker set. Liking twice is rejected.
func (s *InteractionStore) Like(ctx context.Context, userID, recipeID string) (*LikeResult, error) {
	s.locks.Lock(recipeID)
	defer s.locks.Unlock(recipeID)

	recipe, uid, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.HasLiked(uid) {
		return nil, ErrAlreadyLiked
	}

	if err := s.recipes.AddLiker(ctx, recipe.ID, uid); err != nil {
		return nil, mapRecipeErr(err)
	}

	likers := append(recipe.Likes, uid)
	return &LikeResult{
		RecipeID:  recipeID,
		AuthorID:  recipe.UserID.Hex(),
		Likers:    hexIDs(likers),
		LikeCount: len(likers),
	}, nil
}

// Unlike removes userID from the recipe's liker set
func (s *InteractionStore) Unlike(ctx context.Context, userID, recipeID string) (*LikeResult, error) {
	s.locks.Lock(recipeID)
	defer s.locks.Unlock(recipeID)

	recipe, uid, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.HasLiked(uid) {
		return nil, ErrNotLiked
	}

	if err := s.recipes.RemoveLiker(ctx, recipe.ID, uid); err != nil {
		return nil, mapRecipeErr(err)
	}

	likers := withoutID(recipe.Likes, uid)
	return &LikeResult{
		RecipeID:  recipeID,
		AuthorID:  recipe.UserID.Hex(),
		Likers:    hexIDs(likers),
		LikeCount: len(likers),
	}, nil
}

// Save adds userID to the recipe's saver set. Saving twice is rejected.
func (s *InteractionStore) Save(ctx context.Context, userID, recipeID string) (*SaveResult, error) {
	s.locks.Lock(recipeID)
	defer s.locks.Unlock(recipeID)

	recipe, uid, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if recipe.HasSaved(uid) {
		return nil, ErrAlreadySaved
	}

	if err := s.recipes.AddSaver(ctx, recipe.ID, uid); err != nil {
		return nil, mapRecipeErr(err)
	}

	return &SaveResult{
		RecipeID:  recipeID,
		AuthorID:  recipe.UserID.Hex(),
		Saved:     true,
		SaveCount: len(recipe.Saves) + 1,
	}, nil
}

// Unsave removes userID from the recipe's saver set
func (s *InteractionStore) Unsave(ctx context.Context, userID, recipeID string) (*SaveResult, error) {
	s.locks.Lock(recipeID)
	defer s.locks.Unlock(recipeID)

	recipe, uid, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if !recipe.HasSaved(uid) {
		return nil, ErrNotSaved
	}

	if err := s.recipes.RemoveSaver(ctx, recipe.ID, uid); err != nil {
		return nil, mapRecipeErr(err)
	}

	return &SaveResult{
		RecipeID:  recipeID,
		AuthorID:  recipe.UserID.Hex(),
		Saved:     false,
		SaveCount: len(recipe.Saves) - 1,
	}, nil
}

// Rate upserts the rater's value and returns the recomputed average.
// A second rating from the same rater replaces the first.
func (s *InteractionStore) Rate(ctx context.Context, userID, recipeID string, value int) (*RatingResult, error) {
	if value < 1 || value > 5 {
		return nil, ErrInvalidRating
	}

	s.locks.Lock(recipeID)
	defer s.locks.Unlock(recipeID)

	recipe, uid, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	if err := s.recipes.SetRating(ctx, recipe.ID, models.Rating{UserID: uid, Value: value}); err != nil {
		return nil, mapRecipeErr(err)
	}

	replaced := false
	for i := range recipe.Ratings {
		if recipe.Ratings[i].UserID == uid {
			recipe.Ratings[i].Value = value
			replaced = true
			break
		}
	}
	if !replaced {
		recipe.Ratings = append(recipe.Ratings, models.Rating{UserID: uid, Value: value})
	}

	return &RatingResult{
		RecipeID:    recipeID,
		AuthorID:    recipe.UserID.Hex(),
		Average:     recipe.AverageRating(),
		RatingCount: len(recipe.Ratings),
	}, nil
}

// Comment appends a comment to the recipe. Empty or whitespace-only text
// is rejected. Comments keep append order and are never re-sorted.
func (s *InteractionStore) Comment(ctx context.Context, userID, recipeID, text string) (*CommentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyComment
	}

	s.locks.Lock(recipeID)
	defer s.locks.Unlock(recipeID)

	recipe, uid, err := s.load(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    uid,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now(),
	}

	if err := s.recipes.AppendComment(ctx, recipe.ID, comment); err != nil {
		return nil, mapRecipeErr(err)
	}

	return &CommentResult{
		RecipeID: recipeID,
		AuthorID: recipe.UserID.Hex(),
		Comment:  comment,
	}, nil
}

func (s *InteractionStore) load(ctx context.Context, userID, recipeID string) (*models.Recipe, primitive.ObjectID, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, primitive.NilObjectID, fmt.Errorf("invalid user ID format: %w", err)
	}
	recipe, err := s.recipes.GetRecipeByID(ctx, recipeID)
	if err != nil {
		return nil, primitive.NilObjectID, mapRecipeErr(err)
	}
	return recipe, uid, nil
}

func mapRecipeErr(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrRecipeNotFound
	}
	return err
}
