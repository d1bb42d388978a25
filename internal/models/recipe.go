package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ingredient is a single ingredient line of a recipe
type Ingredient struct {
	Name     string `json:"name" bson:"name" validate:"required"`
	Quantity string `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Unit     string `json:"unit,omitempty" bson:"unit,omitempty"`
}

// Rating is one user's current rating of a recipe. A user rating the same
// recipe again replaces their previous entry instead of appending.
type Rating struct {
	UserID primitive.ObjectID `json:"user_id" bson:"user_id"`
	Value  int                `json:"value" bson:"value"`
}

// Comment is an append-only comment on a recipe
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	UserID    primitive.ObjectID `json:"user_id" bson:"user_id"`
	Text      string             `json:"text" bson:"text"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// Recipe represents a recipe document stored in MongoDB
type Recipe struct {
	ID           primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID   `json:"user_id" bson:"user_id"`
	Title        string               `json:"title" bson:"title"`
	Description  string               `json:"description" bson:"description"`
	Ingredients  []Ingredient         `json:"ingredients" bson:"ingredients"`
	Instructions []string             `json:"instructions" bson:"instructions"`
	Images       []string             `json:"images,omitempty" bson:"images,omitempty"`
	PrepTime     int                  `json:"prep_time" bson:"prep_time"`
	CookTime     int                  `json:"cook_time" bson:"cook_time"`
	Difficulty   string               `json:"difficulty" bson:"difficulty"`
	Servings     int                  `json:"servings" bson:"servings"`
	Tags         []string             `json:"tags,omitempty" bson:"tags,omitempty"`
	Ratings      []Rating             `json:"ratings" bson:"ratings"`
	Likes        []primitive.ObjectID `json:"likes" bson:"likes"`
	Saves        []primitive.ObjectID `json:"saves" bson:"saves"`
	Comments     []Comment            `json:"comments" bson:"comments"`
	CreatedAt    time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at" bson:"updated_at"`
}

// AverageRating returns the arithmetic mean of the current rating values,
// rounded to one decimal. An unrated recipe averages to 0.
func (r *Recipe) AverageRating() float64 {
	if len(r.Ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range r.Ratings {
		sum += rating.Value
	}
	avg := float64(sum) / float64(len(r.Ratings))
	return math.Round(avg*10) / 10
}

// HasLiked reports whether userID is in the recipe's liker set
func (r *Recipe) HasLiked(userID primitive.ObjectID) bool {
	for _, id := range r.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// HasSaved reports whether userID is in the recipe's saver set
func (r *Recipe) HasSaved(userID primitive.ObjectID) bool {
	for _, id := range r.Saves {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateRecipeRequest defines the request body for creating a recipe
type CreateRecipeRequest struct {
	Title        string       `json:"title" validate:"required,min=3,max=120"`
	Description  string       `json:"description" validate:"required,min=3,max=2000"`
	Ingredients  []Ingredient `json:"ingredients" validate:"required,min=1,dive"`
	Instructions []string     `json:"instructions" validate:"required,min=1,dive,required"`
	Images       []string     `json:"images,omitempty" validate:"omitempty,dive,url"`
	PrepTime     int          `json:"prep_time" validate:"required,min=0"`
	CookTime     int          `json:"cook_time" validate:"required,min=0"`
	Difficulty   string       `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
	Servings     int          `json:"servings" validate:"required,min=1"`
	Tags         []string     `json:"tags,omitempty"`
}

// UpdateRecipeRequest defines the request body for updating a recipe
type UpdateRecipeRequest struct {
	Title        string       `json:"title,omitempty" validate:"omitempty,min=3,max=120"`
	Description  string       `json:"description,omitempty" validate:"omitempty,min=3,max=2000"`
	Ingredients  []Ingredient `json:"ingredients,omitempty" validate:"omitempty,min=1,dive"`
	Instructions []string     `json:"instructions,omitempty" validate:"omitempty,min=1,dive,required"`
	Images       []string     `json:"images,omitempty" validate:"omitempty,dive,url"`
	PrepTime     int          `json:"prep_time,omitempty" validate:"omitempty,min=0"`
	CookTime     int          `json:"cook_time,omitempty" validate:"omitempty,min=0"`
	Difficulty   string       `json:"difficulty,omitempty" validate:"omitempty,oneof=Easy Medium Hard"`
	Servings     int          `json:"servings,omitempty" validate:"omitempty,min=1"`
	Tags         []string     `json:"tags,omitempty"`
}

// RateRecipeRequest defines the request body for rating a recipe
type RateRecipeRequest struct {
	Value int `json:"value" validate:"required,min=1,max=5"`
}

// CreateCommentRequest defines the request body for commenting on a recipe
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,max=500"`
}
