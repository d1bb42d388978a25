package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/arifdev/recipely/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RecipeRepository defines the interface for recipe data operations.
// The interaction mutators (likers, savers, ratings, comments) touch a
// single document each and are called only from the interaction store,
// which serializes access per recipe.
type RecipeRepository interface {
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error)
	GetRecipesByUserID(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Recipe, error)
	GetAllRecipes(ctx context.Context, skip, limit int64) ([]models.Recipe, error)
	GetRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error)
	SearchRecipes(ctx context.Context, term string, limit int64) ([]models.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, update *models.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
	CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error)

	AddLiker(ctx context.Context, recipeID, userID primitive.ObjectID) error
	RemoveLiker(ctx context.Context, recipeID, userID primitive.ObjectID) error
	AddSaver(ctx context.Context, recipeID, userID primitive.ObjectID) error
	RemoveSaver(ctx context.Context, recipeID, userID primitive.ObjectID) error
	SetRating(ctx context.Context, recipeID primitive.ObjectID, rating models.Rating) error
	AppendComment(ctx context.Context, recipeID primitive.ObjectID, comment models.Comment) error
	GetSavedByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Recipe, error)
}

// MongoRecipeRepository implements RecipeRepository for MongoDB
type MongoRecipeRepository struct {
	collection *mongo.Collection
}

// NewMongoRecipeRepository creates a new MongoRecipeRepository
func NewMongoRecipeRepository(db *mongo.Database) *MongoRecipeRepository {
	return &MongoRecipeRepository{collection: db.Collection("recipes")}
}

// CreateRecipe creates a new recipe in MongoDB
func (r *MongoRecipeRepository) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	recipe.ID = primitive.NewObjectID()
	recipe.CreatedAt = time.Now()
	recipe.UpdatedAt = time.Now()
	if recipe.Ratings == nil {
		recipe.Ratings = []models.Rating{}
	}
	if recipe.Likes == nil {
		recipe.Likes = []primitive.ObjectID{}
	}
	if recipe.Saves == nil {
		recipe.Saves = []primitive.ObjectID{}
	}
	if recipe.Comments == nil {
		recipe.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, recipe)
	return err
}

// GetRecipeByID retrieves a recipe by ID from MongoDB
func (r *MongoRecipeRepository) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe ID format: %w", err)
	}

	var recipe models.Recipe
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&recipe)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// GetRecipesByUserID retrieves recipes authored by a specific user
func (r *MongoRecipeRepository) GetRecipesByUserID(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Recipe, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, findOptions)
}

// GetAllRecipes retrieves all recipes with pagination, newest first
func (r *MongoRecipeRepository) GetAllRecipes(ctx context.Context, skip, limit int64) ([]models.Recipe, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{}, findOptions)
}

// GetRecipesByIDs retrieves the recipes whose IDs are in ids
func (r *MongoRecipeRepository) GetRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	if len(ids) == 0 {
		return []models.Recipe{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

// SearchRecipes searches title, description, ingredient names and tags
func (r *MongoRecipeRepository) SearchRecipes(ctx context.Context, term string, limit int64) ([]models.Recipe, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"title": bson.M{"$regex": term, "$options": "i"}},
		bson.M{"description": bson.M{"$regex": term, "$options": "i"}},
		bson.M{"ingredients.name": bson.M{"$regex": term, "$options": "i"}},
		bson.M{"tags": bson.M{"$regex": term, "$options": "i"}},
	}}
	return r.find(ctx, filter, options.Find().SetLimit(limit))
}

// UpdateRecipe applies the non-zero fields of update to the recipe document
func (r *MongoRecipeRepository) UpdateRecipe(ctx context.Context, id string, update *models.UpdateRecipeRequest) (*models.Recipe, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe ID format: %w", err)
	}

	set := bson.M{"updated_at": time.Now()}
	if update.Title != "" {
		set["title"] = update.Title
	}
	if update.Description != "" {
		set["description"] = update.Description
	}
	if len(update.Ingredients) > 0 {
		set["ingredients"] = update.Ingredients
	}
	if len(update.Instructions) > 0 {
		set["instructions"] = update.Instructions
	}
	if len(update.Images) > 0 {
		set["images"] = update.Images
	}
	if update.PrepTime > 0 {
		set["prep_time"] = update.PrepTime
	}
	if update.CookTime > 0 {
		set["cook_time"] = update.CookTime
	}
	if update.Difficulty != "" {
		set["difficulty"] = update.Difficulty
	}
	if update.Servings > 0 {
		set["servings"] = update.Servings
	}
	if update.Tags != nil {
		set["tags"] = update.Tags
	}

	after := options.After
	opts := options.FindOneAndUpdate().SetReturnDocument(after)
	var recipe models.Recipe
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objID}, bson.M{"$set": set}, opts).Decode(&recipe)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("recipe %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return &recipe, nil
}

// DeleteRecipe deletes a recipe by ID from MongoDB
func (r *MongoRecipeRepository) DeleteRecipe(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid recipe ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("recipe %s: %w", id, ErrNotFound)
	}
	return nil
}

// CountByUserID counts the recipes authored by a user
func (r *MongoRecipeRepository) CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
}

// AddLiker adds userID to the recipe's liker set
func (r *MongoRecipeRepository) AddLiker(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, recipeID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLiker removes userID from the recipe's liker set
func (r *MongoRecipeRepository) RemoveLiker(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, recipeID, bson.M{"$pull": bson.M{"likes": userID}})
}

// AddSaver adds userID to the recipe's saver set
func (r *MongoRecipeRepository) AddSaver(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, recipeID, bson.M{"$addToSet": bson.M{"saves": userID}})
}

// RemoveSaver removes userID from the recipe's saver set
func (r *MongoRecipeRepository) RemoveSaver(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.updateOne(ctx, recipeID, bson.M{"$pull": bson.M{"saves": userID}})
}

// SetRating upserts the rater's value: the existing entry is replaced in
// place, otherwise a new one is pushed. One rating per rater per recipe.
func (r *MongoRecipeRepository) SetRating(ctx context.Context, recipeID primitive.ObjectID, rating models.Rating) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": recipeID, "ratings.user_id": rating.UserID},
		bson.M{"$set": bson.M{"ratings.$.value": rating.Value}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	return r.updateOne(ctx, recipeID, bson.M{"$push": bson.M{"ratings": rating}})
}

// AppendComment appends a comment to the recipe's comment sequence
func (r *MongoRecipeRepository) AppendComment(ctx context.Context, recipeID primitive.ObjectID, comment models.Comment) error {
	return r.updateOne(ctx, recipeID, bson.M{"$push": bson.M{"comments": comment}})
}

// GetSavedByUser retrieves the recipes a user has saved, newest first
func (r *MongoRecipeRepository) GetSavedByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Recipe, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"saves": userID}, findOptions)
}

func (r *MongoRecipeRepository) updateOne(ctx context.Context, recipeID primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": recipeID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("recipe %s: %w", recipeID.Hex(), ErrNotFound)
	}
	return nil
}

func (r *MongoRecipeRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Recipe, error) {
	var recipes []models.Recipe
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}
