package services

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/repositories"
)

// memUserRepo is an in-memory UserRepository. All methods are safe for
// concurrent use so the tests can hammer the stores from many goroutines.
type memUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User

	addEdgeErr error
}

func newMemUserRepo(users ...*models.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[primitive.ObjectID]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (r *memUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID format: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[objID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repositories.ErrNotFound)
	}
	copied := *user
	copied.Followers = append([]primitive.ObjectID(nil), user.Followers...)
	copied.Following = append([]primitive.ObjectID(nil), user.Following...)
	return &copied, nil
}

func (r *memUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, repositories.ErrNotFound)
}

func (r *memUserRepo) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.User{}
	for _, id := range ids {
		if user, ok := r.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateProfile(ctx context.Context, id string, update *models.UpdateProfileRequest) (*models.User, error) {
	user, err := r.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.users[user.ID]
	if update.Name != "" {
		stored.Name = update.Name
	}
	if update.Avatar != "" {
		stored.Avatar = update.Avatar
	}
	if update.Bio != "" {
		stored.Bio = update.Bio
	}
	copied := *stored
	return &copied, nil
}

func (r *memUserRepo) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	return nil, nil
}

func (r *memUserRepo) AddFollowEdge(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.addEdgeErr != nil {
		return r.addEdgeErr
	}
	follower, ok := r.users[followerID]
	if !ok {
		return fmt.Errorf("user %s: %w", followerID.Hex(), repositories.ErrNotFound)
	}
	followee, ok := r.users[followeeID]
	if !ok {
		return fmt.Errorf("user %s: %w", followeeID.Hex(), repositories.ErrNotFound)
	}
	follower.Following = addToSet(follower.Following, followeeID)
	followee.Followers = addToSet(followee.Followers, followerID)
	return nil
}

func (r *memUserRepo) RemoveFollowEdge(ctx context.Context, followerID, followeeID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	follower, ok := r.users[followerID]
	if !ok {
		return fmt.Errorf("user %s: %w", followerID.Hex(), repositories.ErrNotFound)
	}
	followee, ok := r.users[followeeID]
	if !ok {
		return fmt.Errorf("user %s: %w", followeeID.Hex(), repositories.ErrNotFound)
	}
	follower.Following = withoutID(follower.Following, followeeID)
	followee.Followers = withoutID(followee.Followers, followerID)
	return nil
}

func addToSet(ids []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	if containsID(ids, id) {
		return ids
	}
	return append(ids, id)
}

// memRecipeRepo is an in-memory RecipeRepository
type memRecipeRepo struct {
	mu      sync.Mutex
	recipes map[primitive.ObjectID]*models.Recipe
}

func newMemRecipeRepo(recipes ...*models.Recipe) *memRecipeRepo {
	repo := &memRecipeRepo{recipes: make(map[primitive.ObjectID]*models.Recipe)}
	for _, rec := range recipes {
		repo.recipes[rec.ID] = rec
	}
	return repo
}

func (r *memRecipeRepo) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if recipe.ID.IsZero() {
		recipe.ID = primitive.NewObjectID()
	}
	r.recipes[recipe.ID] = recipe
	return nil
}

func (r *memRecipeRepo) GetRecipeByID(ctx context.Context, id string) (*models.Recipe, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid recipe ID format: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	recipe, ok := r.recipes[objID]
	if !ok {
		return nil, fmt.Errorf("recipe %s: %w", id, repositories.ErrNotFound)
	}
	copied := *recipe
	copied.Likes = append([]primitive.ObjectID(nil), recipe.Likes...)
	copied.Saves = append([]primitive.ObjectID(nil), recipe.Saves...)
	copied.Ratings = append([]models.Rating(nil), recipe.Ratings...)
	copied.Comments = append([]models.Comment(nil), recipe.Comments...)
	return &copied, nil
}

func (r *memRecipeRepo) GetRecipesByUserID(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Recipe, error) {
	return nil, nil
}

func (r *memRecipeRepo) GetAllRecipes(ctx context.Context, skip, limit int64) ([]models.Recipe, error) {
	return nil, nil
}

func (r *memRecipeRepo) GetRecipesByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Recipe, error) {
	return nil, nil
}

func (r *memRecipeRepo) SearchRecipes(ctx context.Context, term string, limit int64) ([]models.Recipe, error) {
	return nil, nil
}

func (r *memRecipeRepo) UpdateRecipe(ctx context.Context, id string, update *models.UpdateRecipeRequest) (*models.Recipe, error) {
	return nil, nil
}

func (r *memRecipeRepo) DeleteRecipe(ctx context.Context, id string) error {
	return nil
}

func (r *memRecipeRepo) CountByUserID(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return 0, nil
}

func (r *memRecipeRepo) AddLiker(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.mutate(recipeID, func(recipe *models.Recipe) {
		recipe.Likes = addToSet(recipe.Likes, userID)
	})
}

func (r *memRecipeRepo) RemoveLiker(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.mutate(recipeID, func(recipe *models.Recipe) {
		recipe.Likes = withoutID(recipe.Likes, userID)
	})
}

func (r *memRecipeRepo) AddSaver(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.mutate(recipeID, func(recipe *models.Recipe) {
		recipe.Saves = addToSet(recipe.Saves, userID)
	})
}

func (r *memRecipeRepo) RemoveSaver(ctx context.Context, recipeID, userID primitive.ObjectID) error {
	return r.mutate(recipeID, func(recipe *models.Recipe) {
		recipe.Saves = withoutID(recipe.Saves, userID)
	})
}

func (r *memRecipeRepo) SetRating(ctx context.Context, recipeID primitive.ObjectID, rating models.Rating) error {
	return r.mutate(recipeID, func(recipe *models.Recipe) {
		for i := range recipe.Ratings {
			if recipe.Ratings[i].UserID == rating.UserID {
				recipe.Ratings[i].Value = rating.Value
				return
			}
		}
		recipe.Ratings = append(recipe.Ratings, rating)
	})
}

func (r *memRecipeRepo) AppendComment(ctx context.Context, recipeID primitive.ObjectID, comment models.Comment) error {
	return r.mutate(recipeID, func(recipe *models.Recipe) {
		recipe.Comments = append(recipe.Comments, comment)
	})
}

func (r *memRecipeRepo) GetSavedByUser(ctx context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Recipe, error) {
	return nil, nil
}

func (r *memRecipeRepo) mutate(recipeID primitive.ObjectID, fn func(*models.Recipe)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	recipe, ok := r.recipes[recipeID]
	if !ok {
		return fmt.Errorf("recipe %s: %w", recipeID.Hex(), repositories.ErrNotFound)
	}
	fn(recipe)
	return nil
}

// memNotificationRepo is an in-memory NotificationRepository
type memNotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	notifications []*models.Notification

	createErr error
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{}
}

func (r *memNotificationRepo) CreateNotification(notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	notification.ID = r.nextID
	r.notifications = append(r.notifications, notification)
	return nil
}

func (r *memNotificationRepo) GetNotificationByID(id uint) (*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("notification %d: %w", id, repositories.ErrNotFound)
}

func (r *memNotificationRepo) GetByRecipientID(recipientID string, page, limit int) ([]models.Notification, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].RecipientID == recipientID {
			out = append(out, *r.notifications[i])
		}
	}
	return out, int64(len(out)), nil
}

func (r *memNotificationRepo) GetUnreadCount(recipientID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) MarkAsRead(notificationID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID {
			n.IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification %d: %w", notificationID, repositories.ErrNotFound)
}

func (r *memNotificationRepo) DeleteAllForRecipient(recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.RecipientID != recipientID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

func newTestUser(name string) *models.User {
	return &models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Username:  name,
		Followers: []primitive.ObjectID{},
		Following: []primitive.ObjectID{},
	}
}

func newTestRecipe(author *models.User) *models.Recipe {
	return &models.Recipe{
		ID:       primitive.NewObjectID(),
		UserID:   author.ID,
		Title:    "Test Recipe",
		Ratings:  []models.Rating{},
		Likes:    []primitive.ObjectID{},
		Saves:    []primitive.ObjectID{},
		Comments: []models.Comment{},
	}
}
