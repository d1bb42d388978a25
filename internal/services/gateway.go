package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/arifdev/recipely/backend/internal/metrics"
	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/realtime"
)

// commentSnippetLen bounds the comment text carried inside a
// notification record.
const commentSnippetLen = 80

// InteractionGateway runs every mutation through a fixed pipeline:
//
//	apply  → the store operation; its error is the caller's error
//	notify → best-effort notification record, failures swallowed
//	fanout → best-effort publish to the recipient's channel
//
// Notify and fanout never fail a request and are never retried; a
// notification outage cannot make likes or follows fail.
type InteractionGateway struct {
	graph         *GraphStore
	interactions  *InteractionStore
	notifications *NotificationLog
	broker        *realtime.Broker
	collector     *metrics.Collector
}

// NewInteractionGateway creates a new InteractionGateway
func NewInteractionGateway(
	graph *GraphStore,
	interactions *InteractionStore,
	notifications *NotificationLog,
	broker *realtime.Broker,
	collector *metrics.Collector,
) *InteractionGateway {
	return &InteractionGateway{
		graph:         graph,
		interactions:  interactions,
		notifications: notifications,
		broker:        broker,
		collector:     collector,
	}
}

// Follow follows target on behalf of actor, records a follow
// notification for the target and pushes the target's updated follower
// set to their channel.
func (g *InteractionGateway) Follow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	res, err := g.graph.Follow(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	g.notify(models.NotificationTypeFollow, actorID, targetID, "", "")
	g.broker.Publish(targetID, models.FanoutEvent{
		Type:      models.FanoutTypeFollowUpdated,
		UserID:    targetID,
		Followers: res.TargetFollowers,
	})
	return res, nil
}

// Unfollow removes the edge and pushes the target's updated follower
// set. Unfollowing records no notification.
func (g *InteractionGateway) Unfollow(ctx context.Context, actorID, targetID string) (*FollowResult, error) {
	res, err := g.graph.Unfollow(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	g.broker.Publish(targetID, models.FanoutEvent{
		Type:      models.FanoutTypeFollowUpdated,
		UserID:    targetID,
		Followers: res.TargetFollowers,
	})
	return res, nil
}

// Like likes a recipe, notifies the recipe's author and pushes the
// updated liker set to the author's channel.
func (g *InteractionGateway) Like(ctx context.Context, userID, recipeID string) (*LikeResult, error) {
	res, err := g.interactions.Like(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	g.notify(models.NotificationTypeLike, userID, res.AuthorID, recipeID, "")
	g.publishLike(res)
	return res, nil
}

// Unlike removes the like and pushes the updated liker set to the
// author's channel. No notification is recorded.
func (g *InteractionGateway) Unlike(ctx context.Context, userID, recipeID string) (*LikeResult, error) {
	res, err := g.interactions.Unlike(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}

	g.publishLike(res)
	return res, nil
}

// Save bookmarks a recipe for the user. Saves are private: no
// notification, no fanout.
func (g *InteractionGateway) Save(ctx context.Context, userID, recipeID string) (*SaveResult, error) {
	return g.interactions.Save(ctx, userID, recipeID)
}

// Unsave removes the bookmark
func (g *InteractionGateway) Unsave(ctx context.Context, userID, recipeID string) (*SaveResult, error) {
	return g.interactions.Unsave(ctx, userID, recipeID)
}

// Rate upserts the user's rating and returns the new average. Ratings
// produce neither notifications nor fanout events.
func (g *InteractionGateway) Rate(ctx context.Context, userID, recipeID string, value int) (*RatingResult, error) {
	return g.interactions.Rate(ctx, userID, recipeID, value)
}

// Comment appends a comment, notifies the recipe's author with a text
// snippet and pushes the comment to the author's channel.
func (g *InteractionGateway) Comment(ctx context.Context, userID, recipeID, text string) (*CommentResult, error) {
	res, err := g.interactions.Comment(ctx, userID, recipeID, text)
	if err != nil {
		return nil, err
	}

	g.notify(models.NotificationTypeComment, userID, res.AuthorID, recipeID, snippet(res.Comment.Text))
	g.broker.Publish(res.AuthorID, models.FanoutEvent{
		Type:     models.FanoutTypeCommentUpdated,
		RecipeID: res.RecipeID,
		Comment:  &res.Comment,
	})
	return res, nil
}

// notify records a notification without ever propagating the failure.
// NotificationLog.Record already drops self-notifications.
func (g *InteractionGateway) notify(kind, actorID, recipientID, recipeID, content string) {
	if _, err := g.notifications.Record(kind, actorID, recipientID, recipeID, content); err != nil {
		g.collector.RecordNotificationFailure()
		log.Warn().Err(err).
			Str("kind", kind).
			Str("actor", actorID).
			Str("recipient", recipientID).
			Msg("failed to record notification")
	}
}

func (g *InteractionGateway) publishLike(res *LikeResult) {
	g.broker.Publish(res.AuthorID, models.FanoutEvent{
		Type:      models.FanoutTypeLikeUpdated,
		RecipeID:  res.RecipeID,
		Likers:    res.Likers,
		LikeCount: res.LikeCount,
	})
}

func snippet(text string) string {
	runes := []rune(text)
	if len(runes) <= commentSnippetLen {
		return text
	}
	return string(runes[:commentSnippetLen])
}
