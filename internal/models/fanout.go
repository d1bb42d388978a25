package models

// Fanout event types delivered to currently-connected subscribers.
// Events are transient: nothing is replayed for subscribers that were
// offline when the event was published.
const (
	FanoutTypeFollowUpdated  = "follower_updated"
	FanoutTypeLikeUpdated    = "recipe_liked"
	FanoutTypeCommentUpdated = "recipe_commented"
)

// FanoutEvent is the wire shape pushed over a subscriber's channel. Only
// the fields relevant to the event type are populated.
type FanoutEvent struct {
	Type      string   `json:"type"`
	UserID    string   `json:"user_id,omitempty"`
	RecipeID  string   `json:"recipe_id,omitempty"`
	Followers []string `json:"followers,omitempty"`
	Likers    []string `json:"likers,omitempty"`
	LikeCount int      `json:"like_count,omitempty"`
	Comment   *Comment `json:"comment,omitempty"`
}
