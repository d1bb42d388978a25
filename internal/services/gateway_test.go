package services

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arifdev/recipely/backend/internal/metrics"
	"github.com/arifdev/recipely/backend/internal/models"
	"github.com/arifdev/recipely/backend/internal/realtime"
)

type gatewayFixture struct {
	gateway   *InteractionGateway
	users     *memUserRepo
	recipes   *memRecipeRepo
	nRepo     *memNotificationRepo
	log       *NotificationLog
	broker    *realtime.Broker
	registry  *prometheus.Registry
	collector *metrics.Collector
}

func newGatewayFixture(users *memUserRepo, recipes *memRecipeRepo) *gatewayFixture {
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)
	broker := realtime.NewBroker(collector)
	nRepo := newMemNotificationRepo()
	nLog := NewNotificationLog(nRepo)

	gateway := NewInteractionGateway(
		NewGraphStore(users),
		NewInteractionStore(recipes),
		nLog,
		broker,
		collector,
	)
	return &gatewayFixture{
		gateway:   gateway,
		users:     users,
		recipes:   recipes,
		nRepo:     nRepo,
		log:       nLog,
		broker:    broker,
		registry:  registry,
		collector: collector,
	}
}

func counterValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetCounter().GetValue()
		}
	}
	return 0
}

func receiveEvent(t *testing.T, sub *realtime.Subscription) models.FanoutEvent {
	t.Helper()
	select {
	case event, ok := <-sub.Events():
		require.True(t, ok, "subscription channel closed")
		return event
	default:
		t.Fatal("no fanout event delivered")
		return models.FanoutEvent{}
	}
}

func TestGatewayFollowNotifiesAndFansOut(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	fx := newGatewayFixture(newMemUserRepo(alice, bob), newMemRecipeRepo())

	sub := fx.broker.Subscribe(bob.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	res, err := fx.gateway.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID.Hex()}, res.TargetFollowers)

	// one notification for bob
	list, total, err := fx.log.ListForRecipient(bob.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationTypeFollow, list[0].Type)
	assert.Equal(t, alice.ID.Hex(), list[0].ActorID)

	// one fanout event with the updated follower set
	event := receiveEvent(t, sub)
	assert.Equal(t, models.FanoutTypeFollowUpdated, event.Type)
	assert.Equal(t, bob.ID.Hex(), event.UserID)
	assert.Equal(t, []string{alice.ID.Hex()}, event.Followers)
}

func TestGatewayApplyFailureStopsPipeline(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	fx := newGatewayFixture(newMemUserRepo(alice, bob), newMemRecipeRepo())

	sub := fx.broker.Subscribe(bob.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	_, err := fx.gateway.Follow(context.Background(), alice.ID.Hex(), alice.ID.Hex())
	assert.ErrorIs(t, err, ErrSelfFollow)

	// a rejected mutation produces no notification and no fanout
	_, total, err := fx.log.ListForRecipient(bob.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sub.Events())
}

func TestGatewayNotifyFailureIsSwallowed(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	fx := newGatewayFixture(newMemUserRepo(alice, bob), newMemRecipeRepo())
	fx.nRepo.createErr = errors.New("postgres is down")

	sub := fx.broker.Subscribe(bob.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	// follow still succeeds and still fans out
	res, err := fx.gateway.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)
	require.NotNil(t, res)

	event := receiveEvent(t, sub)
	assert.Equal(t, models.FanoutTypeFollowUpdated, event.Type)

	assert.Equal(t, 1.0, counterValue(t, fx.registry, "recipely_notification_record_failures_total"))
}

func TestGatewayUnfollowFansOutWithoutNotifying(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	fx := newGatewayFixture(newMemUserRepo(alice, bob), newMemRecipeRepo())

	_, err := fx.gateway.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)

	sub := fx.broker.Subscribe(bob.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	_, err = fx.gateway.Unfollow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)

	event := receiveEvent(t, sub)
	assert.Equal(t, models.FanoutTypeFollowUpdated, event.Type)
	assert.Empty(t, event.Followers)

	// the follow notification from setup is the only one
	_, total, err := fx.log.ListForRecipient(bob.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGatewayLikeNotifiesAuthor(t *testing.T) {
	author := newTestUser("author")
	liker := newTestUser("liker")
	recipe := newTestRecipe(author)
	fx := newGatewayFixture(newMemUserRepo(author, liker), newMemRecipeRepo(recipe))

	sub := fx.broker.Subscribe(author.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	res, err := fx.gateway.Like(context.Background(), liker.ID.Hex(), recipe.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 1, res.LikeCount)

	list, total, err := fx.log.ListForRecipient(author.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationTypeLike, list[0].Type)
	assert.Equal(t, recipe.ID.Hex(), list[0].RecipeID)

	event := receiveEvent(t, sub)
	assert.Equal(t, models.FanoutTypeLikeUpdated, event.Type)
	assert.Equal(t, recipe.ID.Hex(), event.RecipeID)
	assert.Equal(t, 1, event.LikeCount)
}

func TestGatewayAuthorLikingOwnRecipeSkipsNotification(t *testing.T) {
	author := newTestUser("author")
	recipe := newTestRecipe(author)
	fx := newGatewayFixture(newMemUserRepo(author), newMemRecipeRepo(recipe))

	_, err := fx.gateway.Like(context.Background(), author.ID.Hex(), recipe.ID.Hex())
	require.NoError(t, err)

	_, total, err := fx.log.ListForRecipient(author.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestGatewayUnlikeFansOutWithoutNotifying(t *testing.T) {
	author := newTestUser("author")
	liker := newTestUser("liker")
	recipe := newTestRecipe(author)
	fx := newGatewayFixture(newMemUserRepo(author, liker), newMemRecipeRepo(recipe))

	_, err := fx.gateway.Like(context.Background(), liker.ID.Hex(), recipe.ID.Hex())
	require.NoError(t, err)

	sub := fx.broker.Subscribe(author.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	_, err = fx.gateway.Unlike(context.Background(), liker.ID.Hex(), recipe.ID.Hex())
	require.NoError(t, err)

	event := receiveEvent(t, sub)
	assert.Equal(t, models.FanoutTypeLikeUpdated, event.Type)
	assert.Zero(t, event.LikeCount)

	_, total, err := fx.log.ListForRecipient(author.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGatewaySaveAndRateAreSilent(t *testing.T) {
	author := newTestUser("author")
	actor := newTestUser("actor")
	recipe := newTestRecipe(author)
	fx := newGatewayFixture(newMemUserRepo(author, actor), newMemRecipeRepo(recipe))

	sub := fx.broker.Subscribe(author.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	_, err := fx.gateway.Save(context.Background(), actor.ID.Hex(), recipe.ID.Hex())
	require.NoError(t, err)
	_, err = fx.gateway.Rate(context.Background(), actor.ID.Hex(), recipe.ID.Hex(), 4)
	require.NoError(t, err)
	_, err = fx.gateway.Unsave(context.Background(), actor.ID.Hex(), recipe.ID.Hex())
	require.NoError(t, err)

	_, total, err := fx.log.ListForRecipient(author.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sub.Events())
}

func TestGatewayCommentCarriesSnippet(t *testing.T) {
	author := newTestUser("author")
	commenter := newTestUser("commenter")
	recipe := newTestRecipe(author)
	fx := newGatewayFixture(newMemUserRepo(author, commenter), newMemRecipeRepo(recipe))

	sub := fx.broker.Subscribe(author.ID.Hex())
	defer fx.broker.Unsubscribe(sub)

	long := ""
	for i := 0; i < 30; i++ {
		long += "abcde"
	}
	res, err := fx.gateway.Comment(context.Background(), commenter.ID.Hex(), recipe.ID.Hex(), long)
	require.NoError(t, err)
	assert.Equal(t, long, res.Comment.Text)

	list, total, err := fx.log.ListForRecipient(author.ID.Hex(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, models.NotificationTypeComment, list[0].Type)
	assert.Len(t, []rune(list[0].Content), commentSnippetLen)

	event := receiveEvent(t, sub)
	assert.Equal(t, models.FanoutTypeCommentUpdated, event.Type)
	require.NotNil(t, event.Comment)
	assert.Equal(t, long, event.Comment.Text)
}
