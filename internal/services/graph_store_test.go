package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphStoreFollowUpdatesBothSides(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	repo := newMemUserRepo(alice, bob)
	store := NewGraphStore(repo)

	res, err := store.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)

	assert.Equal(t, []string{bob.ID.Hex()}, res.ActorFollowing)
	assert.Equal(t, []string{alice.ID.Hex()}, res.TargetFollowers)

	storedAlice, err := repo.GetUserByID(context.Background(), alice.ID.Hex())
	require.NoError(t, err)
	storedBob, err := repo.GetUserByID(context.Background(), bob.ID.Hex())
	require.NoError(t, err)

	assert.True(t, containsID(storedAlice.Following, bob.ID))
	assert.True(t, containsID(storedBob.Followers, alice.ID))
	assert.Empty(t, storedAlice.Followers)
	assert.Empty(t, storedBob.Following)
}

func TestGraphStoreFollowTwiceRejected(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	store := NewGraphStore(newMemUserRepo(alice, bob))

	_, err := store.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)

	_, err = store.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	assert.ErrorIs(t, err, ErrAlreadyFollowing)
}

func TestGraphStoreSelfFollowRejected(t *testing.T) {
	alice := newTestUser("alice")
	store := NewGraphStore(newMemUserRepo(alice))

	_, err := store.Follow(context.Background(), alice.ID.Hex(), alice.ID.Hex())
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = store.Unfollow(context.Background(), alice.ID.Hex(), alice.ID.Hex())
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestGraphStoreFollowUnknownUser(t *testing.T) {
	alice := newTestUser("alice")
	ghost := newTestUser("ghost")
	store := NewGraphStore(newMemUserRepo(alice))

	_, err := store.Follow(context.Background(), alice.ID.Hex(), ghost.ID.Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGraphStoreUnfollowWithoutEdge(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	store := NewGraphStore(newMemUserRepo(alice, bob))

	_, err := store.Unfollow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	assert.ErrorIs(t, err, ErrNotFollowing)
}

func TestGraphStoreFollowThenUnfollowRestoresState(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	repo := newMemUserRepo(alice, bob)
	store := NewGraphStore(repo)

	_, err := store.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)

	res, err := store.Unfollow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, res.ActorFollowing)
	assert.Empty(t, res.TargetFollowers)

	storedBob, err := repo.GetUserByID(context.Background(), bob.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, storedBob.Followers)
}

// Concurrent follows of the same pair must resolve to exactly one
// success; the rest observe the edge and fail with ErrAlreadyFollowing.
func TestGraphStoreConcurrentFollowsSamePair(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	repo := newMemUserRepo(alice, bob)
	store := NewGraphStore(repo)

	const attempts = 32
	var wg sync.WaitGroup
	errs := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case err == ErrAlreadyFollowing:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, attempts-1, conflicts)

	storedBob, err := repo.GetUserByID(context.Background(), bob.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, storedBob.Followers, 1)
}

// Opposite-direction follows of the same pair must not deadlock
func TestGraphStoreConcurrentOppositeFollows(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	store := NewGraphStore(newMemUserRepo(alice, bob))

	const rounds = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			store.Follow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
			store.Unfollow(context.Background(), alice.ID.Hex(), bob.ID.Hex())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			store.Follow(context.Background(), bob.ID.Hex(), alice.ID.Hex())
			store.Unfollow(context.Background(), bob.ID.Hex(), alice.ID.Hex())
		}
	}()
	wg.Wait()
}

func TestGraphStoreFollowersResolvesRecords(t *testing.T) {
	alice := newTestUser("alice")
	bob := newTestUser("bob")
	carol := newTestUser("carol")
	repo := newMemUserRepo(alice, bob, carol)
	store := NewGraphStore(repo)

	_, err := store.Follow(context.Background(), alice.ID.Hex(), carol.ID.Hex())
	require.NoError(t, err)
	_, err = store.Follow(context.Background(), bob.ID.Hex(), carol.ID.Hex())
	require.NoError(t, err)

	followers, err := store.Followers(context.Background(), carol.ID.Hex())
	require.NoError(t, err)
	require.Len(t, followers, 2)

	following, err := store.Following(context.Background(), alice.ID.Hex())
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].Username)
}

func TestGraphStoreFollowersUnknownUser(t *testing.T) {
	store := NewGraphStore(newMemUserRepo())

	_, err := store.Followers(context.Background(), newTestUser("ghost").ID.Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
