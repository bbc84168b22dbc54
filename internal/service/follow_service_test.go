package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"Octo_Social/internal/model"
	"Octo_Social/internal/pkg/apperr"
	"Octo_Social/internal/repository"
	"Octo_Social/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockFollowStore struct {
	mock.Mock
}

func (m *mockFollowStore) Find(ctx context.Context, followerID, followingID string) (*model.Follow, error) {
	args := m.Called(ctx, followerID, followingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Follow), args.Error(1)
}

func (m *mockFollowStore) Create(ctx context.Context, follow *model.Follow) error {
	return m.Called(ctx, follow).Error(0)
}

func (m *mockFollowStore) Delete(ctx context.Context, followerID, followingID string) error {
	return m.Called(ctx, followerID, followingID).Error(0)
}

func (m *mockFollowStore) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFollowStore) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockFollowStore) ListFollowers(ctx context.Context, userID string) ([]model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *mockFollowStore) ListFollowing(ctx context.Context, userID string) ([]model.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.User), args.Error(1)
}

func TestFollowService_FollowTwiceKeepsOneEdge(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")

	first, err := f.follow.Follow(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	ok, err := f.follow.IsFollowing(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	assert.True(t, ok)

	second, err := f.follow.Follow(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	following, err := f.follow.ListFollowing(f.ctx, f.id("alice"))
	require.NoError(t, err)
	assert.Len(t, following, 1)

	ok, err = f.follow.IsFollowing(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFollowService_UnfollowTwice(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")
	_, err := f.follow.Follow(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)

	require.NoError(t, f.follow.Unfollow(f.ctx, f.id("alice"), f.id("bob")))
	require.NoError(t, f.follow.Unfollow(f.ctx, f.id("alice"), f.id("bob")))

	ok, err := f.follow.IsFollowing(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	assert.False(t, ok)

	var events []string
	for _, ob := range f.db.Outbox().Events() {
		events = append(events, ob.EventType)
	}
	assert.Equal(t, []string{model.EventFollow, model.EventUnfollow}, events)
}

func TestFollowService_Validation(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice")

	_, err := f.follow.Follow(f.ctx, "", f.id("alice"))
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	_, err = f.follow.Follow(f.ctx, f.id("alice"), "  ")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	err = f.follow.Unfollow(f.ctx, f.id("alice"), "")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.follow.Follow(f.ctx, f.id("alice"), "ghost")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = f.follow.ListFollowers(f.ctx, "")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestFollowService_SelfFollowPolicy(t *testing.T) {
	allowed := newFixture(t, fixtureOpts{allowSelf: true}, "alice")
	_, err := allowed.follow.Follow(allowed.ctx, allowed.id("alice"), allowed.id("alice"))
	assert.NoError(t, err)

	denied := newFixture(t, fixtureOpts{allowSelf: false}, "alice")
	_, err = denied.follow.Follow(denied.ctx, denied.id("alice"), denied.id("alice"))
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}

func TestFollowService_ConflictIsAbsorbed(t *testing.T) {
	db := memory.New()
	ctx := context.Background()
	require.NoError(t, db.Users().Create(ctx, &model.User{ID: "b", Username: "bob", Email: "b@example.com"}))

	existing := &model.Follow{ID: "edge-1", FollowerID: "a", FollowingID: "b"}
	store := new(mockFollowStore)
	store.On("Find", ctx, "a", "b").Return(nil, repository.ErrNotFound).Once()
	store.On("Create", ctx, mock.AnythingOfType("*model.Follow")).Return(repository.ErrConflict).Once()
	store.On("Find", ctx, "a", "b").Return(existing, nil).Once()

	svc := NewFollowService(store, db.Users(), FollowOptions{AllowSelf: true}, zap.NewNop())
	got, err := svc.Follow(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "edge-1", got.ID)
	store.AssertExpectations(t)
}

func TestFollowService_StoreFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	store := new(mockFollowStore)
	store.On("Delete", ctx, "a", "b").Return(errors.New("connection reset"))

	svc := NewFollowService(store, memory.New().Users(), FollowOptions{}, zap.NewNop())
	err := svc.Unfollow(ctx, "a", "b")
	assert.True(t, apperr.Is(err, apperr.CodeInternal))
}

func TestFollowService_ConcurrentFollow(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")

	var wg sync.WaitGroup
	ids := make([]string, 16)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rel, err := f.follow.Follow(f.ctx, f.id("alice"), f.id("bob"))
			if assert.NoError(t, err) {
				ids[i] = rel.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	followers, err := f.follow.ListFollowers(f.ctx, f.id("bob"))
	require.NoError(t, err)
	assert.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)
}
