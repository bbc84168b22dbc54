package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"Octo_Social/internal/model"
	"Octo_Social/internal/repository/memory"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stepClock 每次调用前进一秒，保证创建时间严格递增
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

type fixture struct {
	db      *memory.DB
	follow  *FollowService
	feed    *FeedService
	post    *PostService
	conv    *ConversationService
	user    *UserService
	clock   *stepClock
	ctx     context.Context
	userIDs map[string]string
}

type fixtureOpts struct {
	includeSelf bool
	allowSelf   bool
}

func newFixture(t *testing.T, opts fixtureOpts, usernames ...string) *fixture {
	t.Helper()
	db := memory.New()
	log := zap.NewNop()
	clock := newStepClock()

	f := &fixture{
		db:      db,
		follow:  NewFollowService(db.Follows(), db.Users(), FollowOptions{AllowSelf: opts.allowSelf}, log),
		feed:    NewFeedService(db.Follows(), db.Posts(), db.Comments(), FeedOptions{IncludeSelf: opts.includeSelf}, log),
		post:    NewPostService(db.Posts(), db.Comments(), db.Users(), log),
		conv:    NewConversationService(db.Conversations(), db.Users(), log),
		user:    NewUserService(db.Users(), db.Follows(), db.Posts(), db.Comments(), log),
		clock:   clock,
		ctx:     context.Background(),
		userIDs: map[string]string{},
	}
	f.follow.now = clock.Now
	f.post.now = clock.Now
	f.conv.now = clock.Now
	f.user.now = clock.Now

	for _, name := range usernames {
		id := "id-" + name
		require.NoError(t, db.Users().Create(f.ctx, &model.User{
			ID:       id,
			Username: name,
			Email:    name + "@example.com",
			Image:    "https://avatars/" + name,
		}))
		f.userIDs[name] = id
	}
	return f
}

func defaultOpts() fixtureOpts {
	return fixtureOpts{includeSelf: true, allowSelf: true}
}

func (f *fixture) id(name string) string {
	return f.userIDs[name]
}

func (f *fixture) mustPost(t *testing.T, author, content string) *model.Post {
	t.Helper()
	p, err := f.post.CreatePost(f.ctx, f.id(author), content)
	require.NoError(t, err)
	return p
}

func authorsOf(posts []model.Post) map[string]bool {
	out := map[string]bool{}
	for _, p := range posts {
		out[p.AuthorID] = true
	}
	return out
}
