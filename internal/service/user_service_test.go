package service

import (
	"testing"

	"Octo_Social/internal/pkg"
	"Octo_Social/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Search(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "Alex", "alfred", "alma", "alan", "albert", "bob")

	got, err := f.user.SearchUsers(f.ctx, f.id("alice"), "AL")
	require.NoError(t, err)
	assert.Len(t, got, searchLimit)
	for _, u := range got {
		assert.NotEqual(t, f.id("alice"), u.ID)
		assert.NotEqual(t, "bob", u.Username)
	}

	one, err := f.user.SearchUsers(f.ctx, f.id("alice"), "  bo ")
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, "bob", one[0].Username)

	empty, err := f.user.SearchUsers(f.ctx, f.id("alice"), "   ")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	_, err = f.user.SearchUsers(f.ctx, "", "al")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))
}

func TestUserService_ListOtherUsers(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob", "carol")

	got, err := f.user.ListOtherUsers(f.ctx, f.id("alice"), 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, u := range got {
		assert.NotEqual(t, f.id("alice"), u.ID)
	}

	limited, err := f.user.ListOtherUsers(f.ctx, f.id("alice"), 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestUserService_GetProfile(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")
	p := f.mustPost(t, "bob", "bob's post")
	_, err := f.post.AddComment(f.ctx, f.id("alice"), AddCommentInput{PostID: p.ID, Content: "nice"})
	require.NoError(t, err)

	prof, err := f.user.GetProfile(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	assert.Equal(t, "bob", prof.User.Username)
	assert.False(t, prof.IsFollowing)
	require.Len(t, prof.Posts, 1)
	require.Len(t, prof.Posts[0].Comments, 1)
	assert.Equal(t, "alice", prof.Posts[0].Comments[0].Author.Username)

	_, err = f.follow.Follow(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	prof, err = f.user.GetProfile(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	assert.True(t, prof.IsFollowing)

	_, err = f.user.GetProfile(f.ctx, f.id("alice"), "ghost")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))
}

func TestUserService_UpsertGitHubUser(t *testing.T) {
	f := newFixture(t, defaultOpts())

	gh := pkg.GitHubProfile{ID: 42, Login: "octocat", Email: "octo@example.com", AvatarURL: "https://avatars/1"}
	created, err := f.user.UpsertGitHubUser(f.ctx, gh)
	require.NoError(t, err)
	assert.Equal(t, "octocat", created.Username)
	assert.Equal(t, "https://avatars/1", created.Image)

	acc, err := f.db.Users().FindAccount(f.ctx, ProviderGitHub, "42")
	require.NoError(t, err)
	assert.Equal(t, created.ID, acc.UserID)

	gh.AvatarURL = "https://avatars/2"
	again, err := f.user.UpsertGitHubUser(f.ctx, gh)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "https://avatars/2", again.Image)

	stored, err := f.db.Users().FindByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://avatars/2", stored.Image)
}

func TestUserService_UpsertGitHubUserLinksExistingEmail(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice")

	got, err := f.user.UpsertGitHubUser(f.ctx, pkg.GitHubProfile{ID: 7, Login: "alice-gh", Email: "alice@example.com"})
	require.NoError(t, err)
	assert.Equal(t, f.id("alice"), got.ID)
	assert.Equal(t, "https://avatars/alice", got.Image)

	acc, err := f.db.Users().FindAccount(f.ctx, ProviderGitHub, "7")
	require.NoError(t, err)
	assert.Equal(t, f.id("alice"), acc.UserID)
}

func TestUserService_UpsertGitHubUserUsernameTaken(t *testing.T) {
	f := newFixture(t, defaultOpts(), "testuser")

	gh := pkg.GitHubProfile{ID: 555, Login: "testuser", Email: "other@example.com"}
	got, err := f.user.UpsertGitHubUser(f.ctx, gh)
	require.NoError(t, err)
	assert.NotEqual(t, f.id("testuser"), got.ID)
	assert.Equal(t, "testuser-555", got.Username)

	again, err := f.user.UpsertGitHubUser(f.ctx, gh)
	require.NoError(t, err)
	assert.Equal(t, got.ID, again.ID)

	acc, err := f.db.Users().FindAccount(f.ctx, ProviderGitHub, "555")
	require.NoError(t, err)
	assert.Equal(t, got.ID, acc.UserID)
}

func TestUserService_UpsertGitHubUserWithoutEmail(t *testing.T) {
	f := newFixture(t, defaultOpts())

	first, err := f.user.UpsertGitHubUser(f.ctx, pkg.GitHubProfile{ID: 99, Login: "private"})
	require.NoError(t, err)
	assert.Equal(t, "github-99", first.Email)

	second, err := f.user.UpsertGitHubUser(f.ctx, pkg.GitHubProfile{ID: 99, Login: "private"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = f.user.UpsertGitHubUser(f.ctx, pkg.GitHubProfile{Login: "noid"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}
