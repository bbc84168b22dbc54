package service

import (
	"testing"

	"Octo_Social/internal/model"
	"Octo_Social/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice")

	p, err := f.post.CreatePost(f.ctx, f.id("alice"), "  hello world  ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", p.Content)
	assert.Equal(t, "alice", p.Author.Username)
	assert.NotEmpty(t, p.ID)

	events := f.db.Outbox().Events()
	require.Len(t, events, 1)
	assert.Equal(t, model.EventPostCreated, events[0].EventType)
	assert.Equal(t, p.ID, events[0].SubjectID)
}

func TestPostService_CreatePostValidation(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice")

	_, err := f.post.CreatePost(f.ctx, f.id("alice"), "   ")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.post.CreatePost(f.ctx, "", "hello")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))
}

func TestPostService_AddCommentNeedsContentOrMedia(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")
	p := f.mustPost(t, "alice", "post")

	_, err := f.post.AddComment(f.ctx, f.id("bob"), AddCommentInput{PostID: p.ID})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	img, err := f.post.AddComment(f.ctx, f.id("bob"), AddCommentInput{PostID: p.ID, ImageURL: "https://cdn/img.png"})
	require.NoError(t, err)
	assert.Empty(t, img.Content)
	assert.Equal(t, "https://cdn/img.png", img.ImageURL)
	assert.Equal(t, "bob", img.Author.Username)

	voice, err := f.post.AddComment(f.ctx, f.id("bob"), AddCommentInput{PostID: p.ID, VoiceURL: "https://cdn/v.webm"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/v.webm", voice.VoiceURL)

	list, err := f.post.ListComments(f.ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, img.ID, list[0].ID)
	assert.Equal(t, voice.ID, list[1].ID)
}

func TestPostService_AddCommentErrors(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice")

	_, err := f.post.AddComment(f.ctx, f.id("alice"), AddCommentInput{Content: "hi"})
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.post.AddComment(f.ctx, f.id("alice"), AddCommentInput{PostID: "missing", Content: "hi"})
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = f.post.ListComments(f.ctx, "")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))
}
