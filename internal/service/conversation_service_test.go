package service

import (
	"sync"
	"testing"

	"Octo_Social/internal/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationService_GetOrCreateIsStable(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")

	first, err := f.conv.GetOrCreate(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	again, err := f.conv.GetOrCreate(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	reversed, err := f.conv.GetOrCreate(f.ctx, f.id("bob"), f.id("alice"))
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, first.ID, reversed.ID)
	assert.Len(t, first.Participants, 2)
	assert.True(t, reversed.HasParticipant(f.id("alice")))
	assert.True(t, reversed.HasParticipant(f.id("bob")))
}

func TestConversationService_ConcurrentGetOrCreate(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")

	const n = 32
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, b := f.id("alice"), f.id("bob")
			if i%2 == 1 {
				a, b = b, a
			}
			conv, err := f.conv.GetOrCreate(f.ctx, a, b)
			if assert.NoError(t, err) {
				ids[i] = conv.ID
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	list, err := f.conv.ListConversations(f.ctx, f.id("alice"))
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestConversationService_MessageShowsInRecipientInbox(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob")

	conv, err := f.conv.GetOrCreate(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	msg, err := f.conv.SendMessage(f.ctx, f.id("alice"), conv.ID, "hi")
	require.NoError(t, err)
	assert.Equal(t, "alice", msg.Sender.Username)

	inbox, err := f.conv.ListConversations(f.ctx, f.id("bob"))
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	require.Len(t, inbox[0].Messages, 1)
	assert.Equal(t, "hi", inbox[0].Messages[0].Content)
	assert.Equal(t, msg.CreatedAt, inbox[0].UpdatedAt)
}

func TestConversationService_InboxOrderAndLatestMessage(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob", "carol")

	withBob, err := f.conv.GetOrCreate(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)
	withCarol, err := f.conv.GetOrCreate(f.ctx, f.id("alice"), f.id("carol"))
	require.NoError(t, err)

	_, err = f.conv.SendMessage(f.ctx, f.id("alice"), withCarol.ID, "hey carol")
	require.NoError(t, err)
	_, err = f.conv.SendMessage(f.ctx, f.id("alice"), withBob.ID, "first")
	require.NoError(t, err)
	_, err = f.conv.SendMessage(f.ctx, f.id("bob"), withBob.ID, "second")
	require.NoError(t, err)

	inbox, err := f.conv.ListConversations(f.ctx, f.id("alice"))
	require.NoError(t, err)
	require.Len(t, inbox, 2)
	assert.Equal(t, withBob.ID, inbox[0].ID)
	assert.Equal(t, "second", inbox[0].Messages[0].Content)
	assert.Equal(t, withCarol.ID, inbox[1].ID)

	msgs, err := f.conv.ListMessages(f.ctx, f.id("bob"), withBob.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "first", msgs[0].Content)
	assert.Equal(t, "second", msgs[1].Content)
}

func TestConversationService_MembershipRequired(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice", "bob", "mallory")
	conv, err := f.conv.GetOrCreate(f.ctx, f.id("alice"), f.id("bob"))
	require.NoError(t, err)

	_, err = f.conv.SendMessage(f.ctx, f.id("mallory"), conv.ID, "let me in")
	assert.True(t, apperr.Is(err, apperr.CodePermissionDenied))

	_, err = f.conv.ListMessages(f.ctx, f.id("mallory"), conv.ID)
	assert.True(t, apperr.Is(err, apperr.CodePermissionDenied))
}

func TestConversationService_Errors(t *testing.T) {
	f := newFixture(t, defaultOpts(), "alice")

	_, err := f.conv.GetOrCreate(f.ctx, f.id("alice"), "")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.conv.GetOrCreate(f.ctx, f.id("alice"), f.id("alice"))
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.conv.GetOrCreate(f.ctx, f.id("alice"), "ghost")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = f.conv.GetOrCreate(f.ctx, "", f.id("alice"))
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))

	_, err = f.conv.SendMessage(f.ctx, f.id("alice"), "missing", "hi")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = f.conv.SendMessage(f.ctx, f.id("alice"), "missing", "   ")
	assert.True(t, apperr.Is(err, apperr.CodeInvalidArgument))

	_, err = f.conv.ListConversations(f.ctx, "")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthenticated))
}
