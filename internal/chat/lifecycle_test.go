package chat

import (
	"context"
	"testing"

	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConversationLookup struct {
	conversations map[string]*model.Conversation
}

func (f *fakeConversationLookup) GetConversation(_ context.Context, id string) (*model.Conversation, error) {
	return f.conversations[id], nil
}

func newTestLifecycle(convs ...*model.Conversation) *Lifecycle {
	lookup := &fakeConversationLookup{conversations: make(map[string]*model.Conversation)}
	for _, c := range convs {
		lookup.conversations[c.ConversationID] = c
	}
	return NewLifecycle(lookup, zap.NewNop())
}

func privateConversation(id string, participants ...string) *model.Conversation {
	return &model.Conversation{
		ConversationID: id,
		Type:           model.ConversationTypePrivate,
		Participants:   participants,
	}
}

func TestLifecycle_Create(t *testing.T) {
	lc := newTestLifecycle(privateConversation("c1", "u1", "u2"))

	t.Run("happy path", func(t *testing.T) {
		msg, err := lc.Create(context.Background(), "c1", "u1", "User One", "hi", "", nil)
		require.NoError(t, err)
		assert.NotEmpty(t, msg.MessageID)
		assert.Equal(t, model.StatusSent, msg.Status)
		assert.Equal(t, model.MessageTypeText, msg.Type)
		assert.Equal(t, "u1", msg.SenderID)
		assert.False(t, msg.IsEdited)
		assert.False(t, msg.IsDeleted)
	})

	t.Run("unknown conversation", func(t *testing.T) {
		_, err := lc.Create(context.Background(), "nope", "u1", "", "hi", "", nil)
		assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
	})

	t.Run("sender not a participant", func(t *testing.T) {
		_, err := lc.Create(context.Background(), "c1", "u3", "", "hi", "", nil)
		assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := lc.Create(context.Background(), "c1", "u1", "", "", "", nil)
		assert.Equal(t, apperrors.CodeValidationError, apperrors.CodeOf(err))
	})

	t.Run("file message requires url", func(t *testing.T) {
		_, err := lc.Create(context.Background(), "c1", "u1", "", "", model.MessageTypeImage, nil)
		assert.Equal(t, apperrors.CodeValidationError, apperrors.CodeOf(err))

		url := "https://blobs.example.com/pic.png"
		msg, err := lc.Create(context.Background(), "c1", "u1", "", "", model.MessageTypeImage, &url)
		require.NoError(t, err)
		assert.Equal(t, model.MessageTypeImage, msg.Type)
		require.NotNil(t, msg.FileURL)
		assert.Equal(t, url, *msg.FileURL)
	})
}

func TestLifecycle_StatusMonotonic(t *testing.T) {
	lc := newTestLifecycle(privateConversation("c1", "u1", "u2"))
	msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
	require.NoError(t, err)

	changed, err := lc.MarkDelivered(msg, "u2")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.StatusDelivered, msg.Status)

	// delivered again is a no-op
	changed, err = lc.MarkDelivered(msg, "u2")
	require.NoError(t, err)
	assert.False(t, changed)

	changed, err = lc.MarkRead(msg, "u2")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.StatusRead, msg.Status)

	// status never regresses
	changed, err = lc.MarkDelivered(msg, "u2")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.StatusRead, msg.Status)

	changed, err = lc.MarkRead(msg, "u2")
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, model.StatusRead, msg.Status)
}

func TestLifecycle_ReadSkipsDelivered(t *testing.T) {
	lc := newTestLifecycle(privateConversation("c1", "u1", "u2"))
	msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
	require.NoError(t, err)

	changed, err := lc.MarkRead(msg, "u2")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, model.StatusRead, msg.Status)
	assert.NotNil(t, msg.ReadAt)
}

func TestLifecycle_SelfReceiptsRejected(t *testing.T) {
	lc := newTestLifecycle(privateConversation("c1", "u1", "u2"))
	msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
	require.NoError(t, err)

	_, err = lc.MarkRead(msg, "u1")
	assert.Equal(t, apperrors.CodeInvalidActor, apperrors.CodeOf(err))
	assert.Equal(t, model.StatusSent, msg.Status)

	_, err = lc.MarkDelivered(msg, "u1")
	assert.Equal(t, apperrors.CodeInvalidActor, apperrors.CodeOf(err))
	assert.Equal(t, model.StatusSent, msg.Status)
}

func TestLifecycle_Edit(t *testing.T) {
	lc := newTestLifecycle(privateConversation("c1", "u1", "u2"))

	t.Run("sender can edit", func(t *testing.T) {
		msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
		require.NoError(t, err)

		require.NoError(t, lc.Edit(msg, "u1", "hello"))
		assert.Equal(t, "hello", msg.Text)
		assert.True(t, msg.IsEdited)
		assert.NotNil(t, msg.EditedAt)
	})

	t.Run("other participants cannot edit", func(t *testing.T) {
		msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
		require.NoError(t, err)

		err = lc.Edit(msg, "u2", "hijacked")
		assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))
		assert.Equal(t, "hi", msg.Text)
		assert.False(t, msg.IsEdited)
	})

	t.Run("edit allowed in any delivery status", func(t *testing.T) {
		msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
		require.NoError(t, err)
		_, err = lc.MarkRead(msg, "u2")
		require.NoError(t, err)

		require.NoError(t, lc.Edit(msg, "u1", "still editable"))
		assert.Equal(t, model.StatusRead, msg.Status)
	})
}

func TestLifecycle_SoftDelete(t *testing.T) {
	lc := newTestLifecycle(privateConversation("c1", "u1", "u2"))

	t.Run("idempotent", func(t *testing.T) {
		msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
		require.NoError(t, err)
		_, err = lc.MarkDelivered(msg, "u2")
		require.NoError(t, err)

		changed, err := lc.SoftDelete(msg, "u1")
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, msg.IsDeleted)
		assert.Equal(t, model.DeletedMessageText, msg.Text)
		// delivery status untouched
		assert.Equal(t, model.StatusDelivered, msg.Status)

		firstDeletedAt := msg.DeletedAt
		changed, err = lc.SoftDelete(msg, "u1")
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, firstDeletedAt, msg.DeletedAt)
	})

	t.Run("only sender can delete", func(t *testing.T) {
		msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
		require.NoError(t, err)

		_, err = lc.SoftDelete(msg, "u2")
		assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))
		assert.False(t, msg.IsDeleted)
	})

	t.Run("edit after delete is rejected", func(t *testing.T) {
		msg, err := lc.Create(context.Background(), "c1", "u1", "", "hi", "", nil)
		require.NoError(t, err)
		_, err = lc.SoftDelete(msg, "u1")
		require.NoError(t, err)

		err = lc.Edit(msg, "u1", "new text")
		assert.Equal(t, apperrors.CodeValidationError, apperrors.CodeOf(err))
		assert.Equal(t, model.DeletedMessageText, msg.Text)
		assert.False(t, msg.IsEdited)
	})
}
