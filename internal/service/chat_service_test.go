package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/Rishu1724/TextMeIfYouCan/internal/chat"
	"github.com/Rishu1724/TextMeIfYouCan/internal/db"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// In-memory repository fakes. They apply the same $set document the
// mongo-backed implementations would, so persistence assertions read
// the stored copy back rather than trusting the in-flight struct.

type memMessages struct {
	mu   sync.Mutex
	byID map[string]model.Message
}

func newMemMessages() *memMessages {
	return &memMessages{byID: make(map[string]model.Message)}
}

func (m *memMessages) InsertMessage(_ context.Context, msg *model.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[msg.MessageID] = *msg
	return nil
}

func (m *memMessages) GetMessage(_ context.Context, messageID string) (*model.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.byID[messageID]
	if !ok {
		return nil, nil
	}
	out := msg
	return &out, nil
}

func (m *memMessages) UpdateMessage(_ context.Context, messageID string, set bson.M) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.byID[messageID]
	if !ok {
		return nil
	}
	for k, v := range set {
		switch k {
		case "text":
			msg.Text = v.(string)
		case "status":
			msg.Status = v.(model.MessageStatus)
		case "is_edited":
			msg.IsEdited = v.(bool)
		case "edited_at":
			msg.EditedAt = v.(*time.Time)
		case "is_deleted":
			msg.IsDeleted = v.(bool)
		case "deleted_at":
			msg.DeletedAt = v.(*time.Time)
		case "read_at":
			msg.ReadAt = v.(*time.Time)
		}
	}
	m.byID[messageID] = msg
	return nil
}

func (m *memMessages) ListMessages(_ context.Context, conversationID string, page int64) (*db.PaginatedResult[model.Message], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var msgs []model.Message
	for _, msg := range m.byID {
		if msg.ConversationID == conversationID {
			msgs = append(msgs, msg)
		}
	}
	sort.Slice(msgs, func(i, j int) bool { return msgs[i].Timestamp.Before(msgs[j].Timestamp) })
	return &db.PaginatedResult[model.Message]{
		Data:       msgs,
		Total:      int64(len(msgs)),
		Page:       page,
		PageSize:   int64(len(msgs)),
		TotalPages: 1,
	}, nil
}

type memConversations struct {
	mu   sync.Mutex
	byID map[string]model.Conversation
}

func newMemConversations(convs ...model.Conversation) *memConversations {
	m := &memConversations{byID: make(map[string]model.Conversation)}
	for _, c := range convs {
		m.byID[c.ConversationID] = c
	}
	return m
}

func (m *memConversations) InsertConversation(_ context.Context, conv *model.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[conv.ConversationID] = *conv
	return nil
}

func (m *memConversations) GetConversation(_ context.Context, conversationID string) (*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.byID[conversationID]
	if !ok {
		return nil, nil
	}
	out := conv
	return &out, nil
}

func (m *memConversations) ListForUser(_ context.Context, uid string) ([]model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Conversation
	for _, conv := range m.byID {
		if conv.HasParticipant(uid) {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (m *memConversations) FindPrivateBetween(_ context.Context, a, b string) (*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, conv := range m.byID {
		if conv.Type == model.ConversationTypePrivate && conv.HasParticipant(a) && conv.HasParticipant(b) {
			out := conv
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memConversations) UpdateSummary(_ context.Context, conversationID, text string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.byID[conversationID]
	if !ok {
		return nil
	}
	conv.LastMessage = text
	conv.LastMessageTime = at
	m.byID[conversationID] = conv
	return nil
}

func (m *memConversations) DeleteConversation(_ context.Context, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, conversationID)
	return nil
}

func (m *memConversations) CoParticipants(_ context.Context, userID string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	peers := make(map[string]struct{})
	for _, conv := range m.byID {
		if !conv.HasParticipant(userID) {
			continue
		}
		for _, p := range conv.Participants {
			if p != userID {
				peers[p] = struct{}{}
			}
		}
	}
	return peers, nil
}

type memUsers struct {
	byID map[string]model.User
}

func newMemUsers(users ...model.User) *memUsers {
	m := &memUsers{byID: make(map[string]model.User)}
	for _, u := range users {
		m.byID[u.UID] = u
	}
	return m
}

func (m *memUsers) InsertUser(_ context.Context, user *model.User) error {
	m.byID[user.UID] = *user
	return nil
}

func (m *memUsers) GetUser(_ context.Context, uid string) (*model.User, error) {
	u, ok := m.byID[uid]
	if !ok {
		return nil, nil
	}
	out := u
	return &out, nil
}

func (m *memUsers) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			out := u
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memUsers) GetAllUsers(_ context.Context) ([]model.User, error) {
	out := make([]model.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) SearchByUsernamePrefix(_ context.Context, prefix string) ([]model.User, error) {
	var out []model.User
	for _, u := range m.byID {
		if len(u.Username) >= len(prefix) && u.Username[:len(prefix)] == prefix {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *memUsers) UpdateUser(_ context.Context, uid string, set bson.M) error {
	u, ok := m.byID[uid]
	if !ok {
		return nil
	}
	for k, v := range set {
		switch k {
		case "display_name":
			u.DisplayName = v.(string)
		case "avatar_url":
			u.AvatarURL = v.(string)
		case "status":
			u.Status = v.(string)
		case "is_online":
			u.IsOnline = v.(bool)
		case "last_seen":
			u.LastSeen = v.(time.Time)
		}
	}
	m.byID[uid] = u
	return nil
}

func (m *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	u, _ := m.GetUserByEmail(context.Background(), email)
	return u != nil, nil
}

func (m *memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type chatFixture struct {
	svc           ChatService
	messages      *memMessages
	conversations *memConversations
	summary       *chat.SummaryTracker
}

func newChatFixture(convs ...model.Conversation) *chatFixture {
	logger := zap.NewNop()
	conversations := newMemConversations(convs...)
	messages := newMemMessages()
	users := newMemUsers(
		model.User{UID: "u1", Username: "alice", DisplayName: "Alice"},
		model.User{UID: "u2", Username: "bob"},
	)
	summary := chat.NewSummaryTracker()
	lifecycle := chat.NewLifecycle(conversations, logger)
	return &chatFixture{
		svc:           NewChatService(lifecycle, summary, messages, conversations, users, logger),
		messages:      messages,
		conversations: conversations,
		summary:       summary,
	}
}

func testConversation() model.Conversation {
	return model.Conversation{
		ConversationID: "c1",
		Type:           model.ConversationTypePrivate,
		Participants:   []string{"u1", "u2"},
	}
}

func TestChatService_SendMessage(t *testing.T) {
	f := newChatFixture(testConversation())

	msg, err := f.svc.SendMessage(context.Background(), "u1", SendMessageRequest{
		ConversationID: "c1",
		Text:           "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", msg.SenderName)

	stored, err := f.messages.GetMessage(context.Background(), msg.MessageID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, model.StatusSent, stored.Status)

	// summary refreshed in the tracker and the store mirror
	s, ok := f.summary.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "hello", s.LastMessage)

	conv, err := f.conversations.GetConversation(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "hello", conv.LastMessage)
	assert.Equal(t, msg.Timestamp, conv.LastMessageTime)
}

func TestChatService_SendMessageRejectsOutsider(t *testing.T) {
	f := newChatFixture(testConversation())

	_, err := f.svc.SendMessage(context.Background(), "u3", SendMessageRequest{
		ConversationID: "c1",
		Text:           "sneaky",
	})
	assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))

	_, ok := f.summary.Get("c1")
	assert.False(t, ok)
}

func TestChatService_ReadReceiptPersisted(t *testing.T) {
	f := newChatFixture(testConversation())
	msg, err := f.svc.SendMessage(context.Background(), "u1", SendMessageRequest{ConversationID: "c1", Text: "hi"})
	require.NoError(t, err)

	updated, err := f.svc.MarkMessageRead(context.Background(), "u2", msg.MessageID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRead, updated.Status)

	stored, err := f.messages.GetMessage(context.Background(), msg.MessageID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRead, stored.Status)
	assert.NotNil(t, stored.ReadAt)

	// repeating the receipt is a no-op, not an error
	again, err := f.svc.MarkMessageRead(context.Background(), "u2", msg.MessageID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRead, again.Status)
}

func TestChatService_DeliveredDoesNotRegressRead(t *testing.T) {
	f := newChatFixture(testConversation())
	msg, err := f.svc.SendMessage(context.Background(), "u1", SendMessageRequest{ConversationID: "c1", Text: "hi"})
	require.NoError(t, err)

	_, err = f.svc.MarkMessageRead(context.Background(), "u2", msg.MessageID)
	require.NoError(t, err)
	_, err = f.svc.MarkMessageDelivered(context.Background(), "u2", msg.MessageID)
	require.NoError(t, err)

	stored, err := f.messages.GetMessage(context.Background(), msg.MessageID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRead, stored.Status)
}

func TestChatService_SelfReceiptRejected(t *testing.T) {
	f := newChatFixture(testConversation())
	msg, err := f.svc.SendMessage(context.Background(), "u1", SendMessageRequest{ConversationID: "c1", Text: "hi"})
	require.NoError(t, err)

	_, err = f.svc.MarkMessageRead(context.Background(), "u1", msg.MessageID)
	assert.Equal(t, apperrors.CodeInvalidActor, apperrors.CodeOf(err))
}

func TestChatService_EditMessage(t *testing.T) {
	f := newChatFixture(testConversation())
	msg, err := f.svc.SendMessage(context.Background(), "u1", SendMessageRequest{ConversationID: "c1", Text: "hi"})
	require.NoError(t, err)

	_, err = f.svc.EditMessage(context.Background(), "u2", msg.MessageID, "hijacked")
	assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))

	updated, err := f.svc.EditMessage(context.Background(), "u1", msg.MessageID, "hello")
	require.NoError(t, err)
	assert.True(t, updated.IsEdited)

	stored, err := f.messages.GetMessage(context.Background(), msg.MessageID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Text)
	assert.True(t, stored.IsEdited)
	assert.NotNil(t, stored.EditedAt)
}

func TestChatService_DeleteMessage(t *testing.T) {
	f := newChatFixture(testConversation())
	msg, err := f.svc.SendMessage(context.Background(), "u1", SendMessageRequest{ConversationID: "c1", Text: "hi"})
	require.NoError(t, err)

	deleted, err := f.svc.DeleteMessage(context.Background(), "u1", msg.MessageID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	stored, err := f.messages.GetMessage(context.Background(), msg.MessageID)
	require.NoError(t, err)
	assert.True(t, stored.IsDeleted)
	assert.Equal(t, model.DeletedMessageText, stored.Text)

	// deleting again stays settled
	again, err := f.svc.DeleteMessage(context.Background(), "u1", msg.MessageID)
	require.NoError(t, err)
	assert.True(t, again.IsDeleted)

	// and the tombstone cannot be edited
	_, err = f.svc.EditMessage(context.Background(), "u1", msg.MessageID, "resurrect")
	assert.Equal(t, apperrors.CodeValidationError, apperrors.CodeOf(err))
}

func TestChatService_MessageNotFound(t *testing.T) {
	f := newChatFixture(testConversation())

	_, err := f.svc.MarkMessageRead(context.Background(), "u2", "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestChatService_GetMessagesRequiresParticipant(t *testing.T) {
	f := newChatFixture(testConversation())
	_, err := f.svc.SendMessage(context.Background(), "u1", SendMessageRequest{ConversationID: "c1", Text: "hi"})
	require.NoError(t, err)

	res, err := f.svc.GetMessages(context.Background(), "u2", "c1", 1)
	require.NoError(t, err)
	assert.Len(t, res.Data, 1)

	_, err = f.svc.GetMessages(context.Background(), "u3", "c1", 1)
	assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))

	_, err = f.svc.GetMessages(context.Background(), "u1", "missing", 1)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestChatService_CreateConversation(t *testing.T) {
	f := newChatFixture()

	conv, existed, err := f.svc.CreateConversation(context.Background(), "u1", []string{"u1", "u2"}, "")
	require.NoError(t, err)
	assert.False(t, existed)
	assert.NotEmpty(t, conv.ConversationID)
	assert.Equal(t, model.ConversationTypePrivate, conv.Type)
	assert.Equal(t, "Alice", conv.ParticipantDetails["u1"].Name)
	assert.Equal(t, "bob", conv.ParticipantDetails["u2"].Name)

	// same pair resolves to the existing conversation
	dup, existed, err := f.svc.CreateConversation(context.Background(), "u2", []string{"u2", "u1"}, "")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, conv.ConversationID, dup.ConversationID)
}

func TestChatService_CreateConversationValidation(t *testing.T) {
	f := newChatFixture()

	_, _, err := f.svc.CreateConversation(context.Background(), "u1", []string{"u2", "u3"}, "")
	assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))

	_, _, err = f.svc.CreateConversation(context.Background(), "u1", []string{"u1", "u2", "u3"}, "")
	assert.Equal(t, apperrors.CodeValidationError, apperrors.CodeOf(err))

	_, _, err = f.svc.CreateConversation(context.Background(), "u1", []string{"u1", "u2"}, "group")
	assert.Equal(t, apperrors.CodeValidationError, apperrors.CodeOf(err))
}

func TestChatService_DeleteConversation(t *testing.T) {
	f := newChatFixture(testConversation())

	err := f.svc.DeleteConversation(context.Background(), "u3", "c1")
	assert.Equal(t, apperrors.CodeAccessDenied, apperrors.CodeOf(err))

	require.NoError(t, f.svc.DeleteConversation(context.Background(), "u1", "c1"))
	conv, err := f.conversations.GetConversation(context.Background(), "c1")
	require.NoError(t, err)
	assert.Nil(t, conv)
}
