package services

import (
	"log/slog"
	"sync"
	"testing"

	"campus-chat/broadcast"
	"campus-chat/domain"
	"campus-chat/errors"
	"campus-chat/moderation"
	"campus-chat/observability"
	"campus-chat/repositories"

	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	mu    sync.Mutex
	calls []string
}

func (d *recordingDispatcher) Broadcast(group, senderEmail, senderName, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, group+"|"+senderName+"|"+body)
}

type chatFixture struct {
	chat       IChatService
	users      repositories.IUserRepository
	messages   repositories.IMessageRepository
	dispatcher *recordingDispatcher
}

func newChatFixture(t *testing.T, censoredWords []string) chatFixture {
	t.Helper()
	moderator, err := moderation.NewModerator(censoredWords, '*')
	require.NoError(t, err)

	users := repositories.NewUserRepository(slog.Default(), "CMPS")
	messages := repositories.NewMessageRepository(slog.Default())
	dispatcher := &recordingDispatcher{}
	chat := NewChatService(users, messages, dispatcher, moderator, observability.NewMonitor())
	return chatFixture{chat: chat, users: users, messages: messages, dispatcher: dispatcher}
}

func (f chatFixture) mustCreate(t *testing.T, email, name string) *domain.Account {
	t.Helper()
	account, err := f.users.CreateUser(email, name, "digest", fakeConn{})
	require.NoError(t, err)
	return account
}

func TestChatService_PostMessage(t *testing.T) {
	t.Run("should store and broadcast a message from a group member", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, nil)
		alice := f.mustCreate(t, "a@x.com", "Alice")

		message, err := f.chat.PostMessage(alice, "CMPS", "hello")
		req.NoError(err)
		req.Equal(0, message.Seq)
		req.Equal("hello", message.Content)
		req.Equal([]string{"CMPS|Alice|hello"}, f.dispatcher.calls)
	})

	t.Run("should reject a non-member without logging the message", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, nil)
		alice := f.mustCreate(t, "a@x.com", "Alice")

		_, err := f.chat.PostMessage(alice, "CMPS340", "hello")
		req.ErrorIs(err, errors.ErrNotGroupMember)
		req.Zero(f.messages.Count())
		req.Empty(f.dispatcher.calls)
	})

	t.Run("should censor configured words before storing and broadcasting", func(t *testing.T) {
		req := require.New(t)
		f := newChatFixture(t, []string{"exam"})
		alice := f.mustCreate(t, "a@x.com", "Alice")

		message, err := f.chat.PostMessage(alice, "CMPS", "the Exam answers")
		req.NoError(err)
		req.Equal("the **** answers", message.Content)
		req.Equal([]string{"CMPS|Alice|the **** answers"}, f.dispatcher.calls)
	})
}

func TestChatService_JoinGroup(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, nil)
	alice := f.mustCreate(t, "a@x.com", "Alice")

	req.NoError(f.chat.JoinGroup(alice, "CMPS340"))
	req.ErrorIs(f.chat.JoinGroup(alice, "CMPS340"), errors.ErrAlreadyGroupMember)

	_, err := f.chat.PostMessage(alice, "CMPS340", "made it")
	req.NoError(err)
}

func TestChatService_History(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, nil)
	alice := f.mustCreate(t, "a@x.com", "Alice")
	bob := f.mustCreate(t, "b@x.com", "Bob")

	_, err := f.chat.PostMessage(alice, "CMPS", "first")
	req.NoError(err)
	_, err = f.chat.PostMessage(bob, "CMPS", "second")
	req.NoError(err)

	history := f.chat.History()
	req.Len(history, 2)
	req.Equal("first", history[0].Content)
	req.Equal("Alice", history[0].SenderName)
	req.Equal("second", history[1].Content)
	req.Equal("Bob", history[1].SenderName)
}

var _ broadcast.IDispatcher = (*recordingDispatcher)(nil)
