//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"log/slog"
	"sync"
	"time"

	"campus-chat/domain"

	"github.com/google/uuid"
)

type IMessageRepository interface {
	StoreMessage(senderEmail, senderName, group, content string) domain.Message
	AllMessages() []domain.Message
	Count() int
}

// MessageRepository is the append-only, insertion-ordered log of every
// posted message. Append is O(1) under the lock; readers get a snapshot
// copy so a history stream never blocks appends for the duration of the
// stream and never observes a torn entry.
type MessageRepository struct {
	mu       sync.Mutex
	messages []domain.Message
	log      *slog.Logger
}

func NewMessageRepository(log *slog.Logger) *MessageRepository {
	return &MessageRepository{log: log}
}

// StoreMessage appends a message with the next sequence position.
// Given valid inputs it cannot fail.
func (m *MessageRepository) StoreMessage(senderEmail, senderName, group, content string) domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	message := domain.Message{
		ID:          uuid.New(),
		Seq:         len(m.messages),
		SenderEmail: senderEmail,
		SenderName:  senderName,
		Group:       group,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	m.messages = append(m.messages, message)
	m.log.Debug("message stored", "seq", message.Seq, "group", group, "sender", senderEmail)
	return message
}

// AllMessages returns the log in insertion order. The returned slice is
// a copy; appends racing with the call land either before or after the
// snapshot, never inside it.
func (m *MessageRepository) AllMessages() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := make([]domain.Message, len(m.messages))
	copy(snapshot, m.messages)
	return snapshot
}

func (m *MessageRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}
