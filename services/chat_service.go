//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"fmt"

	"campus-chat/broadcast"
	"campus-chat/domain"
	"campus-chat/errors"
	"campus-chat/moderation"
	"campus-chat/observability"
	"campus-chat/repositories"
)

type IChatService interface {
	PostMessage(account *domain.Account, group, body string) (domain.Message, error)
	JoinGroup(account *domain.Account, group string) error
	History() []domain.Message
}

type ChatService struct {
	users      repositories.IUserRepository
	messages   repositories.IMessageRepository
	dispatcher broadcast.IDispatcher
	moderator  *moderation.Moderator
	monitor    *observability.Monitor
}

func NewChatService(
	users repositories.IUserRepository,
	messages repositories.IMessageRepository,
	dispatcher broadcast.IDispatcher,
	moderator *moderation.Moderator,
	monitor *observability.Monitor,
) IChatService {
	return &ChatService{
		users:      users,
		messages:   messages,
		dispatcher: dispatcher,
		moderator:  moderator,
		monitor:    monitor,
	}
}

// PostMessage runs the full posting pipeline: membership check,
// moderation, append to the log, then synchronous fan-out. A sender
// outside the group is rejected before anything is stored.
func (s *ChatService) PostMessage(account *domain.Account, group, body string) (domain.Message, error) {
	if !s.users.IsMember(account.Email, group) {
		return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrNotGroupMember, group)
	}

	content := s.moderator.Censor(body)
	message := s.messages.StoreMessage(account.Email, account.Name, group, content)
	s.monitor.MessagePosted()
	s.dispatcher.Broadcast(group, account.Email, account.Name, content)
	return message, nil
}

func (s *ChatService) JoinGroup(account *domain.Account, group string) error {
	return s.users.JoinGroup(account.Email, group)
}

// History returns the whole message log in post order.
func (s *ChatService) History() []domain.Message {
	return s.messages.AllMessages()
}
