//go:generate go run go.uber.org/mock/mockgen -source=dispatcher.go -destination=../mocks/mock_dispatcher.go -package=mocks
// Package broadcast fans a posted message out to the online members of
// its destination group.
package broadcast

import (
	"log/slog"

	"campus-chat/observability"
	"campus-chat/repositories"
)

type IDispatcher interface {
	Broadcast(group, senderEmail, senderName, body string)
}

type Dispatcher struct {
	users   repositories.IUserRepository
	monitor *observability.Monitor
	log     *slog.Logger
}

func NewDispatcher(log *slog.Logger, users repositories.IUserRepository, monitor *observability.Monitor) *Dispatcher {
	return &Dispatcher{users: users, monitor: monitor, log: log}
}

// Broadcast delivers a PRINT_MESSAGE record to every online member of
// the group except the sender, who is answered with an ACK by its own
// session instead. Delivery is at-most-once and best effort: a failed
// recipient is counted, logged and skipped, and never aborts delivery
// to the rest. No acknowledgment is awaited from recipients.
func (d *Dispatcher) Broadcast(group, senderEmail, senderName, body string) {
	recipients := d.users.OnlineGroupMembers(group)
	for _, recipient := range recipients {
		if recipient.Email == senderEmail {
			continue
		}
		if err := recipient.Conn.SendPrintMessage(senderName, body); err != nil {
			d.monitor.DeliveryFailed()
			d.log.Warn("skipping undeliverable recipient",
				"group", group, "recipient", recipient.Email, "err", err)
			continue
		}
		d.monitor.Delivered()
	}
}
