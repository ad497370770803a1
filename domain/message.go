// Package domain contains core concepts of the chat system.
// This file defines Message events and related rules.
// Messages are immutable and validated by the domain.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents an immutable chat event. Seq is the insertion
// position assigned by the message log. The sender is recorded by
// email and display name rather than by a live Account reference, so
// a message stays valid no matter what happens to the sender later.
type Message struct {
	ID          uuid.UUID // unique identifier
	Seq         int
	SenderEmail string
	SenderName  string
	Group       string
	Content     string
	CreatedAt   time.Time
}
