// Package domain contains core concepts of the chat system.
// This file defines Account entities and related invariants.
// No runtime, network, or UI logic should be added here.
package domain

// ConnHandle is the delivery end of a client connection. The server
// owns the concrete implementation; the domain only needs a way to
// push a chat line to whoever sits behind the wire.
type ConnHandle interface {
	SendPrintMessage(senderName, body string) error
}

// Account is a registered user identity. Email is the unique key and
// never changes once the account exists. Groups is ordered by join
// time, with the default group first. Accounts live for the whole
// process lifetime; there is no delete.
//
// Online, Conn and Groups are guarded by the owning repository and
// must not be mutated outside of it.
type Account struct {
	Email        string
	Name         string
	PasswordHash string
	Groups       []string
	Online       bool
	Conn         ConnHandle
}
