package server

import (
	goerrors "errors"
	"log/slog"
	"net"

	"campus-chat/domain"
	"campus-chat/errors"
	"campus-chat/observability"
	"campus-chat/protocol"
	"campus-chat/services"
)

type sessionState int

const (
	stateUnauthenticated sessionState = iota
	stateAuthenticated
	stateClosed
)

// Session is the per-connection state machine. It decodes one request
// at a time, dispatches it against the shared services according to the
// current state, and answers on its own connection. The only blocking
// point is the read of the next request.
//
// The session owns nothing shared: registry and log are injected and
// outlive every session, so a session can be dropped at any time
// without touching shared structures.
type Session struct {
	conn    *clientConn
	state   sessionState
	account *domain.Account
	auth    services.IAuthService
	chat    services.IChatService
	monitor *observability.Monitor
	log     *slog.Logger
}

func NewSession(log *slog.Logger, conn net.Conn, auth services.IAuthService,
	chat services.IChatService, monitor *observability.Monitor) *Session {
	return &Session{
		conn:    newClientConn(conn),
		state:   stateUnauthenticated,
		auth:    auth,
		chat:    chat,
		monitor: monitor,
		log:     log,
	}
}

// Run drives the session until the client exits or the connection
// drops. It always returns nil for protocol-level failures; those are
// answered on the wire and never terminate the worker.
func (s *Session) Run() error {
	s.monitor.SessionOpened()
	defer s.teardown()

	for s.state != stateClosed {
		req, err := protocol.ReadRequest(s.conn.conn)
		if err != nil {
			if goerrors.Is(err, errors.ErrMalformedRequest) {
				s.sendError(err.Error())
				continue
			}
			// EOF or transport failure: the client is gone.
			s.log.Debug("connection closed", "err", err)
			s.state = stateClosed
			break
		}

		switch s.state {
		case stateUnauthenticated:
			s.dispatchUnauthenticated(req)
		case stateAuthenticated:
			s.dispatchAuthenticated(req)
		}
	}
	return nil
}

func (s *Session) dispatchUnauthenticated(req protocol.Request) {
	switch req.Type {
	case protocol.TypeRegister:
		s.handleRegister(req.Payload)
	case protocol.TypeLogin:
		s.handleLogin(req.Payload)
	case protocol.TypeExit:
		s.state = stateClosed
	default:
		// Pre-authentication guard: anything else is dropped without
		// a reply and without a state change.
		s.log.Debug("ignoring request before authentication", "type", req.Type)
	}
}

func (s *Session) dispatchAuthenticated(req protocol.Request) {
	switch req.Type {
	case protocol.TypeMessage:
		s.handleMessage(req.Payload)
	case protocol.TypeJoinGroup:
		s.handleJoinGroup(req.Payload)
	case protocol.TypeRequestAllMessages:
		s.handleRequestAllMessages()
	case protocol.TypeExit:
		s.state = stateClosed
	case protocol.TypeRegister, protocol.TypeLogin:
		s.sendError("You are already authenticated.")
	}
}

func (s *Session) handleRegister(payload string) {
	email, name, password, err := protocol.ParseRegister(payload)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	account, err := s.auth.Register(email, name, password, s.conn)
	switch {
	case goerrors.Is(err, errors.ErrDuplicateEmail):
		s.sendError("Email already exists. Please try again.")
	case goerrors.Is(err, errors.ErrInvalidRegistration):
		s.sendError(err.Error())
	case err != nil:
		s.sendError("Error creating user. Please try again.")
	default:
		s.account = account
		s.state = stateAuthenticated
		s.log.Info("client registered", "email", email, "name", name)
		s.sendAck()
	}
}

func (s *Session) handleLogin(payload string) {
	email, password, err := protocol.ParseLogin(payload)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	account, err := s.auth.Login(email, password, s.conn)
	switch {
	case goerrors.Is(err, errors.ErrUnknownEmail):
		s.sendError("Email does not exist. Please try again.")
	case goerrors.Is(err, errors.ErrBadPassword):
		s.sendError("Incorrect password. Please try again.")
	case err != nil:
		s.sendError("Error logging in. Please try again.")
	default:
		s.account = account
		s.state = stateAuthenticated
		s.log.Info("client logged in", "email", email)
		s.sendAck()
	}
}

func (s *Session) handleMessage(payload string) {
	group, body, err := protocol.ParseMessage(payload)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	if _, err := s.chat.PostMessage(s.account, group, body); err != nil {
		if goerrors.Is(err, errors.ErrNotGroupMember) {
			s.sendError("You are not in this group.")
			return
		}
		s.sendError("Error posting message. Please try again.")
		return
	}
	s.sendAck()
}

func (s *Session) handleJoinGroup(payload string) {
	group, err := protocol.ParseJoinGroup(payload)
	if err != nil {
		s.sendError(err.Error())
		return
	}

	if err := s.chat.JoinGroup(s.account, group); err != nil {
		if goerrors.Is(err, errors.ErrAlreadyGroupMember) {
			s.sendError("You are already in this group.")
			return
		}
		s.sendError("Error joining group. Please try again.")
		return
	}
	s.log.Info("client joined group", "email", s.account.Email, "group", group)
	s.sendAck()
}

// handleRequestAllMessages streams the whole log in post order, then
// the sentinel record, then a final ACK.
func (s *Session) handleRequestAllMessages() {
	for _, message := range s.chat.History() {
		err := s.conn.send(protocol.Response{
			Type: protocol.TypePrintMessage,
			Name: message.SenderName,
			Body: message.Content,
		})
		if err != nil {
			s.log.Debug("history stream aborted", "err", err)
			s.state = stateClosed
			return
		}
	}

	if err := s.conn.send(protocol.Response{Type: protocol.TypePrintMessage, Body: protocol.EndOfMessages}); err != nil {
		s.state = stateClosed
		return
	}
	s.sendAck()
}

func (s *Session) sendAck() {
	if err := s.conn.send(protocol.Response{Type: protocol.TypeAck}); err != nil {
		s.log.Debug("failed to send ack", "err", err)
		s.state = stateClosed
	}
}

func (s *Session) sendError(diagnostic string) {
	err := s.conn.send(protocol.Response{
		Type: protocol.TypeError,
		Body: diagnostic,
	})
	if err != nil {
		s.log.Debug("failed to send error reply", "err", err)
		s.state = stateClosed
	}
}

// teardown marks the account offline, releases the connection and
// retires the worker. Nothing session-scoped survives past this point.
func (s *Session) teardown() {
	if s.account != nil {
		s.auth.Logout(s.account.Email)
		s.log.Info("client disconnected", "email", s.account.Email)
	}
	_ = s.conn.Close()
	s.monitor.SessionClosed()
}
