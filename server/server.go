// Package server accepts byte-stream connections and runs one session
// state machine per connection against the shared registry, log and
// dispatcher.
package server

import (
	"context"
	goerrors "errors"
	"log/slog"
	"net"
	"sync"

	"campus-chat/observability"
	"campus-chat/services"
)

type Server struct {
	auth    services.IAuthService
	chat    services.IChatService
	monitor *observability.Monitor
	log     *slog.Logger

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func NewServer(log *slog.Logger, auth services.IAuthService,
	chat services.IChatService, monitor *observability.Monitor) *Server {
	return &Server{
		auth:    auth,
		chat:    chat,
		monitor: monitor,
		log:     log,
		conns:   make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections until ctx is canceled, spawning one worker
// goroutine per connection. On shutdown it closes the listener and all
// live connections, then waits for every session to tear down.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		_ = listener.Close()
		s.closeAll()
	}()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || goerrors.Is(err, net.ErrClosed) {
				s.wg.Wait()
				s.log.Info("server stopped")
				return nil
			}
			s.log.Error("accept failed", "err", err)
			continue
		}

		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			// A panicking session must not take the server down with it.
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("session panicked", "panic", r)
					_ = conn.Close()
				}
			}()

			session := NewSession(s.log, conn, s.auth, s.chat, s.monitor)
			if err := session.Run(); err != nil {
				s.log.Debug("session ended with error", "err", err)
			}
		}()
	}
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// closeAll unblocks every session stuck in a read so shutdown cannot
// hang on an idle client.
func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}
