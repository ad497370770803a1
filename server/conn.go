package server

import (
	"net"
	"sync"

	"campus-chat/protocol"
)

// clientConn wraps a network connection with a write lock so session
// replies and broadcast deliveries coming from other sessions never
// interleave half-written frames on the same stream.
type clientConn struct {
	mu   sync.Mutex
	conn net.Conn
}

func newClientConn(conn net.Conn) *clientConn {
	return &clientConn{conn: conn}
}

func (c *clientConn) send(resp protocol.Response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return protocol.WriteResponse(c.conn, resp)
}

// SendPrintMessage implements domain.ConnHandle; the broadcast
// dispatcher delivers through it.
func (c *clientConn) SendPrintMessage(senderName, body string) error {
	return c.send(protocol.Response{
		Type: protocol.TypePrintMessage,
		Name: senderName,
		Body: body,
	})
}

func (c *clientConn) Close() error {
	return c.conn.Close()
}
