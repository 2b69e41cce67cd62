// network/connection.go
package network

import (
	"encoding/json"
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Connection is a full-duplex text-message transport to one participant.
type Connection interface {
	Send(env *Envelope) error
	ReadMessage() ([]byte, error)
	Close() error
	RemoteAddr() net.Addr
	SetHeartbeat(interval time.Duration)
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
	heartbeat time.Duration
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send marshals the envelope and writes it as one text frame. gorilla
// permits a single concurrent writer, hence the mutex.
func (c *WSConnection) Send(env *Envelope) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()

	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// ReadMessage returns the next raw text frame. Parsing the envelope is the
// router's job so that malformed input yields a protocol error instead of
// killing the connection.
func (c *WSConnection) ReadMessage() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	if c.heartbeat > 0 {
		c.conn.SetReadDeadline(time.Now().Add(c.heartbeat * 2))
	}
	return data, nil
}

func (c *WSConnection) SetHeartbeat(interval time.Duration) {
	c.heartbeat = interval
	c.conn.SetReadDeadline(time.Now().Add(interval * 2))
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
