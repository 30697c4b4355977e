// Package ws adapts gorilla/websocket connections to the core: the write
// half becomes an actor-owned handle, the read half feeds the dispatch
// service.
package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsConn is the write-capable handle handed to the sender loop. The sender
// loop is its sole writer; the read pump only ever reads.
type wsConn struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
	once         sync.Once
}

func newWSConn(conn *websocket.Conn, writeTimeout time.Duration) *wsConn {
	return &wsConn{conn: conn, writeTimeout: writeTimeout}
}

func (c *wsConn) WriteText(data []byte) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	var err error
	c.once.Do(func() { err = c.conn.Close() })
	return err
}
