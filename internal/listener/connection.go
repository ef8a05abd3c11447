package listener

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a silent peer stays connected; pings go out at
	// pingPeriod to keep healthy peers inside it.
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096

	// sendBuffer is the per-connection outbound queue depth. A full queue
	// means the client cannot keep up and the write is refused.
	sendBuffer = 64
)

// Connection wraps one websocket with a buffered write pump so simulation
// code never blocks on a slow client. The pump is the only goroutine that
// writes to the socket.
type Connection struct {
	ws   *websocket.Conn
	send chan []byte

	once   sync.Once
	closed chan struct{}
	reason string
}

func newConnection(ws *websocket.Conn) *Connection {
	c := &Connection{
		ws:     ws,
		send:   make(chan []byte, sendBuffer),
		closed: make(chan struct{}),
	}

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	go c.writePump()
	return c
}

// Send queues one frame for delivery. Refused when the connection is
// closed or the client has fallen too far behind.
func (c *Connection) Send(data []byte) error {
	select {
	case <-c.closed:
		return fmt.Errorf("connection closed")
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("send buffer full")
	}
}

// Close ends the connection, sending the reason in the close frame when
// one is given. Idempotent. The actual close frame goes out through the
// write pump so the socket never sees two writers.
func (c *Connection) Close(reason string) {
	c.once.Do(func() {
		c.reason = reason
		close(c.closed)
	})
}

// Read blocks for the next client frame.
func (c *Connection) Read() ([]byte, error) {
	_, data, err := c.ws.ReadMessage()
	return data, err
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				c.Close("")
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close("")
			}
		case <-c.closed:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, c.reason)
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, msg)
			c.ws.Close()
			return
		}
	}
}
