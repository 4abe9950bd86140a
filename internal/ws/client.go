package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// EventHandler processes one decoded inbound frame. Handlers run on the
// connection's read loop, so frames from one connection are handled in
// order, to completion, one at a time.
type EventHandler interface {
	HandleEvent(client *Client, evt *InboundEvent)
}

// Client represents a single live connection. The send channel is never
// closed; shutdown is signalled through done so that a handler replying on
// a just-replaced connection cannot hit a closed channel.
type Client struct {
	registry    Registry
	conn        *websocket.Conn
	send        chan []byte
	done        chan struct{}
	closeOnce   sync.Once
	userID      string
	displayName string
}

// NewClient creates a new live connection wrapper
func NewClient(registry Registry, conn *websocket.Conn, userID, displayName string) *Client {
	return &Client{
		registry:    registry,
		conn:        conn,
		send:        make(chan []byte, 256),
		done:        make(chan struct{}),
		userID:      userID,
		displayName: displayName,
	}
}

// shutdown tells the write pump to exit. Safe from any goroutine and
// idempotent.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() { close(c.done) })
}

// UserID returns the authenticated identity behind the connection
func (c *Client) UserID() string { return c.userID }

// DisplayName returns the display name declared at identify time
func (c *Client) DisplayName() string { return c.displayName }

// SetDisplayName records the name carried in the identify frame
func (c *Client) SetDisplayName(name string) { c.displayName = name }

// Send queues an event directly on this connection, bypassing the
// registry. Used for request/reply frames like history responses.
func (c *Client) Send(eventType string, payload interface{}) {
	data, err := json.Marshal(&Event{Type: eventType, Payload: payload})
	if err != nil {
		return
	}
	select {
	case <-c.done:
	case c.send <- data:
	default:
	}
}

// ReadPump reads inbound frames and dispatches them to the handler.
// Malformed frames are dropped; the connection stays up.
func (c *Client) ReadPump(handler EventHandler) {
	defer func() {
		c.registry.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var evt InboundEvent
		if err := json.Unmarshal(data, &evt); err != nil || evt.Type == "" {
			continue
		}
		handler.HandleEvent(c, &evt)
	}
}

// WritePump sends queued frames to the socket and keeps it alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))    //nolint:errcheck
			c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
