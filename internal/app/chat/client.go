/*
Package chat contains the core logic of the single shared chat room.

This file defines the Client struct, representing an active WebSocket
connection. It manages the connection's read and write loops (ReadPump
and WritePump), heartbeats, and the dispatch of inbound protocol events
to the Room.
*/
package chat

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"amazingchat/internal/pkg/errs"
	"amazingchat/internal/pkg/logx"
	"amazingchat/internal/pkg/randx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of an inbound frame.
	maxInboundBytes = 8192

	// capacity of the per-connection outbound queue.
	sendQueueSize = 256
)

// Client represents one active WebSocket connection. It implements the
// Room's Sender contract: outbound payloads go through a buffered queue
// drained by WritePump, so a slow socket never blocks the Room.
type Client struct {
	room *Room
	conn *websocket.Conn
	id   string

	send chan []byte

	// mu guards closed, which gates Enqueue against the closed queue.
	mu     sync.Mutex
	closed bool

	logger zerolog.Logger
}

// NewClient wraps an accepted WebSocket connection. The connection gets
// a fresh opaque ID; it carries no identity until a join event binds one.
func NewClient(room *Room, wsConn *websocket.Conn) *Client {
	id := randx.ConnectionID()

	clientLogger := logx.Logger().With().
		Str("conn_id", id).
		Logger()

	return &Client{
		room:   room,
		conn:   wsConn,
		id:     id,
		send:   make(chan []byte, sendQueueSize),
		logger: clientLogger,
	}
}

// ID returns the opaque connection identifier.
func (c *Client) ID() string {
	return c.id
}

// Enqueue queues an outbound payload without blocking. A full queue or
// a closed connection is reported as an error for the caller to log;
// the payload is dropped either way.
func (c *Client) Enqueue(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("connection closed")
	}

	select {
	case c.send <- payload:
		return nil
	default:
		return fmt.Errorf("send queue full (%d pending)", len(c.send))
	}
}

// Close shuts the outbound queue, which makes WritePump send a close
// frame and exit. Safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump reads frames from the WebSocket connection until it fails or
// closes, dispatching each inbound event. It maintains the read
// deadline from Pong heartbeats and performs cleanup on exit.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxInboundBytes)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (client close/going away)")
			}
			break
		}

		c.processInbound(raw)
	}
}

// cleanupOnDisconnect runs when ReadPump terminates for any reason:
// the Room drops the connection and its session, the outbound queue is
// closed, and the socket is released.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.room.Disconnect(c.id)

	c.Close()

	if err := c.conn.Close(); err != nil {
		c.logger.Debug().Err(err).Msg("Client connection close error")
	}
}

// processInbound parses one inbound envelope and routes it to the Room.
// Malformed frames are logged and dropped; a malformed join additionally
// gets an error notice, since the client is clearly trying to enter.
func (c *Client) processInbound(raw []byte) {
	var inbound struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}

	if err := json.Unmarshal(raw, &inbound); err != nil {
		c.logger.Warn().Err(err).
			Bytes("frame", raw).
			Msg("Client sent invalid JSON")
		return
	}

	switch inbound.Event {
	case InJoin:
		var payload JoinPayload
		if err := json.Unmarshal(inbound.Data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid JOIN payload")
			c.room.sendError(c.id, errs.NewError(errs.ErrInvalidParams))
			return
		}
		c.room.Join(c.id, payload.Username)

	case InSendMessage:
		var payload SendMessagePayload
		if err := json.Unmarshal(inbound.Data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid SEND_MESSAGE payload")
			return
		}
		c.room.SendMessage(c.id, payload.Username, payload.Message)

	case InLeave:
		var payload JoinPayload
		if err := json.Unmarshal(inbound.Data, &payload); err != nil {
			c.logger.Warn().Err(err).Msg("Client sent invalid LEAVE payload")
			return
		}
		c.room.Leave(c.id, payload.Username)

	default:
		c.logger.Warn().Str("event", inbound.Event).Msg("Client sent unsupported event")
	}
}

// WritePump drains the outbound queue to the WebSocket connection and
// keeps the heartbeat alive with periodic Pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		if err := c.conn.Close(); err != nil {
			c.logger.Debug().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case payload, ok := <-c.send:
			if !c.writeQueuedPayload(payload, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePing() {
				return
			}
		}
	}
}

// writeQueuedPayload writes one queued payload to the socket. It reports
// whether the WritePump loop should continue.
func (c *Client) writeQueuedPayload(payload []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Debug().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePing sends the periodic heartbeat. It reports whether the
// WritePump loop should continue.
func (c *Client) writePing() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
