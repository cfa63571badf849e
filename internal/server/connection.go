package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/fillblanks/internal/game"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	playerID  game.PlayerID
	channel   string
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	closeOnce sync.Once
	server    *Server
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, server *Server) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		server: server,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.cancel()
		close(c.send)
		c.mu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client without blocking.
func (c *Connection) SendMessage(msg *Message) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.ctx.Err() != nil {
		return c.ctx.Err()
	}

	select {
	case c.send <- msg:
		return nil
	default:
		c.logger.Warn("Connection send buffer full, closing connection", "player", c.playerID)
		go func() { _ = c.Close() }() // Close takes the write lock
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(id game.PlayerID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = id
}

// Player returns the associated player id
func (c *Connection) Player() game.PlayerID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetChannel binds this connection to the channel whose broadcasts it
// receives.
func (c *Connection) SetChannel(channel string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = channel
}

// Channel returns the bound channel
func (c *Connection) Channel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes one incoming message. Panics are contained here so
// a faulty action never takes the connection or the process down.
func (c *Connection) handleMessage(msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Recovered from panic while handling message", "type", msg.Type, "panic", r)
			c.sendError(msg.RequestID, "internal", "Something broke, but it's fixable. Try again.")
		}
	}()

	c.logger.Debug("Received message", "type", msg.Type, "player", c.Player())

	if msg.Type == MessageTypeAuth {
		c.handleAuth(msg)
		return
	}

	player := c.Player()
	if player.IsZero() {
		c.sendError(msg.RequestID, "not_authenticated", "Must authenticate first")
		return
	}

	// Bind before dispatching so the caller sees the broadcasts its action causes.
	var target ChannelData
	if err := msg.Decode(&target); err == nil && target.Channel != "" {
		c.SetChannel(target.Channel)
	}

	reply, err := c.server.dispatch(player, msg)
	if err != nil {
		c.logger.Debug("Action rejected", "type", msg.Type, "player", player, "error", err)
		c.sendError(msg.RequestID, errorCode(err), err.Error())
		return
	}
	if reply != nil {
		reply.RequestID = msg.RequestID
		_ = c.SendMessage(reply) // Ignore send errors, the connection is closing
	}
}

func (c *Connection) handleAuth(msg *Message) {
	var data AuthData
	if err := msg.Decode(&data); err != nil {
		c.sendError(msg.RequestID, "invalid_message", "Failed to parse auth data")
		return
	}

	c.logger.Info("Auth request", "player", data.PlayerID)

	if data.PlayerID == "" {
		c.sendError(msg.RequestID, "invalid_auth", "Player id required")
		return
	}
	if game.IsReservedID(data.PlayerID) {
		c.sendError(msg.RequestID, "invalid_auth", "Player id uses a reserved prefix")
		return
	}

	c.SetPlayer(game.Real(data.PlayerID))

	response, err := NewMessage(MessageTypeAuthResponse, AuthResponseData{
		Success:  true,
		PlayerID: data.PlayerID,
	}, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create auth response", "error", err)
		return
	}
	response.RequestID = msg.RequestID
	_ = c.SendMessage(response) // Ignore send errors
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	}, c.server.clock.Now())
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	errorMsg.RequestID = requestID

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}
