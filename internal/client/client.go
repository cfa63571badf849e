package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/lox/fillblanks/internal/server" // Reuse message types
)

// Client is a websocket client for the fill-in-the-blank gateway. Requests
// are correlated with their replies through the message request id.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	mu        sync.RWMutex
	connected bool
	playerID  string
	closeOnce sync.Once
	nextID    atomic.Uint64

	waiters       []*waiter
	eventHandlers map[server.MessageType][]EventHandler
	catchAll      []EventHandler
}

// EventHandler is a function that handles incoming events
type EventHandler func(*server.Message)

// waiter is an in-flight request. It settles on the reply carrying its
// request id or, for actions answered by a channel broadcast, on the first
// broadcast of the settle type.
type waiter struct {
	requestID string
	settle    server.MessageType
	ch        chan *server.Message
}

// ResponseError is an error reply from the server.
type ResponseError struct {
	Code    string
	Message string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewClient creates a new WebSocket client
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL:     serverURL,
		send:          make(chan *server.Message, 256),
		receive:       make(chan *server.Message, 256),
		logger:        logger.WithPrefix("client"),
		ctx:           ctx,
		cancel:        cancel,
		eventHandlers: make(map[server.MessageType][]EventHandler),
	}
}

// Connect establishes a WebSocket connection to the server
func (c *Client) Connect() error {
	c.logger.Info("Connecting to server", "url", c.serverURL)

	u, err := url.Parse(c.serverURL)
	if err != nil {
		return fmt.Errorf("invalid server URL: %w", err)
	}

	// Convert http/https to ws/wss
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	go c.readPump()
	go c.writePump()
	go c.eventProcessor()

	c.logger.Info("Connected to server")
	return nil
}

// Disconnect closes the WebSocket connection
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()

		c.mu.Lock()
		defer c.mu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close() // Ignore close errors during shutdown
			c.connected = false
		}

		c.logger.Info("Disconnected from server")
	})
	return nil
}

// IsConnected returns whether the client is connected
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Done is closed once the client is disconnected.
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message for the server
func (c *Client) SendMessage(msg *server.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return fmt.Errorf("send buffer full")
	}
}

// readPump handles incoming messages from the server
func (c *Client) readPump() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		c.cancel()
	}()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}

		c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

// writePump handles outgoing messages to the server
func (c *Client) writePump() {
	ticker := time.NewTicker(54 * time.Second) // Ping interval
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// eventProcessor settles waiting requests and dispatches to handlers
func (c *Client) eventProcessor() {
	for {
		select {
		case msg := <-c.receive:
			c.settle(msg)
			c.handleMessage(msg)
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) settle(msg *server.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.waiters[:0]
	for _, w := range c.waiters {
		matched := msg.RequestID != "" && msg.RequestID == w.requestID
		if !matched && msg.RequestID == "" && w.settle != "" && msg.Type == w.settle {
			matched = true
		}
		if matched {
			w.ch <- msg
			continue
		}
		kept = append(kept, w)
	}
	c.waiters = kept
}

// handleMessage dispatches messages to registered handlers
func (c *Client) handleMessage(msg *server.Message) {
	c.mu.RLock()
	handlers := append([]EventHandler(nil), c.eventHandlers[msg.Type]...)
	handlers = append(handlers, c.catchAll...)
	c.mu.RUnlock()

	if len(handlers) == 0 {
		c.logger.Debug("No handler for message type", "type", msg.Type)
		return
	}
	for _, handler := range handlers {
		handler(msg)
	}
}

// AddEventHandler adds an event handler for a specific message type
func (c *Client) AddEventHandler(messageType server.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.eventHandlers[messageType] = append(c.eventHandlers[messageType], handler)
}

// OnMessage registers a handler that sees every incoming message.
func (c *Client) OnMessage(handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catchAll = append(c.catchAll, handler)
}

// Request sends an action and waits for its reply. When settle is set the
// action is also answered by the first broadcast of that type, which is how
// actions whose outcome goes to the whole channel complete.
func (c *Client) Request(ctx context.Context, typ server.MessageType, data any, settle server.MessageType) (*server.Message, error) {
	msg, err := server.NewMessage(typ, data, time.Now())
	if err != nil {
		return nil, err
	}
	msg.RequestID = strconv.FormatUint(c.nextID.Add(1), 10)

	w := &waiter{requestID: msg.RequestID, settle: settle, ch: make(chan *server.Message, 1)}
	c.mu.Lock()
	c.waiters = append(c.waiters, w)
	c.mu.Unlock()
	defer c.forget(w)

	if err := c.SendMessage(msg); err != nil {
		return nil, err
	}

	select {
	case reply := <-w.ch:
		if reply.Type == server.MessageTypeError {
			var data server.ErrorData
			if err := reply.Decode(&data); err != nil {
				return nil, fmt.Errorf("failed to decode error reply: %w", err)
			}
			return nil, &ResponseError{Code: data.Code, Message: data.Message}
		}
		return reply, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for reply to %s: %w", typ, ctx.Err())
	case <-c.ctx.Done():
		return nil, fmt.Errorf("connection closed while waiting for reply to %s", typ)
	}
}

func (c *Client) forget(w *waiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, other := range c.waiters {
		if other == w {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

func request[T any](ctx context.Context, c *Client, typ server.MessageType, data any, settle server.MessageType) (*T, error) {
	reply, err := c.Request(ctx, typ, data, settle)
	if err != nil {
		return nil, err
	}
	var out T
	if err := reply.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode %s reply: %w", reply.Type, err)
	}
	return &out, nil
}

// Auth performs authentication with the server
func (c *Client) Auth(ctx context.Context, playerID string) error {
	resp, err := request[server.AuthResponseData](ctx, c, server.MessageTypeAuth, server.AuthData{PlayerID: playerID}, "")
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("authentication failed: %s", resp.Error)
	}

	c.mu.Lock()
	c.playerID = playerID
	c.mu.Unlock()
	return nil
}

// Reset starts a new game in channel with the caller as judge.
func (c *Client) Reset(ctx context.Context, channel string) (*server.SessionData, error) {
	return request[server.SessionData](ctx, c, server.MessageTypeReset, server.ChannelData{Channel: channel}, server.MessageTypeSessionReset)
}

// SetSolo toggles solo mode and returns the new state.
func (c *Client) SetSolo(ctx context.Context, channel string, on bool) (bool, error) {
	resp, err := request[server.SoloModeData](ctx, c, server.MessageTypeSetSolo, server.SetSoloData{Channel: channel, On: on}, "")
	if err != nil {
		return false, err
	}
	return resp.On, nil
}

// Join seats the player and returns their hand.
func (c *Client) Join(ctx context.Context, channel string) ([]string, error) {
	resp, err := request[server.HandData](ctx, c, server.MessageTypeJoin, server.ChannelData{Channel: channel}, "")
	if err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// Leave removes the player from channel.
func (c *Client) Leave(ctx context.Context, channel string) error {
	_, err := c.Request(ctx, server.MessageTypeLeave, server.ChannelData{Channel: channel}, "")
	return err
}

// Hand returns the player's current hand.
func (c *Client) Hand(ctx context.Context, channel string) ([]string, error) {
	resp, err := request[server.HandData](ctx, c, server.MessageTypeGetHand, server.ChannelData{Channel: channel}, "")
	if err != nil {
		return nil, err
	}
	return resp.Cards, nil
}

// StartRound opens the next round in channel.
func (c *Client) StartRound(ctx context.Context, channel string) (*server.RoundStartedData, error) {
	return request[server.RoundStartedData](ctx, c, server.MessageTypeStartRound, server.ChannelData{Channel: channel}, server.MessageTypeRoundStarted)
}

// Submit plays the cards at indices for the round roundID. An empty roundID
// targets the current one.
func (c *Client) Submit(ctx context.Context, channel, roundID string, indices []int) (*server.SubmittedData, error) {
	return request[server.SubmittedData](ctx, c, server.MessageTypeSubmit, server.SubmitData{
		Channel: channel,
		RoundID: roundID,
		Indices: indices,
	}, "")
}

// JudgePick awards the round to winner.
func (c *Client) JudgePick(ctx context.Context, channel, roundID, winner string) (*server.RoundResolvedData, error) {
	return request[server.RoundResolvedData](ctx, c, server.MessageTypeJudgePick, server.JudgePickData{
		Channel: channel,
		RoundID: roundID,
		Winner:  winner,
	}, server.MessageTypeRoundResolved)
}

// Scores returns the score table of channel.
func (c *Client) Scores(ctx context.Context, channel string) ([]server.ScoreEntry, error) {
	resp, err := request[server.ScoresData](ctx, c, server.MessageTypeGetScores, server.ChannelData{Channel: channel}, "")
	if err != nil {
		return nil, err
	}
	return resp.Scores, nil
}

// PlayerID returns the authenticated player id
func (c *Client) PlayerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}
