package websocket

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/watchparty/cli/pkg/config"
	"github.com/watchparty/cli/pkg/logger"
)

var codec = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotConnected is returned by Send when the socket is down and the
// outbound queue is full
var ErrNotConnected = errors.New("websocket not connected")

// Config holds party socket configuration
type Config struct {
	// URL is the websocket origin, e.g. ws://localhost:8000
	URL                  string
	ConnectTimeout       time.Duration
	HeartbeatTimeout     time.Duration
	ReconnectBaseDelay   time.Duration
	ReconnectMaxDelay    time.Duration
	MaxReconnectAttempts int
	QueueSize            int
}

// DefaultConfig returns the local development configuration
func DefaultConfig() Config {
	return Config{
		URL:                  "ws://localhost:8000",
		ConnectTimeout:       15 * time.Second,
		HeartbeatTimeout:     45 * time.Second,
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxDelay:    30 * time.Second,
		MaxReconnectAttempts: -1, // unlimited
		QueueSize:            100,
	}
}

// ConfigFromSettings uses ws.url when set, otherwise derives the origin from
// api.base_url
func ConfigFromSettings() Config {
	cfg := DefaultConfig()
	if u := config.GetString("ws.url"); u != "" {
		cfg.URL = strings.TrimRight(u, "/")
	} else if u := config.BackendURL(); u != "" {
		cfg.URL = OriginFromAPI(u)
	}
	return cfg
}

// OriginFromAPI turns an http(s) API origin into a ws(s) origin
func OriginFromAPI(apiURL string) string {
	apiURL = strings.TrimRight(apiURL, "/")
	if strings.HasPrefix(apiURL, "http") {
		return "ws" + strings.TrimPrefix(apiURL, "http")
	}
	return apiURL
}

// PartyURL builds /ws/party/{id}/?token= on origin
func PartyURL(origin, partyID, token string) string {
	u := strings.TrimRight(origin, "/") + "/ws/party/" + url.PathEscape(partyID) + "/"
	if token != "" {
		u += "?token=" + url.QueryEscape(token)
	}
	return u
}

// ConnectionState represents the state of the party socket
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateError
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateError:
		return "error"
	default:
		return "disconnected"
	}
}

// ConnectionStats holds connection statistics
type ConnectionStats struct {
	MessagesReceived int64
	MessagesSent     int64
	ReconnectCount   int
	LastError        string
	LastHeartbeat    time.Time
	ConnectedAt      time.Time
	DisconnectedAt   time.Time
}

// Handler receives one decoded message
type Handler func(Message)

type listener struct {
	id int
	fn Handler
}

// Client is a reconnecting party socket. Handlers run on the read loop, in
// registration order, type-specific before wildcard.
type Client struct {
	config Config
	dialer *websocket.Dialer

	mu      sync.RWMutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	partyID string
	token   string

	state        atomic.Value // ConnectionState
	stateMu      sync.Mutex
	stateHandler []func(ConnectionState)

	listenersMu sync.RWMutex
	listeners   map[MessageType][]listener
	nextID      int

	queueMu sync.Mutex
	queue   []Message

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	statsLock sync.RWMutex
	stats     ConnectionStats
}

// NewClient creates a disconnected client
func NewClient(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.HeartbeatTimeout <= 0 {
		cfg.HeartbeatTimeout = def.HeartbeatTimeout
	}
	if cfg.ReconnectBaseDelay <= 0 {
		cfg.ReconnectBaseDelay = def.ReconnectBaseDelay
	}
	if cfg.ReconnectMaxDelay < cfg.ReconnectBaseDelay {
		cfg.ReconnectMaxDelay = cfg.ReconnectBaseDelay
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}

	c := &Client{
		config:    cfg,
		dialer:    &websocket.Dialer{HandshakeTimeout: cfg.ConnectTimeout},
		listeners: make(map[MessageType][]listener),
	}
	c.state.Store(StateDisconnected)
	return c
}

// Connect dials the party room and starts the read loop. The connection is
// kept alive until ctx is canceled or Disconnect is called.
func (c *Client) Connect(ctx context.Context, partyID, token string) error {
	if c.IsConnected() {
		return nil
	}

	c.mu.Lock()
	c.partyID, c.token = partyID, token
	if c.cancel != nil {
		c.cancel()
	}
	c.ctx, c.cancel = context.WithCancel(ctx)
	loopCtx := c.ctx
	c.mu.Unlock()

	c.setState(StateConnecting)
	conn, err := c.dial(loopCtx)
	if err != nil {
		c.setState(StateError)
		c.recordError(err.Error())
		return fmt.Errorf("connect to party %s: %w", partyID, err)
	}
	c.attach(loopCtx, conn)

	logger.Debug("Party socket connected", "party", partyID)
	return nil
}

// Disconnect closes the socket and stops reconnecting
func (c *Client) Disconnect() error {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	var err error
	if conn != nil {
		c.writeMu.Lock()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Manual disconnect"),
			time.Now().Add(time.Second))
		c.writeMu.Unlock()
		err = conn.Close()
	}
	c.wg.Wait()

	c.setState(StateDisconnected)
	c.recordDisconnected()
	logger.Debug("Party socket disconnected")
	return err
}

// IsConnected returns true if the connection is established
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// State returns the current connection state
func (c *Client) State() ConnectionState {
	return c.state.Load().(ConnectionState)
}

// OnStateChange registers fn for every state transition
func (c *Client) OnStateChange(fn func(ConnectionState)) {
	c.stateMu.Lock()
	c.stateHandler = append(c.stateHandler, fn)
	c.stateMu.Unlock()
}

// On subscribes to a message type. Wildcard receives every message. The
// returned function unsubscribes.
func (c *Client) On(msgType MessageType, fn Handler) func() {
	c.listenersMu.Lock()
	c.nextID++
	id := c.nextID
	c.listeners[msgType] = append(c.listeners[msgType], listener{id: id, fn: fn})
	c.listenersMu.Unlock()

	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()

		ls := c.listeners[msgType]
		for i, l := range ls {
			if l.id == id {
				c.listeners[msgType] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
	}
}

// Send writes msg, or queues it while the socket is down. Queued messages
// are flushed in order on the next successful connect.
func (c *Client) Send(msg Message) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil || !c.IsConnected() {
		return c.enqueue(msg)
	}
	if err := c.write(conn, msg); err != nil {
		logger.Debug("Send failed, queuing", "type", msg.Type, "error", err)
		return c.enqueue(msg)
	}
	return nil
}

// Queued returns the number of messages waiting for a connection
func (c *Client) Queued() int {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	return len(c.queue)
}

// GetStats returns connection statistics
func (c *Client) GetStats() ConnectionStats {
	c.statsLock.RLock()
	defer c.statsLock.RUnlock()
	return c.stats
}

// Private methods

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	c.mu.RLock()
	target := PartyURL(c.config.URL, c.partyID, c.token)
	c.mu.RUnlock()

	dialCtx, cancel := context.WithTimeout(ctx, c.config.ConnectTimeout)
	defer cancel()

	conn, resp, err := c.dialer.DialContext(dialCtx, target, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	return conn, err
}

func (c *Client) attach(ctx context.Context, conn *websocket.Conn) {
	c.mu.Lock()
	if ctx.Err() != nil {
		c.mu.Unlock()
		_ = conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.setState(StateConnected)
	c.recordConnected()
	c.flush(conn)

	c.wg.Add(1)
	go c.readLoop(ctx, conn)
}

func (c *Client) write(conn *websocket.Conn, msg Message) error {
	data, err := msg.MarshalJSON()
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	err = conn.WriteMessage(websocket.TextMessage, data)
	c.writeMu.Unlock()
	if err != nil {
		return err
	}

	c.recordMessageSent()
	return nil
}

func (c *Client) enqueue(msg Message) error {
	c.queueMu.Lock()
	defer c.queueMu.Unlock()
	if len(c.queue) >= c.config.QueueSize {
		return ErrNotConnected
	}
	c.queue = append(c.queue, msg)
	return nil
}

func (c *Client) flush(conn *websocket.Conn) {
	c.queueMu.Lock()
	pending := c.queue
	c.queue = nil
	c.queueMu.Unlock()

	if len(pending) > 0 {
		logger.Debug("Flushing queued messages", "count", len(pending))
	}
	for i, msg := range pending {
		if err := c.write(conn, msg); err != nil {
			c.queueMu.Lock()
			c.queue = append(append([]Message{}, pending[i:]...), c.queue...)
			c.queueMu.Unlock()
			return
		}
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer c.wg.Done()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	// The server sends heartbeats; silence past the timeout drops the
	// connection and triggers a reconnect.
	_ = conn.SetReadDeadline(time.Now().Add(c.config.HeartbeatTimeout))

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.recordError(err.Error())
			logger.Warn("Party socket read error", "error", err)
			c.handleDisconnect(ctx, conn)
			return
		}

		var msg Message
		if err := msg.UnmarshalJSON(data); err != nil {
			logger.Debug("Dropping malformed message", "error", err)
			continue
		}
		c.recordMessageReceived()

		if msg.Type == TypeHeartbeat {
			_ = conn.SetReadDeadline(time.Now().Add(c.config.HeartbeatTimeout))
			c.recordHeartbeat()
			if err := c.write(conn, Pong(time.Now())); err != nil {
				logger.Debug("Failed to answer heartbeat", "error", err)
			}
			continue
		}

		c.dispatch(msg)
	}
}

func (c *Client) dispatch(msg Message) {
	c.listenersMu.RLock()
	typed := append([]listener(nil), c.listeners[msg.Type]...)
	wildcard := append([]listener(nil), c.listeners[Wildcard]...)
	c.listenersMu.RUnlock()

	for _, l := range append(typed, wildcard...) {
		c.safeCall(l.fn, msg)
	}
}

func (c *Client) safeCall(fn Handler, msg Message) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Message handler panicked", "type", msg.Type, "panic", r)
		}
	}()
	fn(msg)
}

func (c *Client) handleDisconnect(ctx context.Context, dead *websocket.Conn) {
	c.mu.Lock()
	if c.conn == dead {
		c.conn = nil
	}
	c.mu.Unlock()
	_ = dead.Close()

	c.setState(StateReconnecting)
	c.recordDisconnected()

	attempts := 0
	for {
		if c.config.MaxReconnectAttempts >= 0 && attempts >= c.config.MaxReconnectAttempts {
			c.setState(StateError)
			logger.Error("Max reconnection attempts reached", "attempts", attempts)
			return
		}

		wait := Backoff(c.config.ReconnectBaseDelay, c.config.ReconnectMaxDelay, attempts)
		wait += jitter(c.config.ReconnectBaseDelay)
		attempts++
		logger.Debug("Reconnecting party socket", "attempt", attempts, "wait_ms", wait.Milliseconds())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		conn, err := c.dial(ctx)
		if err != nil {
			c.recordError(err.Error())
			continue
		}

		c.statsLock.Lock()
		c.stats.ReconnectCount++
		c.statsLock.Unlock()

		c.attach(ctx, conn)
		logger.Debug("Party socket reconnected", "attempts", attempts)
		return
	}
}

// Backoff is base doubled per prior attempt, capped at max
func Backoff(base, max time.Duration, attempt int) time.Duration {
	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}

func jitter(base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(base)/4 + 1))
}

func (c *Client) setState(state ConnectionState) {
	if prev := c.state.Swap(state); prev == state {
		return
	}
	c.stateMu.Lock()
	handlers := append([]func(ConnectionState){}, c.stateHandler...)
	c.stateMu.Unlock()
	for _, fn := range handlers {
		fn(state)
	}
}

func (c *Client) recordMessageReceived() {
	c.statsLock.Lock()
	c.stats.MessagesReceived++
	c.statsLock.Unlock()
}

func (c *Client) recordMessageSent() {
	c.statsLock.Lock()
	c.stats.MessagesSent++
	c.statsLock.Unlock()
}

func (c *Client) recordHeartbeat() {
	c.statsLock.Lock()
	c.stats.LastHeartbeat = time.Now()
	c.statsLock.Unlock()
}

func (c *Client) recordError(errMsg string) {
	c.statsLock.Lock()
	c.stats.LastError = errMsg
	c.statsLock.Unlock()
}

func (c *Client) recordConnected() {
	c.statsLock.Lock()
	c.stats.ConnectedAt = time.Now()
	c.statsLock.Unlock()
}

func (c *Client) recordDisconnected() {
	c.statsLock.Lock()
	c.stats.DisconnectedAt = time.Now()
	c.statsLock.Unlock()
}
