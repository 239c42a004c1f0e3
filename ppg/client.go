package ppg

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/ppg-dev/ppg-sdk-go/ppg/internal"
)

// Client maintains one logical connection to a ppg serve event stream.
// It owns the connection state machine: open attempts, the live transport
// session, keepalive probing, and capped exponential backoff between
// reconnect attempts. Transport failures are never surfaced as errors;
// they show up as transitions into the reconnecting state.
//
// All lifecycle state is confined to a single manager goroutine. Public
// methods are asynchronous hops onto it and never block on the network.
// Callbacks run in order on a separate delivery goroutine.
type Client struct {
	cfg        Config
	wsURL      string
	logger     Logger
	dispatcher Dispatcher

	ops       chan func()
	deliver   chan func()
	done      chan struct{}
	closeOnce sync.Once

	// intentional is set before disconnect teardown begins so that any
	// in-flight loss handler cannot re-arm a reconnect.
	intentional atomic.Bool

	stateMu sync.RWMutex
	state   ConnectionState

	// Owned by the manager goroutine.
	sess        *session
	epoch       uint64
	attempt     int
	lossHandled bool
	retryTimer  *time.Timer
	kaTimer     *time.Timer
}

// NewClient constructs a client bound to the server in cfg. The only
// synchronous error is invalid configuration; everything after
// construction is reported through state transitions.
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()
	wsURL, err := cfg.eventsURL()
	if err != nil {
		return nil, err
	}
	c := &Client{
		cfg:     cfg,
		wsURL:   wsURL,
		logger:  noopLogger{},
		ops:     make(chan func(), 64),
		deliver: make(chan func(), 256),
		done:    make(chan struct{}),
	}
	go c.run()
	go c.deliverLoop()
	return c, nil
}

// SetLogger overrides the logger (optional). Call before Connect.
func (c *Client) SetLogger(l Logger) {
	if l == nil {
		return
	}
	c.logger = l
}

// OnStateChanged registers a callback for state transitions.
func (c *Client) OnStateChanged(fn func(StateEvent)) { c.dispatcher.SetOnStateChanged(fn) }

// OnManifestUpdated registers a callback for manifest replacement events.
func (c *Client) OnManifestUpdated(fn func(ManifestUpdatedEvent)) {
	c.dispatcher.SetOnManifestUpdated(fn)
}

// OnAgentStatus registers a callback for agent status changes.
func (c *Client) OnAgentStatus(fn func(AgentStatusEvent)) { c.dispatcher.SetOnAgentStatus(fn) }

// OnWorktreeStatus registers a callback for worktree status changes.
func (c *Client) OnWorktreeStatus(fn func(WorktreeStatusEvent)) {
	c.dispatcher.SetOnWorktreeStatus(fn)
}

// OnPong registers a callback for keepalive acknowledgements.
func (c *Client) OnPong(fn func()) { c.dispatcher.SetOnPong(fn) }

// OnUnknownEvent registers a callback for unrecognized or malformed
// server events.
func (c *Client) OnUnknownEvent(fn func(UnknownEvent)) { c.dispatcher.SetOnUnknownEvent(fn) }

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	c.stateMu.RLock()
	defer c.stateMu.RUnlock()
	return c.state
}

// Connect starts the connection. It is a no-op unless the client is
// disconnected, so calling it while connecting, connected or
// reconnecting is safe.
func (c *Client) Connect() {
	c.post(func() { c.connectLocked() })
}

// Disconnect intentionally tears everything down: the live session, the
// keepalive timer and any pending retry. Safe to call from any
// goroutine at any time. Connect starts over.
func (c *Client) Disconnect() {
	c.intentional.Store(true)
	c.post(func() { c.disconnectLocked() })
}

// Send transmits a command if the client is currently connected.
// Otherwise it is a silent no-op: commands are best-effort and callers
// are not expected to track connection state before issuing them.
func (c *Client) Send(cmd Command) {
	c.post(func() { c.sendLocked(cmd) })
}

// Close disconnects and stops the client's internal goroutines. The
// client cannot be reused afterwards.
func (c *Client) Close() {
	c.intentional.Store(true)
	c.closeOnce.Do(func() {
		stopped := make(chan struct{})
		c.post(func() {
			c.disconnectLocked()
			close(stopped)
		})
		select {
		case <-stopped:
		case <-c.done:
		}
		close(c.done)
	})
}

// ─── Manager goroutine ──────────────────────────────────────────────────────

func (c *Client) run() {
	for {
		select {
		case fn := <-c.ops:
			fn()
		case <-c.done:
			return
		}
	}
}

func (c *Client) deliverLoop() {
	for {
		select {
		case fn := <-c.deliver:
			fn()
		case <-c.done:
			return
		}
	}
}

// post hops onto the manager goroutine.
func (c *Client) post(fn func()) {
	select {
	case c.ops <- fn:
	case <-c.done:
	}
}

// emit hops onto the delivery goroutine.
func (c *Client) emit(fn func()) {
	select {
	case c.deliver <- fn:
	case <-c.done:
	}
}

func (c *Client) connectLocked() {
	if c.state.Phase != PhaseDisconnected {
		return
	}
	c.intentional.Store(false)
	c.attempt = 0
	c.lossHandled = false
	c.setState(ConnectionState{Phase: PhaseConnecting}, nil)
	c.dial()
}

func (c *Client) disconnectLocked() {
	c.stopRetry()
	c.stopKeepalive()
	c.teardownSession()
	c.attempt = 0
	c.setState(ConnectionState{Phase: PhaseDisconnected}, nil)
}

func (c *Client) sendLocked(cmd Command) {
	if c.state.Phase != PhaseConnected || c.sess == nil {
		c.logger.Debug("command dropped, not connected", map[string]any{"state": c.state.String()})
		return
	}
	data, err := EncodeCommand(cmd)
	if err != nil {
		c.logger.Error("command encode failed", map[string]any{"error": err.Error()})
		return
	}
	if !c.sess.queueWrite(data) {
		c.logger.Warn("write buffer full, command dropped", nil)
	}
}

// dial starts one open attempt. The epoch is bumped so that results of
// any earlier attempt are discarded when they land.
func (c *Client) dial() {
	c.epoch++
	e := c.epoch
	go func() {
		ctx := context.Background()
		if c.cfg.HandshakeTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.cfg.HandshakeTimeout)
			defer cancel()
		}
		ws, _, err := websocket.Dial(ctx, c.wsURL, nil)
		select {
		case c.ops <- func() { c.dialDone(e, ws, err) }:
		case <-c.done:
			if ws != nil {
				_ = ws.Close(websocket.StatusNormalClosure, "client closed")
			}
		}
	}()
}

func (c *Client) dialDone(e uint64, ws *websocket.Conn, err error) {
	if e != c.epoch || c.intentional.Load() {
		// Superseded attempt; nobody is waiting for this socket.
		if ws != nil {
			_ = ws.Close(websocket.StatusNormalClosure, "stale session")
		}
		return
	}
	if err != nil {
		c.logger.Warn("open failed", map[string]any{"error": err.Error(), "attempt": c.attempt + 1})
		c.attempt++
		c.setState(ConnectionState{Phase: PhaseReconnecting, Attempt: c.attempt},
			WrapError(ErrorConnection, "open failed", err))
		c.armRetry()
		return
	}

	c.sess = newSession(e, internal.NewConn(ws, c.cfg.WriteTimeout))
	c.sess.start(c.onSessionMessage, c.onSessionLoss)
	c.attempt = 0
	c.lossHandled = false
	c.setState(ConnectionState{Phase: PhaseConnected}, nil)
	c.logger.Info("connected", map[string]any{"url": c.wsURL})
	c.armKeepalive()
}

// onSessionMessage is called from a session's read loop.
func (c *Client) onSessionMessage(epoch uint64, raw []byte) {
	c.post(func() { c.handleMessage(epoch, raw) })
}

// onSessionLoss is called from a session's read or write loop.
func (c *Client) onSessionLoss(epoch uint64, cause error) {
	c.post(func() { c.handleLoss(epoch, cause) })
}

func (c *Client) handleMessage(e uint64, raw []byte) {
	if e != c.epoch {
		return
	}
	ev, ok := DecodeEvent(raw)
	if !ok {
		c.logger.Debug("dropped unparseable message", map[string]any{"raw": string(raw)})
		return
	}
	c.emit(func() { c.dispatcher.Dispatch(ev) })
}

// handleLoss is the single funnel for every failure on an established
// session: receive failure, write failure, keepalive failure, abnormal
// close. Duplicate signals for the same episode are filtered by the
// epoch check and by lossHandled, which stays set until the next
// successful open.
func (c *Client) handleLoss(e uint64, cause error) {
	if e != c.epoch {
		return
	}
	if c.intentional.Load() {
		return
	}
	if c.lossHandled {
		return
	}
	c.lossHandled = true
	c.logger.Warn("connection lost", map[string]any{"error": cause.Error()})

	c.stopKeepalive()
	c.teardownSession()
	c.attempt++
	c.setState(ConnectionState{Phase: PhaseReconnecting, Attempt: c.attempt},
		WrapError(ErrorConnection, "connection lost", cause))
	c.armRetry()
}

// teardownSession tears down the live session, if any, and bumps the
// epoch so anything the old loops still post is discarded. The bump is
// unconditional: a dial may be in flight with no session yet, and its
// completion must land stale.
func (c *Client) teardownSession() {
	if c.sess != nil {
		c.sess.teardown()
		c.sess = nil
	}
	c.epoch++
}

func (c *Client) armRetry() {
	c.stopRetry()
	delay := reconnectDelay(c.cfg.BaseReconnectDelay, c.cfg.MaxReconnectDelay, c.attempt)
	c.logger.Info("reconnect scheduled", map[string]any{"attempt": c.attempt, "delay": delay.String()})
	c.retryTimer = time.AfterFunc(delay, func() {
		c.post(func() { c.retryFire() })
	})
}

func (c *Client) retryFire() {
	if c.intentional.Load() || c.state.Phase != PhaseReconnecting {
		return
	}
	c.dial()
}

func (c *Client) stopRetry() {
	if c.retryTimer != nil {
		c.retryTimer.Stop()
		c.retryTimer = nil
	}
}

func (c *Client) armKeepalive() {
	c.stopKeepalive()
	e := c.epoch
	c.kaTimer = time.AfterFunc(c.cfg.KeepaliveInterval, func() {
		c.post(func() { c.keepaliveFire(e) })
	})
}

func (c *Client) keepaliveFire(e uint64) {
	if e != c.epoch || c.state.Phase != PhaseConnected || c.sess == nil {
		return
	}
	s := c.sess
	go func() {
		err := s.ping()
		c.post(func() { c.keepaliveDone(e, err) })
	}()
}

func (c *Client) keepaliveDone(e uint64, err error) {
	if e != c.epoch {
		return
	}
	if err != nil {
		c.handleLoss(e, WrapError(ErrorTimeout, "keepalive probe failed", err))
		return
	}
	c.armKeepalive()
}

func (c *Client) stopKeepalive() {
	if c.kaTimer != nil {
		c.kaTimer.Stop()
		c.kaTimer = nil
	}
}

// setState applies a transition if the target differs from the current
// state and publishes exactly one notification for it.
func (c *Client) setState(next ConnectionState, cause error) {
	old := c.state
	if next == old {
		return
	}
	c.stateMu.Lock()
	c.state = next
	c.stateMu.Unlock()
	ev := StateEvent{Old: old, New: next, Cause: cause}
	c.emit(func() { c.dispatcher.DispatchState(ev) })
}
