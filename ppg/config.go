package ppg

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseReconnectDelay = 1 * time.Second
	defaultMaxReconnectDelay  = 30 * time.Second
	defaultKeepaliveInterval  = 30 * time.Second
	defaultHandshakeTimeout   = 10 * time.Second
	defaultWriteTimeout       = 10 * time.Second

	eventsPath = "/api/events"
)

// Config controls how the SDK connects to a ppg serve instance.
type Config struct {
	// ServerURL is the base URL of the server, e.g. "http://localhost:3000".
	// http/https schemes are converted to ws/wss for the event stream.
	ServerURL string

	// Token is an optional bearer token, passed as a query parameter on
	// the websocket URL.
	Token string

	// BaseReconnectDelay is the delay before the first reconnect attempt.
	BaseReconnectDelay time.Duration

	// MaxReconnectDelay caps the exponential backoff.
	MaxReconnectDelay time.Duration

	// KeepaliveInterval is the time between liveness probes on an open
	// connection.
	KeepaliveInterval time.Duration

	// HandshakeTimeout bounds one open attempt. Set to 0 to disable.
	HandshakeTimeout time.Duration

	// WriteTimeout bounds a single outgoing write or probe.
	WriteTimeout time.Duration
}

// DefaultConfig returns sensible defaults. ServerURL must still be set.
func DefaultConfig() Config {
	return Config{
		BaseReconnectDelay: defaultBaseReconnectDelay,
		MaxReconnectDelay:  defaultMaxReconnectDelay,
		KeepaliveInterval:  defaultKeepaliveInterval,
		HandshakeTimeout:   defaultHandshakeTimeout,
		WriteTimeout:       defaultWriteTimeout,
	}
}

// eventsURL derives the websocket event-stream URL from the configured
// base server URL.
func (c Config) eventsURL() (string, error) {
	if c.ServerURL == "" {
		return "", NewError(ErrorInvalidConfig, "empty server URL")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return "", WrapError(ErrorInvalidConfig, "invalid server URL", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", NewError(ErrorInvalidConfig, fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return "", NewError(ErrorInvalidConfig, "server URL has no host")
	}
	u.Path = strings.TrimRight(u.Path, "/") + eventsPath
	if c.Token != "" {
		q := u.Query()
		q.Set("token", c.Token)
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// withDefaults fills zero durations with the package defaults.
func (c Config) withDefaults() Config {
	if c.BaseReconnectDelay <= 0 {
		c.BaseReconnectDelay = defaultBaseReconnectDelay
	}
	if c.MaxReconnectDelay <= 0 {
		c.MaxReconnectDelay = defaultMaxReconnectDelay
	}
	if c.KeepaliveInterval <= 0 {
		c.KeepaliveInterval = defaultKeepaliveInterval
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	return c
}
