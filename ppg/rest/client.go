// Package rest provides access to the ppg serve HTTP API: spawning
// worktrees, driving agents, merging, and reading server state. Live
// updates are not served here; those come over the websocket event
// stream managed by the ppg package.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppg-dev/ppg-sdk-go/ppg"
)

// Client provides REST API access to a ppg serve instance.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a REST client. baseURL is the server root, e.g.
// "http://localhost:3000".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient allows setting a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	if client != nil {
		c.httpClient = client
	}
}

// SetToken sets the bearer token for authenticated requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Health probes the server.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestConnection reports whether the server is reachable and healthy.
// Unreachable is not an error here; it answers false.
func (c *Client) TestConnection(ctx context.Context) bool {
	h, err := c.Health(ctx)
	return err == nil && h.Status == "ok"
}

// Status returns the server's current manifest.
func (c *Client) Status(ctx context.Context) (*ppg.Manifest, error) {
	var m ppg.Manifest
	if err := c.get(ctx, "/api/status", &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Worktrees returns the raw worktree listing.
func (c *Client) Worktrees(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/worktrees", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Spawn creates a worktree with agents.
func (c *Client) Spawn(ctx context.Context, req SpawnRequest) (*SpawnResponse, error) {
	var resp SpawnResponse
	if err := c.post(ctx, "/api/spawn", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SpawnMaster spawns a master agent.
func (c *Client) SpawnMaster(ctx context.Context, req MasterRequest) (*SpawnResponse, error) {
	var resp SpawnResponse
	if err := c.post(ctx, "/api/agents/master", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AgentLogs returns recent terminal output for an agent. lines <= 0
// uses the server default.
func (c *Client) AgentLogs(ctx context.Context, agentID string, lines int) (*LogsResponse, error) {
	path := fmt.Sprintf("/api/agents/%s/logs", agentID)
	if lines > 0 {
		path += fmt.Sprintf("?lines=%d", lines)
	}
	var resp LogsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendKeys sends text to an agent's terminal.
func (c *Client) SendKeys(ctx context.Context, agentID string, req SendKeysRequest) error {
	return c.post(ctx, fmt.Sprintf("/api/agents/%s/send", agentID), req, nil)
}

// KillAgent terminates an agent.
func (c *Client) KillAgent(ctx context.Context, agentID string) error {
	return c.post(ctx, fmt.Sprintf("/api/agents/%s/kill", agentID), nil, nil)
}

// RestartAgent restarts an agent.
func (c *Client) RestartAgent(ctx context.Context, agentID string, req RestartRequest) error {
	return c.post(ctx, fmt.Sprintf("/api/agents/%s/restart", agentID), req, nil)
}

// MergeWorktree merges a worktree into its base branch.
func (c *Client) MergeWorktree(ctx context.Context, worktreeID string, req MergeRequest) error {
	return c.post(ctx, fmt.Sprintf("/api/worktrees/%s/merge", worktreeID), req, nil)
}

// KillWorktree terminates every agent in a worktree.
func (c *Client) KillWorktree(ctx context.Context, worktreeID string) error {
	return c.post(ctx, fmt.Sprintf("/api/worktrees/%s/kill", worktreeID), nil, nil)
}

// ServerConfig returns the server's configuration document.
func (c *Client) ServerConfig(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/config", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Templates returns the configured prompt templates.
func (c *Client) Templates(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/templates", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Helper methods

func (c *Client) post(ctx context.Context, path string, body, dest any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, dest)
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("api error (status %d): %s", resp.StatusCode, errResp.Error)
		}
		return fmt.Errorf("http error: %s (status %d)", string(body), resp.StatusCode)
	}

	if dest != nil {
		if err := json.Unmarshal(body, dest); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}
