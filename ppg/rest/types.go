package rest

// Spawn types

// SpawnRequest creates a new worktree with one or more agents.
type SpawnRequest struct {
	Name   string `json:"name"`
	Agent  string `json:"agent,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// SpawnedAgent describes one agent created by a spawn call.
type SpawnedAgent struct {
	ID         string  `json:"id"`
	TmuxTarget string  `json:"tmuxTarget"`
	SessionID  *string `json:"sessionId,omitempty"`
}

// SpawnResponse is the result of spawning a worktree.
type SpawnResponse struct {
	WorktreeID string         `json:"worktreeId"`
	Name       string         `json:"name"`
	Branch     string         `json:"branch"`
	Agents     []SpawnedAgent `json:"agents"`
}

// MasterRequest spawns a master agent coordinating the others.
type MasterRequest struct {
	Name   string `json:"name,omitempty"`
	Agent  string `json:"agent,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

// Agent operation types

// SendMode selects how text is delivered to an agent's terminal.
type SendMode string

const (
	SendRaw       SendMode = "raw"
	SendLiteral   SendMode = "literal"
	SendWithEnter SendMode = "with-enter"
)

// SendKeysRequest sends text to an agent's terminal.
type SendKeysRequest struct {
	Text string   `json:"text"`
	Mode SendMode `json:"mode"`
}

// RestartRequest restarts an agent, optionally with a new prompt or
// agent type.
type RestartRequest struct {
	Prompt string `json:"prompt,omitempty"`
	Agent  string `json:"agent,omitempty"`
}

// LogsResponse is a window of an agent's terminal scrollback.
type LogsResponse struct {
	AgentID string   `json:"agentId"`
	Lines   []string `json:"lines"`
}

// Worktree operation types

// MergeRequest merges a worktree back into its base branch.
type MergeRequest struct {
	Strategy string `json:"strategy,omitempty"`
	Cleanup  *bool  `json:"cleanup,omitempty"`
	Force    *bool  `json:"force,omitempty"`
}

// Misc

// HealthResponse is the server health probe result.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse represents an API error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
