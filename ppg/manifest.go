package ppg

// AgentStatus is the lifecycle status of a single agent process as
// reported by the server.
type AgentStatus string

const (
	AgentRunning AgentStatus = "running"
	AgentIdle    AgentStatus = "idle"
	AgentExited  AgentStatus = "exited"
	AgentGone    AgentStatus = "gone"
)

// Label returns a human-readable label for display.
func (s AgentStatus) Label() string {
	switch s {
	case AgentRunning:
		return "Running"
	case AgentIdle:
		return "Idle"
	case AgentExited:
		return "Exited"
	case AgentGone:
		return "Gone"
	default:
		return string(s)
	}
}

// WorktreeStatus is the lifecycle status of a git worktree.
type WorktreeStatus string

const (
	WorktreeActive  WorktreeStatus = "active"
	WorktreeMerging WorktreeStatus = "merging"
	WorktreeMerged  WorktreeStatus = "merged"
	WorktreeFailed  WorktreeStatus = "failed"
	WorktreeCleaned WorktreeStatus = "cleaned"
)

// Label returns a human-readable label for display.
func (s WorktreeStatus) Label() string {
	switch s {
	case WorktreeActive:
		return "Active"
	case WorktreeMerging:
		return "Merging"
	case WorktreeMerged:
		return "Merged"
	case WorktreeFailed:
		return "Failed"
	case WorktreeCleaned:
		return "Cleaned"
	default:
		return string(s)
	}
}

// AgentEntry describes one agent inside a worktree.
type AgentEntry struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	AgentType  string      `json:"agentType"`
	Status     AgentStatus `json:"status"`
	TmuxTarget string      `json:"tmuxTarget"`
	Prompt     string      `json:"prompt"`
	StartedAt  string      `json:"startedAt"`
	ExitCode   *int        `json:"exitCode,omitempty"`
	SessionID  *string     `json:"sessionId,omitempty"`
}

// WorktreeEntry describes one git worktree and its agents.
type WorktreeEntry struct {
	ID         string                `json:"id"`
	Name       string                `json:"name"`
	Path       string                `json:"path"`
	Branch     string                `json:"branch"`
	BaseBranch string                `json:"baseBranch"`
	Status     WorktreeStatus        `json:"status"`
	TmuxWindow string                `json:"tmuxWindow"`
	PRURL      *string               `json:"prUrl,omitempty"`
	Agents     map[string]AgentEntry `json:"agents"`
	CreatedAt  string                `json:"createdAt"`
	MergedAt   *string               `json:"mergedAt,omitempty"`
}

// Manifest is the server's full view of the supervised session: every
// worktree and every agent within it.
type Manifest struct {
	Version     int                      `json:"version"`
	ProjectRoot string                   `json:"projectRoot"`
	SessionName string                   `json:"sessionName"`
	Worktrees   map[string]WorktreeEntry `json:"worktrees"`
	CreatedAt   string                   `json:"createdAt"`
	UpdatedAt   string                   `json:"updatedAt"`
}

// CountAgentsByStatus counts agents across all worktrees with the given
// status.
func (m *Manifest) CountAgentsByStatus(status AgentStatus) int {
	n := 0
	for _, wt := range m.Worktrees {
		for _, a := range wt.Agents {
			if a.Status == status {
				n++
			}
		}
	}
	return n
}

// WorktreeAgent pairs an agent with the ID of the worktree that owns it.
type WorktreeAgent struct {
	WorktreeID string
	Agent      AgentEntry
}

// AllAgents returns every agent across all worktrees together with its
// worktree ID. Order is unspecified.
func (m *Manifest) AllAgents() []WorktreeAgent {
	var out []WorktreeAgent
	for wtID, wt := range m.Worktrees {
		for _, a := range wt.Agents {
			out = append(out, WorktreeAgent{WorktreeID: wtID, Agent: a})
		}
	}
	return out
}
