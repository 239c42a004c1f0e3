package ppg

import (
	"encoding/json"
	"testing"
)

const sampleManifest = `{
	"version": 2,
	"projectRoot": "/home/dev/project",
	"sessionName": "ppg-main",
	"createdAt": "2026-08-01T10:00:00Z",
	"updatedAt": "2026-08-01T12:30:00Z",
	"worktrees": {
		"wt1": {
			"id": "wt1",
			"name": "feature-auth",
			"path": "/home/dev/project/.worktrees/feature-auth",
			"branch": "ppg/feature-auth",
			"baseBranch": "main",
			"status": "active",
			"tmuxWindow": "ppg:1",
			"createdAt": "2026-08-01T10:05:00Z",
			"agents": {
				"a1": {
					"id": "a1",
					"name": "auth-1",
					"agentType": "claude",
					"status": "running",
					"tmuxTarget": "ppg:1.0",
					"prompt": "implement auth",
					"startedAt": "2026-08-01T10:05:00Z"
				},
				"a2": {
					"id": "a2",
					"name": "auth-2",
					"agentType": "claude",
					"status": "idle",
					"tmuxTarget": "ppg:1.1",
					"prompt": "review auth",
					"startedAt": "2026-08-01T10:06:00Z"
				}
			}
		},
		"wt2": {
			"id": "wt2",
			"name": "bugfix",
			"path": "/home/dev/project/.worktrees/bugfix",
			"branch": "ppg/bugfix",
			"baseBranch": "main",
			"status": "merged",
			"tmuxWindow": "ppg:2",
			"createdAt": "2026-08-01T11:00:00Z",
			"mergedAt": "2026-08-01T12:00:00Z",
			"agents": {
				"a3": {
					"id": "a3",
					"name": "bugfix-1",
					"agentType": "codex",
					"status": "exited",
					"tmuxTarget": "ppg:2.0",
					"prompt": "fix the bug",
					"startedAt": "2026-08-01T11:00:00Z",
					"exitCode": 0
				}
			}
		}
	}
}`

func decodeSampleManifest(t *testing.T) Manifest {
	t.Helper()
	var m Manifest
	if err := json.Unmarshal([]byte(sampleManifest), &m); err != nil {
		t.Fatalf("unmarshal manifest: %v", err)
	}
	return m
}

func TestManifestDecode(t *testing.T) {
	m := decodeSampleManifest(t)
	if m.Version != 2 || m.SessionName != "ppg-main" {
		t.Fatalf("unexpected manifest: version=%d session=%s", m.Version, m.SessionName)
	}
	wt, ok := m.Worktrees["wt1"]
	if !ok {
		t.Fatal("missing worktree wt1")
	}
	if wt.Status != WorktreeActive || wt.BaseBranch != "main" {
		t.Fatalf("unexpected worktree: %+v", wt)
	}
	a3 := m.Worktrees["wt2"].Agents["a3"]
	if a3.Status != AgentExited || a3.ExitCode == nil || *a3.ExitCode != 0 {
		t.Fatalf("unexpected agent: %+v", a3)
	}
}

func TestCountAgentsByStatus(t *testing.T) {
	m := decodeSampleManifest(t)
	if got := m.CountAgentsByStatus(AgentRunning); got != 1 {
		t.Errorf("running = %d, want 1", got)
	}
	if got := m.CountAgentsByStatus(AgentIdle); got != 1 {
		t.Errorf("idle = %d, want 1", got)
	}
	if got := m.CountAgentsByStatus(AgentExited); got != 1 {
		t.Errorf("exited = %d, want 1", got)
	}
	if got := m.CountAgentsByStatus(AgentGone); got != 0 {
		t.Errorf("gone = %d, want 0", got)
	}
}

func TestAllAgents(t *testing.T) {
	m := decodeSampleManifest(t)
	agents := m.AllAgents()
	if len(agents) != 3 {
		t.Fatalf("len = %d, want 3", len(agents))
	}
	byID := make(map[string]string)
	for _, wa := range agents {
		byID[wa.Agent.ID] = wa.WorktreeID
	}
	if byID["a1"] != "wt1" || byID["a2"] != "wt1" || byID["a3"] != "wt2" {
		t.Fatalf("unexpected pairing: %v", byID)
	}
}

func TestStatusLabels(t *testing.T) {
	if AgentRunning.Label() != "Running" || AgentGone.Label() != "Gone" {
		t.Fatal("agent labels")
	}
	if WorktreeMerging.Label() != "Merging" || WorktreeCleaned.Label() != "Cleaned" {
		t.Fatal("worktree labels")
	}
	if AgentStatus("weird").Label() != "weird" {
		t.Fatal("unknown agent status should pass through")
	}
}
