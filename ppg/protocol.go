package ppg

import "encoding/json"

const (
	eventManifestUpdated       = "manifest_updated"
	eventAgentStatusChanged    = "agent_status_changed"
	eventWorktreeStatusChanged = "worktree_status_changed"
	eventPong                  = "pong"
)

// Event is a decoded server event. Implementations are the *Event types
// in this package; the interface is sealed.
type Event interface {
	isEvent()
}

// ManifestUpdatedEvent carries a full replacement manifest.
type ManifestUpdatedEvent struct {
	Manifest Manifest
}

// AgentStatusEvent reports a status change for one agent.
type AgentStatusEvent struct {
	AgentID string
	Status  AgentStatus
}

// WorktreeStatusEvent reports a status change for one worktree.
type WorktreeStatusEvent struct {
	WorktreeID string
	Status     WorktreeStatus
}

// PongEvent acknowledges a keepalive probe.
type PongEvent struct{}

// UnknownEvent wraps a message whose type is unrecognized or whose
// companion fields are malformed. Raw preserves the original wire text.
type UnknownEvent struct {
	Type string
	Raw  string
}

func (ManifestUpdatedEvent) isEvent() {}
func (AgentStatusEvent) isEvent()     {}
func (WorktreeStatusEvent) isEvent()  {}
func (PongEvent) isEvent()            {}
func (UnknownEvent) isEvent()         {}

// DecodeEvent decodes one raw wire message into an Event. It is total:
// it never returns an error and never panics. A recognized type with
// well-formed fields yields the matching event; a recognized type with
// missing or malformed fields, or an unrecognized type, yields an
// UnknownEvent preserving the raw text; anything that is not a JSON
// object with a string "type" field is dropped (ok == false).
func DecodeEvent(raw []byte) (ev Event, ok bool) {
	var env struct {
		Type *string `json:"type"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || env.Type == nil {
		return nil, false
	}
	typ := *env.Type

	unknown := func() (Event, bool) {
		return UnknownEvent{Type: typ, Raw: string(raw)}, true
	}

	switch typ {
	case eventPong:
		return PongEvent{}, true

	case eventManifestUpdated:
		var body struct {
			Manifest *Manifest `json:"manifest"`
		}
		if err := json.Unmarshal(raw, &body); err != nil || body.Manifest == nil {
			return unknown()
		}
		return ManifestUpdatedEvent{Manifest: *body.Manifest}, true

	case eventAgentStatusChanged:
		var body struct {
			AgentID string `json:"agentId"`
			Status  string `json:"status"`
		}
		if err := json.Unmarshal(raw, &body); err != nil || body.AgentID == "" || body.Status == "" {
			return unknown()
		}
		return AgentStatusEvent{AgentID: body.AgentID, Status: AgentStatus(body.Status)}, true

	case eventWorktreeStatusChanged:
		var body struct {
			WorktreeID string `json:"worktreeId"`
			Status     string `json:"status"`
		}
		if err := json.Unmarshal(raw, &body); err != nil || body.WorktreeID == "" || body.Status == "" {
			return unknown()
		}
		return WorktreeStatusEvent{WorktreeID: body.WorktreeID, Status: WorktreeStatus(body.Status)}, true

	default:
		return unknown()
	}
}
