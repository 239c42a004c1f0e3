package ppg

import "testing"

func TestDispatcherRoutesEvents(t *testing.T) {
	var d Dispatcher
	var gotAgent AgentStatusEvent
	var gotWorktree WorktreeStatusEvent
	var pongs int
	var gotUnknown UnknownEvent

	d.SetOnAgentStatus(func(ev AgentStatusEvent) { gotAgent = ev })
	d.SetOnWorktreeStatus(func(ev WorktreeStatusEvent) { gotWorktree = ev })
	d.SetOnPong(func() { pongs++ })
	d.SetOnUnknownEvent(func(ev UnknownEvent) { gotUnknown = ev })

	d.Dispatch(AgentStatusEvent{AgentID: "a1", Status: AgentRunning})
	d.Dispatch(WorktreeStatusEvent{WorktreeID: "wt1", Status: WorktreeActive})
	d.Dispatch(PongEvent{})
	d.Dispatch(UnknownEvent{Type: "mystery", Raw: "{}"})

	if gotAgent.AgentID != "a1" || gotAgent.Status != AgentRunning {
		t.Fatalf("agent event: %+v", gotAgent)
	}
	if gotWorktree.WorktreeID != "wt1" || gotWorktree.Status != WorktreeActive {
		t.Fatalf("worktree event: %+v", gotWorktree)
	}
	if pongs != 1 {
		t.Fatalf("pongs = %d", pongs)
	}
	if gotUnknown.Type != "mystery" {
		t.Fatalf("unknown event: %+v", gotUnknown)
	}
}

func TestDispatcherManifest(t *testing.T) {
	var d Dispatcher
	var got ManifestUpdatedEvent
	d.SetOnManifestUpdated(func(ev ManifestUpdatedEvent) { got = ev })
	d.Dispatch(ManifestUpdatedEvent{Manifest: Manifest{Version: 7}})
	if got.Manifest.Version != 7 {
		t.Fatalf("manifest event: %+v", got)
	}
}

func TestDispatcherNilCallbacks(t *testing.T) {
	var d Dispatcher
	// No callbacks registered; nothing should panic.
	d.Dispatch(AgentStatusEvent{})
	d.Dispatch(WorktreeStatusEvent{})
	d.Dispatch(ManifestUpdatedEvent{})
	d.Dispatch(PongEvent{})
	d.Dispatch(UnknownEvent{})
	d.DispatchState(StateEvent{})
}

func TestDispatcherState(t *testing.T) {
	var d Dispatcher
	var got StateEvent
	d.SetOnStateChanged(func(ev StateEvent) { got = ev })
	d.DispatchState(StateEvent{
		Old: ConnectionState{Phase: PhaseConnected},
		New: ConnectionState{Phase: PhaseReconnecting, Attempt: 1},
	})
	if got.New.Phase != PhaseReconnecting || got.New.Attempt != 1 {
		t.Fatalf("state event: %+v", got)
	}
}
