package ppg

// Dispatcher routes decoded events and state transitions to registered
// callbacks. Callbacks are optional; unregistered events are dropped.
type Dispatcher struct {
	onStateChanged   func(StateEvent)
	onManifest       func(ManifestUpdatedEvent)
	onAgentStatus    func(AgentStatusEvent)
	onWorktreeStatus func(WorktreeStatusEvent)
	onPong           func()
	onUnknown        func(UnknownEvent)
}

func (d *Dispatcher) SetOnStateChanged(fn func(StateEvent)) { d.onStateChanged = fn }

func (d *Dispatcher) SetOnManifestUpdated(fn func(ManifestUpdatedEvent)) { d.onManifest = fn }

func (d *Dispatcher) SetOnAgentStatus(fn func(AgentStatusEvent)) { d.onAgentStatus = fn }

func (d *Dispatcher) SetOnWorktreeStatus(fn func(WorktreeStatusEvent)) { d.onWorktreeStatus = fn }

func (d *Dispatcher) SetOnPong(fn func()) { d.onPong = fn }

func (d *Dispatcher) SetOnUnknownEvent(fn func(UnknownEvent)) { d.onUnknown = fn }

// Dispatch routes one decoded event to its callback.
func (d *Dispatcher) Dispatch(ev Event) {
	switch e := ev.(type) {
	case ManifestUpdatedEvent:
		if d.onManifest != nil {
			d.onManifest(e)
		}
	case AgentStatusEvent:
		if d.onAgentStatus != nil {
			d.onAgentStatus(e)
		}
	case WorktreeStatusEvent:
		if d.onWorktreeStatus != nil {
			d.onWorktreeStatus(e)
		}
	case PongEvent:
		if d.onPong != nil {
			d.onPong()
		}
	case UnknownEvent:
		if d.onUnknown != nil {
			d.onUnknown(e)
		}
	}
}

// DispatchState routes one state transition to its callback.
func (d *Dispatcher) DispatchState(ev StateEvent) {
	if d.onStateChanged != nil {
		d.onStateChanged(ev)
	}
}
