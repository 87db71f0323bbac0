package lifecycle

// State is the controller's position in a run's life.
type State string

const (
	StateIdle                 State = "idle"
	StateStarting             State = "starting"
	StateBackgroundProcessing State = "background_processing"
	StateRegeneratingScene    State = "regenerating_scene"
	StateCompleted            State = "completed"
	StateFailed               State = "failed"
	StateTimedOut             State = "timed_out"
)

// Terminal reports whether the state ends the controller's involvement until
// the next Start or RegenerateScene.
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateFailed, StateTimedOut:
		return true
	default:
		return false
	}
}

// Active reports whether a watch goroutine is supposed to be running.
func (s State) Active() bool {
	switch s {
	case StateStarting, StateBackgroundProcessing, StateRegeneratingScene:
		return true
	default:
		return false
	}
}

// EventKind classifies controller events delivered to the OnEvent hook.
type EventKind string

const (
	EventStateChanged EventKind = "state_changed"
	EventAssetUpdated EventKind = "asset_updated"
	EventLogLine      EventKind = "log_line"
)

// Event is one observable change in the run's progress.
type Event struct {
	Kind     EventKind
	State    State
	RunID    string
	AssetKey string
	Message  string
}
