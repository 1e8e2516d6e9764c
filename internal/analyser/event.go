package analyser

import "time"

// EventKind identifies a progress event.
type EventKind int

const (
	EventStartingAnalysis EventKind = iota
	EventStartingTool
	EventFinishedTool
	EventFinishedAnalysis
)

func (k EventKind) String() string {
	switch k {
	case EventStartingAnalysis:
		return "starting_analysis"
	case EventStartingTool:
		return "starting_tool"
	case EventFinishedTool:
		return "finished_tool"
	case EventFinishedAnalysis:
		return "finished_analysis"
	default:
		return "unknown"
	}
}

// Event is delivered to a Listener. Tool fields are set for tool events only.
type Event struct {
	Kind EventKind
	// Tool is the tool's description.
	Tool    string
	Ignored []string
	// Issues is the number of issues the tool reported before filtering.
	Issues   int
	Duration time.Duration
	Err      error
}

// Listener receives progress events. Calls are serialized.
type Listener interface {
	Trigger(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// Trigger calls f(e).
func (f ListenerFunc) Trigger(e Event) { f(e) }

type nopListener struct{}

func (nopListener) Trigger(Event) {}
