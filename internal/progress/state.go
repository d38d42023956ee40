package progress

import (
	"fmt"
	"sync"
)

// State accumulates progress of one job.
// Completed only grows; Total is set at most once and Completed <= Total once it is known.
type State struct {
	Total      int
	TotalKnown bool
	Completed  int
	LogPath    string
	Done       bool // JobComplete was emitted
}

// Apply folds one event into the state. It returns the new state and the
// event as it should be logged: item lines get a "{completed}. " prefix.
func Apply(s State, ev Event) (State, Event) {
	switch ev.Kind {
	case KindTotalFound:
		if !s.TotalKnown {
			s.TotalKnown = true
			s.Total = max(ev.Total, s.Completed)
		}
	case KindItemDone:
		if s.TotalKnown && s.Completed >= s.Total {
			break
		}
		s.Completed++
		ev.Line = fmt.Sprintf("%d. %s", s.Completed, ev.Line)
	}
	return s, ev
}

// Complete reports whether every announced item has been accounted for
func (s State) Complete() bool {
	return s.TotalKnown && s.Total > 0 && s.Completed == s.Total
}

// Update is the result of feeding one line to a Tracker
type Update struct {
	// Event is the classified line, with its rewritten text
	Event Event
	// State after the line was applied
	State State
	// Completed is true only for the line that completed the job
	Completed bool
}

// Tracker classifies lines and applies them to a State. Feed is called by the
// single worker that owns the job; Snapshot may be called from any goroutine.
type Tracker struct {
	classifier Classifier
	mu         sync.RWMutex
	state      State
}

// NewTracker creates a tracker; a nil classifier selects SpotDLClassifier
func NewTracker(c Classifier, logPath string) *Tracker {
	if c == nil {
		c = NewSpotDLClassifier()
	}
	return &Tracker{
		classifier: c,
		state:      State{LogPath: logPath},
	}
}

// Feed classifies a line and applies it
func (t *Tracker) Feed(line string) Update {
	ev := t.classifier.Classify(line)

	t.mu.Lock()
	defer t.mu.Unlock()

	next, logged := Apply(t.state, ev)
	completed := false
	if !next.Done && next.Complete() {
		next.Done = true
		completed = true
	}
	t.state = next

	return Update{Event: logged, State: next, Completed: completed}
}

// Snapshot returns a copy of the current state
func (t *Tracker) Snapshot() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}
