// Package syncstatus tracks the lifecycle of background document writes so
// the API can report whether the last push is in flight, done or failed.
package syncstatus

import (
	"sync"
	"time"
)

// State is the coarse write status shown to users.
type State string

const (
	Idle    State = "idle"
	Syncing State = "syncing"
	Error   State = "error"
)

// Status is a point-in-time view of the tracker.
type Status struct {
	State     State     `json:"state"`
	LastError string    `json:"lastError,omitempty"`
	Since     time.Time `json:"since"`
	InFlight  int       `json:"inFlight"`
}

// Tracker counts in-flight writes. Once the last write completes it reports
// Error immediately on failure, or falls back to Idle no sooner than
// minDisplay after the write began so short writes stay visible.
type Tracker struct {
	mu         sync.Mutex
	minDisplay time.Duration
	now        func() time.Time
	afterFunc  func(time.Duration, func()) *time.Timer

	state    State
	lastErr  string
	since    time.Time
	inFlight int
	started  time.Time
	gen      uint64
	timer    *time.Timer
}

// New returns an idle tracker.
func New(minDisplay time.Duration) *Tracker {
	if minDisplay < 0 {
		minDisplay = 0
	}
	t := &Tracker{
		minDisplay: minDisplay,
		now:        time.Now,
		afterFunc:  time.AfterFunc,
		state:      Idle,
	}
	t.since = t.now()
	return t
}

// Begin marks the start of a write.
func (t *Tracker) Begin() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.stopTimer()
	if t.inFlight == 0 {
		t.started = t.now()
	}
	t.inFlight++
	t.set(Syncing, "")
}

// Done marks the end of a write started with Begin. A nil err leaves the
// previous error visible until every in-flight write has finished.
func (t *Tracker) Done(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.inFlight > 0 {
		t.inFlight--
	}
	if err != nil {
		t.lastErr = err.Error()
	}
	if t.inFlight > 0 {
		return
	}
	if t.lastErr != "" {
		t.set(Error, t.lastErr)
		return
	}

	remaining := t.minDisplay - t.now().Sub(t.started)
	if remaining <= 0 {
		t.set(Idle, "")
		return
	}
	gen := t.gen
	t.timer = t.afterFunc(remaining, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if t.gen == gen && t.inFlight == 0 && t.state == Syncing {
			t.set(Idle, "")
		}
	})
}

// Status returns the current status.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{State: t.state, LastError: t.lastErr, Since: t.since, InFlight: t.inFlight}
}

func (t *Tracker) set(s State, errText string) {
	if t.state != s {
		t.since = t.now()
	}
	t.state = s
	t.lastErr = errText
}

func (t *Tracker) stopTimer() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
