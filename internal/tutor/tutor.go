// Package tutor implements the per-song "hold the correct note to advance"
// state machine described in the engine's tutor design.
package tutor

import (
	"time"

	"github.com/MrDoe/lyrehero/internal/song"
)

// State is one of the tutor's four states.
type State int

const (
	Idle State = iota
	Listening
	Finished
	ErrorCaptureUnavailable
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Listening:
		return "Listening"
	case Finished:
		return "Finished"
	case ErrorCaptureUnavailable:
		return "ErrorCaptureUnavailable"
	default:
		return "Unknown"
	}
}

// AdvanceDebounce is the minimum interval between two successful advances.
const AdvanceDebounce = 500 * time.Millisecond

// Tutor drives one play-through of a Song against a stream of smoothed
// detection outputs. It owns no timers of its own: the host calls Tick once
// per display frame with the current time and the smoother's output.
type Tutor struct {
	song *song.Song

	state        State
	currentIndex int

	holdDuration time.Duration
	holdStart    time.Time
	progress     float64

	requireSilence    bool
	lastCompletedNote string
	lastAdvanceTime   time.Time
}

// New creates a Tutor for s with the given hold duration. It starts Idle at
// index 0.
func New(s *song.Song, holdDuration time.Duration) *Tutor {
	return &Tutor{
		song:         s,
		state:        Idle,
		holdDuration: holdDuration,
	}
}

// SetHoldDuration updates the hold duration mid-session (calibration and
// config changes both do this).
func (t *Tutor) SetHoldDuration(d time.Duration) {
	t.holdDuration = d
}

// State returns the current state.
func (t *Tutor) State() State { return t.state }

// CurrentIndex returns the index of the note currently being targeted.
func (t *Tutor) CurrentIndex() int { return t.currentIndex }

// Progress returns the current hold progress in [0,1].
func (t *Tutor) Progress() float64 { return t.progress }

// TargetNote returns the note name the tutor currently expects, or "" if
// the song is finished or empty.
func (t *Tutor) TargetNote() string {
	if t.song == nil || t.state == Finished || t.currentIndex >= len(t.song.Notes) {
		return ""
	}
	return t.song.Notes[t.currentIndex].Note
}

// Start transitions Idle (or a fresh restart from ErrorCaptureUnavailable)
// into Listening. It is a no-op if already Listening.
func (t *Tutor) Start() {
	if t.state == Listening {
		return
	}
	t.state = Listening
}

// Stop transitions Listening back to Idle. It is a no-op otherwise.
func (t *Tutor) Stop() {
	if t.state != Listening {
		return
	}
	// Flip to not-listening before returning, so any tick already queued
	// for this frame observes "not listening" and no-ops.
	t.state = Idle
	t.clearHold()
}

// Restart resets the song to index 0 and returns to Idle, used when the
// host restarts a play-through from the beginning.
func (t *Tutor) Restart() {
	t.state = Idle
	t.currentIndex = 0
	t.requireSilence = false
	t.lastCompletedNote = ""
	t.lastAdvanceTime = time.Time{}
	t.clearHold()
}

// SetCaptureUnavailable transitions any state into
// ErrorCaptureUnavailable, following a front-end start failure.
func (t *Tutor) SetCaptureUnavailable() {
	t.state = ErrorCaptureUnavailable
	t.clearHold()
}

func (t *Tutor) clearHold() {
	t.holdStart = time.Time{}
	t.progress = 0
}

// Tick advances the state machine by one frame. now is the host's current
// time and detectedNote is the smoother's stable note output ("" for no
// detection). Tick is a no-op unless the tutor is Listening.
func (t *Tutor) Tick(now time.Time, detectedNote string) {
	if t.state != Listening {
		return
	}
	target := t.TargetNote()
	if target == "" {
		return
	}

	switch {
	case detectedNote == target && !t.requireSilence:
		if t.holdStart.IsZero() {
			t.holdStart = now
		}
		elapsed := now.Sub(t.holdStart)
		if t.holdDuration <= 0 {
			t.progress = 1
		} else {
			t.progress = float64(elapsed) / float64(t.holdDuration)
			if t.progress > 1 {
				t.progress = 1
			}
		}
		if elapsed >= t.holdDuration {
			t.advance(now)
		}

	case detectedNote == target && t.requireSilence:
		t.clearHold()

	case detectedNote == "":
		t.clearHold()
		t.requireSilence = false

	default:
		t.clearHold()
	}
}

// advance completes the current target note, subject to the 500ms
// debounce, and moves to the next note or Finished.
func (t *Tutor) advance(now time.Time) {
	if !t.lastAdvanceTime.IsZero() && now.Sub(t.lastAdvanceTime) < AdvanceDebounce {
		return
	}
	target := t.TargetNote()
	t.lastAdvanceTime = now
	t.lastCompletedNote = target
	t.clearHold()

	nextIndex := t.currentIndex + 1
	if nextIndex >= len(t.song.Notes) {
		t.state = Finished
		t.requireSilence = false
		return
	}
	t.requireSilence = t.song.Notes[nextIndex].Note == target
	t.currentIndex = nextIndex
}
