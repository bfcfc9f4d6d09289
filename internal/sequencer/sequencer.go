// Package sequencer walks an auction's lot list and runs the bid countdown for
// the lot in play.
package sequencer

import (
	"fmt"
	"time"

	"auction-engine/internal/auctionerrors"
)

// DefaultWindow is how long a lot stays open without a new highest bid.
const DefaultWindow = 15 * time.Second

// Phase is the countdown state of the lot in play
type Phase string

const (
	PhaseIdle    Phase = "idle"    // auction not started
	PhaseOpen    Phase = "open"    // accepting bids until the deadline
	PhaseClosing Phase = "closing" // deadline passed, waiting to be finalized
	PhaseClosed  Phase = "closed"  // resolved
)

// Sequencer tracks the current lot and its deadline. It is driven by the
// session and never touched concurrently.
type Sequencer struct {
	window   time.Duration
	count    int
	index    int
	deadline time.Time
	phase    Phase
}

// New creates a sequencer over count lots
func New(count int, window time.Duration) *Sequencer {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Sequencer{window: window, count: count, phase: PhaseIdle}
}

// Restore rebuilds a sequencer from persisted position and deadline
func Restore(count int, window time.Duration, index int, deadline time.Time, phase Phase) *Sequencer {
	s := New(count, window)
	s.index = index
	s.deadline = deadline
	if phase != "" {
		s.phase = phase
	}
	s.check()
	return s
}

// Begin puts the first lot in play
func (s *Sequencer) Begin(now time.Time) error {
	if s.count == 0 {
		return fmt.Errorf("sequencer: %w - auction has no lots", auctionerrors.ErrInvalidState)
	}
	s.index = 0
	s.open(now)
	return nil
}

// Advance moves to the next lot and restarts the countdown
func (s *Sequencer) Advance(now time.Time) (int, error) {
	if s.phase == PhaseIdle {
		return s.index, fmt.Errorf("sequencer: %w - auction not started", auctionerrors.ErrInvalidState)
	}
	if s.index+1 >= s.count {
		return s.index, fmt.Errorf("sequencer: %w - already at the last lot", auctionerrors.ErrInvalidState)
	}
	s.index++
	s.open(now)
	return s.index, nil
}

// Retreat moves to the previous lot and restarts the countdown
func (s *Sequencer) Retreat(now time.Time) (int, error) {
	if s.phase == PhaseIdle {
		return s.index, fmt.Errorf("sequencer: %w - auction not started", auctionerrors.ErrInvalidState)
	}
	if s.index == 0 {
		return s.index, fmt.Errorf("sequencer: %w - already at the first lot", auctionerrors.ErrInvalidState)
	}
	s.index--
	s.open(now)
	return s.index, nil
}

func (s *Sequencer) open(now time.Time) {
	s.check()
	s.deadline = now.Add(s.window)
	s.phase = PhaseOpen
}

// Extend pushes the deadline to at least now+window. It only applies while the
// lot is open and reports whether the deadline moved.
func (s *Sequencer) Extend(now time.Time) bool {
	if s.phase != PhaseOpen {
		return false
	}
	next := now.Add(s.window)
	if !next.After(s.deadline) {
		return false
	}
	s.deadline = next
	return true
}

// Tick reports true exactly once per lot, when now reaches the deadline of an
// open lot. The lot then sits in PhaseClosing until Close is called.
func (s *Sequencer) Tick(now time.Time) bool {
	if s.phase != PhaseOpen || now.Before(s.deadline) {
		return false
	}
	s.phase = PhaseClosing
	return true
}

// Close marks the lot in play as resolved; its countdown stops.
func (s *Sequencer) Close() {
	if s.phase != PhaseIdle {
		s.phase = PhaseClosed
	}
}

// SetCount changes the number of lots; only used before the auction starts.
func (s *Sequencer) SetCount(count int) {
	s.count = count
	if s.index >= count {
		s.index = 0
	}
}

// Index is the position of the lot in play
func (s *Sequencer) Index() int { return s.index }

// Deadline is when the lot in play stops taking bids
func (s *Sequencer) Deadline() time.Time { return s.deadline }

// Phase is the countdown state of the lot in play
func (s *Sequencer) Phase() Phase { return s.phase }

// Window is the countdown length
func (s *Sequencer) Window() time.Duration { return s.window }

// Remaining is the time left on the countdown, zero once it has run out
func (s *Sequencer) Remaining(now time.Time) time.Duration {
	if s.phase != PhaseOpen {
		return 0
	}
	if d := s.deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

func (s *Sequencer) check() {
	if s.count > 0 && (s.index < 0 || s.index >= s.count) {
		panic(fmt.Sprintf("sequencer: lot index %d out of range [0, %d)", s.index, s.count))
	}
}
