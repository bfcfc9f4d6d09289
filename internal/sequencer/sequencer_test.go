package sequencer

import (
	"testing"
	"time"

	"auction-engine/internal/auctionerrors"

	"github.com/peterldowns/testy/check"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func TestSequencer_BeginAndTick(t *testing.T) {
	t.Parallel()

	s := New(3, 0)
	check.Equal(t, DefaultWindow, s.Window())
	check.Equal(t, PhaseIdle, s.Phase())
	check.False(t, s.Tick(epoch.Add(time.Hour)))

	require.NoError(t, s.Begin(epoch))
	check.Equal(t, 0, s.Index())
	check.Equal(t, PhaseOpen, s.Phase())
	check.Equal(t, 15*time.Second, s.Remaining(epoch))

	check.False(t, s.Tick(epoch.Add(14*time.Second)))
	check.True(t, s.Tick(epoch.Add(15*time.Second)))
	check.Equal(t, PhaseClosing, s.Phase())
	check.Equal(t, time.Duration(0), s.Remaining(epoch.Add(15*time.Second)))

	// fires once per lot
	check.False(t, s.Tick(epoch.Add(20*time.Second)))

	s.Close()
	check.Equal(t, PhaseClosed, s.Phase())
}

func TestSequencer_BeginWithoutLots(t *testing.T) {
	t.Parallel()

	err := New(0, time.Second).Begin(epoch)
	require.ErrorIs(t, err, auctionerrors.ErrInvalidState)
}

func TestSequencer_Extend(t *testing.T) {
	t.Parallel()

	s := New(2, 15*time.Second)
	check.False(t, s.Extend(epoch)) // idle lots have no countdown

	require.NoError(t, s.Begin(epoch))

	check.True(t, s.Extend(epoch.Add(10*time.Second)))
	check.Equal(t, epoch.Add(25*time.Second), s.Deadline())

	// the deadline never moves backwards
	check.False(t, s.Extend(epoch.Add(5*time.Second)))
	check.Equal(t, epoch.Add(25*time.Second), s.Deadline())

	check.False(t, s.Tick(epoch.Add(24*time.Second)))
	check.True(t, s.Tick(epoch.Add(25*time.Second)))
	check.False(t, s.Extend(epoch.Add(26*time.Second))) // closing lots are not extended
}

func TestSequencer_AdvanceRetreat(t *testing.T) {
	t.Parallel()

	s := New(2, 15*time.Second)

	_, err := s.Advance(epoch)
	require.ErrorIs(t, err, auctionerrors.ErrInvalidState)

	require.NoError(t, s.Begin(epoch))

	_, err = s.Retreat(epoch)
	require.ErrorIs(t, err, auctionerrors.ErrInvalidState)

	s.Close()
	idx, err := s.Advance(epoch.Add(5 * time.Second))
	require.NoError(t, err)
	check.Equal(t, 1, idx)
	check.Equal(t, PhaseOpen, s.Phase())
	check.Equal(t, epoch.Add(20*time.Second), s.Deadline())

	_, err = s.Advance(epoch.Add(6 * time.Second))
	require.ErrorIs(t, err, auctionerrors.ErrInvalidState)
	check.Equal(t, 1, s.Index())

	idx, err = s.Retreat(epoch.Add(7 * time.Second))
	require.NoError(t, err)
	check.Equal(t, 0, idx)
	check.Equal(t, epoch.Add(22*time.Second), s.Deadline())
}

func TestSequencer_Restore(t *testing.T) {
	t.Parallel()

	s := Restore(3, 15*time.Second, 2, epoch, PhaseOpen)
	check.Equal(t, 2, s.Index())
	check.True(t, s.Tick(epoch))

	require.Panics(t, func() { Restore(3, time.Second, 3, epoch, PhaseOpen) })
}

func TestSequencer_SetCount(t *testing.T) {
	t.Parallel()

	s := New(3, time.Second)
	s.SetCount(1)
	require.NoError(t, s.Begin(epoch))
	_, err := s.Advance(epoch)
	require.ErrorIs(t, err, auctionerrors.ErrInvalidState)
}
