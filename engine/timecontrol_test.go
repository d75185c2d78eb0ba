package engine

import (
	"testing"
	"time"

	"github.com/arcalight/corvid/board"
	"github.com/stretchr/testify/require"
)

func startPos(t *testing.T) *board.Position {
	t.Helper()
	pos, err := board.PositionFromFEN(board.FENStartPos)
	require.NoError(t, err)
	return pos
}

func TestFixedDepthTimeControlStopsAtDepth(t *testing.T) {
	tc := NewFixedDepthTimeControl(startPos(t), 4)
	tc.Start(false)

	require.True(t, tc.NextDepth(1))
	require.True(t, tc.NextDepth(4))
	require.False(t, tc.NextDepth(5))
}

func TestDeadlineTimeControlStopsAfterBudget(t *testing.T) {
	tc := NewDeadlineTimeControl(startPos(t), 10*time.Millisecond)
	tc.Start(false)

	require.False(t, tc.Stopped())
	time.Sleep(60 * time.Millisecond)
	require.True(t, tc.Stopped())
}

func TestTimeControlStopIsImmediate(t *testing.T) {
	tc := NewTimeControl(startPos(t))
	tc.Start(false)

	require.False(t, tc.Stopped())
	tc.Stop()
	require.True(t, tc.Stopped())
}

func TestTimeControlPonderHitSwitchesToSearchDeadline(t *testing.T) {
	tc := NewDeadlineTimeControl(startPos(t), 20*time.Millisecond)
	tc.Start(true)

	// A ponder search with no hit yet is governed by the (larger) ponder
	// deadline, not the search deadline, so it should not be stopped yet.
	require.False(t, tc.Stopped())

	tc.PonderHit()
	require.False(t, tc.Stopped())
	time.Sleep(60 * time.Millisecond)
	require.True(t, tc.Stopped())
}

func TestTimeControlAbortedOnlyBeforePonderHit(t *testing.T) {
	tc := NewTimeControl(startPos(t))
	tc.Start(true)

	tc.Stop()
	require.True(t, tc.Aborted(), "stopping before a ponder hit is an abort")

	tc2 := NewTimeControl(startPos(t))
	tc2.Start(true)
	tc2.PonderHit()
	tc2.Stop()
	require.False(t, tc2.Aborted(), "stopping after a ponder hit is a normal completion")
}
