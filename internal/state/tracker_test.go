package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_StartsIdle(t *testing.T) {
	tr := NewTracker()
	assert.Equal(t, Idle, tr.Current())
	assert.False(t, tr.InMarket())
}

func TestTracker_EnterAndExit(t *testing.T) {
	tr := NewTracker()

	assert.True(t, tr.Enter(InPosition))
	assert.Equal(t, InPosition, tr.Current())
	assert.True(t, tr.InMarket())

	assert.True(t, tr.Exit())
	assert.Equal(t, Idle, tr.Current())
}

func TestTracker_RepeatedEnterIsNoOp(t *testing.T) {
	tr := NewTracker()

	assert.True(t, tr.Enter(LongSpread))
	// A second identical transition must not report a change.
	assert.False(t, tr.Enter(LongSpread))
	assert.Equal(t, LongSpread, tr.Current())
}

func TestTracker_ExitWhenIdleIsNoOp(t *testing.T) {
	tr := NewTracker()
	assert.False(t, tr.Exit())
	assert.Equal(t, Idle, tr.Current())
}

func TestTracker_EnterIdleRejected(t *testing.T) {
	tr := NewTracker()
	tr.Enter(ShortSpread)

	// Idle is only reachable through Exit.
	assert.False(t, tr.Enter(Idle))
	assert.Equal(t, ShortSpread, tr.Current())
}

func TestTracker_SpreadStates(t *testing.T) {
	tr := NewTracker()

	assert.True(t, tr.Enter(ShortSpread))
	assert.True(t, tr.Exit())
	assert.True(t, tr.Enter(LongSpread))
	assert.Equal(t, LongSpread, tr.Current())
}
