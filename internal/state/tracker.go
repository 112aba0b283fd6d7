package state

// Position is the local view of whether a strategy instance currently
// holds a position. It is owned by exactly one instance and never shared.
type Position string

const (
	Idle        Position = "IDLE"
	InPosition  Position = "IN_POSITION"
	LongSpread  Position = "LONG_SPREAD"
	ShortSpread Position = "SHORT_SPREAD"
)

// Tracker is a small state machine over Position. Transitions happen
// only through Enter and Exit, fired by the owning strategy after an
// order submission succeeds or an exit condition is met. The tracker is
// optimistic: it does not reconcile against exchange-reported positions.
type Tracker struct {
	current Position
}

// NewTracker creates a tracker in the Idle state.
func NewTracker() *Tracker {
	return &Tracker{current: Idle}
}

// Current returns the active position state.
func (t *Tracker) Current() Position {
	return t.current
}

// InMarket reports whether the instance holds any position.
func (t *Tracker) InMarket() bool {
	return t.current != Idle
}

// Enter moves the tracker into the given non-idle state. Returns true
// when the state actually changed; entering the current state again is
// a no-op so callers can log only real transitions.
func (t *Tracker) Enter(p Position) bool {
	if p == Idle || t.current == p {
		return false
	}
	t.current = p
	return true
}

// Exit returns the tracker to Idle. Returns true when the state
// actually changed.
func (t *Tracker) Exit() bool {
	if t.current == Idle {
		return false
	}
	t.current = Idle
	return true
}
