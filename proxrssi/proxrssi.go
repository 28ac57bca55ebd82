// Package proxrssi implements the deterministic, fixed-point,
// heap-free RSSI proximity pipeline: Hampel spike rejection, an
// adaptive exponential moving average, windowed feature extraction,
// and the three-state FAR/CANDIDATE/LOCKOUT proximity machine.
//
// One Instance owns exactly one connected phone's worth of state: two
// ring buffers, one EMA register, the state-machine timers, and its
// own scratch arrays. There is no global state and no sharing between
// instances. Every operation is synchronous, non-blocking, and total —
// no tick can panic, and the only error an Instance ever returns to a
// caller is ErrInvalidArgument, from API misuse.
//
// This package makes no security decision of its own. EventUnlockTriggered
// is advisory: it means "the proximity gate fired, start the secure
// handshake", not "unlock the car".
package proxrssi

import "errors"

// RawCap and SmoothCap are the fixed capacities of the raw-sample and
// smoothed-sample rings. Both are compile-time constants: the size of
// an Instance is fixed once these (and AlphaLUTCap) are chosen.
const (
	RawCap    = 128
	SmoothCap = 128
)

// AlphaLUTStepMs is the granularity of the dt-to-alpha lookup table:
// index = dt_ms / AlphaLUTStepMs, clamped to AlphaLUTCap-1.
const AlphaLUTStepMs = 1

// AlphaLUTCap bounds how many distinct dt buckets the alpha-LUT holds.
// A caller-supplied LUT shorter than this is extended by replicating
// its last entry; a longer one is truncated.
const AlphaLUTCap = 1001

// ErrInvalidArgument is returned when the caller violates an API
// boundary precondition: a missing/empty alpha LUT at New, or an
// out-of-range RSSI at PushRaw. It is the only error this package ever
// returns — internal conditions (insufficient data, a time anomaly)
// are absorbed and never returned as errors.
var ErrInvalidArgument = errors.New("proxrssi: invalid argument")

// State is one of the three proximity states.
type State int

const (
	StateFar State = iota
	StateCandidate
	StateLockout
)

// String renders the state the way the reference integration layer's
// diagnostic prints do.
func (s State) String() string {
	switch s {
	case StateFar:
		return "FAR"
	case StateCandidate:
		return "CANDIDATE"
	case StateLockout:
		return "LOCKOUT"
	default:
		return "?"
	}
}

// Event is emitted at most once per Tick.
type Event int

const (
	EventNone Event = iota
	EventCandidateStarted
	EventUnlockTriggered
	EventExitToFar
)

// String renders the event the way the reference integration layer's
// diagnostic prints do.
func (e Event) String() string {
	switch e {
	case EventNone:
		return "NONE"
	case EventCandidateStarted:
		return "CANDIDATE_STARTED"
	case EventUnlockTriggered:
		return "UNLOCK_TRIGGERED"
	case EventExitToFar:
		return "EXIT_TO_FAR"
	default:
		return "?"
	}
}

// Features is the feature-stage snapshot returned alongside an Event
// from every Tick, zeroed when the pipeline could not run this tick.
type Features struct {
	N                int
	PctAboveEnterQ15 uint16
	StdQ4            uint16
	LastQ4           int16
	MinQ4            int16
	MaxQ4            int16
}
