package proxrssi

import (
	"fmt"

	"github.com/keylessanchor/rssiprox/ring"
)

// Instance owns the entire state of one connected phone's proximity
// pipeline: both rings, the EMA register, the state machine and its
// timers, and scratch arrays for the Hampel sort/MAD. There is no
// sharing between instances and no global state; the caller must
// serialize access to a given Instance (PushRaw/Tick/ForceFar are not
// internally synchronized).
type Instance struct {
	params Params

	state             State
	tCandidateStartMs uint32
	tBelowExitStartMs *uint32 // nil is the sentinel for "not timing"
	tLockoutUntilMs   uint32

	emaValid  bool
	emaQ4     int16
	emaPrevMs uint32

	raw    *ring.Ring[int8]
	smooth *ring.Ring[int16]

	alphaLUT []uint16

	// Scratch, sized once at New and reused by every Tick: no
	// allocation occurs after construction.
	tmpA [RawCap]int16
	tmpB [RawCap]int16
	tmpS [SmoothCap]int16
}

// New checks that the alpha LUT is non-empty, then returns a ready
// Instance in state FAR. The LUT is copied in (not referenced) and
// extended by replicating its last entry if shorter than AlphaLUTCap;
// zero-valued fields in params are replaced by the fallbacks of
// Params.withDefaults, which does not cover every field.
func New(params Params, alphaLUT []uint16) (*Instance, error) {
	if len(alphaLUT) == 0 {
		return nil, fmt.Errorf("%w: alpha LUT must be non-empty", ErrInvalidArgument)
	}

	var ins = &Instance{
		params: params.withDefaults(),
		raw:    ring.New[int8](RawCap),
		smooth: ring.New[int16](SmoothCap),
	}

	ins.alphaLUT = make([]uint16, AlphaLUTCap)

	var n = len(alphaLUT)
	if n > AlphaLUTCap {
		n = AlphaLUTCap
	}

	copy(ins.alphaLUT[:n], alphaLUT[:n])

	for i := n; i < AlphaLUTCap; i++ {
		ins.alphaLUT[i] = ins.alphaLUT[n-1]
	}

	ins.state = StateFar

	return ins, nil
}

// PushRaw appends one raw BLE RSSI reading to the raw ring. It rejects
// rssi_dbm == 127 ("unavailable" per the BLE core spec) and rssi_dbm
// >= 0 (impossible for BLE, would poison the Hampel median), and
// clamps rssi_dbm < -127 up to -127. It does not run the pipeline —
// call Tick for that.
func (ins *Instance) PushRaw(tMs uint32, rssiDbm int8) error {
	if rssiDbm == 127 || rssiDbm >= 0 {
		return fmt.Errorf("%w: rssi_dbm %d out of range", ErrInvalidArgument, rssiDbm)
	}

	if rssiDbm < -127 {
		rssiDbm = -127
	}

	ins.raw.Push(tMs, rssiDbm)

	return nil
}

// Tick prunes both rings to their configured windows and, if there is
// any raw data at all, runs Hampel -> EMA -> feature extraction ->
// state machine. It always returns: no branch of the pipeline can
// panic or block, and too little data for the Hampel or feature stage
// collapses to (EventNone, a zeroed Features). A time anomaly reseeds
// the EMA and the tick goes on through the remaining stages.
//
// Tick is not idempotent for the same nowMs called twice after a
// single PushRaw — the second call observes the first call's smoothed
// write. Callers are expected to follow one PushRaw then one Tick per
// BLE RSSI reading, with strictly increasing nowMs.
func (ins *Instance) Tick(nowMs uint32) (Event, Features) {
	ins.raw.Prune(nowMs, ins.params.WRawMs)
	ins.smooth.Prune(nowMs, ins.params.WFeatMs)

	if ins.raw.Count() == 0 {
		return EventNone, Features{}
	}

	xQ4, ok := ins.hampelFilter(nowMs)
	if !ok {
		return EventNone, Features{}
	}

	emaQ4 := ins.emaUpdate(nowMs, xQ4)

	ins.smooth.Push(nowMs, emaQ4)
	ins.smooth.Prune(nowMs, ins.params.WFeatMs)

	f, ok := ins.computeFeatures(nowMs)
	if !ok {
		return EventNone, Features{}
	}

	ev := ins.stateStep(nowMs, f)

	return ev, f
}

// ForceFar clears both rings, invalidates the EMA, and resets the
// state machine to FAR with all timers zeroed. Used when the
// underlying BLE connection drops. Idempotent: calling it twice in a
// row leaves the Instance in the same state as calling it once.
func (ins *Instance) ForceFar() {
	ins.state = StateFar
	ins.tCandidateStartMs = 0
	ins.tBelowExitStartMs = nil
	ins.tLockoutUntilMs = 0

	ins.emaValid = false
	ins.emaQ4 = 0
	ins.emaPrevMs = 0

	ins.raw.Reset()
	ins.smooth.Reset()
}

// State returns the current proximity state. Not part of the C7
// contract in the strict sense (the original exposes it only via the
// event stream and an integration-layer accessor) but convenient for
// harnesses and tests; it has no side effect.
func (ins *Instance) State() State {
	return ins.state
}

// Params returns a copy of the (defaulted) parameters this Instance
// was constructed with.
func (ins *Instance) Params() Params {
	return ins.params
}
