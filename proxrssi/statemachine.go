package proxrssi

import "github.com/keylessanchor/rssiprox/fixedpoint"

// stateStep evaluates the FAR / CANDIDATE / LOCKOUT transition rules
// for this tick's features and returns at most one event. The exit
// check is evaluated before the stability check in CANDIDATE: a phone
// being taken away must never "win" a race against an unlock.
func (ins *Instance) stateStep(nowMs uint32, f Features) Event {
	lastQ4 := f.LastQ4
	enterQ4 := ins.params.EnterNearQ4
	exitQ4 := ins.params.ExitNearQ4

	switch ins.state {
	case StateLockout:
		return ins.stepLockout(nowMs, lastQ4, exitQ4)
	case StateFar:
		return ins.stepFar(nowMs, lastQ4, enterQ4)
	case StateCandidate:
		return ins.stepCandidate(nowMs, f, lastQ4, exitQ4)
	default:
		return EventNone
	}
}

func (ins *Instance) stepFar(nowMs uint32, lastQ4, enterQ4 int16) Event {
	if lastQ4 < enterQ4 {
		return EventNone
	}

	ins.state = StateCandidate
	ins.tCandidateStartMs = nowMs
	ins.tBelowExitStartMs = nil

	return EventCandidateStarted
}

func (ins *Instance) stepCandidate(nowMs uint32, f Features, lastQ4, exitQ4 int16) Event {
	if lastQ4 < exitQ4 {
		if ins.tBelowExitStartMs == nil {
			t := nowMs
			ins.tBelowExitStartMs = &t
		}

		if fixedpoint.TimeDiff(nowMs, *ins.tBelowExitStartMs) >= ins.params.ExitConfirmMs {
			ins.state = StateFar
			ins.tBelowExitStartMs = nil
			ins.tCandidateStartMs = 0

			return EventExitToFar
		}
	} else {
		ins.tBelowExitStartMs = nil
	}

	if ins.isStable(f) {
		if fixedpoint.TimeDiff(nowMs, ins.tCandidateStartMs) >= ins.params.StableMs {
			ins.state = StateLockout
			ins.tLockoutUntilMs = nowMs + ins.params.LockoutMs
			ins.tBelowExitStartMs = nil

			return EventUnlockTriggered
		}
	} else {
		ins.tCandidateStartMs = nowMs // restart the stability hold
	}

	return EventNone
}

func (ins *Instance) stepLockout(nowMs uint32, lastQ4, exitQ4 int16) Event {
	if nowMs < ins.tLockoutUntilMs {
		return EventNone
	}

	if lastQ4 < exitQ4 {
		if ins.tBelowExitStartMs == nil {
			t := nowMs
			ins.tBelowExitStartMs = &t
		}

		if fixedpoint.TimeDiff(nowMs, *ins.tBelowExitStartMs) >= ins.params.ExitConfirmMs {
			ins.state = StateFar
			ins.tBelowExitStartMs = nil

			return EventExitToFar
		}
	} else {
		ins.tBelowExitStartMs = nil
	}

	return EventNone
}
