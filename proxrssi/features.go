package proxrssi

import (
	"github.com/keylessanchor/rssiprox/fixedpoint"
	"github.com/keylessanchor/rssiprox/ring"
)

// computeFeatures scans the smoothed-ring window (WFeatMs) once,
// computing count-above-enter, min, max, and a std-dev via integer
// sqrt in 64-bit accumulators (safe for any achievable N and Q4
// range). It returns (zero value, false) when the window has fewer
// than MinFeatSamples — insufficient data, absorbed silently.
//
// last_q4 is the last sample encountered by the tail-to-head scan, i.e.
// the most recently pushed sample in the window; when samples were
// pushed with out-of-order timestamps it is not necessarily the one
// with the largest timestamp — this matches the reference
// ComputeFeatures and is covered by a dedicated test rather than
// "fixed" into timestamp-order semantics.
func (ins *Instance) computeFeatures(nowMs uint32) (Features, bool) {
	identity := func(x int16) int16 { return x }

	n := ring.CopyWindowFunc(ins.smooth, nowMs, ins.params.WFeatMs, ins.tmpS[:], identity)
	if n < int(ins.params.MinFeatSamples) {
		return Features{}, false
	}

	window := ins.tmpS[:n]

	var (
		sumQ4    int64
		sumSqQ8  int64
		cntAbove uint32
		mn       = window[0]
		mx       = window[0]
	)

	enterQ4 := ins.params.EnterNearQ4

	for _, xQ4 := range window {
		sumQ4 += int64(xQ4)
		sumSqQ8 += int64(xQ4) * int64(xQ4)

		if xQ4 >= enterQ4 {
			cntAbove++
		}

		if xQ4 < mn {
			mn = xQ4
		}

		if xQ4 > mx {
			mx = xQ4
		}
	}

	var stdQ4 uint32

	if n > 1 {
		meanSqTerm := (sumQ4 * sumQ4) / int64(n)

		diff := sumSqQ8 - meanSqTerm
		if diff < 0 {
			diff = 0
		}

		varQ8 := uint32(diff / int64(n-1))
		stdQ4 = uint32(fixedpoint.IsqrtU32(varQ8))
	}

	f := Features{
		N:                n,
		PctAboveEnterQ15: uint16((cntAbove * fixedpoint.Q15One) / uint32(n)),
		StdQ4:            uint16(stdQ4),
		LastQ4:           window[n-1],
		MinQ4:            mn,
		MaxQ4:            mx,
	}

	return f, true
}

// isStable reports whether the joint stability gate — enough samples
// above the near threshold, and low enough dispersion — is satisfied
// this tick.
func (ins *Instance) isStable(f Features) bool {
	return f.PctAboveEnterQ15 >= ins.params.PctThQ15 && f.StdQ4 <= ins.params.StdThQ4
}
