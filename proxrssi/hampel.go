package proxrssi

import (
	"github.com/keylessanchor/rssiprox/fixedpoint"
	"github.com/keylessanchor/rssiprox/ring"
)

// hampelFilter rejects the single most recent raw sample if it is a
// large outlier relative to the recent median, using median-absolute-
// deviation rather than variance (robust to a single spike, where
// variance is not).
//
// It returns (value, false) when the raw window (over WSpikeMs) has
// fewer than 3 samples — insufficient data, absorbed silently, never
// surfaced as an error.
func (ins *Instance) hampelFilter(nowMs uint32) (int16, bool) {
	n := ring.CopyWindowFunc(ins.raw, nowMs, ins.params.WSpikeMs, ins.tmpA[:], fixedpoint.DbmToQ4)
	if n < 3 {
		return 0, false
	}

	window := ins.tmpA[:n]

	fixedpoint.InsertionSort(window)
	medQ4 := fixedpoint.MedianOfSorted(window)

	devs := ins.tmpB[:n]
	for i, x := range window {
		d := x - medQ4
		if d < 0 {
			d = -d
		}

		devs[i] = d
	}

	fixedpoint.InsertionSort(devs)
	madQ4 := fixedpoint.MedianOfSorted(devs)

	if madQ4 < int16(ins.params.MadEpsQ4) {
		madQ4 = int16(ins.params.MadEpsQ4)
	}

	// threshold = K * 1.5 * MAD, both K and MAD in Q4.
	prodQ8 := int32(ins.params.HampelKQ4) * int32(madQ4)
	thrQ8 := (prodQ8 * 3) / 2
	thrQ4 := int16(thrQ8 / fixedpoint.Q4Scale)

	latest, _ := ins.raw.Latest() // raw.Count() > 0 is guaranteed by Tick
	xLatestQ4 := fixedpoint.DbmToQ4(latest.Payload)

	diff := xLatestQ4 - medQ4
	if diff < 0 {
		diff = -diff
	}

	if diff > thrQ4 {
		return medQ4, true
	}

	return xLatestQ4, true
}
