package proxrssi

import "github.com/keylessanchor/rssiprox/fixedpoint"

// emaUpdate applies the one-pole, dt-adaptive low-pass filter. The
// first accepted sample seeds the EMA exactly; a dt of zero or
// greater than MaxReasonableDtMs forces a full reset (seed again)
// rather than smoothing across a missed sample or a clock anomaly.
func (ins *Instance) emaUpdate(nowMs uint32, xQ4 int16) int16 {
	if !ins.emaValid {
		ins.emaValid = true
		ins.emaQ4 = xQ4
		ins.emaPrevMs = nowMs

		return xQ4
	}

	dtMs := fixedpoint.TimeDiff(nowMs, ins.emaPrevMs)

	if dtMs == 0 || dtMs > ins.params.MaxReasonableDtMs {
		ins.emaQ4 = xQ4
		ins.emaPrevMs = nowMs

		return xQ4
	}

	alphaQ15 := ins.alphaForDt(dtMs)

	deltaQ4 := xQ4 - ins.emaQ4
	stepQ4 := fixedpoint.MulAlphaQ15DeltaQ4(alphaQ15, deltaQ4)

	ins.emaQ4 += stepQ4
	ins.emaPrevMs = nowMs

	return ins.emaQ4
}

// alphaForDt looks up the per-sample EMA gain for a sampling interval,
// saturating at the LUT's last entry for dt beyond its range.
func (ins *Instance) alphaForDt(dtMs uint32) uint16 {
	idx := dtMs / AlphaLUTStepMs
	if idx >= uint32(len(ins.alphaLUT)) {
		idx = uint32(len(ins.alphaLUT)) - 1
	}

	return ins.alphaLUT[idx]
}
