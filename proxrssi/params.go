package proxrssi

import "github.com/keylessanchor/rssiprox/fixedpoint"

// Params holds the immutable-after-init calibration of one Instance.
// All fields mirror an option in spec §6 of this repository's design
// document; a zero value for most fields means "use the documented
// default" (applied by New, matching the defensive-default behaviour
// of the reference ProxRssi_Init).
type Params struct {
	// Windows (ms).
	WRawMs   uint32
	WSpikeMs uint32
	WFeatMs  uint32

	// Hampel spike rejection: threshold = K * 1.5 * MAD.
	HampelKQ4 uint16
	MadEpsQ4  uint16

	// Thresholds (Q4 dB).
	EnterNearQ4 int16
	ExitNearQ4  int16
	HystQ4      uint16

	// Stability gate.
	PctThQ15       uint16
	StdThQ4        uint16
	StableMs       uint32
	MinFeatSamples uint16

	// State machine debounce.
	ExitConfirmMs uint32
	LockoutMs     uint32

	// Time anomaly handling.
	MaxReasonableDtMs uint32
}

// DefaultParams returns the calibration this repository ships with,
// taken from the reference integration layer (see DESIGN.md): enter
// near -50 dBm, exit near -60 dBm, 2 s stability hold, 5 s lockout.
func DefaultParams() Params {
	return Params{
		WRawMs:   2000,
		WSpikeMs: 800,
		WFeatMs:  2000,

		HampelKQ4: 40,
		MadEpsQ4:  8,

		EnterNearQ4: -800,
		ExitNearQ4:  -960,
		HystQ4:      160,

		PctThQ15:       13107,
		StdThQ4:        128,
		StableMs:       2000,
		MinFeatSamples: 6,

		ExitConfirmMs: 1500,
		LockoutMs:     5000,

		MaxReasonableDtMs: 2000,
	}
}

// withDefaults returns a copy of p with the zero-valued window,
// hysteresis, stability-hold, exit-confirm, lockout, MinFeatSamples and
// MaxReasonableDtMs fields replaced by fallback defaults, and
// exitNearQ4 derived from enterNearQ4-hystQ4 when it was left at 0.
// HampelKQ4, MadEpsQ4, EnterNearQ4, PctThQ15 and StdThQ4 have no
// fallback: a zero in any of them is kept as zero.
func (p Params) withDefaults() Params {
	if p.WRawMs == 0 {
		p.WRawMs = 2000
	}

	if p.WSpikeMs == 0 {
		p.WSpikeMs = 800
	}

	if p.WFeatMs == 0 {
		p.WFeatMs = 2000
	}

	if p.HystQ4 == 0 {
		p.HystQ4 = 80 // 5 dB
	}

	if p.ExitNearQ4 == 0 {
		p.ExitNearQ4 = p.EnterNearQ4 - int16(p.HystQ4)
	}

	if p.StableMs == 0 {
		p.StableMs = 2000
	}

	if p.ExitConfirmMs == 0 {
		p.ExitConfirmMs = 1500
	}

	if p.LockoutMs == 0 {
		p.LockoutMs = 7000
	}

	if p.MinFeatSamples == 0 {
		p.MinFeatSamples = 6
	}

	if p.MaxReasonableDtMs == 0 {
		p.MaxReasonableDtMs = 2000
	}

	return p
}

// DefaultAlphaLUT builds the linear-ramp alpha-vs-dt lookup table this
// repository ships with: alpha=0.05 (1638/32767) at dt=0ms ramping to
// alpha=0.30 (9830/32767) at dt=1000ms, 1ms step, 1001 entries. Values
// beyond the table are clamped to the last entry by Instance.
func DefaultAlphaLUT() []uint16 {
	const (
		lutLen  = AlphaLUTStepMs*1000 + 1
		alphaLo = 1638
		alphaHi = 9830
	)

	var lut = make([]uint16, lutLen)

	for i := range lut {
		var alpha = alphaLo + uint32(i)*(alphaHi-alphaLo)/1000
		if alpha > fixedpoint.Q15One {
			alpha = fixedpoint.Q15One
		}

		lut[i] = uint16(alpha)
	}

	return lut
}
