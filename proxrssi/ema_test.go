package proxrssi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_EmaUpdate_seedsOnFirstSample(t *testing.T) {
	var ins = newDefaultInstance(t)

	got := ins.emaUpdate(1000, -800)
	assert.Equal(t, int16(-800), got)
	assert.True(t, ins.emaValid)
}

func Test_EmaUpdate_resetsOnZeroDt(t *testing.T) {
	var ins = newDefaultInstance(t)

	ins.emaUpdate(1000, -800)
	got := ins.emaUpdate(1000, -400)

	assert.Equal(t, int16(-400), got, "a repeated timestamp forces a reset, not a blended step")
}

func Test_EmaUpdate_resetsOnLargeGap(t *testing.T) {
	var ins = newDefaultInstance(t)

	ins.emaUpdate(1000, -800)
	got := ins.emaUpdate(1000+ins.params.MaxReasonableDtMs+1, -400)

	assert.Equal(t, int16(-400), got)
}

// I8: for a constant input, the EMA's absolute distance to the target
// is non-increasing call over call (it converges monotonically, it does
// not overshoot and oscillate).
func Test_EmaUpdate_convergesMonotonicallyToConstantInput(t *testing.T) {
	var ins = newDefaultInstance(t)

	var tMs uint32 = 1000
	ins.emaUpdate(tMs, -1200) // far away

	prevDist := int32(1200 - 400) // |(-1200) - (-400)|
	const target = int16(-400)

	for i := 0; i < 50; i++ {
		tMs += 100
		got := ins.emaUpdate(tMs, target)

		dist := int32(got - target)
		if dist < 0 {
			dist = -dist
		}

		assert.LessOrEqual(t, dist, prevDist, "distance to target must never increase under constant input")
		prevDist = dist
	}
}

func Test_AlphaForDt_saturatesPastLUTRange(t *testing.T) {
	var ins = newDefaultInstance(t)

	lastIdx := len(ins.alphaLUT) - 1
	assert.Equal(t, ins.alphaLUT[lastIdx], ins.alphaForDt(uint32(lastIdx)+1000))
}
