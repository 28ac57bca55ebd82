package fixedpoint

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_DbmToQ4_roundtrip(t *testing.T) {
	// I10: q4_of_dbm(d) / 16 == d for d in [-127, 0)
	for dbm := -127; dbm < 0; dbm++ {
		var q4 = DbmToQ4(int8(dbm))
		assert.Equal(t, dbm, int(q4)/16, "roundtrip failed for %d dBm", dbm)
	}
}

func Test_DbToQ4(t *testing.T) {
	assert.Equal(t, int16(160), DbToQ4(10))
	assert.Equal(t, int16(-160), DbToQ4(-10))
	assert.Equal(t, int16(0), DbToQ4(0))
}

func Test_MulAlphaQ15DeltaQ4(t *testing.T) {
	// alpha=1.0 (approximately, Q15One) should pass almost all of delta through
	assert.Equal(t, int16(0), MulAlphaQ15DeltaQ4(0, 1000))
	assert.InDelta(t, 1000, int(MulAlphaQ15DeltaQ4(32767, 1000)), 1)
}

func Test_TimeDiff_wraps(t *testing.T) {
	assert.Equal(t, uint32(5), TimeDiff(10, 5))

	// a single wraparound: b just before max uint32, a just after wrap
	var b = ^uint32(0) - 2 // max-2
	var a = uint32(2)      // wrapped forward by 5
	assert.Equal(t, uint32(5), TimeDiff(a, b))
}

func Test_InsertionSort(t *testing.T) {
	var a = []int16{5, -3, 0, 2, -3, 9}
	InsertionSort(a)
	assert.Equal(t, []int16{-3, -3, 0, 2, 5, 9}, a)
}

func Test_InsertionSort_empty_and_single(t *testing.T) {
	var empty []int16
	InsertionSort(empty)
	assert.Empty(t, empty)

	var single = []int16{42}
	InsertionSort(single)
	assert.Equal(t, []int16{42}, single)
}

func Test_MedianOfSorted_upperMedianForEven(t *testing.T) {
	// n=4 => index 2 (upper median), per the Design Notes tie-break policy
	assert.Equal(t, int16(3), MedianOfSorted([]int16{1, 2, 3, 4}))
	assert.Equal(t, int16(2), MedianOfSorted([]int16{1, 2, 3}))
}

func Test_IsqrtU32_exact(t *testing.T) {
	assert.Equal(t, uint16(0), IsqrtU32(0))
	assert.Equal(t, uint16(3), IsqrtU32(9))
	assert.Equal(t, uint16(10), IsqrtU32(100))
	assert.Equal(t, uint16(65535), IsqrtU32(uint32(65535)*uint32(65535)))
}

func Test_IsqrtU32_floor(t *testing.T) {
	// 99 is between 9^2=81 and 10^2=100, floor sqrt is 9
	assert.Equal(t, uint16(9), IsqrtU32(99))
}

func Test_InsertionSort_property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var in = rapid.SliceOfN(rapid.Int16(), 0, 128).Draw(t, "in")

		var got = append([]int16(nil), in...)
		InsertionSort(got)

		var want = append([]int16(nil), in...)
		sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })

		assert.Equal(t, want, got)
	})
}

func Test_IsqrtU32_property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var x = rapid.Uint32().Draw(t, "x")

		var r = IsqrtU32(x)

		assert.LessOrEqualf(t, uint64(r)*uint64(r), uint64(x), "isqrt(%d) overshot: %d^2 > %d", x, r, x)
		assert.Greaterf(t, (uint64(r)+1)*(uint64(r)+1), uint64(x), "isqrt(%d) undershot: %d is not the floor", x, r)
	})
}
