package fraction

import (
	"fmt"
	"testing"

	"github.com/jsphweid/brailledex/braille"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotInference(t *testing.T) {
	cases := []struct {
		num, den int
		wantNum  int
		wantDen  int
		wantDots int
	}{
		{2, 1, 2, 1, 0},
		{3, 1, 2, 1, 1},
		{7, 2, 2, 1, 2},
		{15, 4, 2, 1, 3},
		{31, 8, 2, 1, 4},
		{1, 1, 1, 1, 0},
		{3, 2, 1, 1, 1},
		{7, 4, 1, 1, 2},
		{15, 8, 1, 1, 3},
		{31, 16, 1, 1, 4},
		{1, 2, 1, 2, 0},
		{3, 4, 1, 2, 1},
		{7, 8, 1, 2, 2},
		{15, 16, 1, 2, 3},
		{31, 32, 1, 2, 4},
		{6, 1, 4, 1, 1},
		{7, 1, 4, 1, 2},
	}

	for _, c := range cases {
		name := fmt.Sprintf("%d/%d", c.num, c.den)
		t.Run(name, func(t *testing.T) {
			af, err := FromRaw(MustNew(c.num, c.den))
			require.NoError(t, err)

			assert := assert.New(t)
			assert.Equal(c.wantNum, af.Numerator(), "numerator of "+name)
			assert.Equal(c.wantDen, af.Denominator(), "denominator of "+name)
			assert.Equal(c.wantDots, af.Dots, "dots of "+name)
			assert.True(af.EqualValue(MustNew(c.num, c.den)))
		})
	}
}

func TestFromRawReconstructsValue(t *testing.T) {
	for den := 1; den <= 256; den *= 2 {
		for num := 1; num <= 4*den; num++ {
			raw := MustNew(num, den)
			af, err := FromRaw(raw)
			require.NoError(t, err)
			if !af.Value().Equal(raw) {
				t.Errorf("%v inferred as %v which is worth %v", raw, af, af.Value())
			}
		}
	}
}

func TestFromRawRejectsTinyDenominators(t *testing.T) {
	_, err := FromRaw(MustNew(1, 512))
	assert.ErrorIs(t, err, ErrUnsupportedDenominator)

	// not a power of two, left alone
	af, err := FromRaw(MustNew(1, 12))
	require.NoError(t, err)
	assert.Equal(t, 0, af.Dots)
	assert.True(t, af.EqualValue(MustNew(1, 12)))
}

func TestTupletValue(t *testing.T) {
	af := MustNewAugmented(1, 16, 0, 4, 6)

	assert := assert.New(t)
	assert.True(af.EqualValue(MustNew(1, 24)), "1/16 (6 in 4) == 1/24")
	assert.Equal(8, af.ToInteger(48), "1/16 (6 in 4) at 48 divisions")
	assert.InDelta(1.0/24, af.Float64(), 1e-9)
}

func TestDottedIsNotPlain(t *testing.T) {
	dotted := MustNewAugmented(1, 4, 1, 1, 1)
	assert.False(t, dotted.EqualValue(MustNew(1, 4)), "1/4 != 1/4.")
	assert.False(t, dotted.Equal(MustNewAugmented(1, 4, 0, 1, 1)))
	assert.True(t, dotted.EqualValue(MustNew(3, 8)))
}

func TestEquality(t *testing.T) {
	af1 := MustNewAugmented(1, 8, 0, 3, 2)
	af2 := MustNewAugmented(1, 8, 0, 3, 2)
	assert.True(t, af1.Equal(af2), "1/8 (3 in 2) == 1/8 (3 in 2)")
	assert.True(t, af2.Equal(af1))
	assert.True(t, af1.Equal(af1))
	assert.False(t, af1.Equal(MustNewAugmented(1, 8, 0, 2, 3)))
}

func TestZeroDotsKeepsValue(t *testing.T) {
	af := MustNewAugmented(3, 16, 0, 1, 1)
	assert.True(t, af.Value().Equal(MustNew(3, 16)))
}

func TestNewAugmentedValidates(t *testing.T) {
	_, err := NewAugmented(1, 0, 0, 1, 1)
	assert.ErrorIs(t, err, ErrArithmetic)
	_, err = NewAugmented(1, 4, -1, 1, 1)
	assert.ErrorIs(t, err, ErrArithmetic)
	_, err = NewAugmented(1, 4, 0, 0, 3)
	assert.ErrorIs(t, err, ErrArithmetic)
}

type step int

func (s step) StepIndex() int { return int(s) }

func TestToBraille(t *testing.T) {
	assert := assert.New(t)
	// quarter C
	assert.Equal(braille.Cell(145, 6), MustNewAugmented(1, 4, 0, 1, 1).ToBraille(step(0)))
	// dotted half G
	assert.Equal(braille.Cell(125, 3)+braille.Dot, MustNewAugmented(1, 2, 1, 1, 1).ToBraille(step(4)))
	// eighth D
	assert.Equal(braille.Cell(15), MustNewAugmented(1, 8, 0, 1, 1).ToBraille(step(1)))
	// 16th shares the whole note cell
	assert.Equal(braille.Cell(145, 36), MustNewAugmented(1, 16, 0, 1, 1).ToBraille(step(0)))
	// whole rest, double dotted quarter rest
	assert.Equal(braille.Cell(134), MustNewAugmented(1, 1, 0, 1, 1).ToBraille(nil))
	assert.Equal(braille.Cell(1236)+braille.Dot+braille.Dot, MustNewAugmented(1, 4, 2, 1, 1).ToBraille(nil))
	// 256th clamps to the last entry
	assert.Equal(braille.Cell(1346), MustNewAugmented(1, 256, 0, 1, 1).ToBraille(nil))
}
