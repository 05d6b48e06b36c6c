package fraction

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSimplifies(t *testing.T) {
	f, err := New(6, 8)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(3, f.Numerator())
	assert.Equal(4, f.Denominator())
	assert.Equal("3/4", f.String())

	z, err := New(0, 7)
	require.NoError(t, err)
	assert.Equal(Zero, z)
	assert.Equal(1, Fraction{}.Denominator())
}

func TestNewRejectsBadDenominator(t *testing.T) {
	for _, den := range []int{0, -4} {
		_, err := New(1, den)
		assert.ErrorIs(t, err, ErrArithmetic)
	}
}

func TestArithmetic(t *testing.T) {
	assert := assert.New(t)
	a, b := MustNew(1, 4), MustNew(1, 6)
	assert.Equal(MustNew(5, 12), a.Add(b))
	assert.Equal(MustNew(1, 12), a.Sub(b))
	assert.Equal(MustNew(-1, 12), b.Sub(a))
	assert.Equal(MustNew(1, 24), a.Mul(b))

	q, err := a.Div(b)
	require.NoError(t, err)
	assert.Equal(MustNew(3, 2), q)

	_, err = a.Div(Zero)
	assert.ErrorIs(err, ErrArithmetic)
}

func TestCompare(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, MustNew(1, 3).Cmp(MustNew(1, 2)))
	assert.Equal(1, MustNew(2, 3).Cmp(MustNew(1, 2)))
	assert.Equal(0, MustNew(2, 4).Cmp(MustNew(1, 2)))
	assert.True(MustNew(-1, 2).Less(Zero))
	assert.Equal(MustNew(3, 4), Max(MustNew(3, 4), MustNew(1, 2)))
}

func TestAddSubRoundTrip(t *testing.T) {
	values := []Fraction{
		Zero, One, MustNew(1, 3), MustNew(-5, 8), MustNew(7, 12), MustNew(31, 32), MustNew(9, 1),
	}
	for _, a := range values {
		for _, b := range values {
			t.Run(fmt.Sprintf("%v+%v-%v", a, b, b), func(t *testing.T) {
				assert.True(t, a.Add(b).Sub(b).Equal(a))
			})
		}
	}
}

func TestLog2Denominator(t *testing.T) {
	assert := assert.New(t)
	log, ok := MustNew(4, 1).Log2Denominator()
	assert.True(ok)
	assert.Equal(0, log)

	log, ok = MustNew(1, 16).Log2Denominator()
	assert.True(ok)
	assert.Equal(4, log)

	_, ok = MustNew(1, 12).Log2Denominator()
	assert.False(ok)
}

func TestToInteger(t *testing.T) {
	assert.Equal(t, 8, MustNew(1, 24).ToInteger(48))
	assert.Equal(t, 480, MustNew(1, 4).ToInteger(480))
}
