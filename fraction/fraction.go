// Package fraction implements exact note-length arithmetic.
package fraction

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/jsphweid/brailledex/util"
)

var ErrArithmetic = errors.New("arithmetic error")

// Fraction is always held in lowest terms with a positive denominator.
// The zero value is 0/1.
type Fraction struct {
	num int
	den int
}

var (
	Zero = Fraction{0, 1}
	One  = Fraction{1, 1}
)

func New(num, den int) (Fraction, error) {
	if den <= 0 {
		return Zero, fmt.Errorf("%w: denominator %d must be positive", ErrArithmetic, den)
	}
	return simplify(num, den), nil
}

func MustNew(num, den int) Fraction {
	f, err := New(num, den)
	if err != nil {
		panic(err)
	}
	return f
}

func simplify(num, den int) Fraction {
	if num == 0 {
		return Zero
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := util.Gcd(num, den)
	return Fraction{num / g, den / g}
}

func (f Fraction) norm() Fraction {
	if f.den == 0 {
		return Zero
	}
	return f
}

func (f Fraction) Numerator() int   { return f.norm().num }
func (f Fraction) Denominator() int { return f.norm().den }

func (f Fraction) Add(o Fraction) Fraction {
	f, o = f.norm(), o.norm()
	return simplify(f.num*o.den+o.num*f.den, f.den*o.den)
}

func (f Fraction) Sub(o Fraction) Fraction {
	f, o = f.norm(), o.norm()
	return simplify(f.num*o.den-o.num*f.den, f.den*o.den)
}

func (f Fraction) Mul(o Fraction) Fraction {
	f, o = f.norm(), o.norm()
	return simplify(f.num*o.num, f.den*o.den)
}

func (f Fraction) Div(o Fraction) (Fraction, error) {
	f, o = f.norm(), o.norm()
	if o.num == 0 {
		return Zero, fmt.Errorf("%w: division of %v by zero", ErrArithmetic, f)
	}
	return simplify(f.num*o.den, f.den*o.num), nil
}

// Cmp compares by cross multiplication and returns -1, 0 or +1.
func (f Fraction) Cmp(o Fraction) int {
	f, o = f.norm(), o.norm()
	l, r := f.num*o.den, o.num*f.den
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

func (f Fraction) Equal(o Fraction) bool { return f.Cmp(o) == 0 }
func (f Fraction) Less(o Fraction) bool  { return f.Cmp(o) < 0 }
func (f Fraction) IsZero() bool          { return f.norm().num == 0 }

func (f Fraction) Float64() float64 {
	f = f.norm()
	return float64(f.num) / float64(f.den)
}

// ToInteger expresses f (in whole notes) as a count of MusicXML
// divisions, where divisions is the number of units per quarter note.
// Any remainder is truncated.
func (f Fraction) ToInteger(divisions int) int {
	f = f.norm()
	return f.num * 4 * divisions / f.den
}

// Log2Denominator returns the exponent of a power-of-two denominator.
func (f Fraction) Log2Denominator() (int, bool) {
	f = f.norm()
	if !util.IsPowerOfTwo(f.den) {
		return 0, false
	}
	return bits.TrailingZeros(uint(f.den)), true
}

func (f Fraction) String() string {
	f = f.norm()
	return fmt.Sprintf("%d/%d", f.num, f.den)
}

func (f Fraction) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func Max(a, b Fraction) Fraction {
	if a.Less(b) {
		return b
	}
	return a
}
