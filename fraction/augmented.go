package fraction

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jsphweid/brailledex/braille"
	"github.com/jsphweid/brailledex/util"
)

var ErrUnsupportedDenominator = errors.New("unsupported denominator")

// Largest denominator dot inference knows about (a 256th note).
const maxDottedDenominator = 256

// AugmentedFraction is a written note value plus augmentation dots and a
// tuplet ratio. Its sounding length is Value().
type AugmentedFraction struct {
	Fraction
	Dots        int
	NormalNotes int
	ActualNotes int
}

// NewAugmented trusts the caller supplied dot count.
func NewAugmented(num, den, dots, normalNotes, actualNotes int) (AugmentedFraction, error) {
	f, err := New(num, den)
	if err != nil {
		return AugmentedFraction{}, err
	}
	if dots < 0 {
		return AugmentedFraction{}, fmt.Errorf("%w: negative dot count %d", ErrArithmetic, dots)
	}
	if normalNotes <= 0 || actualNotes <= 0 {
		return AugmentedFraction{}, fmt.Errorf("%w: tuplet ratio %d:%d", ErrArithmetic, normalNotes, actualNotes)
	}
	return AugmentedFraction{Fraction: f, Dots: dots, NormalNotes: normalNotes, ActualNotes: actualNotes}, nil
}

func MustNewAugmented(num, den, dots, normalNotes, actualNotes int) AugmentedFraction {
	a, err := NewAugmented(num, den, dots, normalNotes, actualNotes)
	if err != nil {
		panic(err)
	}
	return a
}

// FromRaw infers augmentation dots from a plain duration, e.g. 3/8
// becomes a dotted quarter.
func FromRaw(f Fraction) (AugmentedFraction, error) {
	f = f.norm()
	num, den, dots := f.num, f.den, 0

	if util.IsPowerOfTwo(den) && den > maxDottedDenominator {
		return AugmentedFraction{}, fmt.Errorf("%w: %v", ErrUnsupportedDenominator, f)
	}

	// n/d with n = 2^(k+1)-1 is 2^k/d carrying k dots.
	for folded := true; folded && den > 1 && util.IsPowerOfTwo(den); {
		folded = false
		for dot := 10; dot > 0; dot-- {
			if num == 1<<(dot+1)-1 {
				s := simplify(1<<dot, den)
				num, den, dots = s.num, s.den, dots+dot
				folded = true
				break
			}
		}
	}

	if den == 1 {
		switch num {
		case 3:
			num, dots = 2, dots+1
		case 6:
			num, dots = 4, dots+1
		case 7:
			num, dots = 4, dots+2
		}
	}

	return AugmentedFraction{Fraction: Fraction{num, den}, Dots: dots, NormalNotes: 1, ActualNotes: 1}, nil
}

func (a AugmentedFraction) ratio() (int, int) {
	if a.NormalNotes <= 0 || a.ActualNotes <= 0 {
		return 1, 1
	}
	return a.NormalNotes, a.ActualNotes
}

// Value is the written value with its dots expanded and scaled by the
// tuplet ratio.
func (a AugmentedFraction) Value() Fraction {
	written := a.Fraction.norm()
	rest := written
	for i := 0; i < a.Dots; i++ {
		rest = rest.Mul(Fraction{1, 2})
	}
	normal, actual := a.ratio()
	return written.Mul(Fraction{2, 1}).Sub(rest).Mul(Fraction{normal, actual})
}

// Float64 is for display and estimates only.
func (a AugmentedFraction) Float64() float64 {
	undotted := a.Fraction.Float64()
	rest := undotted
	for i := 0; i < a.Dots; i++ {
		rest /= 2
	}
	normal, actual := a.ratio()
	return (undotted*2 - rest) * float64(normal) / float64(actual)
}

func (a AugmentedFraction) ToInteger(divisions int) int {
	return a.Value().ToInteger(divisions)
}

// Equal compares written value, dots and tuplet ratio.
func (a AugmentedFraction) Equal(o AugmentedFraction) bool {
	an, aa := a.ratio()
	on, oa := o.ratio()
	return a.Fraction.Equal(o.Fraction) && a.Dots == o.Dots && an == on && aa == oa
}

// EqualValue compares the sounding length against a plain fraction.
func (a AugmentedFraction) EqualValue(f Fraction) bool {
	return a.Value().Equal(f)
}

// A Stepper is a pitched note's diatonic step, 0 for C through 6 for B.
type Stepper interface {
	StepIndex() int
}

func valueIndex(log int) int {
	if log < 0 {
		return 0
	}
	if log > 3 {
		log -= 4
	}
	return util.Min(log, 3)
}

// ToBraille encodes the written value for a pitched note, or a rest when
// pitch is nil, followed by one dot per augmentation dot.
func (a AugmentedFraction) ToBraille(pitch Stepper) string {
	log, ok := a.Fraction.Log2Denominator()
	if !ok {
		log = 3
	}
	idx := valueIndex(log)

	var sb strings.Builder
	if pitch != nil {
		step := pitch.StepIndex()
		if step < 0 || step >= len(braille.StepDots) {
			step = 0
		}
		sb.WriteString(braille.Cell(braille.StepDots[step], braille.ValueDots[idx]))
	} else {
		sb.WriteString(braille.Cell(braille.RestDots[idx]))
	}
	for dot := 0; dot < a.Dots; dot++ {
		sb.WriteString(braille.Dot)
	}
	return sb.String()
}

func (a AugmentedFraction) String() string {
	s := a.Fraction.String() + strings.Repeat(".", a.Dots)
	if normal, actual := a.ratio(); normal != actual {
		s += fmt.Sprintf(" (%d:%d)", actual, normal)
	}
	return s
}
