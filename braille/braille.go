// Package braille holds six-dot braille cell helpers and the fixed sign
// tables used for music braille.
package braille

import "strings"

// A cell is written as the decimal digits of its raised dots, e.g. 145.
func DotsToBits(dots int) uint8 {
	var bits uint8
	for ; dots > 0; dots /= 10 {
		d := dots % 10
		if d >= 1 && d <= 8 {
			bits |= 1 << (d - 1)
		}
	}
	return bits
}

func Unicode(bits uint8) rune {
	return rune(0x2800 + int(bits))
}

// Cell combines all given dot patterns into one unicode braille cell.
func Cell(patterns ...int) string {
	var bits uint8
	for _, p := range patterns {
		bits |= DotsToBits(p)
	}
	return string(Unicode(bits))
}

// Cells renders each pattern as its own cell.
func Cells(patterns ...int) string {
	var sb strings.Builder
	for _, p := range patterns {
		sb.WriteRune(Unicode(DotsToBits(p)))
	}
	return sb.String()
}

var (
	Dot          = Cell(3)
	Sharp        = Cell(146)
	Flat         = Cell(126)
	Natural      = Cell(16)
	NumberSign   = Cell(3456)
	Slur         = Cell(14)
	Tie          = Cells(4, 14)
	FinalBar     = Cells(126, 13)
	RepeatBack   = Cells(126, 2356)
	RepeatFwd    = Cells(126, 23)
	InAccord     = Cells(126, 345)
	Grace        = Cells(5, 26)
	ChordTie     = Cells(46, 14)
	MeasureSpace = " "
)

// StepDots are the note letters C through B without value dots.
var StepDots = [7]int{145, 15, 124, 1245, 125, 24, 245}

// ValueDots are the value dots for whole, half, quarter and eighth (also
// 16th, 32nd, 64th and 128th).
var ValueDots = [4]int{36, 3, 6, 0}

var RestDots = [4]int{134, 136, 1236, 1346}

// OctaveDots are the octave marks for octaves 1 through 7.
var OctaveDots = [7]int{4, 45, 456, 5, 46, 56, 6}

// IntervalDots are the interval signs for a second through an octave.
var IntervalDots = [7]int{34, 346, 3456, 35, 356, 25, 36}

var upperDigits = [10]int{245, 1, 12, 14, 145, 15, 124, 1245, 125, 24}
var lowerDigits = [10]int{356, 2, 23, 25, 256, 26, 235, 2356, 236, 35}

// Octave returns the octave mark for a scientific octave number. Octaves
// below 1 and above 7 double the outermost mark.
func Octave(octave int) string {
	switch {
	case octave < 1:
		return Cells(4, 4)
	case octave > 7:
		return Cells(6, 6)
	}
	return Cell(OctaveDots[octave-1])
}

// Interval returns the sign for a diatonic interval where 1 is a second.
// Intervals beyond an octave reduce to their simple form.
func Interval(steps int) string {
	if steps <= 0 {
		return Cell(IntervalDots[6])
	}
	return Cell(IntervalDots[(steps-1)%7])
}

func digits(n int, table [10]int) string {
	if n < 0 {
		n = -n
	}
	if n < 10 {
		return Cell(table[n])
	}
	return digits(n/10, table) + Cell(table[n%10])
}

// Number writes n with a number sign in the upper part of the cell.
func Number(n int) string {
	return NumberSign + digits(n, upperDigits)
}

// LowerNumber writes n in the lower part of the cell without number sign.
func LowerNumber(n int) string {
	return digits(n, lowerDigits)
}

var letterDots = [26]int{
	1, 12, 14, 145, 15, 124, 1245, 125, 24, 245,
	13, 123, 134, 1345, 135, 1234, 12345, 1235, 234, 2345,
	136, 1236, 2456, 1346, 13456, 1356,
}

// WordSign introduces dynamics and other words inside music.
var WordSign = Cell(345)

// Word spells the letters a-z of s in grade 1 braille, dropping anything
// else.
func Word(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if r >= 'a' && r <= 'z' {
			sb.WriteString(Cell(letterDots[r-'a']))
		}
	}
	return sb.String()
}
