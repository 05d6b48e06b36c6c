package model

import (
	"github.com/jsphweid/brailledex/fraction"
)

// Event is one entry of a part's timeline. Offsets are measured in whole
// notes from the start of the part. The concrete types are StartBar,
// EndBar, Note, Chord, ClefChange, KeyChange, GlobalKeyChange,
// TimeSignatureChange, Direction and Sound.
type Event interface {
	Offset() fraction.Fraction
}

type Timed struct {
	At fraction.Fraction
}

func (t Timed) Offset() fraction.Fraction { return t.At }

type StartBar struct {
	Timed
	MeasureNumber int
	StaffCount    int
	NewSystem     bool
	RepeatForward bool
	EndingStart   int // 0 when no ending starts here
	TimeSignature *TimeSignature
}

type EndBar struct {
	Timed
	Repeat     bool
	EndingStop int
	EndOfMusic bool
}

type Note struct {
	Timed
	Duration   fraction.AugmentedFraction
	Pitch      *Pitch
	Staff      int
	Voice      string
	Accidental *Accidental
	Grace      bool

	// forward elements become invisible rests
	Invisible bool
	TieStart  bool
	TieStop   bool
	Slurs     []*Slur
}

func (n *Note) IsRest() bool { return n.Pitch == nil }

// Braille encodes the note's value and step, or a rest.
func (n *Note) Braille() string {
	if n.Pitch == nil {
		return n.Duration.ToBraille(nil)
	}
	return n.Duration.ToBraille(n.Pitch)
}

// InSlur reports whether n is part of s.
func (n *Note) InSlur(s *Slur) bool {
	for _, slur := range n.Slurs {
		if slur == s {
			return true
		}
	}
	return false
}

type ClefChange struct {
	Timed
	Clef  Clef
	Staff int
}

// KeyChange applies to one staff only.
type KeyChange struct {
	Timed
	Key   KeySignature
	Staff int
}

type GlobalKeyChange struct {
	Timed
	Key KeySignature
}

type TimeSignatureChange struct {
	Timed
	TimeSignature TimeSignature
}

type Direction struct {
	Timed
	Staff    int
	Words    []string
	Dynamics []string
	// 0 when the direction carries no tempo
	Tempo    float64
}

type Sound struct {
	Timed
	Tempo    float64
	Dynamics float64
}

// Slur collects every note that sounds while a slur is open.
type Slur struct {
	Number int
	Notes  []*Note
}

func NewSlur(number int, first *Note) *Slur {
	s := &Slur{Number: number}
	s.Add(first)
	return s
}

func (s *Slur) Contains(n *Note) bool {
	for _, note := range s.Notes {
		if note == n {
			return true
		}
	}
	return false
}

func (s *Slur) Add(n *Note) {
	if s.Contains(n) {
		return
	}
	s.Notes = append(s.Notes, n)
	n.Slurs = append(n.Slurs, s)
}

func (s *Slur) Last() *Note {
	if len(s.Notes) == 0 {
		return nil
	}
	return s.Notes[len(s.Notes)-1]
}

type MusicList []Event

// EachNote visits standalone notes and chord members in list order.
func (l MusicList) EachNote(fn func(*Note)) {
	for _, e := range l {
		switch v := e.(type) {
		case *Note:
			fn(v)
		case *Chord:
			for _, n := range v.Notes {
				fn(n)
			}
		}
	}
}

func (l MusicList) Measures() int {
	var n int
	for _, e := range l {
		if _, ok := e.(*StartBar); ok {
			n++
		}
	}
	return n
}
