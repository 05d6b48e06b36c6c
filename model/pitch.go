package model

import (
	"fmt"
	"strings"
)

type Step int

const (
	C Step = iota
	D
	E
	F
	G
	A
	B
)

var stepNames = [7]string{"C", "D", "E", "F", "G", "A", "B"}

// semitones above C for each step
var stepSemitones = [7]int{0, 2, 4, 5, 7, 9, 11}

func ParseStep(s string) (Step, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range stepNames {
		if name == s {
			return Step(i), nil
		}
	}
	return C, fmt.Errorf("unknown step %q", s)
}

func (s Step) String() string {
	if s < C || s > B {
		return "?"
	}
	return stepNames[s]
}

type Pitch struct {
	Step   Step
	Octave int
	Alter  int
}

func (p *Pitch) StepIndex() int {
	return int(p.Step)
}

// Diatonic counts steps from C0, used for intervals and octave marks.
func (p *Pitch) Diatonic() int {
	return p.Octave*7 + int(p.Step)
}

// MIDIKey is the MIDI note number, C4 being 60.
func (p *Pitch) MIDIKey() int {
	return (p.Octave+1)*12 + stepSemitones[p.Step] + p.Alter
}

func (p *Pitch) String() string {
	var alter string
	switch {
	case p.Alter > 0:
		alter = strings.Repeat("#", p.Alter)
	case p.Alter < 0:
		alter = strings.Repeat("b", -p.Alter)
	}
	return fmt.Sprintf("%v%s%d", p.Step, alter, p.Octave)
}

type Accidental int

const (
	Natural Accidental = iota
	Sharp
	Flat
	DoubleSharp
	DoubleFlat
)

var accidentalNames = map[Accidental]string{
	Natural:     "natural",
	Sharp:       "sharp",
	Flat:        "flat",
	DoubleSharp: "double-sharp",
	DoubleFlat:  "flat-flat",
}

// ParseAccidental understands the MusicXML accidental values.
func ParseAccidental(s string) (Accidental, bool) {
	switch strings.TrimSpace(s) {
	case "natural":
		return Natural, true
	case "sharp":
		return Sharp, true
	case "flat":
		return Flat, true
	case "double-sharp", "sharp-sharp":
		return DoubleSharp, true
	case "flat-flat", "double-flat":
		return DoubleFlat, true
	}
	return Natural, false
}

func (a Accidental) String() string {
	if name, ok := accidentalNames[a]; ok {
		return name
	}
	return "unknown"
}

func (a Accidental) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
