package model

import (
	"fmt"

	"github.com/jsphweid/brailledex/fraction"
)

var sharpOrder = [7]Step{F, C, G, D, A, E, B}
var flatOrder = [7]Step{B, E, A, D, G, C, F}

// KeySignature counts sharps (positive) or flats (negative).
type KeySignature struct {
	Fifths int
	Mode   string
}

// Alter is the alteration the key implies for step.
func (k KeySignature) Alter(step Step) int {
	switch {
	case k.Fifths > 0:
		for i := 0; i < k.Fifths && i < len(sharpOrder); i++ {
			if sharpOrder[i] == step {
				return 1
			}
		}
	case k.Fifths < 0:
		for i := 0; i < -k.Fifths && i < len(flatOrder); i++ {
			if flatOrder[i] == step {
				return -1
			}
		}
	}
	return 0
}

func (k KeySignature) String() string {
	switch {
	case k.Fifths > 0:
		return fmt.Sprintf("%d sharps", k.Fifths)
	case k.Fifths < 0:
		return fmt.Sprintf("%d flats", -k.Fifths)
	}
	return "no accidentals"
}

type TimeSignature struct {
	Beats    int
	BeatType int
}

func (t TimeSignature) Fraction() fraction.Fraction {
	f, err := fraction.New(t.Beats, t.BeatType)
	if err != nil {
		return fraction.One
	}
	return f
}

func (t TimeSignature) String() string {
	return fmt.Sprintf("%d/%d", t.Beats, t.BeatType)
}

var CommonTime = TimeSignature{4, 4}

type Clef struct {
	Sign         string
	Line         int
	OctaveChange int
}

func (c Clef) String() string {
	s := fmt.Sprintf("%s%d", c.Sign, c.Line)
	if c.OctaveChange != 0 {
		s += fmt.Sprintf("%+d", c.OctaveChange)
	}
	return s
}
