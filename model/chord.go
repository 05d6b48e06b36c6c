package model

import "github.com/jsphweid/brailledex/fraction"

// Chord is a non-empty group of notes sharing the offset of its first
// member. Its length is the first member's duration.
type Chord struct {
	Notes []*Note
}

func NewChord(first *Note) *Chord {
	return &Chord{Notes: []*Note{first}}
}

func (c *Chord) Add(n *Note) {
	c.Notes = append(c.Notes, n)
}

func (c *Chord) Offset() fraction.Fraction {
	return c.Notes[0].Offset()
}

func (c *Chord) Duration() fraction.AugmentedFraction {
	return c.Notes[0].Duration
}

func (c *Chord) Staff() int {
	return c.Notes[0].Staff
}
