// Package accidental decides which notes need a printed accidental, given
// the key signature and the alterations already sounding in the measure.
package accidental

import (
	"fmt"

	"github.com/jsphweid/brailledex/fraction"
	"github.com/jsphweid/brailledex/model"
)

type position struct {
	octave int
	step   model.Step
}

// Context tracks one staff. Alterations accepted during a measure shadow
// the key signature until the next Reset.
type Context struct {
	key      model.KeySignature
	sounding map[position]int
}

func New(key model.KeySignature) *Context {
	return &Context{key: key, sounding: make(map[position]int)}
}

func (c *Context) KeySignature() model.KeySignature { return c.key }

// Reset forgets every alteration of the current measure.
func (c *Context) Reset() {
	c.sounding = make(map[position]int)
}

// SetKeySignature changes the defaults. Positions altered earlier in the
// measure keep their alteration.
func (c *Context) SetKeySignature(key model.KeySignature) {
	c.key = key
}

func (c *Context) Alter(octave int, step model.Step) int {
	if alter, ok := c.sounding[position{octave, step}]; ok {
		return alter
	}
	return c.key.Alter(step)
}

func (c *Context) Accept(p *model.Pitch) {
	c.sounding[position{p.Octave, p.Step}] = p.Alter
}

// Decide returns the accidental p needs, or nil when its alteration is
// already sounding.
func (c *Context) Decide(p *model.Pitch) (*model.Accidental, error) {
	if p.Alter == c.Alter(p.Octave, p.Step) {
		return nil, nil
	}
	var a model.Accidental
	switch p.Alter {
	case 0:
		a = model.Natural
	case 1:
		a = model.Sharp
	case -1:
		a = model.Flat
	default:
		return nil, fmt.Errorf("%w: alteration %d of %v has no accidental", fraction.ErrArithmetic, p.Alter, p)
	}
	return &a, nil
}

// Apply decides and records in one go, the way a reader moves through a
// measure.
func (c *Context) Apply(p *model.Pitch) (*model.Accidental, error) {
	a, err := c.Decide(p)
	if err != nil {
		return nil, err
	}
	c.Accept(p)
	return a, nil
}
