package accidental

import "github.com/jsphweid/brailledex/model"

// Contexts holds one Context per staff, indexed from 0. Every index below
// Len() always holds a context.
type Contexts struct {
	staves []*Context
}

func NewContexts(n int, key model.KeySignature) *Contexts {
	c := &Contexts{}
	c.Resize(n, key)
	return c
}

func (c *Contexts) Len() int { return len(c.staves) }

// Resize grows with fresh contexts in key, or drops trailing staves.
func (c *Contexts) Resize(n int, key model.KeySignature) {
	if n < 1 {
		n = 1
	}
	for len(c.staves) < n {
		c.staves = append(c.staves, New(key))
	}
	c.staves = c.staves[:n]
}

// Get grows the collection when staff is beyond the last context.
func (c *Contexts) Get(staff int, key model.KeySignature) *Context {
	if staff < 0 {
		staff = 0
	}
	if staff >= len(c.staves) {
		c.Resize(staff+1, key)
	}
	return c.staves[staff]
}

func (c *Contexts) ResetAll() {
	for _, ctx := range c.staves {
		ctx.Reset()
	}
}

func (c *Contexts) SetAll(key model.KeySignature) {
	for _, ctx := range c.staves {
		ctx.SetKeySignature(key)
	}
}
