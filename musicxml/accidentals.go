package musicxml

import (
	"github.com/jsphweid/brailledex/accidental"
	"github.com/jsphweid/brailledex/model"
	"github.com/pkg/errors"
)

// calculateAccidentals fills Note.Accidental from pitch alterations when
// the encoding does not state them explicitly.
func (b *builder) calculateAccidentals() error {
	var global model.KeySignature
	contexts := accidental.NewContexts(b.staffCount, global)
	measureNumber := 0

	apply := func(n *model.Note) error {
		if n.Pitch == nil || n.Invisible {
			return nil
		}
		a, err := contexts.Get(n.Staff, global).Apply(n.Pitch)
		if err != nil {
			return errors.Wrapf(err, "part %s, measure %d", b.part.ID, measureNumber)
		}
		n.Accidental = a
		return nil
	}

	for _, e := range b.part.events {
		switch e := e.(type) {
		case *model.StartBar:
			measureNumber = e.MeasureNumber
			contexts.Resize(e.StaffCount, global)
			contexts.ResetAll()
		case *model.GlobalKeyChange:
			global = e.Key
			contexts.SetAll(global)
		case *model.KeyChange:
			contexts.Get(e.Staff, global).SetKeySignature(e.Key)
		case *model.Note:
			if err := apply(e); err != nil {
				return err
			}
		case *model.Chord:
			for _, n := range e.Notes {
				if err := apply(n); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
