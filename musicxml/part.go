package musicxml

import (
	"fmt"

	"github.com/jsphweid/brailledex/fraction"
	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/util"
	"github.com/pkg/errors"
	xmldom "github.com/subchen/go-xmldom"
)

var noteTypes = map[string]fraction.Fraction{
	"maxima":  fraction.MustNew(8, 1),
	"long":    fraction.MustNew(4, 1),
	"breve":   fraction.MustNew(2, 1),
	"whole":   fraction.MustNew(1, 1),
	"half":    fraction.MustNew(1, 2),
	"quarter": fraction.MustNew(1, 4),
	"eighth":  fraction.MustNew(1, 8),
	"16th":    fraction.MustNew(1, 16),
	"32nd":    fraction.MustNew(1, 32),
	"64th":    fraction.MustNew(1, 64),
	"128th":   fraction.MustNew(1, 128),
	"256th":   fraction.MustNew(1, 256),
}

type MidiInstrument struct {
	ID      string
	Channel int
	Program int
	Volume  float64
	Pan     float64
}

type Part struct {
	ID            string
	name          string
	instruments   []MidiInstrument
	timeSignature model.TimeSignature
	events        model.MusicList
	slurs         []*model.Slur
	warnings      []Warning
}

func (p *Part) Name() string                       { return p.name }
func (p *Part) Events() model.MusicList            { return p.events }
func (p *Part) Slurs() []*model.Slur               { return p.slurs }
func (p *Part) Warnings() []Warning                { return p.warnings }
func (p *Part) TimeSignature() model.TimeSignature { return p.timeSignature }

// KeySignature is the first global key of the part, C major otherwise.
func (p *Part) KeySignature() model.KeySignature {
	for _, e := range p.events {
		if k, ok := e.(*model.GlobalKeyChange); ok {
			return k.Key
		}
	}
	return model.KeySignature{}
}

// MidiInstrument looks an instrument up by id. An empty id returns the
// first instrument of the part.
func (p *Part) MidiInstrument(id string) (MidiInstrument, bool) {
	for _, inst := range p.instruments {
		if id == "" || inst.ID == id {
			return inst, true
		}
	}
	return MidiInstrument{}, false
}

func parseInstruments(scorePart *xmldom.Node) []MidiInstrument {
	var res []MidiInstrument
	for _, el := range children(scorePart, "midi-instrument") {
		res = append(res, MidiInstrument{
			ID:      attr(el, "id"),
			Channel: atoi(childText(el, "midi-channel"), 1),
			Program: atoi(childText(el, "midi-program"), 1),
			Volume:  atof(childText(el, "volume")),
			Pan:     atof(childText(el, "pan")),
		})
	}
	return res
}

// builder turns one part's measures into its event list.
type builder struct {
	part      *Part
	score     *Score
	divisions int
	// global divisions / local divisions
	multiplier int

	staffCount    int
	lastTime      *model.TimeSignature
	measureOffset fraction.Fraction
	slurs         map[int]*model.Slur
	logf          func(format string, args ...interface{})
}

func newBuilder(part *Part, score *Score, logf func(string, ...interface{})) *builder {
	return &builder{
		part:          part,
		score:         score,
		divisions:     score.Divisions(),
		multiplier:    1,
		staffCount:    1,
		measureOffset: fraction.Zero,
		slurs:         make(map[int]*model.Slur),
		logf:          logf,
	}
}

func (b *builder) warn(m *measure, format string, args ...interface{}) {
	w := Warning{PartID: b.part.ID, Message: fmt.Sprintf(format, args...)}
	if m != nil {
		w.Measure = m.number
	}
	b.part.warnings = append(b.part.warnings, w)
	if b.logf != nil {
		b.logf("WARNING: %v", w)
	}
}

func (b *builder) add(e model.Event) {
	b.part.events = append(b.part.events, e)
}

func (b *builder) raw(duration int) (fraction.Fraction, error) {
	return fraction.New(duration*b.multiplier, 4*b.divisions)
}

func (b *builder) duration(n *noteNode) (fraction.AugmentedFraction, error) {
	if n.grace {
		written, ok := noteTypes[n.typ]
		if !ok {
			written = noteTypes["eighth"]
		}
		return fraction.NewAugmented(written.Numerator(), written.Denominator(), n.dots, 1, 1)
	}

	raw, err := b.raw(n.duration)
	if err != nil {
		return fraction.AugmentedFraction{}, err
	}
	if n.normal <= 0 || n.actual <= 0 || n.normal == n.actual {
		return fraction.FromRaw(raw)
	}

	written := raw.Mul(fraction.MustNew(n.actual, n.normal))
	af, err := fraction.FromRaw(written)
	if err != nil {
		return fraction.AugmentedFraction{}, err
	}
	return fraction.NewAugmented(af.Numerator(), af.Denominator(), af.Dots, n.normal, n.actual)
}

func (b *builder) newNote(n *noteNode, offset fraction.Fraction) (*model.Note, error) {
	d, err := b.duration(n)
	if err != nil {
		return nil, err
	}
	note := &model.Note{
		Timed:    model.Timed{At: offset},
		Duration: d,
		Pitch:    n.pitch,
		Staff:    util.Max(n.staff-1, 0),
		Voice:    n.voice,
		Grace:    n.grace,
		TieStart: n.tieStart,
		TieStop:  n.tieStop,
	}
	if b.score.EncodingSupports("accidental") && n.accidental != "" {
		if a, ok := model.ParseAccidental(n.accidental); ok {
			note.Accidental = &a
		}
	}
	return note, nil
}

func (b *builder) trackSlurs(m *measure, n *noteNode, note *model.Note) {
	for _, mark := range n.slurs {
		slot := mark.number - 1
		switch mark.kind {
		case "start":
			if open, ok := b.slurs[slot]; ok {
				b.warn(m, "slur %d starts again before it was closed", mark.number)
				b.part.slurs = append(b.part.slurs, open)
			}
			b.slurs[slot] = model.NewSlur(mark.number, note)
		case "stop":
			if slur, ok := b.slurs[slot]; ok {
				slur.Add(note)
				b.part.slurs = append(b.part.slurs, slur)
				delete(b.slurs, slot)
			}
		}
	}
	for _, slur := range b.slurs {
		slur.Add(note)
	}
}

// startsChord looks ahead for the next note of the measure.
func startsChord(children []node, i int) bool {
	for _, c := range children[i+1:] {
		switch n := c.(type) {
		case *noteNode:
			return n.chord
		case *backupNode, *forwardNode:
			return false
		}
	}
	return false
}

func (b *builder) build(measures []measure) error {
	var endBar *model.EndBar
	nominalSeen := false

	for i := range measures {
		m := &measures[i]
		startBar := &model.StartBar{
			Timed:         model.Timed{At: b.measureOffset},
			MeasureNumber: i + 1,
			StaffCount:    b.staffCount,
		}
		b.add(startBar)

		repeatBackward := false
		endingStop := 0

		var currentChord *model.Chord
		offset := fraction.Zero
		measureDuration := fraction.Zero

		closeChord := func() {
			if currentChord != nil {
				if !currentChord.Notes[0].Grace {
					offset = offset.Add(currentChord.Duration().Value())
				}
				currentChord = nil
			}
		}
		at := func() model.Timed {
			return model.Timed{At: b.measureOffset.Add(offset)}
		}

		for ci, c := range m.children {
			switch n := c.(type) {
			case *attributesNode:
				if n.divisions > 0 {
					b.multiplier = b.divisions / n.divisions
				}
				if n.staves > 0 && n.staves != b.staffCount {
					b.staffCount = n.staves
					startBar.StaffCount = b.staffCount
				}
				if n.time != nil {
					ts := *n.time
					if !nominalSeen {
						b.part.timeSignature = ts
						nominalSeen = true
					}
					b.lastTime = &ts
					b.add(&model.TimeSignatureChange{Timed: at(), TimeSignature: ts})
					if offset.IsZero() {
						startBar.TimeSignature = &ts
					}
				}
				for _, clef := range n.clefs {
					b.add(&model.ClefChange{Timed: at(), Clef: clef.clef, Staff: util.Max(clef.number-1, 0)})
				}
				for _, key := range n.keys {
					if key.number == 0 {
						b.add(&model.GlobalKeyChange{Timed: at(), Key: key.key})
					} else {
						b.add(&model.KeyChange{Timed: at(), Key: key.key, Staff: key.number - 1})
					}
				}

			case *noteNode:
				note, err := b.newNote(n, b.measureOffset.Add(offset))
				if err != nil {
					return errors.Wrapf(err, "part %s, measure %s", b.part.ID, m.number)
				}
				advanceTime := !note.Grace
				addToList := true

				if currentChord != nil {
					if n.chord {
						note.Timed = currentChord.Notes[0].Timed
						currentChord.Add(note)
						advanceTime = false
						addToList = false
					} else {
						closeChord()
						note.Timed = at()
					}
				}
				b.trackSlurs(m, n, note)

				if currentChord == nil && addToList && startsChord(m.children, ci) {
					currentChord = model.NewChord(note)
					b.add(currentChord)
					advanceTime = false
					addToList = false
				}
				if addToList {
					b.add(note)
				}
				if advanceTime {
					offset = offset.Add(note.Duration.Value())
				}

			case *directionNode:
				b.add(&model.Direction{
					Timed:    at(),
					Staff:    util.Max(n.staff-1, 0),
					Words:    n.words,
					Dynamics: n.dynamics,
					Tempo:    n.tempo,
				})

			case *backupNode:
				closeChord()
				d, err := b.raw(n.duration)
				if err != nil {
					return errors.Wrapf(err, "part %s, measure %s", b.part.ID, m.number)
				}
				offset = offset.Sub(d)

			case *forwardNode:
				closeChord()
				raw, err := b.raw(n.duration)
				if err != nil {
					return errors.Wrapf(err, "part %s, measure %s", b.part.ID, m.number)
				}
				d, err := fraction.FromRaw(raw)
				if err != nil {
					return errors.Wrapf(err, "part %s, measure %s", b.part.ID, m.number)
				}
				b.add(&model.Note{
					Timed:     at(),
					Duration:  d,
					Staff:     util.Max(n.staff-1, 0),
					Voice:     n.voice,
					Invisible: true,
				})
				offset = offset.Add(raw)

			case *printNode:
				if n.newSystem {
					startBar.NewSystem = true
				}

			case *soundNode:
				b.add(&model.Sound{Timed: at(), Tempo: n.tempo, Dynamics: n.dynamics})

			case *barlineNode:
				switch n.location {
				case "left":
					if n.repeat == "forward" {
						startBar.RepeatForward = true
					}
					if n.ending > 0 && n.endingType == "start" {
						startBar.EndingStart = n.ending
					}
				case "right":
					if n.repeat == "backward" {
						repeatBackward = true
					}
					if n.ending > 0 && n.endingType == "stop" {
						endingStop = n.ending
					}
				}

			case *unsupportedNode:
				b.warn(m, "unsupported measure element <%s>", n.name)
			}
			measureDuration = fraction.Max(measureDuration, offset)
		}

		closeChord()
		measureDuration = fraction.Max(measureDuration, offset)

		active := b.part.timeSignature
		if b.lastTime != nil {
			active = *b.lastTime
		}
		expected := active.Fraction()
		switch {
		case m.implicit && measureDuration.Less(expected):
			b.measureOffset = b.measureOffset.Add(measureDuration)
		case measureDuration.IsZero():
			b.measureOffset = b.measureOffset.Add(expected)
		default:
			if !measureDuration.Equal(expected) {
				b.warn(m, "measure lasts %v but time signature %v asks for %v", measureDuration, active, expected)
			}
			b.measureOffset = b.measureOffset.Add(measureDuration)
		}
		if startBar.TimeSignature == nil && b.lastTime != nil {
			ts := *b.lastTime
			startBar.TimeSignature = &ts
		}

		endBar = &model.EndBar{
			Timed:      model.Timed{At: b.measureOffset},
			Repeat:     repeatBackward,
			EndingStop: endingStop,
		}
		b.add(endBar)
	}
	if endBar != nil {
		endBar.EndOfMusic = true
	}

	for _, slot := range util.GetKeys(b.slurs) {
		slur := b.slurs[slot]
		b.warn(nil, "slur %d is never closed", slur.Number)
		b.part.slurs = append(b.part.slurs, slur)
	}

	if !b.score.EncodingSupports("accidental") {
		return b.calculateAccidentals()
	}
	return nil
}
