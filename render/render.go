// Package render writes transcribed parts as unicode braille music, one
// line per staff with measures separated by a blank cell.
package render

import (
	"strings"

	"github.com/jsphweid/brailledex/braille"
	"github.com/jsphweid/brailledex/chord"
	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/musicxml"
	"github.com/jsphweid/brailledex/util"
)

func Score(s *musicxml.Score) string {
	var sb strings.Builder
	if title := s.Title(); title != "" {
		sb.WriteString(title + "\n")
	}
	for _, p := range s.Parts() {
		if name := p.Name(); name != "" {
			sb.WriteString(name + "\n")
		}
		sb.WriteString(Part(p))
		sb.WriteString("\n")
	}
	return sb.String()
}

func Part(p *musicxml.Part) string {
	return Events(p.Events())
}

// Events renders every staff found in events.
func Events(events model.MusicList) string {
	staves := 1
	for _, e := range events {
		if b, ok := e.(*model.StartBar); ok {
			staves = util.Max(staves, b.StaffCount)
		}
	}
	events.EachNote(func(n *model.Note) {
		staves = util.Max(staves, n.Staff+1)
	})

	lines := make([]string, staves)
	for staff := range lines {
		w := newStaffWriter(staff)
		for _, e := range events {
			w.write(e)
		}
		lines[staff] = w.String()
	}
	return strings.Join(lines, "\n")
}

type staffWriter struct {
	staff int

	// chords are written from the top down except in bass clef
	descending bool

	// last written pitch per voice, for octave marks
	prev map[string]*model.Pitch

	line     strings.Builder
	measures int
	key      string
	time     string
	prefix   strings.Builder
	voices   []string
	music    map[string]*strings.Builder
	pending  string
}

func newStaffWriter(staff int) *staffWriter {
	return &staffWriter{
		staff:      staff,
		descending: true,
		prev:       make(map[string]*model.Pitch),
		music:      make(map[string]*strings.Builder),
	}
}

func (w *staffWriter) String() string { return w.line.String() }

func (w *staffWriter) voice(v string) *strings.Builder {
	sb, ok := w.music[v]
	if !ok {
		sb = &strings.Builder{}
		w.music[v] = sb
		w.voices = append(w.voices, v)
	}
	return sb
}

func (w *staffWriter) write(e model.Event) {
	switch ev := e.(type) {
	case *model.StartBar:
		w.prefix.Reset()
		w.key, w.time = "", ""
		w.voices = nil
		w.music = make(map[string]*strings.Builder)
		if ev.RepeatForward {
			w.prefix.WriteString(braille.RepeatFwd)
		}
		if ev.EndingStart > 0 {
			w.prefix.WriteString(braille.NumberSign + braille.LowerNumber(ev.EndingStart))
		}
	case *model.GlobalKeyChange:
		w.key = keySignature(ev.Key)
	case *model.KeyChange:
		if ev.Staff == w.staff {
			w.key = keySignature(ev.Key)
		}
	case *model.TimeSignatureChange:
		w.time = braille.Number(ev.TimeSignature.Beats) + braille.LowerNumber(ev.TimeSignature.BeatType)
	case *model.ClefChange:
		if ev.Staff == w.staff {
			w.descending = ev.Clef.Sign != "F"
		}
	case *model.Direction:
		if ev.Staff == w.staff {
			for _, d := range ev.Dynamics {
				w.pending += braille.WordSign + braille.Word(d)
			}
		}
	case *model.Note:
		if ev.Staff == w.staff && !ev.Invisible {
			sb := w.voice(ev.Voice)
			sb.WriteString(w.note(ev))
		}
	case *model.Chord:
		if ev.Staff() == w.staff {
			sb := w.voice(ev.Notes[0].Voice)
			sb.WriteString(w.chord(ev))
		}
	case *model.EndBar:
		w.endMeasure(ev)
	}
}

func (w *staffWriter) endMeasure(end *model.EndBar) {
	var parts []string
	for _, v := range w.voices {
		if s := w.music[v].String(); s != "" {
			parts = append(parts, s)
		}
	}
	if w.measures > 0 {
		w.line.WriteString(braille.MeasureSpace)
	}
	w.measures++
	// key and time signatures stand apart from the music
	if signs := w.key + w.time; signs != "" {
		w.line.WriteString(signs + braille.MeasureSpace)
	}
	w.line.WriteString(w.prefix.String())
	w.line.WriteString(strings.Join(parts, braille.InAccord))
	switch {
	case end.Repeat:
		w.line.WriteString(braille.RepeatBack)
	case end.EndOfMusic:
		w.line.WriteString(braille.FinalBar)
	}
}

func keySignature(k model.KeySignature) string {
	sign := braille.Sharp
	n := k.Fifths
	if n < 0 {
		sign = braille.Flat
		n = -n
	}
	switch {
	case n == 0:
		return ""
	case n <= 3:
		return strings.Repeat(sign, n)
	}
	return braille.Number(n) + sign
}

func accidentalSign(a *model.Accidental) string {
	if a == nil {
		return ""
	}
	switch *a {
	case model.Sharp:
		return braille.Sharp
	case model.Flat:
		return braille.Flat
	case model.DoubleSharp:
		return braille.Sharp + braille.Sharp
	case model.DoubleFlat:
		return braille.Flat + braille.Flat
	}
	return braille.Natural
}

// needsOctave applies the usual rule: seconds and thirds never take an
// octave mark, fourths and fifths only when the octave changes, larger
// leaps always.
func needsOctave(prev, cur *model.Pitch) bool {
	if prev == nil {
		return true
	}
	d := util.Abs(cur.Diatonic() - prev.Diatonic())
	switch {
	case d <= 2:
		return false
	case d <= 4:
		return prev.Octave != cur.Octave
	}
	return true
}

func slurred(n *model.Note) bool {
	for _, s := range n.Slurs {
		if s.Last() != n {
			return true
		}
	}
	return false
}

func (w *staffWriter) note(n *model.Note) string {
	var sb strings.Builder
	sb.WriteString(w.pending)
	w.pending = ""
	if n.Grace {
		sb.WriteString(braille.Grace)
	}
	if n.Pitch != nil {
		sb.WriteString(accidentalSign(n.Accidental))
		if needsOctave(w.prev[n.Voice], n.Pitch) {
			sb.WriteString(braille.Octave(n.Pitch.Octave))
		}
		w.prev[n.Voice] = n.Pitch
	}
	sb.WriteString(n.Braille())
	if slurred(n) {
		sb.WriteString(braille.Slur)
	}
	if n.TieStart {
		sb.WriteString(braille.Tie)
	}
	return sb.String()
}

func (w *staffWriter) chord(c *model.Chord) string {
	notes := chord.Written(c, w.descending)
	var sb strings.Builder
	sb.WriteString(w.note(notes[0]))

	intervals := chord.Intervals(notes)
	tied := false
	i := 0
	for _, n := range notes[1:] {
		tied = tied || n.TieStart
		if n.Pitch == nil || i >= len(intervals) {
			continue
		}
		iv := intervals[i]
		i++
		sb.WriteString(accidentalSign(n.Accidental))
		if iv == 0 || iv > 7 {
			sb.WriteString(braille.Octave(n.Pitch.Octave))
		}
		sb.WriteString(braille.Interval(iv))
	}
	if tied {
		sb.WriteString(braille.ChordTie)
	}
	return sb.String()
}
