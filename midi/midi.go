// Package midi exports transcribed scores as Standard MIDI Files and reads
// them back for inspection.
package midi

import (
	"bytes"
	"os"
	"sort"

	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/musicxml"
	"github.com/jsphweid/brailledex/util"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

const (
	defaultTempo    = 120
	defaultVelocity = 80
	minResolution   = 480
)

// Resolution is the ticks per quarter used for a score with the given
// divisions: a multiple of divisions, so every offset is a whole tick.
func Resolution(divisions int) int {
	r := util.Max(divisions, 1)
	for r < minResolution {
		r *= 2
	}
	return r
}

type timedMessage struct {
	tick int64
	off  bool
	msg  midi.Message
}

// Export writes one conductor track with meter and tempo, then one track
// per part.
func Export(score *musicxml.Score) (*smf.SMF, error) {
	res := Resolution(score.Divisions())
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(uint16(res))

	var conductor smf.Track
	ts, tempo := firstMeterAndTempo(score)
	conductor.Add(0, smf.MetaMeter(uint8(ts.Beats), uint8(ts.BeatType)))
	conductor.Add(0, smf.MetaTempo(tempo))
	conductor.Close(0)
	if err := s.Add(conductor); err != nil {
		return nil, errors.Wrap(err, "could not add conductor track")
	}

	for i, part := range score.Parts() {
		tr := partTrack(part, i, res)
		if err := s.Add(tr); err != nil {
			return nil, errors.Wrapf(err, "could not add track for part %s", part.ID)
		}
	}
	return s, nil
}

func firstMeterAndTempo(score *musicxml.Score) (model.TimeSignature, float64) {
	ts := model.CommonTime
	tempo := 0.0
	for _, part := range score.Parts() {
		for _, e := range part.Events() {
			switch ev := e.(type) {
			case *model.TimeSignatureChange:
				if ts == model.CommonTime {
					ts = ev.TimeSignature
				}
			case *model.Sound:
				if tempo == 0 && ev.Tempo > 0 {
					tempo = ev.Tempo
				}
			case *model.Direction:
				if tempo == 0 && ev.Tempo > 0 {
					tempo = ev.Tempo
				}
			}
		}
	}
	if tempo == 0 {
		tempo = defaultTempo
	}
	return ts, tempo
}

func partTrack(part *musicxml.Part, index, res int) smf.Track {
	channel := uint8(index % 16)
	var program uint8
	if inst, ok := part.MidiInstrument(""); ok {
		channel = uint8(util.Min(util.Max(inst.Channel-1, 0), 15))
		program = uint8(util.Min(util.Max(inst.Program-1, 0), 127))
	}

	var msgs []timedMessage
	// index into msgs of the note off ending a tie, per key
	tied := make(map[uint8]int)

	part.Events().EachNote(func(n *model.Note) {
		if n.Pitch == nil || n.Grace || n.Invisible {
			return
		}
		key := uint8(util.Min(util.Max(n.Pitch.MIDIKey(), 0), 127))
		start := int64(n.Offset().ToInteger(res))
		end := start + int64(n.Duration.ToInteger(res))

		if i, ok := tied[key]; ok && n.TieStop {
			msgs[i].tick = end
			if !n.TieStart {
				delete(tied, key)
			}
			return
		}
		msgs = append(msgs,
			timedMessage{tick: start, msg: midi.NoteOn(channel, key, defaultVelocity)},
			timedMessage{tick: end, off: true, msg: midi.NoteOff(channel, key)},
		)
		if n.TieStart {
			tied[key] = len(msgs) - 1
		}
	})

	// note offs first so repeated keys retrigger
	sort.SliceStable(msgs, func(i, j int) bool {
		if msgs[i].tick != msgs[j].tick {
			return msgs[i].tick < msgs[j].tick
		}
		return msgs[i].off && !msgs[j].off
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(part.Name()))
	tr.Add(0, midi.ProgramChange(channel, program))
	var last int64
	for _, m := range msgs {
		tr.Add(uint32(m.tick-last), m.msg)
		last = m.tick
	}
	tr.Close(0)
	return tr
}

func WriteFile(s *smf.SMF, path string) error {
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return errors.Wrap(err, "could not encode midi")
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, errors.Wrap(err, "Error reading midi file...")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, errors.Wrap(err, "Error parsing midi file...")
	}
	return res, nil
}
