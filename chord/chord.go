// Package chord orders chord members for braille and recovers sounding
// chords from Standard MIDI Files.
package chord

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/util"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Key joins MIDI keys in ascending order, e.g. "60-64-67".
func Key(keys []uint8) string {
	sorted := append([]uint8(nil), keys...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})
	parts := make([]string, len(sorted))
	for i, k := range sorted {
		parts[i] = fmt.Sprintf("%v", k)
	}
	return strings.Join(parts, "-")
}

// Written returns the chord members in the order braille writes them:
// from the top down when descending (treble staves), from the bottom up
// otherwise. Rests and unpitched members keep their relative order at the
// end.
func Written(c *model.Chord, descending bool) []*model.Note {
	notes := append([]*model.Note(nil), c.Notes...)
	sort.SliceStable(notes, func(i, j int) bool {
		a, b := notes[i].Pitch, notes[j].Pitch
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		case descending:
			return a.Diatonic() > b.Diatonic()
		}
		return a.Diatonic() < b.Diatonic()
	})
	return notes
}

// Intervals gives the diatonic distance from the first written member to
// every other one, where 1 is a second and 7 an octave. Unisons are 0.
func Intervals(notes []*model.Note) []int {
	if len(notes) == 0 || notes[0].Pitch == nil {
		return nil
	}
	res := make([]int, 0, len(notes)-1)
	for _, n := range notes[1:] {
		if n.Pitch == nil {
			continue
		}
		res = append(res, util.Abs(n.Pitch.Diatonic()-notes[0].Pitch.Diatonic()))
	}
	return res
}

// Sounding is the set of keys held from Tick on.
type Sounding struct {
	Tick int64
	Keys []uint8
}

func (s Sounding) Key() string { return Key(s.Keys) }

type reducedEvent struct {
	tick      int64
	isNoteOff bool
	key       uint8
}

// FromSMF walks every track and returns each distinct non-empty set of
// sounding keys, in tick order.
func FromSMF(s *smf.SMF) []Sounding {
	var events []reducedEvent
	for _, track := range s.Tracks {
		var absTicks int64
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				// a note on with velocity 0 is a note off
				events = append(events, reducedEvent{tick: absTicks, isNoteOff: velocity == 0, key: key})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				events = append(events, reducedEvent{tick: absTicks, isNoteOff: true, key: key})
			}
		}
	}

	// smaller ticks first, then note offs
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].isNoteOff && !events[j].isNoteOff
	})

	byTick := make(map[int64][]uint8)
	pressed := make(map[uint8]bool)
	for _, evt := range events {
		if evt.isNoteOff {
			delete(pressed, evt.key)
		} else {
			pressed[evt.key] = true
		}
		byTick[evt.tick] = util.GetKeys(pressed)
	}

	var res []Sounding
	for _, tick := range util.GetKeys(byTick) {
		if keys := byTick[tick]; len(keys) > 0 {
			res = append(res, Sounding{Tick: tick, Keys: keys})
		}
	}
	return res
}
