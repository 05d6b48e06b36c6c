package model

import "fmt"

type TranscribeResponse struct {
	Id       string         `json:"id"`
	Title    string         `json:"title,omitempty"`
	Composer string         `json:"composer,omitempty"`
	Parts    []PartResponse `json:"parts"`
	Warnings []string       `json:"warnings"`
}

type PartResponse struct {
	Id      string      `json:"id"`
	Name    string      `json:"name,omitempty"`
	Braille string      `json:"braille"`
	Events  []EventView `json:"events,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}

// EventView is a flat, printable description of an Event.
type EventView struct {
	Type       string `json:"type"`
	Offset     string `json:"offset"`
	Detail     string `json:"detail,omitempty"`
	Staff      int    `json:"staff,omitempty"`
	Braille    string `json:"braille,omitempty"`
	Accidental string `json:"accidental,omitempty"`
}

func noteDetail(n *Note) string {
	pitch := "rest"
	if n.Pitch != nil {
		pitch = n.Pitch.String()
	}
	detail := fmt.Sprintf("%s %v", pitch, n.Duration)
	if n.Grace {
		detail += " grace"
	}
	if n.Invisible {
		detail += " invisible"
	}
	return detail
}

func Describe(e Event) EventView {
	v := EventView{Offset: e.Offset().String()}
	switch ev := e.(type) {
	case *StartBar:
		v.Type = "start-bar"
		v.Detail = fmt.Sprintf("measure %d, %d staves", ev.MeasureNumber, ev.StaffCount)
		if ev.RepeatForward {
			v.Detail += ", repeat forward"
		}
		if ev.EndingStart > 0 {
			v.Detail += fmt.Sprintf(", ending %d", ev.EndingStart)
		}
	case *EndBar:
		v.Type = "end-bar"
		if ev.Repeat {
			v.Detail = "repeat"
		}
		if ev.EndOfMusic {
			v.Detail = "end of music"
		}
	case *Note:
		v.Type = "note"
		v.Detail = noteDetail(ev)
		v.Staff = ev.Staff
		v.Braille = ev.Braille()
		if ev.Accidental != nil {
			v.Accidental = ev.Accidental.String()
		}
	case *Chord:
		v.Type = "chord"
		v.Staff = ev.Staff()
		for i, n := range ev.Notes {
			if i > 0 {
				v.Detail += ", "
			}
			v.Detail += noteDetail(n)
		}
	case *ClefChange:
		v.Type = "clef"
		v.Detail = ev.Clef.String()
		v.Staff = ev.Staff
	case *KeyChange:
		v.Type = "key"
		v.Detail = ev.Key.String()
		v.Staff = ev.Staff
	case *GlobalKeyChange:
		v.Type = "global-key"
		v.Detail = ev.Key.String()
	case *TimeSignatureChange:
		v.Type = "time"
		v.Detail = ev.TimeSignature.String()
	case *Direction:
		v.Type = "direction"
		v.Detail = fmt.Sprint(append(append([]string{}, ev.Words...), ev.Dynamics...))
		v.Staff = ev.Staff
	case *Sound:
		v.Type = "sound"
		if ev.Tempo > 0 {
			v.Detail = fmt.Sprintf("tempo %g", ev.Tempo)
		}
	default:
		v.Type = fmt.Sprintf("%T", e)
	}
	return v
}
