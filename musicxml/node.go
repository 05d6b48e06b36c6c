package musicxml

import (
	"math"
	"strconv"
	"strings"

	"github.com/jsphweid/brailledex/fraction"
	"github.com/jsphweid/brailledex/model"
	"github.com/pkg/errors"
	xmldom "github.com/subchen/go-xmldom"
)

// Measure children are classified once while parsing; the part builder
// only ever switches on these types.
type node interface {
	kind() string
}

type attributesNode struct {
	divisions int
	staves    int
	time      *model.TimeSignature
	clefs     []staffClef
	keys      []staffKey
}

type staffClef struct {
	clef   model.Clef
	number int // 1-based, 0 when absent
}

type staffKey struct {
	key    model.KeySignature
	number int
}

type slurMark struct {
	number int
	kind   string
}

type noteNode struct {
	chord      bool
	grace      bool
	pitch      *model.Pitch
	duration   int
	typ        string
	dots       int
	normal     int
	actual     int
	staff      int
	voice      string
	accidental string
	tieStart   bool
	tieStop    bool
	slurs      []slurMark
}

type backupNode struct {
	duration int
}

type forwardNode struct {
	duration int
	staff    int
	voice    string
}

type directionNode struct {
	staff    int
	words    []string
	dynamics []string
	tempo    float64
}

type soundNode struct {
	tempo    float64
	dynamics float64
}

type barlineNode struct {
	location   string
	repeat     string
	ending     int
	endingType string
}

type printNode struct {
	newSystem bool
}

type unsupportedNode struct {
	name string
}

func (*attributesNode) kind() string    { return "attributes" }
func (*noteNode) kind() string          { return "note" }
func (*backupNode) kind() string        { return "backup" }
func (*forwardNode) kind() string       { return "forward" }
func (*directionNode) kind() string     { return "direction" }
func (*soundNode) kind() string         { return "sound" }
func (*barlineNode) kind() string       { return "barline" }
func (*printNode) kind() string         { return "print" }
func (n *unsupportedNode) kind() string { return n.name }

type measure struct {
	number   string
	implicit bool
	children []node
}

// xmldom access helpers

func attr(n *xmldom.Node, name string) string {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a.Value
		}
	}
	return ""
}

func child(n *xmldom.Node, name string) *xmldom.Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func children(n *xmldom.Node, name string) []*xmldom.Node {
	var res []*xmldom.Node
	for _, c := range n.Children {
		if c.Name == name {
			res = append(res, c)
		}
	}
	return res
}

func hasChild(n *xmldom.Node, name string) bool {
	return child(n, name) != nil
}

func text(n *xmldom.Node) string {
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.Text)
}

func childText(n *xmldom.Node, name string) string {
	return text(child(n, name))
}

func atoi(s string, def int) int {
	s = strings.TrimSpace(s)
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	// divisions and durations are sometimes written as decimals
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(math.Round(f))
	}
	return def
}

func atof(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// leadingInt reads "1" from ending numbers like "1, 2".
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if end == 0 {
		return 0
	}
	if end > 0 {
		s = s[:end]
	}
	return atoi(s, 0)
}

// parseMeasures also returns the names of part children that are not
// measures.
func parseMeasures(part *xmldom.Node) ([]measure, []string, error) {
	var res []measure
	var skipped []string
	for _, el := range part.Children {
		if el.Name != "measure" {
			skipped = append(skipped, el.Name)
			continue
		}
		m := measure{
			number:   attr(el, "number"),
			implicit: strings.EqualFold(attr(el, "implicit"), "yes"),
		}
		for _, c := range el.Children {
			n, err := parseNode(c)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "measure %s", m.number)
			}
			m.children = append(m.children, n)
		}
		res = append(res, m)
	}
	return res, skipped, nil
}

func parseNode(el *xmldom.Node) (node, error) {
	switch el.Name {
	case "attributes":
		return parseAttributes(el), nil
	case "note":
		return parseNote(el)
	case "backup":
		return &backupNode{duration: atoi(childText(el, "duration"), 0)}, nil
	case "forward":
		return &forwardNode{
			duration: atoi(childText(el, "duration"), 0),
			staff:    atoi(childText(el, "staff"), 1),
			voice:    childText(el, "voice"),
		}, nil
	case "direction":
		return parseDirection(el), nil
	case "sound":
		return &soundNode{tempo: atof(attr(el, "tempo")), dynamics: atof(attr(el, "dynamics"))}, nil
	case "barline":
		return parseBarline(el), nil
	case "print":
		return &printNode{newSystem: attr(el, "new-system") == "yes"}, nil
	}
	return &unsupportedNode{name: el.Name}, nil
}

func parseAttributes(el *xmldom.Node) *attributesNode {
	a := &attributesNode{
		divisions: atoi(childText(el, "divisions"), 0),
		staves:    atoi(childText(el, "staves"), 0),
	}
	if t := child(el, "time"); t != nil {
		var beats int
		for _, part := range strings.Split(childText(t, "beats"), "+") {
			beats += atoi(part, 0)
		}
		beatType := atoi(childText(t, "beat-type"), 0)
		if beats > 0 && beatType > 0 {
			a.time = &model.TimeSignature{Beats: beats, BeatType: beatType}
		}
	}
	for _, c := range children(el, "clef") {
		a.clefs = append(a.clefs, staffClef{
			clef: model.Clef{
				Sign:         childText(c, "sign"),
				Line:         atoi(childText(c, "line"), 0),
				OctaveChange: atoi(childText(c, "clef-octave-change"), 0),
			},
			number: atoi(attr(c, "number"), 0),
		})
	}
	for _, k := range children(el, "key") {
		a.keys = append(a.keys, staffKey{
			key: model.KeySignature{
				Fifths: atoi(childText(k, "fifths"), 0),
				Mode:   childText(k, "mode"),
			},
			number: atoi(attr(k, "number"), 0),
		})
	}
	return a
}

func parsePitch(el *xmldom.Node) (*model.Pitch, error) {
	step, err := model.ParseStep(childText(el, "step"))
	if err != nil {
		return nil, err
	}
	p := &model.Pitch{Step: step, Octave: atoi(childText(el, "octave"), 4)}
	if s := childText(el, "alter"); s != "" {
		alter, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "alter %q", s)
		}
		if alter != math.Trunc(alter) {
			return nil, errors.Wrapf(fraction.ErrArithmetic, "microtonal alteration %v of %v", alter, p)
		}
		p.Alter = int(alter)
	}
	return p, nil
}

func parseNote(el *xmldom.Node) (*noteNode, error) {
	n := &noteNode{
		chord:      hasChild(el, "chord"),
		grace:      hasChild(el, "grace"),
		duration:   atoi(childText(el, "duration"), 0),
		typ:        childText(el, "type"),
		dots:       len(children(el, "dot")),
		staff:      atoi(childText(el, "staff"), 1),
		voice:      childText(el, "voice"),
		accidental: childText(el, "accidental"),
	}
	if p := child(el, "pitch"); p != nil {
		pitch, err := parsePitch(p)
		if err != nil {
			return nil, err
		}
		n.pitch = pitch
	} else if u := child(el, "unpitched"); u != nil {
		// percussion: keep the display position as pitch
		step, err := model.ParseStep(childText(u, "display-step"))
		if err == nil {
			n.pitch = &model.Pitch{Step: step, Octave: atoi(childText(u, "display-octave"), 4)}
		}
	}
	if tm := child(el, "time-modification"); tm != nil {
		n.actual = atoi(childText(tm, "actual-notes"), 0)
		n.normal = atoi(childText(tm, "normal-notes"), 0)
	}
	for _, tie := range children(el, "tie") {
		switch attr(tie, "type") {
		case "start":
			n.tieStart = true
		case "stop":
			n.tieStop = true
		}
	}
	for _, notations := range children(el, "notations") {
		for _, s := range children(notations, "slur") {
			n.slurs = append(n.slurs, slurMark{
				number: atoi(attr(s, "number"), 1),
				kind:   attr(s, "type"),
			})
		}
	}
	return n, nil
}

func parseDirection(el *xmldom.Node) *directionNode {
	d := &directionNode{staff: atoi(childText(el, "staff"), 1)}
	for _, dt := range children(el, "direction-type") {
		for _, w := range children(dt, "words") {
			if s := text(w); s != "" {
				d.words = append(d.words, s)
			}
		}
		for _, dyn := range children(dt, "dynamics") {
			for _, mark := range dyn.Children {
				d.dynamics = append(d.dynamics, mark.Name)
			}
		}
	}
	if s := child(el, "sound"); s != nil {
		d.tempo = atof(attr(s, "tempo"))
	}
	return d
}

func parseBarline(el *xmldom.Node) *barlineNode {
	b := &barlineNode{location: attr(el, "location")}
	if b.location == "" {
		b.location = "right"
	}
	if r := child(el, "repeat"); r != nil {
		b.repeat = attr(r, "direction")
	}
	if e := child(el, "ending"); e != nil {
		b.ending = leadingInt(attr(e, "number"))
		b.endingType = attr(e, "type")
	}
	return b
}
