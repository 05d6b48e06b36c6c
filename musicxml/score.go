package musicxml

import (
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/jsphweid/brailledex/util"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
	xmldom "github.com/subchen/go-xmldom"
)

// Score is a transcribed score-partwise document.
type Score struct {
	WorkNumber     string
	WorkTitle      string
	MovementNumber string
	MovementTitle  string
	Composer       string
	Lyricist       string
	Rights         string
	Software       []string
	Type           string
	supports       map[string]bool
	divisions      int
	parts          []*Part
}

// Title prefers the movement title, like most engravers do on the first page.
func (s *Score) Title() string {
	if s.MovementTitle != "" {
		return s.MovementTitle
	}
	return s.WorkTitle
}

// Divisions is the least common multiple of every <divisions> value in
// the document, so each part duration is an integer in this unit.
func (s *Score) Divisions() int { return s.divisions }

func (s *Score) Parts() []*Part { return s.parts }

// EncodingSupports reports <supports element="..." type="yes">.
func (s *Score) EncodingSupports(element string) bool {
	return s.supports[element]
}

func (s *Score) Warnings() []Warning {
	var res []Warning
	for _, p := range s.parts {
		res = append(res, p.warnings...)
	}
	return res
}

// Parser transcribes documents. The zero value uses one worker per CPU and
// discards log output.
type Parser struct {
	Workers int
	Logger  *log.Logger
}

func NewParser(workers int, logger *log.Logger) *Parser {
	return &Parser{Workers: workers, Logger: logger}
}

func (p *Parser) logf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}

func (p *Parser) Parse(r io.Reader) (*Score, error) {
	doc, err := xmldom.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse MusicXML")
	}
	return p.ParseDocument(doc)
}

func (p *Parser) ParseDocument(doc *xmldom.Document) (*Score, error) {
	root := doc.Root
	if root == nil {
		return nil, &StructuralError{Reason: "empty document"}
	}
	if root.Name != "score-partwise" {
		return nil, &StructuralError{Reason: fmt.Sprintf("unsupported score type <%s>", root.Name)}
	}

	score := &Score{
		Type:      root.Name,
		supports:  make(map[string]bool),
		divisions: divisions(root),
	}
	parseHeader(score, root)

	scoreParts := make(map[string]*xmldom.Node)
	if partList := child(root, "part-list"); partList != nil {
		for _, sp := range children(partList, "score-part") {
			scoreParts[attr(sp, "id")] = sp
		}
	}

	type job struct {
		part     *Part
		measures []measure
		skipped  []string
	}
	var jobs []job
	for _, el := range children(root, "part") {
		id := attr(el, "id")
		sp, ok := scoreParts[id]
		if !ok {
			return nil, &StructuralError{PartID: id, Reason: "no matching score-part in part-list"}
		}
		measures, skipped, err := parseMeasures(el)
		if err != nil {
			return nil, errors.Wrapf(err, "part %s", id)
		}
		part := &Part{
			ID:          id,
			name:        childText(sp, "part-name"),
			instruments: parseInstruments(sp),
		}
		jobs = append(jobs, job{part: part, measures: measures, skipped: skipped})
	}

	workers := p.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	errs := make([]error, len(jobs))
	wg := sizedwaitgroup.New(workers)
	for i := range jobs {
		wg.Add()
		go func(i int) {
			defer wg.Done()
			j := jobs[i]
			b := newBuilder(j.part, score, p.logf)
			for _, name := range j.skipped {
				b.warn(nil, "unsupported part element <%s>", name)
			}
			errs[i] = b.build(j.measures)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, err
		}
		score.parts = append(score.parts, jobs[i].part)
	}
	p.logf("transcribed %d parts at %d divisions", len(score.parts), score.divisions)
	return score, nil
}

func divisions(root *xmldom.Node) int {
	var values []int
	for _, n := range root.Query("//attributes/divisions") {
		if v := atoi(text(n), 0); v > 0 {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return 1
	}
	d := values[0]
	for _, v := range values[1:] {
		d = util.Lcm(d, v)
	}
	return d
}

func parseHeader(score *Score, root *xmldom.Node) {
	if work := child(root, "work"); work != nil {
		score.WorkNumber = childText(work, "work-number")
		score.WorkTitle = childText(work, "work-title")
	}
	score.MovementNumber = childText(root, "movement-number")
	score.MovementTitle = childText(root, "movement-title")

	id := child(root, "identification")
	if id == nil {
		return
	}
	for _, c := range children(id, "creator") {
		switch attr(c, "type") {
		case "composer":
			score.Composer = text(c)
		case "poet", "lyricist":
			score.Lyricist = text(c)
		}
	}
	score.Rights = childText(id, "rights")
	if enc := child(id, "encoding"); enc != nil {
		for _, s := range children(enc, "software") {
			score.Software = append(score.Software, text(s))
		}
		for _, s := range children(enc, "supports") {
			if attr(s, "type") == "yes" {
				score.supports[attr(s, "element")] = true
			}
		}
	}
}
