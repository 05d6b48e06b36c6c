// Package sample cuts event lists down to a range of measures.
package sample

import (
	"strconv"
	"strings"

	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/util"
	"github.com/pkg/errors"
)

var ErrRange = errors.New("invalid measure range")

// ParseRange reads "3", "3-8" or "3-" (to the end, returned as 0).
func ParseRange(s string) (first, last int, err error) {
	from, to, isRange := strings.Cut(strings.TrimSpace(s), "-")
	first, err = strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return 0, 0, errors.Wrapf(ErrRange, "%q", s)
	}
	if !isRange {
		return first, first, nil
	}
	if strings.TrimSpace(to) == "" {
		return first, 0, nil
	}
	last, err = strconv.Atoi(strings.TrimSpace(to))
	if err != nil {
		return 0, 0, errors.Wrapf(ErrRange, "%q", s)
	}
	return first, last, nil
}

type context struct {
	globalKey *model.GlobalKeyChange
	time      *model.TimeSignatureChange
	clefs     map[int]*model.ClefChange
	keys      map[int]*model.KeyChange
}

func (c *context) track(e model.Event) {
	switch ev := e.(type) {
	case *model.GlobalKeyChange:
		c.globalKey = ev
		c.keys = make(map[int]*model.KeyChange)
	case *model.KeyChange:
		c.keys[ev.Staff] = ev
	case *model.TimeSignatureChange:
		c.time = ev
	case *model.ClefChange:
		c.clefs[ev.Staff] = ev
	}
}

// restate copies the signatures in effect so they sound at offset at.
func (c *context) restate(at model.Timed) model.MusicList {
	var res model.MusicList
	if c.time != nil {
		ts := *c.time
		ts.Timed = at
		res = append(res, &ts)
	}
	for _, staff := range util.GetKeys(c.clefs) {
		clef := *c.clefs[staff]
		clef.Timed = at
		res = append(res, &clef)
	}
	if c.globalKey != nil {
		k := *c.globalKey
		k.Timed = at
		res = append(res, &k)
	}
	for _, staff := range util.GetKeys(c.keys) {
		k := *c.keys[staff]
		k.Timed = at
		res = append(res, &k)
	}
	return res
}

// Excerpt returns measures first through last, counted from 1 as in
// StartBar.MeasureNumber. A last of 0, or past the end, means to the end.
// Signatures in effect at the cut are restated after the first StartBar
// and the final EndBar is marked as the end of music. Offsets are kept.
func Excerpt(events model.MusicList, first, last int) (model.MusicList, error) {
	total := events.Measures()
	if last == 0 || last > total {
		last = total
	}
	if first < 1 || first > total || last < first {
		return nil, errors.Wrapf(ErrRange, "measures %d-%d of %d", first, last, total)
	}

	ctx := &context{
		clefs: make(map[int]*model.ClefChange),
		keys:  make(map[int]*model.KeyChange),
	}
	var res model.MusicList
	measure := 0
	for _, e := range events {
		if b, ok := e.(*model.StartBar); ok {
			measure = b.MeasureNumber
			if measure == first {
				bar := *b
				if bar.TimeSignature == nil && ctx.time != nil {
					ts := ctx.time.TimeSignature
					bar.TimeSignature = &ts
				}
				res = append(res, &bar)
				res = append(res, ctx.restate(bar.Timed)...)
				continue
			}
		}
		switch {
		case measure < first:
			ctx.track(e)
		case measure <= last:
			res = append(res, e)
		}
	}

	for i := len(res) - 1; i >= 0; i-- {
		if end, ok := res[i].(*model.EndBar); ok {
			final := *end
			final.EndOfMusic = true
			res[i] = &final
			break
		}
	}
	return res, nil
}
