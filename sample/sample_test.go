package sample

import (
	"errors"
	"testing"

	"github.com/jsphweid/brailledex/fraction"
	"github.com/jsphweid/brailledex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(n int) model.Timed {
	return model.Timed{At: fraction.MustNew(n, 4)}
}

// three 1/4 measures in D major with one quarter note each
func threeMeasures() model.MusicList {
	var l model.MusicList
	for i := 0; i < 3; i++ {
		l = append(l, &model.StartBar{Timed: at(i), MeasureNumber: i + 1, StaffCount: 1})
		if i == 0 {
			l = append(l,
				&model.TimeSignatureChange{Timed: at(0), TimeSignature: model.TimeSignature{Beats: 1, BeatType: 4}},
				&model.ClefChange{Timed: at(0), Clef: model.Clef{Sign: "G", Line: 2}},
				&model.GlobalKeyChange{Timed: at(0), Key: model.KeySignature{Fifths: 2}},
			)
		}
		l = append(l,
			&model.Note{Timed: at(i), Duration: fraction.MustNewAugmented(1, 4, 0, 1, 1), Pitch: &model.Pitch{Step: model.Step(i), Octave: 4}},
			&model.EndBar{Timed: at(i + 1), EndOfMusic: i == 2},
		)
	}
	return l
}

func TestParseRange(t *testing.T) {
	cases := []struct {
		in          string
		first, last int
	}{
		{"3", 3, 3},
		{"3-8", 3, 8},
		{" 2 - 4 ", 2, 4},
		{"5-", 5, 0},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			first, last, err := ParseRange(c.in)
			require.NoError(t, err)
			assert.Equal(t, c.first, first)
			assert.Equal(t, c.last, last)
		})
	}

	_, _, err := ParseRange("a-b")
	assert.True(t, errors.Is(err, ErrRange))
}

func TestExcerptRestatesSignatures(t *testing.T) {
	assert := assert.New(t)
	res, err := Excerpt(threeMeasures(), 2, 2)
	require.NoError(t, err)

	require.Len(t, res, 6)
	bar := res[0].(*model.StartBar)
	assert.Equal(2, bar.MeasureNumber)
	assert.Equal(model.TimeSignature{Beats: 1, BeatType: 4}, *bar.TimeSignature)

	ts := res[1].(*model.TimeSignatureChange)
	assert.True(ts.Offset().Equal(fraction.MustNew(1, 4)))
	assert.IsType(&model.ClefChange{}, res[2])
	key := res[3].(*model.GlobalKeyChange)
	assert.Equal(2, key.Key.Fifths)

	note := res[4].(*model.Note)
	assert.Equal(model.D, note.Pitch.Step)

	end := res[5].(*model.EndBar)
	assert.True(end.EndOfMusic)
}

func TestExcerptLeavesSourceAlone(t *testing.T) {
	events := threeMeasures()
	_, err := Excerpt(events, 1, 2)
	require.NoError(t, err)

	var ends int
	for _, e := range events {
		if b, ok := e.(*model.EndBar); ok && b.EndOfMusic {
			ends++
		}
	}
	assert.Equal(t, 1, ends)
	assert.Nil(t, events[6].(*model.StartBar).TimeSignature)
}

func TestExcerptToEnd(t *testing.T) {
	res, err := Excerpt(threeMeasures(), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Measures())

	res, err = Excerpt(threeMeasures(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Measures())
}

func TestExcerptBadRange(t *testing.T) {
	for _, r := range [][2]int{{0, 1}, {4, 4}, {3, 2}} {
		_, err := Excerpt(threeMeasures(), r[0], r[1])
		assert.True(t, errors.Is(err, ErrRange), "%v", r)
	}
}
