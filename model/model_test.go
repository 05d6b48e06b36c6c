package model

import (
	"testing"

	"github.com/jsphweid/brailledex/fraction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySignatureAlter(t *testing.T) {
	assert := assert.New(t)
	d := KeySignature{Fifths: 2}
	assert.Equal(1, d.Alter(F))
	assert.Equal(1, d.Alter(C))
	assert.Equal(0, d.Alter(G))

	bb := KeySignature{Fifths: -2}
	assert.Equal(-1, bb.Alter(B))
	assert.Equal(-1, bb.Alter(E))
	assert.Equal(0, bb.Alter(A))

	assert.Equal(0, KeySignature{}.Alter(F))
}

func TestPitch(t *testing.T) {
	step, err := ParseStep("g")
	require.NoError(t, err)
	p := &Pitch{Step: step, Octave: 4, Alter: 1}

	assert := assert.New(t)
	assert.Equal(68, p.MIDIKey())
	assert.Equal("G#4", p.String())
	assert.Equal(4*7+4, p.Diatonic())

	_, err = ParseStep("H")
	assert.Error(err)
}

func TestParseAccidental(t *testing.T) {
	a, ok := ParseAccidental("flat")
	assert.True(t, ok)
	assert.Equal(t, Flat, a)

	_, ok = ParseAccidental("quarter-sharp")
	assert.False(t, ok)
}

func TestTimeSignatureFraction(t *testing.T) {
	assert.True(t, TimeSignature{6, 8}.Fraction().Equal(fraction.MustNew(3, 4)))
	assert.True(t, TimeSignature{3, 0}.Fraction().Equal(fraction.One))
}

func TestSlurMembership(t *testing.T) {
	n1, n2 := &Note{}, &Note{}
	s := NewSlur(0, n1)
	s.Add(n2)
	s.Add(n2)

	assert.Len(t, s.Notes, 2)
	assert.True(t, n2.InSlur(s))
	assert.Equal(t, n2, s.Last())
}

func TestMusicListEachNote(t *testing.T) {
	quarter := fraction.MustNewAugmented(1, 4, 0, 1, 1)
	c := NewChord(&Note{Duration: quarter, Pitch: &Pitch{Step: C, Octave: 4}})
	c.Add(&Note{Duration: quarter, Pitch: &Pitch{Step: E, Octave: 4}})
	list := MusicList{
		&StartBar{MeasureNumber: 1},
		&Note{Duration: quarter},
		c,
		&EndBar{EndOfMusic: true},
	}

	var count int
	list.EachNote(func(*Note) { count++ })
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, list.Measures())

	view := Describe(c)
	assert.Equal(t, "chord", view.Type)
	assert.Equal(t, "C4 1/4, E4 1/4", view.Detail)
	assert.Equal(t, "rest 1/4", Describe(list[1]).Detail)
}
