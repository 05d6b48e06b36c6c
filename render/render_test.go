package render

import (
	"strings"
	"testing"

	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/musicxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transcribe(t *testing.T, measures string) *musicxml.Score {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
<movement-title>Etude</movement-title>
<part-list><score-part id="P1"><part-name>Flute</part-name></score-part></part-list>
<part id="P1">` + measures + `</part>
</score-partwise>`
	score, err := musicxml.NewParser(1, nil).Parse(strings.NewReader(doc))
	require.NoError(t, err)
	return score
}

const common = `<attributes><divisions>2</divisions><key><fifths>0</fifths></key>
<time><beats>4</beats><beat-type>4</beat-type></time><clef><sign>G</sign><line>2</line></clef></attributes>`

func TestMelody(t *testing.T) {
	score := transcribe(t, `<measure number="1">`+common+`
<note><pitch><step>C</step><octave>4</octave></pitch><duration>2</duration><type>quarter</type></note>
<note><pitch><step>D</step><octave>4</octave></pitch><duration>2</duration><type>quarter</type></note>
<note><pitch><step>E</step><octave>4</octave></pitch><duration>4</duration><type>half</type></note>
</measure>`)
	assert.Equal(t, "⠼⠙⠲ ⠐⠹⠱⠏⠣⠅", Part(score.Parts()[0]))
	assert.Equal(t, "Etude\nFlute\n⠼⠙⠲ ⠐⠹⠱⠏⠣⠅\n", Score(score))
}

func TestDotsAccidentalsAndRests(t *testing.T) {
	score := transcribe(t, `<measure number="1">`+common+`
<note><pitch><step>F</step><alter>1</alter><octave>4</octave></pitch><duration>3</duration></note>
<note><pitch><step>G</step><octave>4</octave></pitch><duration>1</duration></note>
<note><rest/><duration>2</duration></note>
<note><pitch><step>G</step><octave>5</octave></pitch><duration>2</duration></note>
</measure>`)
	// dotted quarter F sharp, eighth G, quarter rest, G an octave up
	assert.Equal(t, "⠼⠙⠲ ⠩⠐⠫⠄⠛⠧⠨⠻⠣⠅", Part(score.Parts()[0]))
}

func TestChordIntervals(t *testing.T) {
	score := transcribe(t, `<measure number="1">`+common+`
<note><pitch><step>C</step><octave>4</octave></pitch><duration>8</duration></note>
<note><chord/><pitch><step>E</step><octave>4</octave></pitch><duration>8</duration></note>
<note><chord/><pitch><step>G</step><octave>4</octave></pitch><duration>8</duration></note>
</measure>`)
	// whole G written on top, then a third and a fifth down
	assert.Equal(t, "⠼⠙⠲ ⠐⠿⠬⠔⠣⠅", Part(score.Parts()[0]))
}

func TestStavesAndVoices(t *testing.T) {
	score := transcribe(t, `<measure number="1"><attributes><divisions>1</divisions>
<time><beats>2</beats><beat-type>4</beat-type></time><staves>2</staves>
<clef number="1"><sign>G</sign><line>2</line></clef><clef number="2"><sign>F</sign><line>4</line></clef></attributes>
<note><pitch><step>C</step><octave>5</octave></pitch><duration>2</duration><voice>1</voice><staff>1</staff></note>
<backup><duration>2</duration></backup>
<note><pitch><step>A</step><octave>4</octave></pitch><duration>2</duration><voice>2</voice><staff>1</staff></note>
<backup><duration>2</duration></backup>
<note><pitch><step>C</step><octave>3</octave></pitch><duration>2</duration><voice>3</voice><staff>2</staff></note>
</measure>`)
	lines := strings.Split(Part(score.Parts()[0]), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "⠼⠃⠲ ⠨⠝⠣⠜⠐⠗⠣⠅", lines[0])
	assert.Equal(t, "⠼⠃⠲ ⠸⠝⠣⠅", lines[1])
}

func TestRepeatsAndDynamics(t *testing.T) {
	score := transcribe(t, `<measure number="1"><attributes><divisions>1</divisions>
<key><fifths>-2</fifths></key><time><beats>1</beats><beat-type>4</beat-type></time></attributes>
<barline location="left"><repeat direction="forward"/></barline>
<direction><direction-type><dynamics><p/></dynamics></direction-type></direction>
<note><pitch><step>B</step><alter>-1</alter><octave>4</octave></pitch><duration>1</duration></note>
<barline location="right"><repeat direction="backward"/></barline>
</measure>
<measure number="2">
<note><pitch><step>A</step><octave>4</octave></pitch><duration>1</duration></note>
</measure>`)
	assert.Equal(t, "⠣⠣⠼⠁⠲ ⠣⠆⠜⠏⠐⠺⠣⠶ ⠳⠣⠅", Part(score.Parts()[0]))
}

func TestKeySignatureSigns(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("", keySignature(model.KeySignature{Fifths: 0}))
	assert.Equal("⠩⠩⠩", keySignature(model.KeySignature{Fifths: 3}))
	assert.Equal("⠼⠙⠩", keySignature(model.KeySignature{Fifths: 4}))
	assert.Equal("⠼⠑⠣", keySignature(model.KeySignature{Fifths: -5}))
}
