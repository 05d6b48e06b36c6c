package midi

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jsphweid/brailledex/chord"
	"github.com/jsphweid/brailledex/musicxml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2/smf"
)

const tiedThenChord = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
<part-list><score-part id="P1"><part-name>Piano</part-name>
<midi-instrument id="P1-I1"><midi-channel>2</midi-channel><midi-program>1</midi-program></midi-instrument>
</score-part></part-list>
<part id="P1">
<measure number="1">
<attributes><divisions>1</divisions><time><beats>2</beats><beat-type>4</beat-type></time></attributes>
<sound tempo="90"/>
<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration><tie type="start"/></note>
<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration><tie type="stop"/></note>
</measure>
<measure number="2">
<note><pitch><step>E</step><octave>4</octave></pitch><duration>2</duration></note>
<note><chord/><pitch><step>G</step><octave>4</octave></pitch><duration>2</duration></note>
</measure>
</part>
</score-partwise>`

func export(t *testing.T) *smf.SMF {
	score, err := musicxml.NewParser(1, nil).Parse(strings.NewReader(tiedThenChord))
	require.NoError(t, err)
	s, err := Export(score)
	require.NoError(t, err)
	return s
}

func TestResolution(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(512, Resolution(1))
	assert.Equal(768, Resolution(6))
	assert.Equal(480, Resolution(480))
	assert.Equal(512, Resolution(0))
}

func TestExportRoundTrip(t *testing.T) {
	s := export(t)
	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)

	read, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Len(t, read.Tracks, 2)
	assert.Equal(t, smf.MetricTicks(512), read.TimeFormat)

	sounding := chord.FromSMF(read)
	if assert.Len(t, sounding, 2, "tied notes sound once") {
		assert.Equal(t, int64(0), sounding[0].Tick)
		assert.Equal(t, "60", sounding[0].Key())
		assert.Equal(t, int64(1024), sounding[1].Tick)
		assert.Equal(t, "64-67", sounding[1].Key())
	}

	var channel, key, velocity uint8
	for _, ev := range read.Tracks[1] {
		if ev.Message.GetNoteOn(&channel, &key, &velocity) {
			break
		}
	}
	assert.Equal(t, uint8(1), channel)
}

func TestWriteAndReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.mid")
	require.NoError(t, WriteFile(export(t), path))

	read, err := ReadMidiFile(path)
	require.NoError(t, err)
	assert.Len(t, read.Tracks, 2)

	_, err = ReadMidiFile(filepath.Join(t.TempDir(), "missing.mid"))
	assert.Error(t, err)
}
