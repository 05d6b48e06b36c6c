//go:build e2e
// +build e2e

package e2e_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/jsphweid/brailledex/cmd"
	"github.com/jsphweid/brailledex/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var router http.Handler

func TestMain(m *testing.M) {
	if err := cmd.LoadServeDependencies(); err != nil {
		panic(err.Error())
	}
	router = cmd.NewRouter()

	exitVal := m.Run()

	os.Exit(exitVal)
}

const twoMeasures = `<?xml version="1.0" encoding="UTF-8"?>
<score-partwise version="3.1">
<movement-title>Etude</movement-title>
<identification><creator type="composer">Anon</creator></identification>
<part-list><score-part id="P1"><part-name>Flute</part-name></score-part></part-list>
<part id="P1">
<measure number="1">
<attributes><divisions>1</divisions><key><fifths>0</fifths></key><time><beats>2</beats><beat-type>4</beat-type></time></attributes>
<note><pitch><step>C</step><octave>4</octave></pitch><duration>1</duration></note>
<note><pitch><step>D</step><octave>4</octave></pitch><duration>1</duration></note>
</measure>
<measure number="2">
<note><pitch><step>E</step><octave>4</octave></pitch><duration>2</duration></note>
</measure>
</part>
</score-partwise>`

func post(t *testing.T, target, body string) (*http.Response, []byte) {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

func TestTranscribeE2E(t *testing.T) {
	resp, body := post(t, "/transcribe?events=true", twoMeasures)

	assert := assert.New(t)
	assert.Equal(200, resp.StatusCode)

	var res model.TranscribeResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.NotEmpty(res.Id)
	assert.Equal("Etude", res.Title)
	assert.Equal("Anon", res.Composer)
	assert.Empty(res.Warnings)
	require.Len(t, res.Parts, 1)
	assert.Equal("Flute", res.Parts[0].Name)
	assert.Equal("⠼⠃⠲ ⠐⠹⠱ ⠏⠣⠅", res.Parts[0].Braille)
	assert.Equal("start-bar", res.Parts[0].Events[0].Type)
}

func TestTranscribeExcerptE2E(t *testing.T) {
	resp, body := post(t, "/transcribe?measures=2", twoMeasures)
	require.Equal(t, 200, resp.StatusCode)

	var res model.TranscribeResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Equal(t, "⠼⠃⠲ ⠐⠏⠣⠅", res.Parts[0].Braille)
	assert.Empty(t, res.Parts[0].Events)
}

func TestTranscribeRejectsTimewiseE2E(t *testing.T) {
	resp, body := post(t, "/transcribe", `<score-timewise version="3.1"/>`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var res model.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &res))
	assert.Contains(t, res.Error, "score-timewise")
}

func TestHealthE2E(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Result().StatusCode)
}
