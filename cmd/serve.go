package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/jsphweid/brailledex/constants"
	"github.com/jsphweid/brailledex/db"
	"github.com/jsphweid/brailledex/file"
	"github.com/jsphweid/brailledex/fraction"
	"github.com/jsphweid/brailledex/model"
	"github.com/jsphweid/brailledex/musicxml"
	"github.com/jsphweid/brailledex/render"
	"github.com/jsphweid/brailledex/sample"
	"github.com/pkg/errors"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// store is nil unless BRAILLEDEX_DYNAMODB_TABLE is set.
var store *db.Store

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the transcription API",
	Long: `Serves POST /transcribe, which takes a MusicXML body and answers with
braille for every part, GET /transcriptions/{id} and
GET /transcriptions?ids=a,b for recorded transcriptions, and GET /health.`,
	Run: func(cmd *cobra.Command, args []string) {
		cobra.CheckErr(LoadServeDependencies())
		serve()
	},
}

// LoadServeDependencies connects the transcription history when one is
// configured.
func LoadServeDependencies() error {
	store = nil
	table := constants.GetDynamoTable()
	if table == "" {
		return nil
	}
	s, err := db.NewStore(constants.GetDynamoEndpoint(), constants.GetAWSRegion(), table)
	if err != nil {
		return err
	}
	store = s
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("could not encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	var structural *musicxml.StructuralError
	switch {
	case errors.As(err, &structural), errors.Is(err, fraction.ErrArithmetic), errors.Is(err, sample.ErrRange):
		return http.StatusUnprocessableEntity
	}
	return http.StatusBadRequest
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleTranscribe accepts plain or compressed MusicXML. Query parameters:
// events=true adds the event timeline, measures=3-8 cuts an excerpt.
func HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constants.MaxUploadSize))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, err)
		return
	}
	data, err = file.Decode(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	score, err := newParser().Parse(bytes.NewReader(data))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	query := r.URL.Query()
	measureRange := query.Get("measures")
	var first, last int
	if measureRange != "" {
		if first, last, err = sample.ParseRange(measureRange); err != nil {
			writeError(w, statusFor(err), err)
			return
		}
	}

	res := model.TranscribeResponse{
		Id:       uuid.New().String(),
		Title:    score.Title(),
		Composer: score.Composer,
		Parts:    make([]model.PartResponse, 0, len(score.Parts())),
		Warnings: make([]string, 0),
	}
	numMeasures := 0
	for _, part := range score.Parts() {
		events := part.Events()
		if measureRange != "" {
			if events, err = sample.Excerpt(events, first, last); err != nil {
				writeError(w, statusFor(err), errors.Wrapf(err, "part %s", part.ID))
				return
			}
		}
		numMeasures = events.Measures()

		pr := model.PartResponse{Id: part.ID, Name: part.Name(), Braille: render.Events(events)}
		if query.Get("events") == "true" {
			for _, e := range events {
				pr.Events = append(pr.Events, model.Describe(e))
			}
		}
		res.Parts = append(res.Parts, pr)
	}
	for _, warning := range score.Warnings() {
		res.Warnings = append(res.Warnings, warning.String())
	}

	if store != nil {
		rec := model.TranscriptionRecord{
			Id:       res.Id,
			Title:    res.Title,
			Composer: res.Composer,
			Parts:    len(res.Parts),
			Measures: numMeasures,
			Warnings: len(res.Warnings),
			Created:  time.Now().Unix(),
		}
		if err := store.Put(rec); err != nil {
			log.Printf("%v", err)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func HandleTranscription(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		writeError(w, http.StatusNotFound, errors.New("transcription history is not enabled"))
		return
	}
	id := mux.Vars(r)["id"]
	rec, ok, err := store.Get(id)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, errors.Errorf("no transcription %s", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// HandleTranscriptions looks up several recorded transcriptions, given
// as ids=a,b,c. Unknown ids are left out of the answer.
func HandleTranscriptions(w http.ResponseWriter, r *http.Request) {
	if store == nil {
		writeError(w, http.StatusNotFound, errors.New("transcription history is not enabled"))
		return
	}
	var ids []string
	for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 || len(ids) > db.MaxBatch {
		writeError(w, http.StatusBadRequest, errors.Errorf("between 1 and %d ids, got %d", db.MaxBatch, len(ids)))
		return
	}
	found, err := store.GetMany(ids)
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}
	res := model.TranscriptionsResponse{Transcriptions: []model.TranscriptionRecord{}}
	for _, id := range ids {
		if rec, ok := found[id]; ok {
			res.Transcriptions = append(res.Transcriptions, rec)
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/health", HandleHealth).Methods("GET")
	router.HandleFunc("/transcribe", HandleTranscribe).Methods("POST")
	router.HandleFunc("/transcriptions", HandleTranscriptions).Methods("GET")
	router.HandleFunc("/transcriptions/{id}", HandleTranscription).Methods("GET")

	c := cors.New(cors.Options{
		AllowedOrigins: constants.GetAllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(router)
}

func serve() {
	addr := ":" + constants.GetPort()
	logger.Printf("listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, NewRouter()))
}
