package cmd

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/jsphweid/rhythmdex/logger"
	"github.com/jsphweid/rhythmdex/measure"
	"github.com/jsphweid/rhythmdex/model"
)

const maxRequestBytes = 32 << 20

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves transcription over HTTP",
	Long:  `Serves POST /transcribe, which takes pages as JSON and answers with their transcription, and GET /health.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(settings().Port)
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("could not write response", logger.ErrorField(err))
	}
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func HandleTranscribe(w http.ResponseWriter, r *http.Request) {
	var input model.TranscribeRequestBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&input); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "could not decode request body: " + err.Error()})
		return
	}
	if len(input.Pages) == 0 {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "no pages to transcribe"})
		return
	}
	for i, page := range input.Pages {
		if page == nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: "page must not be null"})
			return
		}
		if page.Index == 0 {
			page.Index = i
		}
	}

	acc := measure.IDState{}
	if input.LastID != nil {
		acc = measure.IDState{LastID: *input.LastID, HasLast: true}
	}
	res, err := transcribe(r.Context(), input.Pages, acc, settings().Workers)
	if err != nil {
		logger.Warn("transcription failed for some pages", logger.ErrorField(err))
		if len(res.Results) == 0 {
			status := http.StatusUnprocessableEntity
			if errors.Is(err, r.Context().Err()) {
				status = http.StatusServiceUnavailable
			}
			writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, res)
}

func newRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/transcribe", HandleTranscribe).Methods(http.MethodPost)
	router.HandleFunc("/health", HandleHealth).Methods(http.MethodGet)

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(router)
}

func serve(port string) error {
	logger.Info("serving", logger.String("port", port))
	return http.ListenAndServe(":"+port, newRouter())
}
