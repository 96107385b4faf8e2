package httpapi

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP surface with access logging and panic recovery.
func NewRouter(api *API) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/feedbacks", api.submitFeedback).Methods(http.MethodPost)
	r.HandleFunc("/reports/weekly", api.generateWeeklyReport).Methods(http.MethodPost)

	return handlers.RecoveryHandler()(handlers.LoggingHandler(os.Stdout, r))
}
