package api

import (
	"net/http"

	"github.com/scripturekit/bibles/internal/server"
	"github.com/scripturekit/bibles/pkg/models"
)

// TranslationsHandler lists every translation ordered by name.
// Endpoint: GET /translations/
func TranslationsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			translations, err := models.GetAllTranslations(srv.DB.WithContext(r.Context()))
			if err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, translations)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// TranslationHandler returns one translation by numeric ID.
// Endpoint: GET /translations/{id}
func TranslationHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			id, err := parsePathID(r, "id")
			if err != nil {
				respondError(w, r, srv, err)
				return
			}

			var t models.Translation
			if err := t.Get(srv.DB.WithContext(r.Context()), id); err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, t)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// TranslationByAbbreviationHandler returns one translation by abbreviation,
// matched case-insensitively.
// Endpoint: GET /translations/abbreviation/{abbr}
func TranslationByAbbreviationHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			var t models.Translation
			err := t.GetByAbbreviation(
				srv.DB.WithContext(r.Context()), r.PathValue("abbr"))
			if err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, t)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}
