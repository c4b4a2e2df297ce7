package api

import (
	"net/http"

	"github.com/scripturekit/bibles/internal/server"
	"github.com/scripturekit/bibles/internal/version"
)

// RootResponse describes the API.
type RootResponse struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// HealthResponse is the liveness check body.
type HealthResponse struct {
	Status string `json:"status"`
}

// RootHandler returns API metadata.
// Endpoint: GET /
func RootHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			respondJSON(w, r, srv, http.StatusOK, RootResponse{
				Message: "Welcome to the Bible Translations API",
				Version: version.Version,
				Endpoints: map[string]string{
					"translations": "/translations",
					"books":        "/books",
					"verses":       "/verses",
				},
			})

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// HealthHandler reports liveness. It does not touch the database.
// Endpoint: GET /health
func HealthHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			respondJSON(w, r, srv, http.StatusOK, HealthResponse{Status: "healthy"})

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// NotFoundHandler answers unknown paths with a JSON 404.
func NotFoundHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, r, srv, http.StatusNotFound, ErrorResponse{Detail: "Not Found"})
	})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, srv server.Server) {
	w.Header().Set("Allow", "GET, OPTIONS")
	respondJSON(w, r, srv, http.StatusMethodNotAllowed,
		ErrorResponse{Detail: "Method Not Allowed"})
}
