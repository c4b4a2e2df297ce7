package api

import (
	"net/http"

	"github.com/scripturekit/bibles/internal/server"
	"github.com/scripturekit/bibles/pkg/models"
)

// BooksHandler lists books in canonical order, optionally filtered by
// testament.
// Endpoint: GET /books/?testament=OT|NT
func BooksHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			params := BooksParams{Testament: r.URL.Query().Get("testament")}
			if err := params.Validate(); err != nil {
				respondError(w, r, srv, err)
				return
			}

			var testament models.Testament
			if params.Testament != "" {
				testament, _ = models.ParseTestament(params.Testament)
			}

			books, err := models.GetBooks(srv.DB.WithContext(r.Context()), testament)
			if err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, books)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// BookHandler returns one book by numeric ID.
// Endpoint: GET /books/{id}
func BookHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			id, err := parsePathID(r, "id")
			if err != nil {
				respondError(w, r, srv, err)
				return
			}

			var b models.Book
			if err := b.Get(srv.DB.WithContext(r.Context()), id); err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, b)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// BookByNameHandler returns one book by name, matched case-insensitively.
// Endpoint: GET /books/name/{name}
func BookByNameHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			var b models.Book
			if err := b.GetByName(srv.DB.WithContext(r.Context()), r.PathValue("name")); err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, b)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}
