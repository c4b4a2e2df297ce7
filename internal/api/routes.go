package api

import (
	"net/http"

	"github.com/scripturekit/bibles/internal/server"
)

type endpoint struct {
	pattern string
	handler func(server.Server) http.Handler
}

var endpoints = []endpoint{
	{"/{$}", RootHandler},
	{"/health", HealthHandler},

	{"/translations", TranslationsHandler},
	{"/translations/{$}", TranslationsHandler},
	{"/translations/{id}", TranslationHandler},
	{"/translations/abbreviation/{abbr}", TranslationByAbbreviationHandler},

	{"/books", BooksHandler},
	{"/books/{$}", BooksHandler},
	{"/books/{id}", BookHandler},
	{"/books/name/{name}", BookByNameHandler},

	{"/verses", VersesHandler},
	{"/verses/{$}", VersesHandler},
	{"/verses/{id}", VerseHandler},
	{"/verses/range", VerseRangeHandler},
	{"/verses/search/text", VerseSearchHandler},
	{"/verses/chapter/all", ChapterHandler},
}

// NewRouter returns the API handler with request ID, access logging and CORS
// middleware applied.
func NewRouter(srv server.Server) http.Handler {
	mux := http.NewServeMux()
	for _, e := range endpoints {
		mux.Handle(e.pattern, e.handler(srv))
	}
	mux.Handle("/", NotFoundHandler(srv))

	var h http.Handler = mux
	h = CORSMiddleware(srv.Config.Server.CORSAllowedOrigins, h)
	h = LoggingMiddleware(srv.Logger.Named("http"), h)
	h = RequestIDMiddleware(h)
	return h
}
