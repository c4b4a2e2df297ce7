package api

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/scripturekit/bibles/internal/server"
	"github.com/scripturekit/bibles/pkg/models"
	"github.com/scripturekit/bibles/pkg/search"
)

// chapterSelection is a verse query whose translation and book references
// have been resolved.
type chapterSelection struct {
	Translation models.Translation
	Book        models.Book
	Filter      models.ChapterFilter
}

// resolveChapterSelection validates params and then resolves the translation
// and book. No database access happens when validation fails.
func resolveChapterSelection(
	db *gorm.DB, params VerseQueryParams, bounded bool,
) (*chapterSelection, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sel := &chapterSelection{}
	if err := sel.Translation.Resolve(db, params.Translation); err != nil {
		return nil, err
	}
	if err := sel.Book.Resolve(db, params.Book); err != nil {
		return nil, err
	}

	sel.Filter = models.ChapterFilter{
		TranslationID: sel.Translation.ID,
		BookID:        sel.Book.ID,
		Chapter:       params.ChapterNumber(),
	}
	if bounded {
		sel.Filter.VerseStart, sel.Filter.VerseEnd = params.Bounds()
	}
	return sel, nil
}

// VersesHandler returns the verses of a chapter, optionally bounded by
// verse_start and verse_end.
// Endpoint: GET /verses/?translation=&book=&chapter=&verse_start=&verse_end=
func VersesHandler(srv server.Server) http.Handler {
	return chapterHandler(srv, true)
}

// ChapterHandler returns every verse of a chapter.
// Endpoint: GET /verses/chapter/all?translation=&book=&chapter=
func ChapterHandler(srv server.Server) http.Handler {
	return chapterHandler(srv, false)
}

func chapterHandler(srv server.Server, bounded bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			params := ParseVerseQueryParams(r.URL.Query())
			if !bounded {
				params.VerseStart, params.VerseEnd = "", ""
			}

			db := srv.DB.WithContext(r.Context())
			sel, err := resolveChapterSelection(db, params, bounded)
			if err != nil {
				respondError(w, r, srv, err)
				return
			}

			verses, err := models.FindVerseDetails(db, sel.Filter)
			if err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, verses)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// VerseRangeHandler returns a chapter selection as a single VerseRange.
// Endpoint: GET /verses/range?translation=&book=&chapter=&verse_start=&verse_end=
func VerseRangeHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			params := ParseVerseQueryParams(r.URL.Query())

			db := srv.DB.WithContext(r.Context())
			sel, err := resolveChapterSelection(db, params, true)
			if err != nil {
				respondError(w, r, srv, err)
				return
			}

			verses, err := models.FindVerses(db, sel.Filter)
			if err != nil {
				respondError(w, r, srv, err)
				return
			}

			resp := models.VerseRange{
				TranslationAbbreviation: sel.Translation.Abbreviation,
				BookName:                sel.Book.Name,
				Chapter:                 sel.Filter.Chapter,
				StartVerse:              sel.Filter.VerseStart,
				EndVerse:                sel.Filter.VerseEnd,
				Verses:                  verses,
			}
			if resp.StartVerse == 0 && len(verses) > 0 {
				resp.StartVerse = verses[0].Verse
			}
			if resp.EndVerse == 0 && len(verses) > 0 {
				resp.EndVerse = verses[len(verses)-1].Verse
			}
			respondJSON(w, r, srv, http.StatusOK, resp)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// VerseHandler returns one verse by numeric ID.
// Endpoint: GET /verses/{id}
func VerseHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			id, err := parsePathID(r, "id")
			if err != nil {
				respondError(w, r, srv, err)
				return
			}

			var v models.Verse
			if err := v.Get(srv.DB.WithContext(r.Context()), id); err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, v)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}

// VerseSearchHandler finds verses containing a text fragment.
// Endpoint: GET /verses/search/text?query=&translation=&testament=&limit=
func VerseSearchHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "GET":
			params := ParseSearchParams(r.URL.Query(), srv.Config.Search)
			if err := params.Validate(); err != nil {
				respondError(w, r, srv, err)
				return
			}

			q := search.Query{
				Text:      params.Query,
				Testament: params.TestamentValue(),
				Limit:     params.LimitValue(),
			}
			if params.Translation != "" {
				var t models.Translation
				if err := t.Resolve(srv.DB.WithContext(r.Context()), params.Translation); err != nil {
					respondError(w, r, srv, err)
					return
				}
				q.TranslationID = t.ID
			}

			verses, err := srv.Searcher.SearchVerses(r.Context(), q)
			if err != nil {
				respondError(w, r, srv, err)
				return
			}
			respondJSON(w, r, srv, http.StatusOK, verses)

		default:
			methodNotAllowed(w, r, srv)
		}
	})
}
