package api

import (
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/scripturekit/bibles/internal/config"
	"github.com/scripturekit/bibles/pkg/models"
)

var errPositiveInteger = validation.NewError(
	"validation_positive_integer", "must be a positive integer")

// positiveInteger accepts an empty string or the decimal form of an integer
// greater than zero.
var positiveInteger = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err != nil || n < 1 {
		return errPositiveInteger
	}
	return nil
})

// trimmed applies rules to the value with surrounding whitespace removed.
func trimmed(rules ...validation.Rule) validation.Rule {
	return validation.By(func(value any) error {
		s, _ := value.(string)
		return validation.Validate(strings.TrimSpace(s), rules...)
	})
}

// validTestament accepts an empty string or OT/NT in any case.
var validTestament = validation.By(func(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := models.ParseTestament(s); err != nil {
		return validation.NewError("validation_testament", "must be OT or NT")
	}
	return nil
})

// VerseQueryParams is the request contract shared by the verse list, chapter
// and range endpoints.
type VerseQueryParams struct {
	Translation string `json:"translation"`
	Book        string `json:"book"`
	Chapter     string `json:"chapter"`
	VerseStart  string `json:"verse_start"`
	VerseEnd    string `json:"verse_end"`
}

// ParseVerseQueryParams reads the contract from the query string. Values are
// trimmed; nothing is validated yet.
func ParseVerseQueryParams(q url.Values) VerseQueryParams {
	return VerseQueryParams{
		Translation: strings.TrimSpace(q.Get("translation")),
		Book:        strings.TrimSpace(q.Get("book")),
		Chapter:     strings.TrimSpace(q.Get("chapter")),
		VerseStart:  strings.TrimSpace(q.Get("verse_start")),
		VerseEnd:    strings.TrimSpace(q.Get("verse_end")),
	}
}

// Validate checks the contract without touching the database.
func (p VerseQueryParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Translation, validation.Required),
		validation.Field(&p.Book, validation.Required),
		validation.Field(&p.Chapter, validation.Required, positiveInteger),
		validation.Field(&p.VerseStart, positiveInteger,
			validation.By(p.verseStartNotAfterEnd)),
		validation.Field(&p.VerseEnd, positiveInteger),
	)
}

func (p VerseQueryParams) verseStartNotAfterEnd(any) error {
	start, errStart := strconv.Atoi(p.VerseStart)
	end, errEnd := strconv.Atoi(p.VerseEnd)
	if errStart != nil || errEnd != nil {
		return nil
	}
	if start > end {
		return validation.NewError("validation_verse_range",
			"must be less than or equal to verse_end")
	}
	return nil
}

// Bounds returns the effective inclusive verse bounds; zero means unbounded.
// Only verse_start selects that single verse. Only verse_end selects verses 1
// through verse_end.
func (p VerseQueryParams) Bounds() (start, end int) {
	start, _ = strconv.Atoi(p.VerseStart)
	end, _ = strconv.Atoi(p.VerseEnd)
	switch {
	case start > 0 && end == 0:
		end = start
	case start == 0 && end > 0:
		start = 1
	}
	return start, end
}

// ChapterNumber returns the validated chapter.
func (p VerseQueryParams) ChapterNumber() int {
	n, _ := strconv.Atoi(p.Chapter)
	return n
}

// SearchParams is the request contract of the text search endpoint.
type SearchParams struct {
	Query       string `json:"query"`
	Translation string `json:"translation"`
	Testament   string `json:"testament"`
	Limit       string `json:"limit"`

	cfg *config.Search
}

// ParseSearchParams reads the contract from the query string using cfg for
// the limit bounds. The query text is kept verbatim since whitespace is part
// of the substring being searched for.
func ParseSearchParams(q url.Values, cfg *config.Search) SearchParams {
	return SearchParams{
		Query:       q.Get("query"),
		Translation: strings.TrimSpace(q.Get("translation")),
		Testament:   strings.TrimSpace(q.Get("testament")),
		Limit:       strings.TrimSpace(q.Get("limit")),
		cfg:         cfg,
	}
}

// Validate checks the contract without touching the database.
func (p SearchParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Query,
			trimmed(validation.Required, validation.RuneLength(p.cfg.MinQueryLength, 0))),
		validation.Field(&p.Testament, validTestament),
		validation.Field(&p.Limit, positiveInteger, validation.By(p.limitWithinMax)),
	)
}

func (p SearchParams) limitWithinMax(any) error {
	n, err := strconv.Atoi(p.Limit)
	if err != nil {
		return nil
	}
	if n > p.cfg.MaxLimit {
		return validation.NewError("validation_max_limit",
			"must be no greater than "+strconv.Itoa(p.cfg.MaxLimit))
	}
	return nil
}

// LimitValue returns the requested limit or the configured default.
func (p SearchParams) LimitValue() int {
	if n, err := strconv.Atoi(p.Limit); err == nil && n > 0 {
		return n
	}
	return p.cfg.DefaultLimit
}

// TestamentValue returns the normalized testament filter, or "" for none.
func (p SearchParams) TestamentValue() models.Testament {
	t, _ := models.ParseTestament(p.Testament)
	return t
}

// BooksParams is the request contract of the book list endpoint.
type BooksParams struct {
	Testament string `json:"testament"`
}

// Validate checks the contract without touching the database.
func (p BooksParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Testament, validTestament),
	)
}
