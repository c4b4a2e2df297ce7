// Package search implements full-text verse search over the scripture
// database, with a SQL backend and pluggable index adapters.
package search

import (
	"context"
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/scripturekit/bibles/pkg/models"
)

// Query is a validated verse search.
type Query struct {
	// Text is matched as a case-insensitive substring of the verse text.
	Text string

	// TranslationID narrows results to one translation when non-zero.
	TranslationID uint

	// Testament narrows results to one testament when non-empty.
	Testament models.Testament

	// Limit caps the number of results; it must be positive.
	Limit int
}

// Searcher finds verses whose text matches a query. Results are ordered by
// translation, book, chapter and verse and never exceed q.Limit.
type Searcher interface {
	SearchVerses(ctx context.Context, q Query) ([]models.VerseDetail, error)
	Name() string
}

// Fallback returns a Searcher that uses primary and retries on secondary when
// primary rejects a query with ErrInvalidQuery.
func Fallback(primary, secondary Searcher, log hclog.Logger) Searcher {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &fallbackSearcher{primary: primary, secondary: secondary, logger: log}
}

type fallbackSearcher struct {
	primary   Searcher
	secondary Searcher
	logger    hclog.Logger
}

func (f *fallbackSearcher) Name() string {
	return f.primary.Name()
}

func (f *fallbackSearcher) SearchVerses(ctx context.Context, q Query) ([]models.VerseDetail, error) {
	verses, err := f.primary.SearchVerses(ctx, q)
	if errors.Is(err, ErrInvalidQuery) {
		f.logger.Debug("search query not supported by backend, falling back",
			"backend", f.primary.Name(),
			"fallback", f.secondary.Name(),
			"error", err,
		)
		return f.secondary.SearchVerses(ctx, q)
	}
	return verses, err
}
