package api_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scripturekit/bibles/internal/api"
	"github.com/scripturekit/bibles/internal/config"
	"github.com/scripturekit/bibles/pkg/models"
)

func TestVerseQueryParams_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantStart int
		wantEnd   int
	}{
		{"none", "", 0, 0},
		{"both", "verse_start=2&verse_end=5", 2, 5},
		{"start only", "verse_start=4", 4, 4},
		{"end only", "verse_end=3", 1, 3},
		{"equal", "verse_start=7&verse_end=7", 7, 7},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := url.ParseQuery("translation=KJV&book=John&chapter=3&" + tc.query)
			assert.NoError(t, err)

			p := api.ParseVerseQueryParams(q)
			assert.NoError(t, p.Validate())
			start, end := p.Bounds()
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
			assert.Equal(t, 3, p.ChapterNumber())
		})
	}
}

func TestVerseQueryParams_TrimsValues(t *testing.T) {
	q := url.Values{
		"translation": {"  KJV "},
		"book":        {" John"},
		"chapter":     {" 3 "},
	}
	p := api.ParseVerseQueryParams(q)
	assert.NoError(t, p.Validate())
	assert.Equal(t, "KJV", p.Translation)
	assert.Equal(t, "John", p.Book)
	assert.Equal(t, 3, p.ChapterNumber())
}

func TestSearchParams(t *testing.T) {
	cfg := config.NewConfig().Search

	t.Run("defaults", func(t *testing.T) {
		p := api.ParseSearchParams(url.Values{"query": {" love "}}, cfg)
		assert.NoError(t, p.Validate())
		assert.Equal(t, " love ", p.Query)
		assert.Equal(t, 50, p.LimitValue())
		assert.Equal(t, models.Testament(""), p.TestamentValue())
	})

	t.Run("explicit values", func(t *testing.T) {
		p := api.ParseSearchParams(url.Values{
			"query":     {"love"},
			"testament": {"nt"},
			"limit":     {"1000"},
		}, cfg)
		assert.NoError(t, p.Validate())
		assert.Equal(t, 1000, p.LimitValue())
		assert.Equal(t, models.NewTestament, p.TestamentValue())
	})

	t.Run("blankness and length ignore surrounding spaces", func(t *testing.T) {
		short := *cfg
		short.MinQueryLength = 3

		p := api.ParseSearchParams(url.Values{"query": {"   "}}, &short)
		assert.ErrorContains(t, p.Validate(), "query: cannot be blank")

		p = api.ParseSearchParams(url.Values{"query": {"  go  "}}, &short)
		assert.ErrorContains(t, p.Validate(), "query: the length must be no less than 3")

		p = api.ParseSearchParams(url.Values{"query": {" god "}}, &short)
		assert.NoError(t, p.Validate())
		assert.Equal(t, " god ", p.Query)
	})

	t.Run("malformed limit", func(t *testing.T) {
		p := api.ParseSearchParams(url.Values{"query": {"love"}, "limit": {"ten"}}, cfg)
		assert.ErrorContains(t, p.Validate(), "limit: must be a positive integer")
	})
}

func TestBooksParams(t *testing.T) {
	assert.NoError(t, api.BooksParams{}.Validate())
	assert.NoError(t, api.BooksParams{Testament: "ot"}.Validate())
	assert.Error(t, api.BooksParams{Testament: "old"}.Validate())
}
