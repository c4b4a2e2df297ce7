package bleve

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/single"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/scripturekit/bibles/pkg/database/sqlfold"
	"github.com/scripturekit/bibles/pkg/models"
	"github.com/scripturekit/bibles/pkg/search"
)

const (
	// substringAnalyzer indexes the whole verse as one lowercase term so a
	// wildcard query behaves as a case-insensitive substring match. Text is
	// folded with sqlfold.Fold before indexing, as the SQL backend folds it.
	substringAnalyzer = "lowercase_whole_text"

	defaultBatchSize = 1000
)

// sortFields orders hits the same way the SQL backend does.
var sortFields = []string{"translation_id", "book_id", "chapter", "verse"}

// Adapter implements search.Searcher with an embedded Bleve index of verses.
type Adapter struct {
	db     *gorm.DB
	index  bleve.Index
	logger hclog.Logger
}

// Config contains Bleve configuration.
type Config struct {
	// IndexPath is where the index is stored. Empty keeps the index in
	// memory and rebuilds it on every start.
	IndexPath string

	// BatchSize is the number of verses read and indexed per batch.
	BatchSize int

	Logger hclog.Logger
}

// NewAdapter opens or creates the verse index and fills it from db when it
// is empty.
func NewAdapter(ctx context.Context, db *gorm.DB, cfg *Config) (*Adapter, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	indexMapping, err := createVerseMapping()
	if err != nil {
		return nil, fmt.Errorf("failed to create index mapping: %w", err)
	}

	var index bleve.Index
	if cfg.IndexPath == "" {
		index, err = bleve.NewMemOnly(indexMapping)
	} else {
		index, err = openOrCreateIndex(cfg.IndexPath, indexMapping)
	}
	if err != nil {
		return nil, &search.Error{Op: "Open", Err: search.ErrBackendUnavailable, Msg: err.Error()}
	}

	a := &Adapter{
		db:     db,
		index:  index,
		logger: log.Named("bleve"),
	}

	count, err := index.DocCount()
	if err != nil {
		index.Close()
		return nil, fmt.Errorf("failed to count indexed verses: %w", err)
	}
	if count > 0 {
		a.logger.Info("using existing verse index", "path", cfg.IndexPath, "verses", count)
		return a, nil
	}

	if err := a.build(ctx, batchSize); err != nil {
		index.Close()
		return nil, err
	}
	return a, nil
}

// openOrCreateIndex opens an existing Bleve index or creates a new one.
func openOrCreateIndex(path string, indexMapping mapping.IndexMapping) (bleve.Index, error) {
	idx, err := bleve.Open(path)
	if err == bleve.ErrorIndexPathDoesNotExist {
		return bleve.New(path, indexMapping)
	}
	return idx, err
}

// createVerseMapping creates the index mapping for verses.
func createVerseMapping() (mapping.IndexMapping, error) {
	indexMapping := bleve.NewIndexMapping()
	if err := indexMapping.AddCustomAnalyzer(substringAnalyzer, map[string]interface{}{
		"type":          custom.Name,
		"tokenizer":     single.Name,
		"token_filters": []string{lowercase.Name},
	}); err != nil {
		return nil, err
	}

	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = substringAnalyzer
	textFieldMapping.Store = false
	textFieldMapping.IncludeTermVectors = false
	textFieldMapping.IncludeInAll = false

	numericFieldMapping := bleve.NewNumericFieldMapping()
	numericFieldMapping.Store = false
	numericFieldMapping.IncludeInAll = false

	keywordFieldMapping := bleve.NewKeywordFieldMapping()
	keywordFieldMapping.Store = false
	keywordFieldMapping.IncludeInAll = false

	verseMapping := bleve.NewDocumentStaticMapping()
	verseMapping.AddFieldMappingsAt("text", textFieldMapping)
	verseMapping.AddFieldMappingsAt("translation_id", numericFieldMapping)
	verseMapping.AddFieldMappingsAt("book_id", numericFieldMapping)
	verseMapping.AddFieldMappingsAt("chapter", numericFieldMapping)
	verseMapping.AddFieldMappingsAt("verse", numericFieldMapping)
	verseMapping.AddFieldMappingsAt("testament", keywordFieldMapping)

	indexMapping.DefaultMapping = verseMapping
	return indexMapping, nil
}

// indexRow is one verse as read for indexing.
type indexRow struct {
	ID            uint
	TranslationID uint
	BookID        uint
	Chapter       int
	Verse         int
	Testament     string
	Text          string
}

// build reads every verse with keyset pagination and indexes it in batches.
func (a *Adapter) build(ctx context.Context, batchSize int) error {
	start := time.Now()
	var (
		lastID  uint
		indexed int
	)

	for {
		var rows []indexRow
		if err := a.db.WithContext(ctx).
			Table("verses AS v").
			Select("v.id AS id, v.translation_id AS translation_id, v.book_id AS book_id, " +
				"v.chapter AS chapter, v.verse AS verse, b.testament AS testament, v.text AS text").
			Joins("JOIN books b ON v.book_id = b.id").
			Where("v.id > ?", lastID).
			Order("v.id ASC").
			Limit(batchSize).
			Scan(&rows).
			Error; err != nil {
			return &search.Error{Op: "Build", Err: search.ErrIndexingFailed, Msg: err.Error()}
		}
		if len(rows) == 0 {
			break
		}

		batch := a.index.NewBatch()
		for _, r := range rows {
			if err := batch.Index(strconv.FormatUint(uint64(r.ID), 10), map[string]interface{}{
				"text":           sqlfold.Fold(r.Text),
				"translation_id": float64(r.TranslationID),
				"book_id":        float64(r.BookID),
				"chapter":        float64(r.Chapter),
				"verse":          float64(r.Verse),
				"testament":      r.Testament,
			}); err != nil {
				return &search.Error{Op: "Build", Err: search.ErrIndexingFailed, Msg: err.Error()}
			}
		}
		if err := a.index.Batch(batch); err != nil {
			return &search.Error{Op: "Build", Err: search.ErrIndexingFailed, Msg: err.Error()}
		}

		indexed += len(rows)
		lastID = rows[len(rows)-1].ID
		a.logger.Debug("indexed verse batch", "verses", indexed, "last_id", lastID)
	}

	a.logger.Info("built verse index", "verses", indexed, "elapsed", time.Since(start))
	return nil
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return "bleve"
}

// Healthy checks if the index is accessible.
func (a *Adapter) Healthy(ctx context.Context) error {
	if a.index == nil {
		return fmt.Errorf("verse index is not initialized")
	}
	if _, err := a.index.DocCount(); err != nil {
		return fmt.Errorf("verse index unhealthy: %w", err)
	}
	return nil
}

// SearchVerses implements search.Searcher. Queries containing wildcard
// characters are rejected with search.ErrInvalidQuery.
func (a *Adapter) SearchVerses(ctx context.Context, q search.Query) ([]models.VerseDetail, error) {
	if q.Text == "" || q.Limit < 1 {
		return nil, &search.Error{Op: "Search", Err: search.ErrInvalidQuery, Msg: "text and a positive limit are required"}
	}
	if strings.ContainsAny(q.Text, "*?") {
		return nil, &search.Error{Op: "Search", Err: search.ErrInvalidQuery, Msg: "wildcard characters are not supported"}
	}

	textQuery := bleve.NewWildcardQuery("*" + sqlfold.Fold(q.Text) + "*")
	textQuery.SetField("text")
	conjunction := bleve.NewConjunctionQuery(textQuery)

	if q.TranslationID != 0 {
		id := float64(q.TranslationID)
		inclusive := true
		translationQuery := bleve.NewNumericRangeInclusiveQuery(&id, &id, &inclusive, &inclusive)
		translationQuery.SetField("translation_id")
		conjunction.AddQuery(translationQuery)
	}
	if q.Testament != "" {
		testamentQuery := bleve.NewTermQuery(string(q.Testament))
		testamentQuery.SetField("testament")
		conjunction.AddQuery(testamentQuery)
	}

	req := bleve.NewSearchRequestOptions(conjunction, q.Limit, 0, false)
	req.SortBy(sortFields)

	res, err := a.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, &search.Error{Op: "Search", Err: err, Msg: "bleve query failed"}
	}

	ids := make([]uint, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseUint(hit.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid verse id %q in index: %w", hit.ID, err)
		}
		ids = append(ids, uint(id))
	}

	return models.GetVerseDetailsByIDs(a.db.WithContext(ctx), ids)
}

// Close closes the index.
func (a *Adapter) Close() error {
	if err := a.index.Close(); err != nil {
		return fmt.Errorf("failed to close verse index: %w", err)
	}
	return nil
}

// RemoveIndex deletes an on-disk index so the next start rebuilds it.
func RemoveIndex(path string) error {
	if path == "" {
		return nil
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove index: %w", err)
	}
	return nil
}
