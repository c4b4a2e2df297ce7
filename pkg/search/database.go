package search

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/scripturekit/bibles/pkg/database/sqlfold"
	"github.com/scripturekit/bibles/pkg/models"
)

// likeEscaper escapes LIKE wildcards so user input matches literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// DatabaseSearcher searches verses with a LIKE predicate in the database.
type DatabaseSearcher struct {
	db *gorm.DB
}

// NewDatabaseSearcher returns a Searcher backed by db.
func NewDatabaseSearcher(db *gorm.DB) *DatabaseSearcher {
	return &DatabaseSearcher{db: db}
}

func (s *DatabaseSearcher) Name() string {
	return "sql"
}

// SearchVerses implements Searcher.
func (s *DatabaseSearcher) SearchVerses(ctx context.Context, q Query) ([]models.VerseDetail, error) {
	if q.Text == "" || q.Limit < 1 {
		return nil, &Error{Op: "Search", Err: ErrInvalidQuery, Msg: "text and a positive limit are required"}
	}

	db := s.db.WithContext(ctx)
	pattern := "%" + likeEscaper.Replace(q.Text) + "%"
	tx := models.VerseDetailQuery(db).
		Where(sqlfold.Expr(db, "v.text")+" LIKE "+sqlfold.Expr(db, "?")+` ESCAPE '\'`, pattern)
	if q.TranslationID != 0 {
		tx = tx.Where("v.translation_id = ?", q.TranslationID)
	}
	if q.Testament != "" {
		tx = tx.Where("b.testament = ?", string(q.Testament))
	}

	details := []models.VerseDetail{}
	if err := tx.
		Order("v.translation_id ASC").
		Order("v.book_id ASC").
		Order("v.chapter ASC").
		Order("v.verse ASC").
		Limit(q.Limit).
		Scan(&details).
		Error; err != nil {
		return nil, fmt.Errorf("error searching verses: %w", err)
	}
	return details, nil
}
