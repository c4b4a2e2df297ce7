package models

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

// Verse is the smallest addressable unit of text, keyed by translation, book,
// chapter and verse number.
type Verse struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	TranslationID uint   `gorm:"not null;uniqueIndex:idx_verses_reference,priority:1" json:"translation_id"`
	BookID        uint   `gorm:"not null;uniqueIndex:idx_verses_reference,priority:2;index:idx_verses_book_chapter,priority:1" json:"book_id"`
	Chapter       int    `gorm:"not null;uniqueIndex:idx_verses_reference,priority:3;index:idx_verses_book_chapter,priority:2" json:"chapter"`
	Verse         int    `gorm:"not null;uniqueIndex:idx_verses_reference,priority:4" json:"verse"`
	Text          string `gorm:"type:text;not null" json:"text"`

	Translation Translation `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Book        Book        `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
}

// TableName specifies the table name.
func (Verse) TableName() string {
	return "verses"
}

// Get retrieves a verse by ID.
func (v *Verse) Get(db *gorm.DB, id uint) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return err
	}

	err := db.First(v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Verse", Key: id}
	}
	if err != nil {
		return fmt.Errorf("error getting verse %d: %w", id, err)
	}
	return nil
}

// VerseDetail is a verse joined with its translation and book.
type VerseDetail struct {
	ID                      uint      `json:"id"`
	TranslationName         string    `json:"translation_name"`
	TranslationAbbreviation string    `json:"translation_abbreviation"`
	BookName                string    `json:"book_name"`
	Testament               Testament `json:"testament"`
	Chapter                 int       `json:"chapter"`
	Verse                   int       `json:"verse"`
	Text                    string    `json:"text"`
}

// VerseDetailQuery returns a query over verses joined with translations and
// books that scans into VerseDetail.
func VerseDetailQuery(db *gorm.DB) *gorm.DB {
	return db.
		Table("verses AS v").
		Select(
			"v.id AS id, " +
				"t.name AS translation_name, " +
				"t.abbreviation AS translation_abbreviation, " +
				"b.name AS book_name, " +
				"b.testament AS testament, " +
				"v.chapter AS chapter, " +
				"v.verse AS verse, " +
				"v.text AS text").
		Joins("JOIN translations t ON v.translation_id = t.id").
		Joins("JOIN books b ON v.book_id = b.id")
}

// ChapterFilter selects the verses of one chapter, optionally bounded.
type ChapterFilter struct {
	TranslationID uint
	BookID        uint
	Chapter       int

	// VerseStart and VerseEnd are inclusive bounds; zero means unbounded.
	VerseStart int
	VerseEnd   int
}

// FindVerseDetails returns the verses matching filter ordered by verse
// number. No matching rows yields an empty slice.
func FindVerseDetails(db *gorm.DB, filter ChapterFilter) ([]VerseDetail, error) {
	if err := validation.ValidateStruct(&filter,
		validation.Field(&filter.TranslationID, validation.Required),
		validation.Field(&filter.BookID, validation.Required),
		validation.Field(&filter.Chapter, validation.Required, validation.Min(1)),
	); err != nil {
		return nil, err
	}

	tx := VerseDetailQuery(db).
		Where("v.translation_id = ? AND v.book_id = ? AND v.chapter = ?",
			filter.TranslationID, filter.BookID, filter.Chapter)
	if filter.VerseStart > 0 {
		tx = tx.Where("v.verse >= ?", filter.VerseStart)
	}
	if filter.VerseEnd > 0 {
		tx = tx.Where("v.verse <= ?", filter.VerseEnd)
	}

	details := []VerseDetail{}
	if err := tx.Order("v.verse ASC").Scan(&details).Error; err != nil {
		return nil, fmt.Errorf("error finding verses: %w", err)
	}
	return details, nil
}

// FindVerses returns plain verse rows matching filter ordered by verse
// number.
func FindVerses(db *gorm.DB, filter ChapterFilter) ([]Verse, error) {
	tx := db.
		Model(&Verse{}).
		Where("translation_id = ? AND book_id = ? AND chapter = ?",
			filter.TranslationID, filter.BookID, filter.Chapter)
	if filter.VerseStart > 0 {
		tx = tx.Where("verse >= ?", filter.VerseStart)
	}
	if filter.VerseEnd > 0 {
		tx = tx.Where("verse <= ?", filter.VerseEnd)
	}

	verses := []Verse{}
	if err := tx.Order("verse ASC").Find(&verses).Error; err != nil {
		return nil, fmt.Errorf("error finding verses: %w", err)
	}
	return verses, nil
}

// GetVerseDetailsByIDs returns the details of the given verses in the order
// of ids. Unknown ids are skipped.
func GetVerseDetailsByIDs(db *gorm.DB, ids []uint) ([]VerseDetail, error) {
	if len(ids) == 0 {
		return []VerseDetail{}, nil
	}

	var rows []VerseDetail
	if err := VerseDetailQuery(db).
		Where("v.id IN ?", ids).
		Scan(&rows).
		Error; err != nil {
		return nil, fmt.Errorf("error getting verses by id: %w", err)
	}

	byID := make(map[uint]VerseDetail, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}
	details := make([]VerseDetail, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			details = append(details, d)
		}
	}
	return details, nil
}

// VerseRange is a contiguous run of verses in one chapter.
type VerseRange struct {
	TranslationAbbreviation string  `json:"translation_abbreviation"`
	BookName                string  `json:"book_name"`
	Chapter                 int     `json:"chapter"`
	StartVerse              int     `json:"start_verse"`
	EndVerse                int     `json:"end_verse"`
	Verses                  []Verse `json:"verses"`
}
