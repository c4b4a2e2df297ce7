package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/scripturekit/bibles/pkg/database/sqlfold"
)

// Translation is a named edition of Biblical text (e.g., KJV).
type Translation struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Abbreviation string `gorm:"uniqueIndex;not null" json:"abbreviation"`
	Language     string `gorm:"not null" json:"language"`
}

// TableName specifies the table name.
func (Translation) TableName() string {
	return "translations"
}

// Get retrieves a translation by ID.
func (t *Translation) Get(db *gorm.DB, id uint) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return err
	}

	err := db.First(t, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Translation", Key: id}
	}
	if err != nil {
		return fmt.Errorf("error getting translation %d: %w", id, err)
	}
	return nil
}

// GetByAbbreviation retrieves a translation by abbreviation. Matching is
// case-insensitive.
func (t *Translation) GetByAbbreviation(db *gorm.DB, abbreviation string) error {
	if err := validation.Validate(abbreviation, validation.Required); err != nil {
		return err
	}

	err := db.
		Where(sqlfold.Expr(db, "abbreviation")+" = "+sqlfold.Expr(db, "?"), abbreviation).
		First(t).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Translation", Key: abbreviation}
	}
	if err != nil {
		return fmt.Errorf("error getting translation %q: %w", abbreviation, err)
	}
	return nil
}

// Resolve retrieves a translation from a reference that is either a numeric
// ID or an abbreviation.
func (t *Translation) Resolve(db *gorm.DB, ref string) error {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		return t.Get(db, uint(id))
	}
	return t.GetByAbbreviation(db, ref)
}

// GetAllTranslations retrieves all translations ordered by name.
func GetAllTranslations(db *gorm.DB) ([]Translation, error) {
	translations := []Translation{}
	if err := db.
		Order("name ASC").
		Order("id ASC").
		Find(&translations).
		Error; err != nil {
		return nil, fmt.Errorf("error getting translations: %w", err)
	}
	return translations, nil
}
