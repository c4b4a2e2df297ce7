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

// Testament classifies a book as Old or New Testament.
type Testament string

const (
	OldTestament Testament = "OT"
	NewTestament Testament = "NT"
)

// ParseTestament normalizes a testament value. Input is matched
// case-insensitively.
func ParseTestament(s string) (Testament, error) {
	switch t := Testament(strings.ToUpper(strings.TrimSpace(s))); t {
	case OldTestament, NewTestament:
		return t, nil
	default:
		return "", fmt.Errorf("testament must be OT or NT")
	}
}

// Book is a book of the Bible.
type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	Testament Testament `gorm:"type:varchar(2);not null;index" json:"testament"`
}

// TableName specifies the table name.
func (Book) TableName() string {
	return "books"
}

// Get retrieves a book by ID.
func (b *Book) Get(db *gorm.DB, id uint) error {
	if err := validation.Validate(id, validation.Required); err != nil {
		return err
	}

	err := db.First(b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Book", Key: id}
	}
	if err != nil {
		return fmt.Errorf("error getting book %d: %w", id, err)
	}
	return nil
}

// GetByName retrieves a book by name. Matching is case-insensitive.
func (b *Book) GetByName(db *gorm.DB, name string) error {
	if err := validation.Validate(name, validation.Required); err != nil {
		return err
	}

	err := db.
		Where(sqlfold.Expr(db, "name")+" = "+sqlfold.Expr(db, "?"), name).
		First(b).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: "Book", Key: name}
	}
	if err != nil {
		return fmt.Errorf("error getting book %q: %w", name, err)
	}
	return nil
}

// Resolve retrieves a book from a reference that is either a numeric ID or a
// book name.
func (b *Book) Resolve(db *gorm.DB, ref string) error {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil && id > 0 {
		return b.Get(db, uint(id))
	}
	return b.GetByName(db, ref)
}

// GetBooks retrieves books in canonical (ID) order. An empty testament
// returns every book.
func GetBooks(db *gorm.DB, testament Testament) ([]Book, error) {
	books := []Book{}
	tx := db.Order("id ASC")
	if testament != "" {
		tx = tx.Where("testament = ?", string(testament))
	}
	if err := tx.Find(&books).Error; err != nil {
		return nil, fmt.Errorf("error getting books: %w", err)
	}
	return books, nil
}
