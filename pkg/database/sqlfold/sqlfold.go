// Package sqlfold provides Unicode case folding that is applied identically
// in Go and in SQL.
//
// SQLite's LOWER and UPPER only fold ASCII, so SQLite connections are opened
// through a driver that registers FoldFunc. Postgres LOWER already folds
// Unicode in UTF-8 databases.
package sqlfold

import (
	"database/sql"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// DriverName is the database/sql driver registered by SQLite.
	DriverName = "sqlite3_fold"

	// FoldFunc is the SQL function registered on SQLite connections.
	FoldFunc = "unicode_lower"
)

var registerOnce sync.Once

// Fold lowercases s with Unicode rules. It is the implementation of FoldFunc.
func Fold(s string) string {
	return strings.ToLower(s)
}

func register() {
	registerOnce.Do(func() {
		sql.Register(DriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc(FoldFunc, Fold, true)
			},
		})
	})
}

// SQLite returns a GORM dialector for dsn whose connections provide FoldFunc.
func SQLite(dsn string) gorm.Dialector {
	register()
	return sqlite.New(sqlite.Config{DriverName: DriverName, DSN: dsn})
}

// Expr wraps a SQL expression (a column or a "?" placeholder) in the fold
// function for db's dialect.
func Expr(db *gorm.DB, expr string) string {
	if db.Dialector.Name() == "sqlite" {
		return FoldFunc + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}
