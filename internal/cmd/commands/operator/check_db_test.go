package operator

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scripturekit/bibles/internal/cmd/base"
	"github.com/scripturekit/bibles/internal/testdb"
	"github.com/scripturekit/bibles/pkg/models"
)

func TestCountRows(t *testing.T) {
	db := testdb.New(t)

	counts, err := CountRows(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []TableCount{
		{Table: "translations", Rows: int64(len(testdb.Translations))},
		{Table: "books", Rows: int64(len(testdb.Books))},
		{Table: "verses", Rows: int64(len(testdb.Verses))},
	}, counts)
}

func TestCheckDBCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bibles.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))
	require.NoError(t, db.Create(&models.Translation{
		ID: 1, Name: "King James Version", Abbreviation: "KJV", Language: "English",
	}).Error)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	t.Run("ok", func(t *testing.T) {
		ui := cli.NewMockUi()
		c := &CheckDBCommand{Command: base.NewCommand(hclog.NewNullLogger(), ui)}

		code := c.Run([]string{"-db", path})
		require.Equal(t, 0, code, ui.ErrorWriter.String())

		out := ui.OutputWriter.String()
		assert.Contains(t, out, "translations   1")
		assert.Contains(t, out, "verses         0")
		assert.Contains(t, out, "pool:")
		assert.Contains(t, out, "database OK")
	})

	t.Run("missing database", func(t *testing.T) {
		ui := cli.NewMockUi()
		c := &CheckDBCommand{Command: base.NewCommand(hclog.NewNullLogger(), ui)}

		code := c.Run([]string{"-db", filepath.Join(t.TempDir(), "missing.db")})
		assert.Equal(t, 1, code)
		assert.True(t, strings.Contains(ui.ErrorWriter.String(), "error connecting to database"))
	})

	t.Run("bad flag", func(t *testing.T) {
		ui := cli.NewMockUi()
		c := &CheckDBCommand{Command: base.NewCommand(hclog.NewNullLogger(), ui)}
		assert.Equal(t, 1, c.Run([]string{"-nope"}))
	})
}
