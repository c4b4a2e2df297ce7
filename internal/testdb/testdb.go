// Package testdb builds small in-memory scripture databases for tests.
package testdb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/scripturekit/bibles/pkg/database/sqlfold"
	"github.com/scripturekit/bibles/pkg/models"
)

// Fixture IDs.
const (
	KJVID uint = 1
	WEBID uint = 2

	GenesisID uint = 1
	PsalmsID  uint = 19
	JohnID    uint = 43
	JudeID    uint = 65
)

// Translations are the fixture translations.
var Translations = []models.Translation{
	{ID: KJVID, Name: "King James Version", Abbreviation: "KJV", Language: "English"},
	{ID: WEBID, Name: "World English Bible", Abbreviation: "WEB", Language: "English"},
}

// Books are the fixture books. Jude has no verses.
var Books = []models.Book{
	{ID: GenesisID, Name: "Genesis", Testament: models.OldTestament},
	{ID: PsalmsID, Name: "Psalms", Testament: models.OldTestament},
	{ID: JohnID, Name: "John", Testament: models.NewTestament},
	{ID: JudeID, Name: "Jude", Testament: models.NewTestament},
}

// Verses are the fixture verses. Psalm 23 is complete in both translations.
var Verses = []models.Verse{
	{ID: 1, TranslationID: KJVID, BookID: GenesisID, Chapter: 1, Verse: 1,
		Text: "In the beginning God created the heaven and the earth."},
	{ID: 2, TranslationID: KJVID, BookID: GenesisID, Chapter: 1, Verse: 2,
		Text: "And the earth was without form, and void; and darkness was upon the face of the deep. And the Spirit of God moved upon the face of the waters."},
	{ID: 3, TranslationID: KJVID, BookID: GenesisID, Chapter: 1, Verse: 3,
		Text: "And God said, Let there be light: and there was light."},

	{ID: 10, TranslationID: KJVID, BookID: PsalmsID, Chapter: 23, Verse: 1,
		Text: "The LORD is my shepherd; I shall not want."},
	{ID: 11, TranslationID: KJVID, BookID: PsalmsID, Chapter: 23, Verse: 2,
		Text: "He maketh me to lie down in green pastures: he leadeth me beside the still waters."},
	{ID: 12, TranslationID: KJVID, BookID: PsalmsID, Chapter: 23, Verse: 3,
		Text: "He restoreth my soul: he leadeth me in the paths of righteousness for his name's sake."},
	{ID: 13, TranslationID: KJVID, BookID: PsalmsID, Chapter: 23, Verse: 4,
		Text: "Yea, though I walk through the valley of the shadow of death, I will fear no evil: for thou art with me; thy rod and thy staff they comfort me."},
	{ID: 14, TranslationID: KJVID, BookID: PsalmsID, Chapter: 23, Verse: 5,
		Text: "Thou preparest a table before me in the presence of mine enemies: thou anointest my head with oil; my cup runneth over."},
	{ID: 15, TranslationID: KJVID, BookID: PsalmsID, Chapter: 23, Verse: 6,
		Text: "Surely goodness and mercy shall follow me all the days of my life: and I will dwell in the house of the LORD for ever."},

	{ID: 20, TranslationID: WEBID, BookID: PsalmsID, Chapter: 23, Verse: 1,
		Text: "Yahweh is my shepherd: I shall lack nothing."},
	{ID: 21, TranslationID: WEBID, BookID: PsalmsID, Chapter: 23, Verse: 2,
		Text: "He makes me lie down in green pastures. He leads me beside still waters."},
	{ID: 22, TranslationID: WEBID, BookID: PsalmsID, Chapter: 23, Verse: 3,
		Text: "He restores my soul. He guides me in the paths of righteousness for his name's sake."},
	{ID: 23, TranslationID: WEBID, BookID: PsalmsID, Chapter: 23, Verse: 4,
		Text: "Even though I walk through the valley of the shadow of death, I will fear no evil, for you are with me. Your rod and your staff, they comfort me."},
	{ID: 24, TranslationID: WEBID, BookID: PsalmsID, Chapter: 23, Verse: 5,
		Text: "You prepare a table before me in the presence of my enemies. You anoint my head with oil. My cup runs over."},
	{ID: 25, TranslationID: WEBID, BookID: PsalmsID, Chapter: 23, Verse: 6,
		Text: "Surely goodness and loving kindness shall follow me all the days of my life, and I will dwell in Yahweh's house forever."},

	{ID: 30, TranslationID: KJVID, BookID: JohnID, Chapter: 3, Verse: 16,
		Text: "For God so loved the world, that he gave his only begotten Son, that whosoever believeth in him should not perish, but have everlasting life."},
	{ID: 31, TranslationID: KJVID, BookID: JohnID, Chapter: 3, Verse: 17,
		Text: "For God sent not his Son into the world to condemn the world; but that the world through him might be saved."},
	{ID: 40, TranslationID: WEBID, BookID: JohnID, Chapter: 3, Verse: 16,
		Text: "For God so loved the world, that he gave his one and only Son, that whoever believes in him should not perish, but have eternal life."},
}

// New returns an in-memory database holding the fixture data. The pool is
// limited to one connection so every query sees the same memory database.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	db := Empty(t)
	translations := append([]models.Translation(nil), Translations...)
	books := append([]models.Book(nil), Books...)
	verses := append([]models.Verse(nil), Verses...)

	require.NoError(t, db.Create(&translations).Error)
	require.NoError(t, db.Create(&books).Error)
	require.NoError(t, db.Omit("Translation", "Book").Create(&verses).Error)

	return db
}

// Accented translations and book. They are not part of New so list and count
// expectations against the main fixture stay fixed.
const (
	CEPID uint = 3
	LSGID uint = 4

	IsaiahID uint = 23
)

// AccentedTranslations use non-ASCII names and abbreviations.
var AccentedTranslations = []models.Translation{
	{ID: CEPID, Name: "Český ekumenický překlad", Abbreviation: "ČEP", Language: "Czech"},
	{ID: LSGID, Name: "Louis Segond", Abbreviation: "LSG", Language: "Français"},
}

// AccentedBooks holds one book whose name is not ASCII.
var AccentedBooks = []models.Book{
	{ID: IsaiahID, Name: "Ésaïe", Testament: models.OldTestament},
}

// AccentedVerses are French and Czech verses with non-ASCII letters in both
// cases.
var AccentedVerses = []models.Verse{
	{ID: 50, TranslationID: LSGID, BookID: PsalmsID, Chapter: 23, Verse: 1,
		Text: "L'Éternel est mon berger: je ne manquerai de rien."},
	{ID: 51, TranslationID: CEPID, BookID: PsalmsID, Chapter: 23, Verse: 1,
		Text: "Hospodin je můj pastýř, nebudu mít nedostatek."},
	{ID: 52, TranslationID: LSGID, BookID: IsaiahID, Chapter: 40, Verse: 8,
		Text: "L'herbe sèche, la fleur tombe; Mais la parole de notre Dieu subsiste éternellement."},
}

// WithAccents adds the accented fixture rows to a database built by New.
func WithAccents(t testing.TB, db *gorm.DB) *gorm.DB {
	t.Helper()

	translations := append([]models.Translation(nil), AccentedTranslations...)
	books := append([]models.Book(nil), AccentedBooks...)
	verses := append([]models.Verse(nil), AccentedVerses...)

	require.NoError(t, db.Create(&translations).Error)
	require.NoError(t, db.Create(&books).Error)
	require.NoError(t, db.Omit("Translation", "Book").Create(&verses).Error)

	return db
}

// Empty returns an in-memory database with the schema but no rows.
func Empty(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlfold.SQLite(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.ModelsToAutoMigrate()...))

	return db
}
