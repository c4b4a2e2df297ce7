package models

// ModelsToAutoMigrate returns the models backing the read-only schema. The
// server never migrates; this is used to build fixture databases.
func ModelsToAutoMigrate() []interface{} {
	return []interface{}{
		&Translation{}, // Must precede verses (foreign key)
		&Book{},
		&Verse{},
	}
}
