package server

import (
	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/scripturekit/bibles/internal/config"
	"github.com/scripturekit/bibles/pkg/search"
)

// Server contains the server configuration.
type Server struct {
	// Config is the config for the server.
	Config *config.Config

	// DB is the scripture database. It is opened read-only and shared by all
	// requests.
	DB *gorm.DB

	// Logger is the logger for the server.
	Logger hclog.Logger

	// Searcher runs verse text searches (SQL or bleve backed).
	Searcher search.Searcher
}
