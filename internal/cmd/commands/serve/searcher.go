package serve

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-hclog"
	"gorm.io/gorm"

	"github.com/scripturekit/bibles/internal/config"
	"github.com/scripturekit/bibles/pkg/search"
	"github.com/scripturekit/bibles/pkg/search/adapters/bleve"
)

// newSearcher builds the configured search backend. The returned func
// releases any resources it holds.
func newSearcher(
	ctx context.Context, cfg *config.Search, db *gorm.DB, log hclog.Logger,
) (search.Searcher, func(), error) {
	sqlSearcher := search.NewDatabaseSearcher(db)

	switch strings.ToLower(cfg.Backend) {
	case config.SearchBackendSQL:
		return sqlSearcher, func() {}, nil

	case config.SearchBackendBleve:
		if cfg.RebuildIndex && cfg.IndexPath != "" {
			if err := bleve.RemoveIndex(cfg.IndexPath); err != nil {
				return nil, nil, fmt.Errorf("error removing search index: %w", err)
			}
		}

		adapter, err := bleve.NewAdapter(ctx, db, &bleve.Config{
			IndexPath: cfg.IndexPath,
			Logger:    log.Named("bleve"),
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error building search index: %w", err)
		}
		if err := adapter.Healthy(ctx); err != nil {
			adapter.Close()
			return nil, nil, fmt.Errorf("search index failed health check: %w", err)
		}

		closeFn := func() {
			if err := adapter.Close(); err != nil {
				log.Error("error closing search index", "error", err)
			}
		}
		return search.Fallback(adapter, sqlSearcher, log.Named("search")), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unsupported search backend %q", cfg.Backend)
	}
}
