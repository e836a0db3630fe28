package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"niche-finder/internal/common/config"
	apperrors "niche-finder/internal/common/errors"
)

//go:embed data/catalog.json
var embeddedCatalog []byte

// EmbeddedJSON returns the catalog document compiled into the binary.
func EmbeddedJSON() []byte {
	out := make([]byte, len(embeddedCatalog))
	copy(out, embeddedCatalog)
	return out
}

// Parse validates a JSON catalog document against the schema and the
// semantic rules, then builds a Catalog from it.
func Parse(data []byte, source string) (*Catalog, error) {
	if err := ValidateJSON(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(source, err)
	}
	return New(doc, source)
}

// LoadEmbedded parses the catalog compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return Parse(embeddedCatalog, SourceEmbedded)
}

// LoadFile parses a catalog JSON document from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(SourceFile, err)
	}
	return Parse(data, SourceFile)
}

// Load picks the catalog source named in cfg. db is only used by the
// postgres source and may be nil otherwise.
func Load(ctx context.Context, cfg config.CatalogConfig, db *sql.DB) (*Catalog, error) {
	switch cfg.Source {
	case "", SourceEmbedded:
		return LoadEmbedded()
	case SourceFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("catalog.path is required for source %q", SourceFile)
		}
		return LoadFile(cfg.Path)
	case SourcePostgres:
		if db == nil {
			return nil, fmt.Errorf("catalog source %q needs a database connection", SourcePostgres)
		}
		return LoadPostgres(ctx, db, cfg.Table)
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}
