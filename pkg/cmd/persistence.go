package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopmate/shopmate/pkg/persistence"
	"github.com/shopmate/shopmate/pkg/persistence/file"
	"github.com/shopmate/shopmate/pkg/persistence/postgresql"
)

// NewPersistence creates a persistence layer from a database URL. URLs with
// a postgres scheme get the SQL implementation; anything else is treated as
// a filesystem path.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL persistence: %w", err))
		}

		return p
	default:
		return file.NewPersistence(databaseURL)
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return provider
}
