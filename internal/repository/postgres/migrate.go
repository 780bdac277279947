package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies the embedded SQL migrations in lexical order. Every
// statement is idempotent, so Migrate runs on each start.
func Migrate(ctx context.Context, db *sql.DB) error {
	entries, err := fs.ReadDir(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		contents, err := migrationFiles.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}

		statements := strings.TrimSpace(string(contents))
		if statements == "" {
			log.Debug().Str("migration", name).Msg("Skipping empty migration")
			continue
		}

		if _, err := db.ExecContext(ctx, statements); err != nil {
			return fmt.Errorf("apply migration %q: %w", name, err)
		}
		log.Debug().Str("migration", name).Msg("Migration applied")
	}

	log.Info().Int("count", len(names)).Msg("Database migrations applied")
	return nil
}
