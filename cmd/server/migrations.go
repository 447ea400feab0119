package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/wordfinding-api/internal/platform/sqlstore"
)

// runMigrations executes a migration command against db. status and version
// print to out.
func runMigrations(ctx context.Context, db *sqlstore.DB, command string, l *slog.Logger, out io.Writer) error {
	migrator, err := sqlstore.NewMigrator(db, l)
	if err != nil {
		return err
	}

	switch command {
	case "up":
		return migrator.Up(ctx)
	case "down":
		return migrator.Down(ctx)
	case "status":
		statuses, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range statuses {
			state := "pending"
			if s.Applied {
				state = "applied"
			}
			if _, err := fmt.Fprintf(out, "%-8d %-8s %s\n", s.Version, state, s.Path); err != nil {
				return err
			}
		}
		return nil
	case "version":
		v, err := migrator.Version(ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(out, "%d\n", v)
		return err
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, status or version)", command)
	}
}
