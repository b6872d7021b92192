package db

import (
	"fmt"
	"io"
)

// RunMigrateCommand handles the "migrate" subcommand of relief-runs.
func RunMigrateCommand(args []string, dbPath string, w io.Writer) error {
	if len(args) < 1 {
		PrintMigrateHelp(w)
		return fmt.Errorf("missing migrate action")
	}

	// Migrations manage the schema, so open without applying them.
	database, err := OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	migrations := MigrationsFS()
	switch args[0] {
	case "up":
		if err := database.MigrateUp(migrations); err != nil {
			return err
		}
		fmt.Fprintln(w, "All migrations applied")
		return printStatus(database, w)
	case "down":
		if err := database.MigrateDown(migrations); err != nil {
			return err
		}
		fmt.Fprintln(w, "Rolled back one migration")
		return printStatus(database, w)
	case "status":
		return printStatus(database, w)
	case "help":
		PrintMigrateHelp(w)
		return nil
	}
	PrintMigrateHelp(w)
	return fmt.Errorf("unknown migrate action %q", args[0])
}

func printStatus(database *DB, w io.Writer) error {
	migrations := MigrationsFS()
	version, dirty, err := database.MigrateVersion(migrations)
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}
	latest, err := LatestVersion(migrations)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Current version: %d\n", version)
	fmt.Fprintf(w, "Latest version:  %d\n", latest)
	if dirty {
		fmt.Fprintln(w, "State: DIRTY (a migration failed part way)")
	} else if version < latest {
		fmt.Fprintf(w, "State: %d migration(s) pending\n", latest-version)
	} else {
		fmt.Fprintln(w, "State: up to date")
	}
	return nil
}

// PrintMigrateHelp writes usage for the migrate subcommand.
func PrintMigrateHelp(w io.Writer) {
	fmt.Fprint(w, `Usage: relief-runs migrate <action>

Actions:
  up       apply all pending migrations
  down     roll back the most recent migration
  status   show the current and latest schema version
  help     show this message
`)
}
