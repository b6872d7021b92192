// Command relief-runs lists the sampler and applicator runs recorded in a
// history database and manages its schema.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/banshee-data/relief/internal/db"
	"github.com/banshee-data/relief/internal/version"
)

var errUsage = errors.New("usage error")

func main() {
	if err := run(os.Args[1:], os.Stdout, time.Now); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		log.Fatalf("relief-runs: %v", err)
	}
}

func run(args []string, stdout io.Writer, now func() time.Time) error {
	fs := flag.NewFlagSet("relief-runs", flag.ContinueOnError)
	fs.SetOutput(stdout)
	dbPath := fs.String("db", "relief-runs.db", "path to the run history database")
	limit := fs.Int("limit", 20, "maximum number of runs to list (0 lists all)")
	asJSON := fs.Bool("json", false, "print runs as JSON")
	runID := fs.String("run", "", "show a single run")
	showVersion := fs.Bool("version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: relief-runs [flags]\n       relief-runs [-db path] migrate <up|down|status>\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	if *showVersion {
		fmt.Fprintln(stdout, version.String("relief-runs"))
		return nil
	}
	if fs.NArg() > 0 {
		if fs.Arg(0) != "migrate" {
			fs.Usage()
			return fmt.Errorf("%w: unknown command %q", errUsage, fs.Arg(0))
		}
		return db.RunMigrateCommand(fs.Args()[1:], *dbPath, stdout)
	}

	if _, err := os.Stat(*dbPath); err != nil {
		return fmt.Errorf("no run history at %s: %w", *dbPath, err)
	}
	database, err := db.Open(*dbPath)
	if err != nil {
		return err
	}
	defer database.Close()
	store := db.NewRunStore(database.DB, nil)

	var runs []*db.Run
	if *runID != "" {
		r, err := store.Get(*runID)
		if err != nil {
			return err
		}
		runs = []*db.Run{r}
	} else if runs, err = store.List(*limit); err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}
	return printRuns(stdout, runs, now())
}

func printRuns(w io.Writer, runs []*db.Run, now time.Time) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tKIND\tSTATUS\tSTARTED\tTOOK\tGRID\tSTEP\tVERTICES\tHEIGHT\tSOURCE\tOUTPUT")
	for _, r := range runs {
		took := "-"
		if !r.FinishedAt.IsZero() {
			took = r.Duration().Round(time.Millisecond).String()
		}
		status := string(r.Status)
		if r.Error != "" {
			status += ": " + r.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%dx%d\t%dx%d\t%s\t%.3f..%.3f\t%s\t%s\n",
			shortID(r.RunID), r.Kind, status,
			humanize.RelTime(r.StartedAt, now, "ago", "from now"), took,
			r.Result.Rows, r.Result.Cols, r.Result.RowStep, r.Result.ColStep,
			humanize.Comma(int64(r.Result.VertexCount)),
			r.Result.MinHeight, r.Result.MaxHeight,
			r.SourcePath, r.OutputPath,
		)
	}
	return tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
