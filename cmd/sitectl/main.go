// Command sitectl reads the site tables over the API and applies batches of
// edits through the same editor state machine the page uses.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sitegrid/internal/api"
	"github.com/JonMunkholm/sitegrid/internal/config"
	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/editor"
	"github.com/JonMunkholm/sitegrid/internal/grid"
	"github.com/JonMunkholm/sitegrid/internal/logging"
	"github.com/JonMunkholm/sitegrid/internal/ui"
)

const version = "0.1.0"

const usage = `Site table control.

The API is configured through the environment (API_BASE_URL, API_KEY,
API_REQUEST_TIMEOUT, EDITOR_MAX_IN_FLIGHT); a .env file is read if present.

Usage:
    sitectl tables
    sitectl columns <table>
    sitectl data <table>
    sitectl apply <table> <change_file> [--dry-run]
    sitectl -h | --help
    sitectl --version

Options:
    -h --help    Show this screen.
    --version    Show version.
    --dry-run    Validate and report the pending changes without saving.`

func main() {
	opts, err := docopt.ParseArgs(usage, os.Args[1:], version)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	godotenv.Load()

	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.RequestTimeout),
		api.WithAPIKey(cfg.API.Key),
	)

	table, _ := opts.String("<table>")

	switch {
	case flag(opts, "tables"):
		err = printTables(ctx, client)
	case flag(opts, "columns"):
		var cols []core.ColumnMeta
		if cols, err = client.FetchColumns(ctx, table); err == nil {
			err = printJSON(cols)
		}
	case flag(opts, "data"):
		var rows []core.Row
		if rows, err = client.FetchData(ctx, table); err == nil {
			err = printJSON(rows)
		}
	case flag(opts, "apply"):
		file, _ := opts.String("<change_file>")
		err = apply(ctx, client, cfg, logger, table, file, flag(opts, "--dry-run"))
	}

	if err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func flag(opts docopt.Opts, name string) bool {
	v, _ := opts.Bool(name)
	return v
}

func printTables(ctx context.Context, client *api.Client) error {
	tabs, err := client.FetchTables(ctx)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(tabs))
	for name := range tabs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Println(name)
		for _, t := range tabs[name] {
			fmt.Printf("  %-28s %s\n", t.Key, t.Title)
		}
	}
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func apply(ctx context.Context, client *api.Client, cfg *config.ClientConfig, logger *slog.Logger,
	table, file string, dryRun bool) error {
	changes, err := readChanges(file)
	if err != nil {
		return err
	}
	if changes.Empty() {
		fmt.Println("change file is empty")
		return nil
	}

	cols, err := client.FetchColumns(ctx, table)
	if err != nil {
		return err
	}

	g := grid.NewMemory()
	ed := editor.New(client, ui.NewPage(table),
		editor.WithColumns(editor.MetaColumns{table: cols}),
		editor.WithLogger(logger),
		editor.WithMaxInFlight(cfg.Editor.MaxInFlight),
	)
	ed.Attach(table, g)

	if err := ed.Load(ctx, table); err != nil {
		return err
	}
	ed.ToggleEditMode()
	ed.TablesGenerated()

	if err := changes.apply(ctx, ed, table, g); err != nil {
		return err
	}

	if dryRun {
		if !ed.IsValid(table) {
			return editor.ErrInvalidTable
		}
		pending, err := ed.Pending(table)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d update(s), %d insert(s), %d delete(s) pending\n",
			table, pending.Updates, pending.Inserts, pending.Deletes)
		return nil
	}

	result, err := ed.Save(ctx, table)
	if errors.Is(err, editor.ErrNothingToSave) {
		fmt.Println("nothing to save")
		return nil
	}
	if result != nil {
		printResult(result)
	}
	if err != nil {
		return err
	}
	if n := len(result.Failed()); n > 0 {
		return fmt.Errorf("%d request(s) failed", n)
	}
	return nil
}

func printResult(r *editor.SaveResult) {
	for _, o := range r.Outcomes {
		id := o.RowID
		if id == "" {
			id = "-"
		}
		if o.Err != nil {
			fmt.Printf("%-7s %-6s error: %v\n", o.Verb, id, o.Err)
			continue
		}
		fmt.Printf("%-7s %-6s %s\n", o.Verb, id, o.Status)
	}
	fmt.Printf("%d of %d request(s) succeeded\n", r.Succeeded(), len(r.Outcomes))
}
