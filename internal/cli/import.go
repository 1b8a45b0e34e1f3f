package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/mrlokans/dwqa-migrator/internal/config"
	"github.com/mrlokans/dwqa-migrator/internal/identity"
	"github.com/mrlokans/dwqa-migrator/internal/importer"
	"github.com/mrlokans/dwqa-migrator/internal/source"
	"github.com/mrlokans/dwqa-migrator/internal/target"
	"github.com/mrlokans/dwqa-migrator/internal/transform"
)

// ImportCommand runs the full migration: users, categories, topics and
// posts, comments, then the category backfill.
type ImportCommand struct {
	TargetDBPath string
	BatchSize    int
}

func NewImportCommand() *ImportCommand {
	return &ImportCommand{}
}

func (cmd *ImportCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)

	fs.StringVar(&cmd.TargetDBPath, "db", "", "Path to the target database file (overrides TARGET_DB_PATH)")
	fs.IntVar(&cmd.BatchSize, "batch-size", 0, "Source page size (overrides BATCH_SIZE, default 1000)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Migrate a bbPress/DWQA forum into the target database.\n\n")
		fmt.Fprintf(os.Stderr, "Source connection settings come from the environment:\n")
		fmt.Fprintf(os.Stderr, "  BBPRESS_HOST, BBPRESS_DB, BBPRESS_USER, BBPRESS_PW, BBPRESS_PREFIX\n\n")
		fmt.Fprintf(os.Stderr, "The import is idempotent: re-running it skips everything that was\n")
		fmt.Fprintf(os.Stderr, "already imported, so an interrupted run can simply be started again.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ImportCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.TargetDBPath != "" {
		cfg.Target.DBPath = cmd.TargetDBPath
	}
	if cmd.BatchSize > 0 {
		cfg.Import.BatchSize = cmd.BatchSize
	}

	src, err := source.Connect(cfg.Source, cfg.Schema)
	if err != nil {
		return err
	}
	defer src.Close()

	db, err := target.Open(cfg.Target.DBPath)
	if err != nil {
		return err
	}

	ids := identity.NewStore(db)
	store := target.NewStore(db, ids)
	tr := transform.New(ids, store)
	imp := importer.New(src, store, ids, tr, cfg.Import.BatchSize, cfg.Schema.QuestionPostType)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := imp.Run(ctx); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Println("Import complete.")
	return nil
}
