package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/dwqa-migrator/internal/config"
	"github.com/mrlokans/dwqa-migrator/internal/source"
)

// CountCommand prints how many rows of each entity type the source holds.
// Useful as a dry connectivity check before a real import.
type CountCommand struct{}

func NewCountCommand() *CountCommand {
	return &CountCommand{}
}

func (cmd *CountCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("count", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s count\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Print source row counts per entity type without importing anything.\n")
	}

	return fs.Parse(args)
}

func (cmd *CountCommand) Run() error {
	cfg := config.NewConfig()

	src, err := source.Connect(cfg.Source, cfg.Schema)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx := context.Background()
	counts := []struct {
		name  string
		count func(context.Context) (int, error)
	}{
		{"users", src.CountUsers},
		{"categories", src.CountCategories},
		{"topics and posts", src.CountPosts},
		{"comments", src.CountComments},
		{"category associations", src.CountAssociations},
	}

	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%-22s %d\n", c.name+":", n)
	}
	return nil
}
