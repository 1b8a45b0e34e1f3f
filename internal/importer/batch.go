package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/dwqa-migrator/internal/identity"
)

// batchPass parameterizes one cursor-paginated import pass. The same engine
// drives every entity type; only the fetch/create callbacks and the mapping
// kind differ.
type batchPass[R any] struct {
	name  string
	kind  identity.Kind
	total int

	// fetch returns the page after cursor, empty when the stream is drained.
	fetch func(ctx context.Context, cursor int64, limit int) ([]R, error)

	// sourceID yields the row's cursor value; pages arrive ascending by it.
	sourceID func(R) int64

	// create transforms and persists the page, returning how many records
	// were actually created.
	create func(rows []R) (int, error)
}

// run drains one pass: advance the cursor page by page, short-circuit pages
// whose ids are all mapped already, and hand the rest to create. Per-row
// problems are handled inside create (skip + log); any error that reaches
// here is fatal to the run.
func run[R any](ctx context.Context, ids identity.Resolver, batchSize int, pass batchPass[R]) error {
	log.Printf("importing %s...", pass.name)

	cursor := int64(-1)
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows, err := pass.fetch(ctx, cursor, batchSize)
		if err != nil {
			return fmt.Errorf("%s pass failed: %w", pass.name, err)
		}
		if len(rows) == 0 {
			return nil
		}

		cursor = pass.sourceID(rows[len(rows)-1])
		offset += len(rows)

		keys := make([]string, len(rows))
		for i, row := range rows {
			keys[i] = identity.Key(pass.sourceID(row))
		}
		exists, err := ids.AllExist(pass.kind, keys)
		if err != nil {
			return fmt.Errorf("%s pass failed: %w", pass.name, err)
		}
		if exists {
			continue
		}

		created, err := pass.create(rows)
		if err != nil {
			return fmt.Errorf("%s pass failed: %w", pass.name, err)
		}
		log.Printf("%s: %d / %d processed, %d created", pass.name, offset, pass.total, created)
	}
}
