package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/mrlokans/dwqa-migrator/internal/identity"
)

// associateCategories is the final reconciliation pass: it walks the
// (question post, term) association rows in ascending post id order and
// backfills the category onto each question's topic. Rows whose post or term
// was never imported are skipped. Re-running yields the same end state; when
// several terms point at one topic the last one in source order wins.
func (imp *Importer) associateCategories(ctx context.Context) error {
	log.Printf("associating categories to topics...")

	total, err := imp.src.CountAssociations(ctx)
	if err != nil {
		return err
	}

	cursor := int64(-1)
	offset := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		assocs, err := imp.src.CategoryAssociations(ctx, cursor, imp.batchSize)
		if err != nil {
			return fmt.Errorf("category association pass failed: %w", err)
		}
		if len(assocs) == 0 {
			return nil
		}

		cursor = assocs[len(assocs)-1].PostID
		offset += len(assocs)

		for _, assoc := range assocs {
			topic, ok := imp.ids.TopicFor(identity.Key(assoc.PostID))
			if !ok {
				continue
			}
			categoryID, ok := imp.ids.TargetID(identity.KindCategory, identity.Key(assoc.TermID))
			if !ok {
				continue
			}
			if err := imp.store.SetTopicCategory(topic.TopicID, categoryID); err != nil {
				return err
			}
		}

		log.Printf("category associations: %d / %d processed", offset, total)
	}
}
