// Package importer sequences the migration passes. Pass order is fixed
// because later passes resolve references registered by earlier ones:
// users and categories first, then questions and answers (one interleaved
// stream, questions always precede their answers by source id), then
// comments, then the category backfill over already-created topics.
package importer

import (
	"context"

	"github.com/mrlokans/dwqa-migrator/internal/identity"
	"github.com/mrlokans/dwqa-migrator/internal/source"
	"github.com/mrlokans/dwqa-migrator/internal/transform"
)

// SourceReader pages source rows ascending by id. Implemented by
// source.Client; tests substitute an in-memory reader.
type SourceReader interface {
	Users(ctx context.Context, cursor int64, limit int) ([]source.User, error)
	Categories(ctx context.Context, cursor int64, limit int) ([]source.Category, error)
	Posts(ctx context.Context, cursor int64, limit int) ([]source.Post, error)
	Comments(ctx context.Context, cursor int64, limit int) ([]source.Comment, error)
	CategoryAssociations(ctx context.Context, cursor int64, limit int) ([]source.CategoryAssociation, error)

	CountUsers(ctx context.Context) (int, error)
	CountCategories(ctx context.Context) (int, error)
	CountPosts(ctx context.Context) (int, error)
	CountComments(ctx context.Context) (int, error)
	CountAssociations(ctx context.Context) (int, error)
}

// TargetStore is the bulk-create collaborator. It owns duplicate suppression
// per row and registers every assigned id with the resolver.
type TargetStore interface {
	CreateUsers(rows []source.User, fn func(source.User) *transform.UserDraft) (int, error)
	CreateCategories(rows []source.Category, fn func(source.Category) *transform.CategoryDraft) (int, error)
	CreatePosts(rows []source.Post, fn func(source.Post) *transform.PostDraft) (int, error)
	CreateCommentPosts(rows []source.Comment, fn func(source.Comment) *transform.PostDraft) (int, error)
	SetTopicCategory(topicID, categoryID uint) error
}

// Importer drives the full migration against injected collaborators.
type Importer struct {
	src          SourceReader
	store        TargetStore
	ids          identity.Resolver
	tr           *transform.Transformer
	batchSize    int
	questionType string
}

func New(src SourceReader, store TargetStore, ids identity.Resolver, tr *transform.Transformer, batchSize int, questionType string) *Importer {
	return &Importer{
		src:          src,
		store:        store,
		ids:          ids,
		tr:           tr,
		batchSize:    batchSize,
		questionType: questionType,
	}
}

// Run executes every pass in dependency order. Each pass drains fully before
// the next starts; interrupting and re-running is safe because fully-imported
// pages are skipped.
func (imp *Importer) Run(ctx context.Context) error {
	if err := imp.importUsers(ctx); err != nil {
		return err
	}
	if err := imp.importCategories(ctx); err != nil {
		return err
	}
	if err := imp.importPosts(ctx); err != nil {
		return err
	}
	if err := imp.importComments(ctx); err != nil {
		return err
	}
	return imp.associateCategories(ctx)
}

func (imp *Importer) importUsers(ctx context.Context) error {
	total, err := imp.src.CountUsers(ctx)
	if err != nil {
		return err
	}
	return run(ctx, imp.ids, imp.batchSize, batchPass[source.User]{
		name:     "users",
		kind:     identity.KindUser,
		total:    total,
		fetch:    imp.src.Users,
		sourceID: func(u source.User) int64 { return u.ID },
		create: func(rows []source.User) (int, error) {
			return imp.store.CreateUsers(rows, imp.tr.User)
		},
	})
}

func (imp *Importer) importCategories(ctx context.Context) error {
	total, err := imp.src.CountCategories(ctx)
	if err != nil {
		return err
	}
	return run(ctx, imp.ids, imp.batchSize, batchPass[source.Category]{
		name:     "categories",
		kind:     identity.KindCategory,
		total:    total,
		fetch:    imp.src.Categories,
		sourceID: func(c source.Category) int64 { return c.ID },
		create: func(rows []source.Category) (int, error) {
			return imp.store.CreateCategories(rows, imp.tr.Category)
		},
	})
}

func (imp *Importer) importPosts(ctx context.Context) error {
	total, err := imp.src.CountPosts(ctx)
	if err != nil {
		return err
	}
	return run(ctx, imp.ids, imp.batchSize, batchPass[source.Post]{
		name:     "topics and posts",
		kind:     identity.KindPost,
		total:    total,
		fetch:    imp.src.Posts,
		sourceID: func(p source.Post) int64 { return p.ID },
		create: func(rows []source.Post) (int, error) {
			return imp.store.CreatePosts(rows, func(p source.Post) *transform.PostDraft {
				return imp.tr.Post(p, imp.questionType)
			})
		},
	})
}

func (imp *Importer) importComments(ctx context.Context) error {
	total, err := imp.src.CountComments(ctx)
	if err != nil {
		return err
	}
	return run(ctx, imp.ids, imp.batchSize, batchPass[source.Comment]{
		name:     "comments and staged users",
		kind:     identity.KindPost,
		total:    total,
		fetch:    imp.src.Comments,
		sourceID: func(c source.Comment) int64 { return c.ID },
		create: func(rows []source.Comment) (int, error) {
			return imp.store.CreateCommentPosts(rows, imp.tr.Comment)
		},
	})
}
