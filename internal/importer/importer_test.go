package importer

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/dwqa-migrator/internal/entities"
	"github.com/mrlokans/dwqa-migrator/internal/identity"
	"github.com/mrlokans/dwqa-migrator/internal/source"
	"github.com/mrlokans/dwqa-migrator/internal/target"
	"github.com/mrlokans/dwqa-migrator/internal/transform"
)

// fakeSource serves fixture slices through the same cursor/limit contract the
// MySQL client implements.
type fakeSource struct {
	users      []source.User
	categories []source.Category
	posts      []source.Post
	comments   []source.Comment
	assocs     []source.CategoryAssociation
}

func fetchPage[R any](rows []R, id func(R) int64, cursor int64, limit int) []R {
	var out []R
	for _, r := range rows {
		if id(r) > cursor {
			out = append(out, r)
		}
		if len(out) == limit {
			break
		}
	}
	return out
}

func (f *fakeSource) Users(_ context.Context, cursor int64, limit int) ([]source.User, error) {
	return fetchPage(f.users, func(u source.User) int64 { return u.ID }, cursor, limit), nil
}

func (f *fakeSource) Categories(_ context.Context, cursor int64, limit int) ([]source.Category, error) {
	return fetchPage(f.categories, func(c source.Category) int64 { return c.ID }, cursor, limit), nil
}

func (f *fakeSource) Posts(_ context.Context, cursor int64, limit int) ([]source.Post, error) {
	return fetchPage(f.posts, func(p source.Post) int64 { return p.ID }, cursor, limit), nil
}

func (f *fakeSource) Comments(_ context.Context, cursor int64, limit int) ([]source.Comment, error) {
	return fetchPage(f.comments, func(c source.Comment) int64 { return c.ID }, cursor, limit), nil
}

func (f *fakeSource) CategoryAssociations(_ context.Context, cursor int64, limit int) ([]source.CategoryAssociation, error) {
	return fetchPage(f.assocs, func(a source.CategoryAssociation) int64 { return a.PostID }, cursor, limit), nil
}

func (f *fakeSource) CountUsers(context.Context) (int, error)      { return len(f.users), nil }
func (f *fakeSource) CountCategories(context.Context) (int, error) { return len(f.categories), nil }
func (f *fakeSource) CountPosts(context.Context) (int, error)      { return len(f.posts), nil }
func (f *fakeSource) CountComments(context.Context) (int, error)   { return len(f.comments), nil }
func (f *fakeSource) CountAssociations(context.Context) (int, error) {
	return len(f.assocs), nil
}

func setupImporter(t *testing.T, src *fakeSource, batchSize int) (*Importer, *gorm.DB, func()) {
	dbPath := "./test_importer_" + t.Name() + ".db"

	db, err := target.Open(dbPath)
	require.NoError(t, err)

	ids := identity.NewStore(db)
	store := target.NewStore(db, ids)
	tr := transform.New(ids, store)
	imp := New(src, store, ids, tr, batchSize, "dwqa-question")

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return imp, db, cleanup
}

func forumFixture() *fakeSource {
	created := time.Date(2016, 2, 3, 10, 0, 0, 0, time.UTC)
	return &fakeSource{
		users: []source.User{
			{ID: 1, Nicename: "alice", DisplayName: "Alice", Email: "Alice@Example.com", PasswordHash: "$P$Bhash", Registered: created},
		},
		categories: []source.Category{
			{ID: 1, Name: "General", Slug: "general"},
			{ID: 2, Name: "Go", Slug: "go"},
		},
		posts: []source.Post{
			{ID: 5, AuthorID: 1, Type: "dwqa-question", Title: "Maps &amp; slices?", ParentID: 1,
				Content: "<pre><code=go>m := map[string]int{}</code></pre>", CreatedAt: created},
			{ID: 6, AuthorID: 1, Type: "dwqa-answer", ParentID: 5, Content: "make it first", CreatedAt: created},
			{ID: 7, AuthorID: 1, Type: "dwqa-answer", ParentID: 999, Content: "orphan answer", CreatedAt: created},
		},
		comments: []source.Comment{
			{ID: 50008, PostID: 6, AuthorName: "bob", AuthorEmail: "bob@x.com", Content: "thanks!", CreatedAt: created},
			{ID: 50009, PostID: 6, AuthorName: "bob", AuthorEmail: "bob@x.com", Content: "works", CreatedAt: created},
		},
		assocs: []source.CategoryAssociation{
			{PostID: 5, TermID: 1},
			{PostID: 5, TermID: 2},
		},
	}
}

func TestRunImportsForum(t *testing.T) {
	imp, db, cleanup := setupImporter(t, forumFixture(), 2)
	defer cleanup()

	require.NoError(t, imp.Run(context.Background()))

	var users []entities.User
	require.NoError(t, db.Order("id").Find(&users).Error)
	require.Len(t, users, 2) // alice + one staged bob
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "$P$Bhash", users[0].PasswordHash)
	assert.True(t, users[1].Staged)

	var topics []entities.Topic
	require.NoError(t, db.Find(&topics).Error)
	require.Len(t, topics, 1)
	assert.Equal(t, "Maps & slices?", topics[0].Title)

	var posts []entities.Post
	require.NoError(t, db.Where("topic_id = ?", topics[0].ID).Order("post_number").Find(&posts).Error)
	require.Len(t, posts, 4) // question + answer + two comments; the orphan answer is skipped
	assert.Equal(t, "```\nm := map[string]int{}\n```", posts[0].Raw)
	assert.Equal(t, 1, posts[0].PostNumber)
	assert.Zero(t, posts[1].ReplyToPostNumber) // answer replies to the topic root
	// comments attach to the answer (post number 2)
	assert.Equal(t, 2, posts[2].ReplyToPostNumber)
	assert.Equal(t, 2, posts[3].ReplyToPostNumber)
}

func TestRunAnswerLandsInParentTopic(t *testing.T) {
	imp, db, cleanup := setupImporter(t, forumFixture(), 2)
	defer cleanup()
	require.NoError(t, imp.Run(context.Background()))

	ids := identity.NewStore(db)
	question, ok := ids.TopicFor("5")
	require.True(t, ok)
	answer, ok := ids.TopicFor("6")
	require.True(t, ok)

	assert.Equal(t, question.TopicID, answer.TopicID)
	assert.Equal(t, 2, answer.PostNumber)
}

func TestRunSkipsOrphanAnswer(t *testing.T) {
	imp, db, cleanup := setupImporter(t, forumFixture(), 2)
	defer cleanup()
	require.NoError(t, imp.Run(context.Background()))

	ids := identity.NewStore(db)
	_, ok := ids.TargetID(identity.KindPost, "7")
	assert.False(t, ok)
}

func TestRunIsIdempotent(t *testing.T) {
	imp, db, cleanup := setupImporter(t, forumFixture(), 2)
	defer cleanup()

	require.NoError(t, imp.Run(context.Background()))
	require.NoError(t, imp.Run(context.Background()))

	var users, topics, posts, records int64
	db.Model(&entities.User{}).Count(&users)
	db.Model(&entities.Topic{}).Count(&topics)
	db.Model(&entities.Post{}).Count(&posts)
	db.Model(&entities.ImportRecord{}).Count(&records)

	assert.EqualValues(t, 2, users)
	assert.EqualValues(t, 1, topics)
	assert.EqualValues(t, 4, posts)
	assert.EqualValues(t, 8, records) // 1 user + 1 staged + 2 categories + 4 posts
}

func TestRunStagedUserDedup(t *testing.T) {
	imp, db, cleanup := setupImporter(t, forumFixture(), 2)
	defer cleanup()
	require.NoError(t, imp.Run(context.Background()))

	var staged []entities.User
	require.NoError(t, db.Where("staged = ?", true).Find(&staged).Error)
	require.Len(t, staged, 1)

	var comments []entities.Post
	require.NoError(t, db.Where("post_number > 2").Find(&comments).Error)
	require.Len(t, comments, 2)
	assert.Equal(t, staged[0].ID, comments[0].UserID)
	assert.Equal(t, staged[0].ID, comments[1].UserID)
}

func TestRunReconciliationLastWriteWins(t *testing.T) {
	imp, db, cleanup := setupImporter(t, forumFixture(), 2)
	defer cleanup()
	require.NoError(t, imp.Run(context.Background()))

	ids := identity.NewStore(db)
	wantCategory, ok := ids.TargetID(identity.KindCategory, "2")
	require.True(t, ok)

	var topic entities.Topic
	require.NoError(t, db.First(&topic).Error)
	assert.Equal(t, wantCategory, topic.CategoryID)
}

func TestRunReconciliationSkipsUnmapped(t *testing.T) {
	src := forumFixture()
	src.assocs = append(src.assocs, source.CategoryAssociation{PostID: 999, TermID: 1})
	imp, _, cleanup := setupImporter(t, src, 2)
	defer cleanup()

	assert.NoError(t, imp.Run(context.Background()))
}

func TestRunEmptySource(t *testing.T) {
	imp, db, cleanup := setupImporter(t, &fakeSource{}, 2)
	defer cleanup()

	require.NoError(t, imp.Run(context.Background()))

	var records int64
	db.Model(&entities.ImportRecord{}).Count(&records)
	assert.Zero(t, records)
}

func TestRunAnonymousQuestionWithoutEmailSkipped(t *testing.T) {
	src := forumFixture()
	src.posts = append(src.posts, source.Post{
		ID: 8, AuthorID: 0, Type: "dwqa-question", Title: "anon", AnonName: "ghost", Content: "no email",
	})
	imp, db, cleanup := setupImporter(t, src, 2)
	defer cleanup()

	require.NoError(t, imp.Run(context.Background()))

	ids := identity.NewStore(db)
	_, ok := ids.TargetID(identity.KindPost, "8")
	assert.False(t, ok)
}

func TestRunAnonymousQuestionWithEmailGetsStagedAuthor(t *testing.T) {
	src := forumFixture()
	src.posts = append(src.posts, source.Post{
		ID: 8, AuthorID: 0, Type: "dwqa-question", Title: "anon", AnonName: "ghost",
		AnonEmail: "Ghost@Example.com", Content: "with email",
	})
	imp, db, cleanup := setupImporter(t, src, 2)
	defer cleanup()

	require.NoError(t, imp.Run(context.Background()))

	ids := identity.NewStore(db)
	postID, ok := ids.TargetID(identity.KindPost, "8")
	require.True(t, ok)

	var post entities.Post
	require.NoError(t, db.First(&post, postID).Error)

	var author entities.User
	require.NoError(t, db.First(&author, post.UserID).Error)
	assert.True(t, author.Staged)
	assert.Equal(t, "ghost", author.Username)
}
