// Package source reads forum content out of a WordPress database.
//
// Every row type is fetched through a cursor-paginated query ordered
// ascending by the entity's primary id: callers pass the last id they saw
// and get the next page, with an empty page signalling end of stream.
// All reads are plain SELECTs; the source database is never written.
package source

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"

	"github.com/mrlokans/dwqa-migrator/internal/config"
)

// Client wraps the source database connection and the schema parameters
// (table prefix, post-type tags, taxonomy) the queries are built from.
type Client struct {
	db           *sql.DB
	prefix       string
	questionType string
	answerType   string
	taxonomy     string
}

// Connect opens the source database and verifies connectivity, retrying the
// initial ping for a short window so the importer survives a database that is
// still coming up. Query failures after Connect are fatal to the run.
func Connect(src config.Source, schema config.Schema) (*Client, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4",
		src.User, src.Password, src.Host, src.Database)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open source database: %w", err)
	}

	policy := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
	ping := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return db.PingContext(ctx)
	}
	if err := backoff.Retry(ping, policy); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach source database at %s: %w", src.Host, err)
	}

	return &Client{
		db:           db,
		prefix:       src.TablePrefix,
		questionType: schema.QuestionPostType,
		answerType:   schema.AnswerPostType,
		taxonomy:     schema.CategoryTaxonomy,
	}, nil
}

func (c *Client) Close() error {
	return c.db.Close()
}

// Users returns the next page of accounts that authored at least one
// published question or answer, ordered by user id.
func (c *Client) Users(ctx context.Context, cursor int64, limit int) ([]User, error) {
	rows, err := c.db.QueryContext(ctx, c.usersQuery(),
		c.questionType, c.answerType, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("users query failed: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var display, url sql.NullString
		if err := rows.Scan(&u.ID, &u.Nicename, &display, &u.Email,
			&u.Registered, &url, &u.PasswordHash); err != nil {
			return nil, fmt.Errorf("users scan failed: %w", err)
		}
		u.DisplayName = display.String
		u.URL = url.String
		users = append(users, u)
	}
	return users, rows.Err()
}

func (c *Client) CountUsers(ctx context.Context) (int, error) {
	return c.count(ctx, c.countUsersQuery(), c.questionType, c.answerType)
}

// Categories returns the next page of question-category terms.
func (c *Client) Categories(ctx context.Context, cursor int64, limit int) ([]Category, error) {
	rows, err := c.db.QueryContext(ctx, c.categoriesQuery(), c.taxonomy, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("categories query failed: %w", err)
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var cat Category
		var name, slug, desc sql.NullString
		if err := rows.Scan(&cat.ID, &name, &slug, &desc); err != nil {
			return nil, fmt.Errorf("categories scan failed: %w", err)
		}
		cat.Name = name.String
		cat.Slug = slug.String
		cat.Description = desc.String
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

func (c *Client) CountCategories(ctx context.Context) (int, error) {
	return c.count(ctx, c.countCategoriesQuery(), c.taxonomy)
}

// Posts returns the next page of published questions and answers in a single
// interleaved stream ordered by post id; post_type discriminates the two.
func (c *Client) Posts(ctx context.Context, cursor int64, limit int) ([]Post, error) {
	rows, err := c.db.QueryContext(ctx, c.postsQuery(),
		c.questionType, c.answerType, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("posts query failed: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var title, anonName, anonEmail sql.NullString
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.CreatedAt, &p.Content,
			&title, &p.Type, &p.ParentID, &anonName, &anonEmail); err != nil {
			return nil, fmt.Errorf("posts scan failed: %w", err)
		}
		p.Title = title.String
		p.AnonName = anonName.String
		p.AnonEmail = anonEmail.String
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (c *Client) CountPosts(ctx context.Context) (int, error) {
	return c.count(ctx, c.countPostsQuery(), c.questionType, c.answerType)
}

// Comments returns the next page of approved comments on published answers.
// Returned ids (and the cursor) are already offset by CommentIDOffset.
func (c *Client) Comments(ctx context.Context, cursor int64, limit int) ([]Comment, error) {
	rows, err := c.db.QueryContext(ctx, c.commentsQuery(), c.answerType, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("comments query failed: %w", err)
	}
	defer rows.Close()

	var comments []Comment
	for rows.Next() {
		var cm Comment
		var author, email sql.NullString
		var userID sql.NullInt64
		if err := rows.Scan(&cm.ID, &cm.PostID, &author, &email,
			&cm.Content, &cm.CreatedAt, &userID); err != nil {
			return nil, fmt.Errorf("comments scan failed: %w", err)
		}
		cm.AuthorName = author.String
		cm.AuthorEmail = email.String
		cm.AuthorID = userID.Int64
		comments = append(comments, cm)
	}
	return comments, rows.Err()
}

func (c *Client) CountComments(ctx context.Context) (int, error) {
	return c.count(ctx, c.countCommentsQuery(), c.answerType)
}

// CategoryAssociations returns (question post id, term id) pairs for the
// reconciliation pass, paginated by post id.
func (c *Client) CategoryAssociations(ctx context.Context, cursor int64, limit int) ([]CategoryAssociation, error) {
	rows, err := c.db.QueryContext(ctx, c.associationsQuery(),
		c.questionType, c.taxonomy, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("category associations query failed: %w", err)
	}
	defer rows.Close()

	var assocs []CategoryAssociation
	for rows.Next() {
		var a CategoryAssociation
		if err := rows.Scan(&a.PostID, &a.TermID); err != nil {
			return nil, fmt.Errorf("category associations scan failed: %w", err)
		}
		assocs = append(assocs, a)
	}
	return assocs, rows.Err()
}

func (c *Client) CountAssociations(ctx context.Context) (int, error) {
	return c.count(ctx, c.countAssociationsQuery(), c.questionType, c.taxonomy)
}

func (c *Client) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count query failed: %w", err)
	}
	return n, nil
}
