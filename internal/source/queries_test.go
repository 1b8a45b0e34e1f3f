package source

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClient() *Client {
	return &Client{
		prefix:       "wp_",
		questionType: "dwqa-question",
		answerType:   "dwqa-answer",
		taxonomy:     "dwqa-question_category",
	}
}

func TestQueriesUseConfiguredPrefix(t *testing.T) {
	c := testClient()

	assert.Contains(t, c.usersQuery(), "wp_users")
	assert.Contains(t, c.usersQuery(), "wp_posts")
	assert.Contains(t, c.categoriesQuery(), "wp_term_taxonomy")
	assert.Contains(t, c.postsQuery(), "wp_postmeta")
	assert.Contains(t, c.commentsQuery(), "wp_comments")
	assert.Contains(t, c.associationsQuery(), "wp_term_relationships")
}

func TestPaginationQueriesAreCursorOrdered(t *testing.T) {
	c := testClient()

	for name, q := range map[string]string{
		"users":        c.usersQuery(),
		"categories":   c.categoriesQuery(),
		"posts":        c.postsQuery(),
		"comments":     c.commentsQuery(),
		"associations": c.associationsQuery(),
	} {
		assert.Contains(t, q, "ORDER BY", name)
		assert.Contains(t, q, "LIMIT ?", name)
		assert.Contains(t, q, "> ?", name)
	}
}

func TestCommentsQueryOffsetsIDs(t *testing.T) {
	q := testClient().commentsQuery()

	assert.Contains(t, q, fmt.Sprintf("c.comment_ID + %d", CommentIDOffset))
	// the cursor predicate must compare offset ids, not raw comment ids
	assert.Contains(t, q, fmt.Sprintf("c.comment_ID + %d > ?", CommentIDOffset))
}

func TestContentQueriesFilterToPublished(t *testing.T) {
	c := testClient()

	assert.Contains(t, c.usersQuery(), "post_status = 'publish'")
	assert.Contains(t, c.postsQuery(), "post_status = 'publish'")
	assert.Contains(t, c.commentsQuery(), "post_status = 'publish'")
	assert.Contains(t, c.commentsQuery(), "comment_approved = 1")
	assert.Contains(t, c.associationsQuery(), "post_status = 'publish'")
}

func TestUsersQueryRequiresPlausibleEmail(t *testing.T) {
	assert.Contains(t, testClient().usersQuery(), "user_email LIKE '%@%'")
}
