package source

import "time"

// CommentIDOffset shifts comment ids before they enter the unified post id
// space, keeping them disjoint from question/answer post ids. The offset is
// applied inside the comments query, so Comment.ID and the comments cursor
// are always offset values.
const CommentIDOffset = 50000

// User is a WordPress account that authored at least one published
// question or answer and has a plausible email.
type User struct {
	ID           int64
	Nicename     string
	DisplayName  string
	Email        string
	Registered   time.Time
	URL          string
	PasswordHash string
}

// Category is a term from the question-category taxonomy.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
}

// Post is a published question or answer. For questions ParentID points at
// the category term; for answers it points at the parent question's post id.
// AnonName/AnonEmail carry the anonymous-author postmeta when present.
type Post struct {
	ID        int64
	AuthorID  int64
	CreatedAt time.Time
	Title     string
	Content   string
	Type      string
	ParentID  int64
	AnonName  string
	AnonEmail string
}

// Comment is an approved comment on a published answer. ID is already offset
// by CommentIDOffset; PostID is the raw id of the answer it belongs to.
type Comment struct {
	ID          int64
	PostID      int64
	AuthorName  string
	AuthorEmail string
	AuthorID    int64
	Content     string
	CreatedAt   time.Time
}

// CategoryAssociation links a question post to a category term. Used only by
// the reconciliation pass.
type CategoryAssociation struct {
	PostID int64
	TermID int64
}
