package entities

import "time"

// User is a forum account. Staged users are placeholder accounts synthesized
// for content authors with no real account in the source database; they carry
// no usable credential.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"index;size:100" json:"username"`
	Email        string    `gorm:"index;size:255" json:"email"`
	Name         string    `gorm:"size:255" json:"name"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	Website      string    `gorm:"size:255" json:"website,omitempty"`
	Staged       bool      `gorm:"index" json:"staged"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255" json:"name"`
	Slug        string    `gorm:"index;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Category) TableName() string {
	return "categories"
}

// Topic is a top-level discussion thread. Its first post (post number 1)
// carries the question body.
type Topic struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:500" json:"title"`
	CategoryID uint      `gorm:"index" json:"category_id"`
	UserID     uint      `gorm:"index" json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Topic) TableName() string {
	return "topics"
}

// Post is a single message within a topic. PostNumber is 1-based and strictly
// increasing within a topic; ReplyToPostNumber is zero when the post replies
// to the topic root.
type Post struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	TopicID           uint      `gorm:"index" json:"topic_id"`
	PostNumber        int       `gorm:"index" json:"post_number"`
	UserID            uint      `gorm:"index" json:"user_id"`
	Raw               string    `gorm:"type:text" json:"raw"`
	ReplyToPostNumber int       `json:"reply_to_post_number,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Post) TableName() string {
	return "posts"
}

// ImportRecord maps a source identity (kind + source key) to the target id it
// was imported as. Re-runs consult these rows to detect already-imported
// content.
type ImportRecord struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Kind      string    `gorm:"size:20;uniqueIndex:idx_import_kind_key" json:"kind"`
	SourceKey string    `gorm:"size:255;uniqueIndex:idx_import_kind_key" json:"source_key"`
	TargetID  uint      `gorm:"index" json:"target_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (ImportRecord) TableName() string {
	return "import_records"
}
