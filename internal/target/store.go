// Package target persists imported forum records. It implements the
// bulk-create contract the import engine drives: each create operation
// suppresses rows whose import key is already mapped, inserts the rest, and
// registers the assigned ids with the identity resolver before returning.
package target

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/dwqa-migrator/internal/entities"
	"github.com/mrlokans/dwqa-migrator/internal/identity"
	"github.com/mrlokans/dwqa-migrator/internal/source"
	"github.com/mrlokans/dwqa-migrator/internal/transform"
)

// Open opens (or creates) the target database and migrates its schema.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open target database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Category{},
		&entities.Topic{},
		&entities.Post{},
		&entities.ImportRecord{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate target database: %w", err)
	}

	return db, nil
}

// Store writes imported records and keeps the identity resolver in sync with
// every id it assigns.
type Store struct {
	db  *gorm.DB
	ids identity.Resolver
}

func NewStore(db *gorm.DB, ids identity.Resolver) *Store {
	return &Store{db: db, ids: ids}
}

// CreateUsers inserts the drafts fn produces, skipping rows that are already
// mapped or that fn rejects. Returns the number of records created.
func (s *Store) CreateUsers(rows []source.User, fn func(source.User) *transform.UserDraft) (int, error) {
	created := 0
	for _, row := range rows {
		draft := fn(row)
		if draft == nil {
			continue
		}
		if _, ok := s.ids.TargetID(identity.KindUser, draft.ImportKey); ok {
			continue
		}

		user := entities.User{
			Username:     draft.Username,
			Email:        draft.Email,
			Name:         draft.Name,
			PasswordHash: draft.PasswordHash,
			Website:      draft.Website,
			CreatedAt:    draft.CreatedAt,
		}
		if err := s.db.Create(&user).Error; err != nil {
			return created, fmt.Errorf("failed to create user %s: %w", draft.Username, err)
		}
		if err := s.ids.Register(identity.KindUser, draft.ImportKey, user.ID); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// CreateCategories inserts category drafts, mirroring CreateUsers.
func (s *Store) CreateCategories(rows []source.Category, fn func(source.Category) *transform.CategoryDraft) (int, error) {
	created := 0
	for _, row := range rows {
		draft := fn(row)
		if draft == nil {
			continue
		}
		if _, ok := s.ids.TargetID(identity.KindCategory, draft.ImportKey); ok {
			continue
		}

		cat := entities.Category{
			Name:        draft.Name,
			Slug:        draft.Slug,
			Description: draft.Description,
		}
		if err := s.db.Create(&cat).Error; err != nil {
			return created, fmt.Errorf("failed to create category %s: %w", draft.Name, err)
		}
		if err := s.ids.Register(identity.KindCategory, draft.ImportKey, cat.ID); err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// CreatePosts inserts question/answer drafts. Question drafts become a new
// topic plus its first post; reply drafts append to their resolved topic.
func (s *Store) CreatePosts(rows []source.Post, fn func(source.Post) *transform.PostDraft) (int, error) {
	created := 0
	for _, row := range rows {
		n, err := s.createPost(fn(row))
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

// CreateCommentPosts inserts comment drafts as reply posts.
func (s *Store) CreateCommentPosts(rows []source.Comment, fn func(source.Comment) *transform.PostDraft) (int, error) {
	created := 0
	for _, row := range rows {
		n, err := s.createPost(fn(row))
		if err != nil {
			return created, err
		}
		created += n
	}
	return created, nil
}

func (s *Store) createPost(draft *transform.PostDraft) (int, error) {
	if draft == nil {
		return 0, nil
	}
	if _, ok := s.ids.TargetID(identity.KindPost, draft.ImportKey); ok {
		return 0, nil
	}

	post := entities.Post{
		UserID:    draft.UserID,
		Raw:       draft.Raw,
		CreatedAt: draft.CreatedAt,
	}

	if draft.IsQuestion {
		topic := entities.Topic{
			Title:      draft.Title,
			CategoryID: draft.CategoryID,
			UserID:     draft.UserID,
			CreatedAt:  draft.CreatedAt,
		}
		if err := s.db.Create(&topic).Error; err != nil {
			return 0, fmt.Errorf("failed to create topic %q: %w", draft.Title, err)
		}
		post.TopicID = topic.ID
		post.PostNumber = 1
	} else {
		next, err := s.nextPostNumber(draft.TopicID)
		if err != nil {
			return 0, err
		}
		post.TopicID = draft.TopicID
		post.PostNumber = next
		post.ReplyToPostNumber = draft.ReplyToPostNumber
	}

	if err := s.db.Create(&post).Error; err != nil {
		return 0, fmt.Errorf("failed to create post for source %s: %w", draft.ImportKey, err)
	}
	if err := s.ids.Register(identity.KindPost, draft.ImportKey, post.ID); err != nil {
		return 0, err
	}
	return 1, nil
}

// CreateStagedUser inserts a placeholder account and registers it under its
// staged key before returning, so later rows from the same author reuse it.
func (s *Store) CreateStagedUser(username, email string) (uint, error) {
	user := entities.User{
		Username: username,
		Email:    email,
		Name:     username,
		Staged:   true,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return 0, fmt.Errorf("failed to create staged user %s: %w", username, err)
	}
	if err := s.ids.Register(identity.KindUser, identity.StagedKey(username, email), user.ID); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// SetTopicCategory backfills the category on an already-created topic.
// Last write wins; the reconciliation pass relies on that.
func (s *Store) SetTopicCategory(topicID, categoryID uint) error {
	err := s.db.Model(&entities.Topic{}).
		Where("id = ?", topicID).
		Update("category_id", categoryID).Error
	if err != nil {
		return fmt.Errorf("failed to set category %d on topic %d: %w", categoryID, topicID, err)
	}
	log.Printf("category %d updated for topic %d", categoryID, topicID)
	return nil
}

func (s *Store) nextPostNumber(topicID uint) (int, error) {
	var last int
	err := s.db.Model(&entities.Post{}).
		Where("topic_id = ?", topicID).
		Select("COALESCE(MAX(post_number), 0)").
		Scan(&last).Error
	if err != nil {
		return 0, fmt.Errorf("failed to compute post number for topic %d: %w", topicID, err)
	}
	return last + 1, nil
}
