package identity

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/dwqa-migrator/internal/entities"
)

// Store is the persistent Resolver implementation, backed by the
// import_records table in the target database with an in-run cache on top.
// Single-writer by construction: only one import pass is ever active.
type Store struct {
	db    *gorm.DB
	cache map[Kind]map[string]uint
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:    db,
		cache: make(map[Kind]map[string]uint),
	}
}

func (s *Store) TargetID(kind Kind, key string) (uint, bool) {
	if id, ok := s.cache[kind][key]; ok {
		return id, true
	}

	var rec entities.ImportRecord
	err := s.db.Where("kind = ? AND source_key = ?", string(kind), key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false
	}
	if err != nil {
		return 0, false
	}

	s.remember(kind, key, rec.TargetID)
	return rec.TargetID, true
}

func (s *Store) Register(kind Kind, key string, targetID uint) error {
	rec := entities.ImportRecord{
		Kind:      string(kind),
		SourceKey: key,
		TargetID:  targetID,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return fmt.Errorf("failed to register %s %s: %w", kind, key, err)
	}
	s.remember(kind, key, targetID)
	return nil
}

func (s *Store) AllExist(kind Kind, keys []string) (bool, error) {
	if len(keys) == 0 {
		return true, nil
	}

	missing := keys[:0:0]
	for _, key := range keys {
		if _, ok := s.cache[kind][key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) == 0 {
		return true, nil
	}

	var n int64
	err := s.db.Model(&entities.ImportRecord{}).
		Where("kind = ? AND source_key IN ?", string(kind), missing).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("failed to check existing %s records: %w", kind, err)
	}
	return n == int64(len(missing)), nil
}

func (s *Store) TopicFor(key string) (TopicRef, bool) {
	postID, ok := s.TargetID(KindPost, key)
	if !ok {
		return TopicRef{}, false
	}

	var post entities.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		return TopicRef{}, false
	}
	return TopicRef{TopicID: post.TopicID, PostNumber: post.PostNumber}, true
}

func (s *Store) remember(kind Kind, key string, targetID uint) {
	if s.cache[kind] == nil {
		s.cache[kind] = make(map[string]uint)
	}
	s.cache[kind][key] = targetID
}
