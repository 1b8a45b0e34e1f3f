// Package identity tracks which source entities have already been imported
// and what target ids they were assigned. The mapping is the backbone of
// idempotent re-runs: every create registers here, every cross-reference
// resolves here.
package identity

import (
	"strconv"
	"strings"
)

// Kind partitions the mapping space by entity type. Questions, answers and
// offset comment ids all live under KindPost because they share the target's
// unified post id space.
type Kind string

const (
	KindUser     Kind = "user"
	KindCategory Kind = "category"
	KindPost     Kind = "post"
)

// TopicRef locates the imported post a reply should attach to: the topic it
// belongs to and its post number within that topic.
type TopicRef struct {
	TopicID    uint
	PostNumber int
}

// Resolver is the authoritative source-id → target-id mapping. Register must
// be visible to the very next TargetID call; the importer relies on that for
// staged-user deduplication within a pass.
type Resolver interface {
	// TargetID returns the imported target id for a source key, if any.
	TargetID(kind Kind, key string) (uint, bool)

	// Register records a new mapping. Callers never register a key they have
	// already resolved successfully.
	Register(kind Kind, key string, targetID uint) error

	// AllExist reports whether every key already has a mapping. Used to skip
	// fully-imported pages without transforming them.
	AllExist(kind Kind, keys []string) (bool, error)

	// TopicFor resolves an imported post key to its topic and post number.
	TopicFor(key string) (TopicRef, bool)
}

// Key renders a numeric source id as a mapping key.
func Key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// StagedKey builds the mapping key for a staged user synthesized from author
// metadata. Two rows with the same (username, email) pair must land on the
// same key.
func StagedKey(username, email string) string {
	return username + "|" + strings.ToLower(email)
}
