// Package transform maps source rows into the drafts the target store
// creates records from. Each transform returns nil to skip a row; skips are
// logged with the source id and a content snippet and never retried within
// the run.
package transform

import (
	"log"
	"strings"
	"time"

	"github.com/mrlokans/dwqa-migrator/internal/identity"
	"github.com/mrlokans/dwqa-migrator/internal/source"
)

// UserDraft is a target user ready for creation.
type UserDraft struct {
	ImportKey    string
	Username     string
	Email        string
	Name         string
	PasswordHash string
	Website      string
	CreatedAt    time.Time
}

// CategoryDraft is a target category ready for creation.
type CategoryDraft struct {
	ImportKey   string
	Name        string
	Slug        string
	Description string
}

// PostDraft is a target topic-or-post ready for creation. Question drafts
// carry a title and category and become a new topic with post number 1;
// reply drafts carry the resolved topic id instead.
type PostDraft struct {
	ImportKey string
	UserID    uint
	Raw       string
	CreatedAt time.Time

	// question fields
	IsQuestion bool
	Title      string
	CategoryID uint

	// reply fields
	TopicID           uint
	ReplyToPostNumber int
}

// StagedUserCreator creates a placeholder account for an author with no real
// mapping and registers it under its staged key before returning.
type StagedUserCreator interface {
	CreateStagedUser(username, email string) (uint, error)
}

// Transformer holds the collaborators every per-row transform needs: the
// identity resolver for cross-references and the staged-user creator for
// authors without accounts.
type Transformer struct {
	resolver identity.Resolver
	staged   StagedUserCreator
}

func New(resolver identity.Resolver, staged StagedUserCreator) *Transformer {
	return &Transformer{resolver: resolver, staged: staged}
}

// User maps a source account. Display name falls back to the nicename;
// the email is lower-cased; password hash and registration time pass through
// verbatim.
func (t *Transformer) User(u source.User) *UserDraft {
	name := u.DisplayName
	if name == "" {
		name = u.Nicename
	}
	return &UserDraft{
		ImportKey:    identity.Key(u.ID),
		Username:     u.Nicename,
		Email:        strings.ToLower(u.Email),
		Name:         name,
		PasswordHash: u.PasswordHash,
		Website:      u.URL,
		CreatedAt:    u.Registered,
	}
}

// Category maps a taxonomy term. No foreign keys to resolve.
func (t *Transformer) Category(c source.Category) *CategoryDraft {
	return &CategoryDraft{
		ImportKey:   identity.Key(c.ID),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
	}
}

// Post maps a question or answer row; post_type discriminates the two.
// Questions resolve their category from the parent term; answers resolve
// their topic from the parent question and are skipped when the question was
// never imported.
func (t *Transformer) Post(p source.Post, questionType string) *PostDraft {
	userID, ok := t.resolveAuthor(identity.Key(p.AuthorID), p.AnonName, p.AnonEmail)
	if !ok {
		logSkip(p.ID, p.Content)
		return nil
	}

	draft := &PostDraft{
		ImportKey: identity.Key(p.ID),
		UserID:    userID,
		Raw:       RewriteCodeBlocks(p.Content),
		CreatedAt: p.CreatedAt,
	}

	if p.Type == questionType {
		draft.IsQuestion = true
		draft.Title = DecodeTitle(p.Title)
		if catID, ok := t.resolver.TargetID(identity.KindCategory, identity.Key(p.ParentID)); ok {
			draft.CategoryID = catID
		}
		return draft
	}

	parent, ok := t.resolver.TopicFor(identity.Key(p.ParentID))
	if !ok {
		logSkip(p.ID, p.Content)
		return nil
	}
	draft.TopicID = parent.TopicID
	if parent.PostNumber > 1 {
		draft.ReplyToPostNumber = parent.PostNumber
	}
	return draft
}

// Comment maps an approved comment into a reply post. Unmapped authors get a
// staged user unconditionally; the parent answer must have been imported or
// the row is skipped.
func (t *Transformer) Comment(c source.Comment) *PostDraft {
	userID, ok := t.resolveMappedUser(identity.Key(c.AuthorID))
	if !ok {
		var err error
		userID, err = t.stagedUser(c.AuthorName, c.AuthorEmail)
		if err != nil {
			log.Printf("Skipping %d: failed to create staged user for %q: %v", c.ID, c.AuthorName, err)
			return nil
		}
	}

	parent, ok := t.resolver.TopicFor(identity.Key(c.PostID))
	if !ok {
		logSkip(c.ID, c.Content)
		return nil
	}

	draft := &PostDraft{
		ImportKey: identity.Key(c.ID),
		UserID:    userID,
		Raw:       RewriteCodeBlocks(c.Content),
		CreatedAt: c.CreatedAt,
		TopicID:   parent.TopicID,
	}
	if parent.PostNumber > 1 {
		draft.ReplyToPostNumber = parent.PostNumber
	}
	return draft
}

// resolveAuthor resolves a post author: a mapped account first, then a staged
// user synthesized from anonymous-author metadata. Without an email there is
// nothing safe to synthesize from, so the row is skipped.
func (t *Transformer) resolveAuthor(authorKey, anonName, anonEmail string) (uint, bool) {
	if id, ok := t.resolveMappedUser(authorKey); ok {
		return id, true
	}
	if anonEmail == "" {
		return 0, false
	}
	id, err := t.stagedUser(anonName, anonEmail)
	if err != nil {
		log.Printf("failed to create staged user for %q: %v", anonName, err)
		return 0, false
	}
	return id, true
}

func (t *Transformer) resolveMappedUser(key string) (uint, bool) {
	if key == identity.Key(0) {
		return 0, false
	}
	return t.resolver.TargetID(identity.KindUser, key)
}

// stagedUser returns the staged user for an (username, email) pair, creating
// it on first sight. The creator registers the mapping before returning, so
// the next row from the same author resolves instead of creating a duplicate.
func (t *Transformer) stagedUser(username, email string) (uint, error) {
	key := identity.StagedKey(username, email)
	if id, ok := t.resolver.TargetID(identity.KindUser, key); ok {
		return id, nil
	}
	id, err := t.staged.CreateStagedUser(username, email)
	if err != nil {
		return 0, err
	}
	log.Printf("created a new staged user %d for %q", id, username)
	return id, nil
}

func logSkip(sourceID int64, content string) {
	snippet := content
	if len(snippet) > 40 {
		snippet = snippet[:40]
	}
	log.Printf("Skipping %d: %s", sourceID, snippet)
}
