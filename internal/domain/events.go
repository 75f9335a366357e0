package domain

import (
	"fmt"
	"strings"
)

// PostStatus is the publication state carried by post events.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	default:
		return false
	}
}

type (
	// UserRegistered is emitted by the auth service after a user account is created.
	UserRegistered struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	// PostCreated is emitted by the post service after a post is stored.
	PostCreated struct {
		PostID         string     `json:"postId"`
		Title          string     `json:"title"`
		AuthorID       string     `json:"authorId"`
		AuthorUsername string     `json:"authorUsername"`
		Status         PostStatus `json:"status"`
	}

	PostDeleted struct {
		PostID   string `json:"postId"`
		AuthorID string `json:"authorId"`
	}

	CommentCreated struct {
		CommentID string `json:"commentId"`
		PostID    string `json:"postId"`
		AuthorID  string `json:"authorId"`
	}

	CommentDeleted struct {
		CommentID string `json:"commentId"`
		PostID    string `json:"postId"`
	}
)

func (e UserRegistered) Validate() error {
	if err := requireFields("userId", e.UserID, "username", e.Username, "email", e.Email); err != nil {
		return err
	}

	if !strings.Contains(e.Email, "@") {
		return fmt.Errorf("%w: email %q is malformed", ErrInvalidEvent, e.Email)
	}

	return nil
}

func (e PostCreated) Validate() error {
	if err := requireFields("postId", e.PostID, "title", e.Title, "authorId", e.AuthorID, "authorUsername", e.AuthorUsername); err != nil {
		return err
	}

	if !e.Status.Valid() {
		return fmt.Errorf("%w: status %q is not one of draft, published or archived", ErrInvalidEvent, e.Status)
	}

	return nil
}

func (e PostDeleted) Validate() error {
	return requireFields("postId", e.PostID, "authorId", e.AuthorID)
}

func (e CommentCreated) Validate() error {
	return requireFields("commentId", e.CommentID, "postId", e.PostID, "authorId", e.AuthorID)
}

func (e CommentDeleted) Validate() error {
	return requireFields("commentId", e.CommentID, "postId", e.PostID)
}

// requireFields takes name/value pairs and reports the first empty value.
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidEvent, pairs[i])
		}
	}

	return nil
}
