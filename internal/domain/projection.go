package domain

// CommentDelta is the change a comment event applies to its post counter.
type CommentDelta int64

const (
	CommentAdded   CommentDelta = 1
	CommentRemoved CommentDelta = -1
)

type (
	// CommentEvent is a comment change ready to be projected onto the post counters.
	// Key identifies the change so that redeliveries are applied once.
	CommentEvent struct {
		Key    string
		PostID string
		Delta  CommentDelta
	}

	// ProjectionResult reports whether an event changed the counter and the resulting value.
	ProjectionResult struct {
		Applied       bool
		CommentsCount int64
	}

	PostCommentsCount struct {
		PostID        string `json:"postId"`
		CommentsCount int64  `json:"commentsCount"`
	}
)

func NewCommentCreatedEvent(event CommentCreated) CommentEvent {
	return CommentEvent{
		Key:    "comment.created:" + event.CommentID,
		PostID: event.PostID,
		Delta:  CommentAdded,
	}
}

func NewCommentDeletedEvent(event CommentDeleted) CommentEvent {
	return CommentEvent{
		Key:    "comment.deleted:" + event.CommentID,
		PostID: event.PostID,
		Delta:  CommentRemoved,
	}
}
