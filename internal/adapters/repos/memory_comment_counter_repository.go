package repos

import (
	"context"
	"sync"
	"time"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/ports"
)

var _ ports.CommentCounterRepository = (*MemoryCommentCounterRepository)(nil)

// MemoryCommentCounterRepository keeps the counters in process. It is used when the cache is unavailable.
// Expired markers are swept at most once per marker TTL. A zero TTL keeps every marker.
type MemoryCommentCounterRepository struct {
	mu        sync.Mutex
	counts    map[string]int64
	markers   map[string]time.Time
	markerTTL time.Duration
	nextSweep time.Time
	now       func() time.Time
}

func NewMemoryCommentCounterRepository(markerTTL time.Duration) *MemoryCommentCounterRepository {
	return &MemoryCommentCounterRepository{
		counts:    make(map[string]int64),
		markers:   make(map[string]time.Time),
		markerTTL: markerTTL,
		now:       time.Now,
	}
}

func (r *MemoryCommentCounterRepository) Apply(ctx context.Context, event domain.CommentEvent) (domain.ProjectionResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProjectionResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	id := markerID(event.Key)

	if expiresAt, ok := r.markers[id]; ok && (expiresAt.IsZero() || now.Before(expiresAt)) {
		return domain.ProjectionResult{Applied: false, CommentsCount: r.counts[event.PostID]}, nil
	}

	var expiresAt time.Time
	if r.markerTTL > 0 {
		expiresAt = now.Add(r.markerTTL)
	}

	r.markers[id] = expiresAt
	r.counts[event.PostID] += int64(event.Delta)

	return domain.ProjectionResult{Applied: true, CommentsCount: r.counts[event.PostID]}, nil
}

func (r *MemoryCommentCounterRepository) sweepLocked(now time.Time) {
	if r.markerTTL <= 0 || now.Before(r.nextSweep) {
		return
	}

	for id, expiresAt := range r.markers {
		if !now.Before(expiresAt) {
			delete(r.markers, id)
		}
	}

	r.nextSweep = now.Add(r.markerTTL)
}

func (r *MemoryCommentCounterRepository) Count(ctx context.Context, postID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.counts[postID], nil
}
