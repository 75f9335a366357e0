package repos

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/architeacher/svc-blog-events/internal/config"
	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/ports"
	"github.com/redis/go-redis/v9"
)

// applyCommentEventScript sets the marker and moves the counter in one step.
// KEYS[1] marker, KEYS[2] counters hash. ARGV[1] ttl seconds, ARGV[2] post id, ARGV[3] delta.
var applyCommentEventScript = redis.NewScript(`
local ttl = tonumber(ARGV[1])
local fresh
if ttl > 0 then
  fresh = redis.call('SET', KEYS[1], '1', 'NX', 'EX', ttl)
else
  fresh = redis.call('SET', KEYS[1], '1', 'NX')
end
if not fresh then
  return {0, tonumber(redis.call('HGET', KEYS[2], ARGV[2]) or '0')}
end
return {1, redis.call('HINCRBY', KEYS[2], ARGV[2], ARGV[3])}
`)

var _ ports.CommentCounterRepository = (*CommentCounterRepository)(nil)

type CommentCounterRepository struct {
	client    redis.Cmdable
	keyPrefix string
	markerTTL time.Duration
}

func NewCommentCounterRepository(client redis.Cmdable, cfg config.ProjectionConfig) *CommentCounterRepository {
	return &CommentCounterRepository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		markerTTL: cfg.MarkerTTL,
	}
}

func (r *CommentCounterRepository) Apply(ctx context.Context, event domain.CommentEvent) (domain.ProjectionResult, error) {
	values, err := applyCommentEventScript.Run(
		ctx,
		r.client,
		[]string{r.markerKey(event.Key), r.countersKey()},
		int64(r.markerTTL/time.Second),
		event.PostID,
		int64(event.Delta),
	).Int64Slice()
	if err != nil {
		return domain.ProjectionResult{}, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}

	if len(values) != 2 {
		return domain.ProjectionResult{}, fmt.Errorf("unexpected projection script reply: %v", values)
	}

	return domain.ProjectionResult{
		Applied:       values[0] == 1,
		CommentsCount: values[1],
	}, nil
}

func (r *CommentCounterRepository) Count(ctx context.Context, postID string) (int64, error) {
	value, err := r.client.HGet(ctx, r.countersKey(), postID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("%w: %w", domain.ErrCacheUnavailable, err)
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed comments count %q for post %s: %w", value, postID, err)
	}

	return count, nil
}

func (r *CommentCounterRepository) countersKey() string {
	return r.keyPrefix + ":posts:comments_count"
}

func (r *CommentCounterRepository) markerKey(eventKey string) string {
	return r.keyPrefix + ":projection:marker:" + markerID(eventKey)
}
