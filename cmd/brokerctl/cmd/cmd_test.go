package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintQueues(t *testing.T) {
	t.Parallel()

	infos := []queue.QueueInfo{
		{Name: queue.UserRegistered, Messages: 3, Consumers: 0},
		{Name: queue.CommentCreated, Messages: 0, Consumers: 1},
	}

	t.Run("table", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, printQueues(&out, infos, "table"))

		assert.Contains(t, out.String(), "QUEUE")
		assert.Contains(t, out.String(), "user.registered")
		assert.Contains(t, out.String(), "comment.created")
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var out bytes.Buffer
		require.NoError(t, printQueues(&out, infos, "json"))

		var decoded []queue.QueueInfo
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		assert.Equal(t, infos, decoded)
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		require.Error(t, printQueues(&bytes.Buffer{}, infos, "yaml"))
	})
}

// These run without a broker: every case fails before connect.
func TestCommandsRejectBadInputBeforeConnecting(t *testing.T) {
	cases := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{
			name:    "publish to unknown queue",
			args:    []string{"publish", "comment.updated", `{}`},
			wantErr: queue.ErrUnknownQueue,
		},
		{
			name: "publish invalid json",
			args: []string{"publish", "post.created", `{"postId":`},
		},
		{
			name:    "consume unknown queue",
			args:    []string{"consume", "user.deleted"},
			wantErr: queue.ErrUnknownQueue,
		},
		{
			name:    "emit incomplete event",
			args:    []string{"emit", "comment-deleted", "--comment-id", "c1"},
			wantErr: domain.ErrInvalidEvent,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rootCmd.SetArgs(tc.args)
			rootCmd.SetOut(&bytes.Buffer{})
			rootCmd.SetErr(&bytes.Buffer{})

			err := rootCmd.ExecuteContext(context.Background())

			require.Error(t, err)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

type stubConsumer struct {
	err      error
	messages []queue.Message
}

func (s *stubConsumer) Consume(ctx context.Context, _ queue.Name, handler queue.Handler, _ ...queue.ConsumerOption) error {
	if s.err != nil {
		return s.err
	}

	for _, msg := range s.messages {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}

	return nil
}

func TestConsumeUntilDone(t *testing.T) {
	t.Parallel()

	t.Run("writes deliveries and status to the command streams", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := &stubConsumer{messages: []queue.Message{{
			ID:        "m1",
			Queue:     queue.PostCreated,
			Body:      []byte(`{"postId":"p1"}`),
			Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		}}}

		var out, errOut bytes.Buffer
		require.NoError(t, consumeUntilDone(ctx, client, queue.PostCreated, &out, &errOut))

		assert.Equal(t, "2026-01-01T00:00:00Z id=m1 redelivered=false {\"postId\":\"p1\"}\n", out.String())
		assert.Equal(t, "consuming post.created, press Ctrl+C to stop\n", errOut.String())
	})

	t.Run("returns the registration error", func(t *testing.T) {
		t.Parallel()

		var out, errOut bytes.Buffer
		err := consumeUntilDone(context.Background(), &stubConsumer{err: queue.ErrChannelUnavailable}, queue.PostCreated, &out, &errOut)

		assert.ErrorIs(t, err, queue.ErrChannelUnavailable)
		assert.Empty(t, out.String())
		assert.Empty(t, errOut.String())
	})
}
