package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/architeacher/svc-blog-events/internal/domain"
	"github.com/architeacher/svc-blog-events/internal/infrastructure"
	"github.com/architeacher/svc-blog-events/internal/usecases"
	"github.com/architeacher/svc-blog-events/internal/usecases/commands"
	"github.com/architeacher/svc-blog-events/pkg/queue"
	"github.com/go-chi/chi/v5"
)

const maxEventBodyBytes = 1 << 20

type (
	// EventsHandler accepts event payloads over HTTP and hands them to the broker.
	EventsHandler struct {
		app    *usecases.PublisherApplication
		logger infrastructure.Logger
	}

	eventDecoder func(w http.ResponseWriter, r *http.Request) (any, error)

	eventRoute struct {
		path   string
		decode eventDecoder
	}
)

var eventRoutes = map[queue.Name]eventRoute{
	queue.UserRegistered: {path: "/events/user-registered", decode: decodeEvent[domain.UserRegistered]},
	queue.PostCreated:    {path: "/events/post-created", decode: decodeEvent[domain.PostCreated]},
	queue.PostDeleted:    {path: "/events/post-deleted", decode: decodeEvent[domain.PostDeleted]},
	queue.CommentCreated: {path: "/events/comment-created", decode: decodeEvent[domain.CommentCreated]},
	queue.CommentDeleted: {path: "/events/comment-deleted", decode: decodeEvent[domain.CommentDeleted]},
}

func NewEventsHandler(app *usecases.PublisherApplication, logger infrastructure.Logger) *EventsHandler {
	return &EventsHandler{
		app:    app,
		logger: logger,
	}
}

// Register mounts a POST route for each of the given queues.
func (h *EventsHandler) Register(r chi.Router, names ...queue.Name) {
	for _, name := range names {
		route, ok := eventRoutes[name]
		if !ok {
			continue
		}

		r.Post(route.path, h.publish(route.decode))
	}
}

// EventPath returns the route used for the given queue.
func EventPath(name queue.Name) (string, bool) {
	route, ok := eventRoutes[name]

	return route.path, ok
}

func (h *EventsHandler) publish(decode eventDecoder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := decode(w, r)
		if err != nil {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)

			return
		}

		result, err := h.app.Commands.PublishEventHandler.Handle(r.Context(), commands.PublishEventCommand{Event: event})
		if err != nil {
			h.logger.Warn().Err(err).Str("path", r.URL.Path).Msg("event rejected")
			writeError(w, err)

			return
		}

		writeJSON(w, http.StatusAccepted, PublishResponse{
			Success: true,
			Queue:   result.Queue.String(),
		})
	}
}

func decodeEvent[T any](w http.ResponseWriter, r *http.Request) (any, error) {
	var event T

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&event); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON body: %w", domain.ErrInvalidRequest, err)
	}

	return event, nil
}

func errorDetails(err error) map[string]any {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) && len(domainErr.Details) > 0 {
		return domainErr.Details
	}

	return nil
}
