package http

import (
	"net/http"

	"github.com/architeacher/svc-blog-events/internal/usecases"
	"github.com/architeacher/svc-blog-events/internal/usecases/queries"
	"github.com/go-chi/chi/v5"
)

type CommentsCountHandler struct {
	app *usecases.SubscriberApplication
}

func NewCommentsCountHandler(app *usecases.SubscriberApplication) *CommentsCountHandler {
	return &CommentsCountHandler{app: app}
}

func (h *CommentsCountHandler) Register(r chi.Router) {
	r.Get("/posts/{postID}/comments-count", h.CommentsCount)
}

func (h *CommentsCountHandler) CommentsCount(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	result, err := h.app.Queries.FetchCommentsCountQueryHandler.Execute(
		r.Context(),
		queries.FetchCommentsCountQuery{PostID: postID},
	)
	if err != nil {
		writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, CommentsCountResponse{
		Success:       true,
		PostID:        result.PostID,
		CommentsCount: result.CommentsCount,
	})
}
