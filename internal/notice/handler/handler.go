package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"helpapp/internal/notice/models"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/platform/httputil"
)

const defaultLimit = 20

// Feed reads recent notices.
type Feed interface {
	Recent(limit int) []models.Notice
}

type Handler struct {
	feed Feed
}

func New(feed Feed) *Handler {
	return &Handler{feed: feed}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/notices", h.HandleRecent)
}

type RecentResponse struct {
	Notices []models.Notice `json:"notices"`
}

func (h *Handler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	limit := defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	httputil.WriteJSON(w, http.StatusOK, RecentResponse{Notices: h.feed.Recent(limit)})
}
