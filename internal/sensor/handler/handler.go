package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpapp/internal/sensor/models"
	"helpapp/internal/sensor/service"
	"helpapp/pkg/platform/httputil"
	"helpapp/pkg/requestcontext"
	"helpapp/pkg/validation"
)

// Monitor consumes accelerometer samples.
type Monitor interface {
	Ingest(ctx context.Context, source string, samples []models.Sample) (*service.Result, error)
}

type Handler struct {
	monitor Monitor
	logger  *slog.Logger
}

func New(monitor Monitor, logger *slog.Logger) *Handler {
	return &Handler{monitor: monitor, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/sensor/samples", h.HandleSamples)
}

type SamplesRequest struct {
	Samples []models.Sample `json:"samples" validate:"required,min=1,max=500"`
}

func (r *SamplesRequest) Validate() error { return validation.Validate(r) }

func (h *Handler) HandleSamples(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SamplesRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	res, err := h.monitor.Ingest(ctx, "http", req.Samples)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to ingest samples",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, res)
}
