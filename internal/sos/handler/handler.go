package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"helpapp/internal/platform/metrics"
	"helpapp/internal/sos/models"
	"helpapp/internal/sos/trigger"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/platform/httputil"
	"helpapp/pkg/requestcontext"
	"helpapp/pkg/validation"
)

// Dispatcher runs an SOS.
type Dispatcher interface {
	Dispatch(ctx context.Context, origin models.Origin) (*models.Report, error)
}

// Publisher puts a signal on the trigger bus.
type Publisher interface {
	Publish(ctx context.Context, sig trigger.Signal) error
}

// Handler exposes the SOS button and the raw signal intake.
type Handler struct {
	dispatcher Dispatcher
	bus        Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func New(dispatcher Dispatcher, bus Publisher, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	return &Handler{dispatcher: dispatcher, bus: bus, logger: logger, metrics: metrics}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/sos", h.HandleSOS)
	r.Post("/signals", h.HandleSignal)
}

// HandleSOS is the button press. A dispatch stopped by a missing permission
// answers 403 carrying the alert shown to the user.
func (h *Handler) HandleSOS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	defer func() {
		if h.metrics != nil {
			h.metrics.ObserveEndpointLatency("/sos", time.Since(start).Seconds())
		}
	}()

	report, err := h.dispatcher.Dispatch(ctx, models.OriginButton)
	if err != nil {
		h.logger.ErrorContext(ctx, "sos dispatch failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if report.Outcome == models.OutcomePermissionDenied {
		httputil.WriteError(w, dErrors.New(dErrors.CodePermissionDenied, models.PermissionAlert))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

type SignalRequest struct {
	Tag string `json:"tag" validate:"required,max=64"`
}

func (r *SignalRequest) Normalize() { r.Tag = strings.TrimSpace(r.Tag) }

func (r *SignalRequest) Validate() error { return validation.Validate(r) }

type SignalResponse struct {
	Accepted bool `json:"accepted"`
	Fires    bool `json:"fires"`
}

// HandleSignal feeds a tagged signal to the bus as a background monitor would.
func (h *Handler) HandleSignal(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SignalRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	if err := h.bus.Publish(ctx, trigger.Signal{Tag: req.Tag, Source: "http"}); err != nil {
		h.logger.WarnContext(ctx, "failed to publish signal",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "trigger bus unavailable"))
		return
	}
	httputil.WriteJSON(w, http.StatusAccepted, SignalResponse{
		Accepted: true,
		Fires:    req.Tag == models.SignalSendSOS,
	})
}
