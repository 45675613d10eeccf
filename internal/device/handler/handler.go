package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpapp/internal/device/models"
	"helpapp/pkg/platform/httputil"
	"helpapp/pkg/requestcontext"
)

// Service defines the device operations exposed over HTTP.
type Service interface {
	Snapshot(ctx context.Context) (*models.State, error)
	SetPermissions(ctx context.Context, location, sms bool) error
	SetProviders(ctx context.Context, gps, network bool) error
	RecordFix(ctx context.Context, lat, lon float64) (*models.Fix, error)
}

// Handler lets the handset report permissions, providers and position.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/device", h.HandleSnapshot)
	r.Put("/device/permissions", h.HandlePermissions)
	r.Put("/device/providers", h.HandleProviders)
	r.Post("/device/location", h.HandleLocation)
}

func (h *Handler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Snapshot(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}

func (h *Handler) HandlePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[PermissionsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.SetPermissions(ctx, *req.Location, *req.SMS); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeSnapshot(w, r)
}

func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[ProvidersRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.SetProviders(ctx, *req.GPS, *req.Network); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeSnapshot(w, r)
}

func (h *Handler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[LocationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	fix, err := h.service.RecordFix(ctx, *req.Lat, *req.Lon)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to record location",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, fix)
}

func (h *Handler) writeSnapshot(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.Snapshot(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, state)
}
