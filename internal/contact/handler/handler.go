package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"helpapp/internal/contact/models"
	id "helpapp/pkg/domain"
	"helpapp/pkg/platform/httputil"
	"helpapp/pkg/requestcontext"
)

// Service defines the interface for contact operations.
type Service interface {
	Add(ctx context.Context, entry models.Entry) (*models.Contact, error)
	Import(ctx context.Context, entries []models.Entry) (*models.ImportResult, error)
	Remove(ctx context.Context, contactID id.ContactID) error
	List(ctx context.Context) ([]*models.Contact, error)
}

// Handler handles contact endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New creates a new contact Handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the contact routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/contacts", h.HandleList)
	r.Post("/contacts", h.HandleAdd)
	r.Post("/contacts/import", h.HandleImport)
	r.Delete("/contacts/{id}", h.HandleRemove)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contacts, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list contacts",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{
		Contacts: toResponses(contacts),
		Limit:    models.MaxContacts,
	})
}

func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[AddContactRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.Add(ctx, req.Entry())
	if err != nil {
		h.logger.WarnContext(ctx, "failed to add contact",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ImportContactsRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Import(ctx, req.Entries())
	if err != nil {
		h.logger.WarnContext(ctx, "failed to import contacts",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	res := ImportResponse{
		Imported: toResponses(result.Added),
		Rejected: result.Rejected,
	}
	if result.Rejected > 0 {
		res.Message = models.LimitReachedMessage
	}
	status := http.StatusCreated
	if len(result.Added) == 0 {
		status = http.StatusConflict
	}
	httputil.WriteJSON(w, status, res)
}

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	contactID, err := id.ParseContactID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Remove(ctx, contactID); err != nil {
		h.logger.WarnContext(ctx, "failed to remove contact",
			"request_id", requestcontext.RequestID(ctx),
			"contact_id", contactID.String(),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
