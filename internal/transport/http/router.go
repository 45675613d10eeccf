package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"helpapp/pkg/platform/middleware/auth"
	"helpapp/pkg/platform/middleware/request"
	"helpapp/pkg/validation"
)

// Registrar is implemented by every domain handler.
type Registrar interface {
	Register(r chi.Router)
}

// RouterConfig collects what the router needs from main.
type RouterConfig struct {
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer
	// Validator guards the device routes. Nil disables authentication.
	Validator auth.JWTValidator
	Public    []Registrar
	Protected []Registrar
}

// NewRouter wires the middleware stack, the public probes and the
// authenticated device API.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.BodyLimit(validation.MaxBodySize))

	for _, h := range cfg.Public {
		h.Register(r)
	}
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		if cfg.Validator != nil {
			r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		} else {
			cfg.Logger.Warn("authentication disabled for device routes")
		}
		for _, h := range cfg.Protected {
			h.Register(r)
		}
	})

	return r
}
