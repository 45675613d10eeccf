package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	contacthandler "helpapp/internal/contact/handler"
	contactservice "helpapp/internal/contact/service"
	devicehandler "helpapp/internal/device/handler"
	deviceservice "helpapp/internal/device/service"
	jwttoken "helpapp/internal/jwt_token"
	noticehandler "helpapp/internal/notice/handler"
	noticeservice "helpapp/internal/notice/service"
	"helpapp/internal/platform/config"
	"helpapp/internal/platform/health"
	"helpapp/internal/platform/logger"
	"helpapp/internal/platform/metrics"
	"helpapp/internal/platform/tracer"
	sensorhandler "helpapp/internal/sensor/handler"
	sensorservice "helpapp/internal/sensor/service"
	soshandler "helpapp/internal/sos/handler"
	sosservice "helpapp/internal/sos/service"
	"helpapp/internal/sos/trigger"
	httptransport "helpapp/internal/transport/http"
	"helpapp/pkg/platform/middleware/auth"
)

const shutdownTimeout = 10 * time.Second

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", "error", err)
		os.Exit(1)
	}
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("helpapp stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("helpapp stopped")
}

func run(ctx context.Context, cfg config.Server, log *slog.Logger) error {
	log.Info("initializing helpapp",
		"addr", cfg.Addr,
		"env", cfg.Environment,
		"device", cfg.Device,
		"sms_transport", cfg.SOS.SMSTransport,
		"coalesce", cfg.SOS.Coalesce,
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)
	healthHandler := health.New(cfg.Environment)

	infra, err := openInfra(cfg, log, healthHandler)
	if err != nil {
		return err
	}
	defer infra.Close()

	feed := noticeservice.NewFeed(log)

	contacts := contactservice.NewService(infra.contactStore, feed, log, contactservice.WithMetrics(m))
	device := deviceservice.NewService(infra.deviceStore, log)

	dispatcher := sosservice.NewDispatcher(device, device, contacts, infra.sender, feed, log,
		sosservice.WithMetrics(m),
		sosservice.WithTracer(tracer.NewOTel()),
		sosservice.WithCoalescing(cfg.SOS.Coalesce),
	)
	bus := trigger.NewBus(dispatcher, log,
		trigger.WithBuffer(cfg.SOS.TriggerBuffer),
		trigger.WithMetrics(m),
	)
	monitor := sensorservice.NewMonitor(
		sensorservice.NewDetector(cfg.Sensor.ShakeThresholdG, cfg.Sensor.ShakeCount),
		bus, log, sensorservice.WithMetrics(m),
	)

	consumers, err := openConsumers(cfg, log, healthHandler, bus, monitor)
	if err != nil {
		return err
	}

	var validator auth.JWTValidator
	if !cfg.AuthDisabled {
		jwtService := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.TokenIssuer, cfg.TokenAudience, cfg.TokenTTL)
		validator = jwttoken.NewJWTServiceAdapter(jwtService)
	}

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Logger:    log,
		Gatherer:  registry,
		Validator: validator,
		Public:    []httptransport.Registrar{healthHandler},
		Protected: []httptransport.Registrar{
			contacthandler.New(contacts, log),
			devicehandler.New(device, log),
			soshandler.New(dispatcher, bus, log, m),
			noticehandler.New(feed),
			sensorhandler.New(monitor, log),
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return bus.Run(gctx)
	})
	for _, c := range consumers {
		g.Go(func() error {
			return c.Run(gctx)
		})
	}
	g.Go(func() error {
		watchContacts(gctx, contacts, log)
		return nil
	})
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// watchContacts logs every change to the contact list until ctx ends.
func watchContacts(ctx context.Context, contacts *contactservice.Service, log *slog.Logger) {
	updates, cancel := contacts.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case list, ok := <-updates:
			if !ok {
				return
			}
			log.InfoContext(ctx, "contact list changed", "count", len(list))
		}
	}
}
