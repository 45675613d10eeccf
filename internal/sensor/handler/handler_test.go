package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helpapp/internal/sensor/models"
	"helpapp/internal/sensor/service"
	"helpapp/internal/sos/trigger"
)

type capturePublisher struct{ signals []trigger.Signal }

func (c *capturePublisher) Publish(_ context.Context, sig trigger.Signal) error {
	c.signals = append(c.signals, sig)
	return nil
}

func TestHandleSamples(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := &capturePublisher{}
	mon := service.NewMonitor(service.NewDetector(2.7, 3), bus, logger)
	r := chi.NewRouter()
	New(mon, logger).Register(r)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	var samples []models.Sample
	for i := range 3 {
		samples = append(samples, models.Sample{X: 30, At: base.Add(time.Duration(i) * 700 * time.Millisecond)})
	}
	raw, err := json.Marshal(SamplesRequest{Samples: samples})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sensor/samples", bytes.NewReader(raw)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var res service.Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Equal(t, 1, res.Triggered)
	require.Len(t, bus.signals, 1)
	assert.Equal(t, "sendSOS", bus.signals[0].Tag)

	t.Run("empty batch", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sensor/samples", bytes.NewBufferString(`{"samples":[]}`)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
