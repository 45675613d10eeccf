package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	contactmodels "helpapp/internal/contact/models"
	devicemodels "helpapp/internal/device/models"
	"helpapp/internal/platform/metrics"
	"helpapp/internal/platform/tracer"
	"helpapp/internal/sms"
	"helpapp/internal/sos/models"
	id "helpapp/pkg/domain"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/requestcontext"
)

// Capabilities reports the handset permissions the dispatcher needs.
type Capabilities interface {
	LocationPermitted(ctx context.Context) bool
	SMSPermitted(ctx context.Context) bool
}

// LocationSource answers a single last-known-location request.
type LocationSource interface {
	ProviderEnabled(ctx context.Context) bool
	LastKnown(ctx context.Context) (*devicemodels.Fix, error)
}

// ContactLister returns the current emergency contacts.
type ContactLister interface {
	List(ctx context.Context) ([]*contactmodels.Contact, error)
}

// Sender hands one SMS to the transport.
type Sender interface {
	Send(ctx context.Context, msg sms.Message) error
}

// Notifier shows alerts and confirmations to the user.
type Notifier interface {
	Alert(ctx context.Context, message string)
	Confirm(ctx context.Context, message string)
}

type Option func(*Dispatcher)

// Dispatcher runs the SOS flow: permission check, location lookup, one SMS
// per contact.
type Dispatcher struct {
	caps     Capabilities
	location LocationSource
	contacts ContactLister
	sender   Sender
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer

	coalesce bool
	flight   singleflight.Group
}

func NewDispatcher(
	caps Capabilities,
	location LocationSource,
	contacts ContactLister,
	sender Sender,
	notifier Notifier,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		caps:     caps,
		location: location,
		contacts: contacts,
		sender:   sender,
		notifier: notifier,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.tracer == nil {
		d.tracer = tracer.NewNoop()
	}
	return d
}

// WithMetrics sets the metrics instance for the dispatcher
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

// WithCoalescing makes concurrent dispatches share one in-flight run and its
// report. Off by default: every trigger sends on its own.
func WithCoalescing(enabled bool) Option {
	return func(d *Dispatcher) {
		d.coalesce = enabled
	}
}

// Dispatch runs one SOS. Missing permissions and missing location are
// outcomes, not errors; an error is returned only when contacts cannot be
// read. The caller's cancellation does not abort a dispatch that has started.
func (d *Dispatcher) Dispatch(ctx context.Context, origin models.Origin) (*models.Report, error) {
	ctx = context.WithoutCancel(ctx)
	if !d.coalesce {
		return d.dispatch(ctx, origin)
	}

	ran := false
	v, err, shared := d.flight.Do("dispatch", func() (any, error) {
		ran = true
		return d.dispatch(ctx, origin)
	})
	if err != nil {
		return nil, err
	}
	report := *v.(*models.Report)
	report.Coalesced = shared
	if !ran {
		d.joined(ctx, &report, origin)
	}
	return &report, nil
}

// joined rewrites a shared report for a caller that did not run the dispatch.
// Every button press still gets its own alert or confirmation.
func (d *Dispatcher) joined(ctx context.Context, report *models.Report, origin models.Origin) {
	report.Origin = origin
	report.Alerted = false
	report.Confirmed = false
	if origin != models.OriginButton {
		return
	}

	d.logger.InfoContext(ctx, "button press joined in-flight dispatch",
		"dispatch_id", report.DispatchID.String(),
		"outcome", string(report.Outcome),
	)
	switch report.Outcome {
	case models.OutcomePermissionDenied:
		d.notifier.Alert(ctx, models.PermissionAlert)
		report.Alerted = true
	case models.OutcomeSent:
		d.notifier.Confirm(ctx, models.SentConfirmation)
		report.Confirmed = true
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, origin models.Origin) (_ *models.Report, err error) {
	start := time.Now()
	report := &models.Report{
		DispatchID: id.NewDispatchID(),
		Origin:     origin,
		StartedAt:  requestcontext.Now(ctx),
	}

	ctx, span := d.tracer.Start(ctx, tracer.SpanDispatch,
		tracer.String(tracer.AttrOrigin, origin.String()),
		tracer.String(tracer.AttrDispatchID, report.DispatchID.String()),
	)
	defer func() {
		outcome := "error"
		if err == nil {
			outcome = string(report.Outcome)
		}
		span.SetAttributes(
			tracer.String(tracer.AttrOutcome, outcome),
			tracer.Int(tracer.AttrRecipients, report.Recipients),
			tracer.Int(tracer.AttrSent, report.Sent),
			tracer.Int(tracer.AttrFailed, report.Failed),
		)
		span.End(err)
		if d.metrics != nil {
			d.metrics.IncrementDispatch(origin.String(), outcome)
			d.metrics.ObserveDispatchLatency(time.Since(start).Seconds())
		}
	}()

	if !d.caps.LocationPermitted(ctx) {
		d.deny(ctx, span, report, models.PermissionLocation)
		return report, nil
	}

	report.Location = d.locate(ctx)
	report.Body = models.MessageFor(report.Location)
	report.Branch = models.BranchNoLocation
	if report.Location != nil {
		report.Branch = models.BranchLocation
	}

	if !d.caps.SMSPermitted(ctx) {
		d.deny(ctx, span, report, models.PermissionSMS)
		return report, nil
	}

	contacts, err := d.contacts.List(ctx)
	if err != nil {
		d.logger.ErrorContext(ctx, "failed to load contacts for dispatch",
			"dispatch_id", report.DispatchID.String(),
			"error", err,
		)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contacts")
	}

	report.Recipients = len(contacts)
	for _, c := range contacts {
		if d.send(ctx, report, c) {
			report.Sent++
		} else {
			report.Failed++
		}
	}
	report.Outcome = models.OutcomeSent

	if origin == models.OriginButton {
		d.notifier.Confirm(ctx, models.SentConfirmation)
		report.Confirmed = true
	}

	d.logger.InfoContext(ctx, "sos dispatched",
		"dispatch_id", report.DispatchID.String(),
		"origin", origin.String(),
		"branch", string(report.Branch),
		"recipients", report.Recipients,
		"sent", report.Sent,
		"failed", report.Failed,
		"request_id", requestcontext.RequestID(ctx),
	)
	return report, nil
}

// deny ends a dispatch for a missing permission. Only a button press alerts
// the user; background signals stay silent.
func (d *Dispatcher) deny(ctx context.Context, span tracer.Span, report *models.Report, perm models.Permission) {
	report.Outcome = models.OutcomePermissionDenied
	report.Denied = perm
	span.AddEvent(tracer.EventPermissionDenied, tracer.String("permission", string(perm)))
	if d.metrics != nil {
		d.metrics.IncrementPermissionDenial(string(perm))
	}

	d.logger.WarnContext(ctx, "sos dispatch stopped: permission not granted",
		"dispatch_id", report.DispatchID.String(),
		"origin", report.Origin.String(),
		"permission", string(perm),
	)

	if report.Origin == models.OriginButton {
		d.notifier.Alert(ctx, models.PermissionAlert)
		report.Alerted = true
	}
}

// locate makes at most one last-known-location request. Disabled providers,
// empty results and lookup errors all resolve to no location.
func (d *Dispatcher) locate(ctx context.Context) *models.Location {
	ctx, span := d.tracer.Start(ctx, tracer.SpanLocate)
	result := "resolved"
	defer func() {
		span.SetAttributes(tracer.String(tracer.AttrLocation, result))
		span.End(nil)
		if d.metrics != nil {
			d.metrics.IncrementLocationResolution(result)
		}
	}()

	if !d.location.ProviderEnabled(ctx) {
		result = "disabled"
		return nil
	}

	fix, err := d.location.LastKnown(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "last known location lookup failed", "error", err)
		result = "error"
		return nil
	}
	if fix == nil {
		result = "empty"
		return nil
	}
	return &models.Location{Lat: fix.Lat, Lon: fix.Lon}
}

func (d *Dispatcher) send(ctx context.Context, report *models.Report, c *contactmodels.Contact) bool {
	ctx, span := d.tracer.Start(ctx, tracer.SpanSend,
		tracer.String(tracer.AttrRecipient, tracer.HashPhoneNumber(c.Number)),
		tracer.String(tracer.AttrBranch, string(report.Branch)),
	)

	err := d.sender.Send(ctx, sms.Message{
		DispatchID: report.DispatchID,
		To:         c.Number,
		Body:       report.Body,
	})
	span.End(err)

	if err != nil {
		d.logger.ErrorContext(ctx, "sms send failed",
			"dispatch_id", report.DispatchID.String(),
			"contact_id", c.ID.String(),
			"error", err,
		)
		if d.metrics != nil {
			d.metrics.IncrementSMSFailures()
		}
		return false
	}
	if d.metrics != nil {
		d.metrics.IncrementSMSSent(string(report.Branch))
	}
	return true
}
