// Package callback answers shipping callbacks: it selects the provider
// adapter, runs the quote calculator and renders the provider response.
package callback

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/tournevent/shipcallback/internal/telemetry"
	"github.com/tournevent/shipcallback/pkg/provider"
	"github.com/tournevent/shipcallback/pkg/quote"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain; charset=utf-8"

	// DecodeFailureBody is sent, as plain text, for every payload the core cannot interpret.
	DecodeFailureBody = "Could not deserialize json correctly"

	unknownProviderBody = "unknown provider"
	internalErrorBody   = "internal error"
)

// Response is the outcome of one callback.
type Response struct {
	Status      int
	Body        []byte
	ContentType string
}

// Handler answers shipping callbacks for every registered provider.
// It keeps no per-request state.
type Handler struct {
	registry *provider.Registry
	logger   *otelzap.Logger
	metrics  *telemetry.Metrics
	tracer   trace.Tracer
	rules    []quote.Rule
}

// Option configures a Handler.
type Option func(*Handler)

// WithRules replaces the default address rules for validating providers.
func WithRules(rules ...quote.Rule) Option {
	return func(h *Handler) {
		h.rules = rules
	}
}

// WithTracer sets the tracer used for callback spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(h *Handler) {
		h.tracer = tracer
	}
}

// New creates a new callback handler.
func New(registry *provider.Registry, logger *otelzap.Logger, metrics *telemetry.Metrics, opts ...Option) *Handler {
	h := &Handler{
		registry: registry,
		logger:   logger,
		metrics:  metrics,
		tracer:   otel.Tracer("github.com/tournevent/shipcallback/internal/callback"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle answers one callback body for providerName.
func (h *Handler) Handle(ctx context.Context, providerName string, body []byte) Response {
	start := time.Now()
	ctx, span := h.tracer.Start(ctx, "callback.handle",
		trace.WithAttributes(attribute.String("provider", providerName)))
	defer span.End()

	log := h.logger.Ctx(ctx)
	log.Info("Shipping callback received",
		zap.String("provider", providerName),
		zap.Int("body_bytes", len(body)),
	)
	log.Debug("Request body", zap.ByteString("body", body))

	adapter, err := h.registry.Get(providerName)
	if err != nil {
		log.Warn("Unknown provider", zap.String("provider", providerName))
		span.SetStatus(codes.Error, err.Error())
		return h.finish(span, providerName, "", start, text(http.StatusNotFound, unknownProviderBody))
	}

	resp, phase := h.handle(ctx, adapter, body)
	if resp.Status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, string(resp.Body))
	}
	return h.finish(span, providerName, phase, start, resp)
}

func (h *Handler) handle(ctx context.Context, adapter provider.Adapter, body []byte) (Response, quote.Phase) {
	log := h.logger.Ctx(ctx)
	base := []zap.Field{zap.String("provider", adapter.Name())}

	snap, err := adapter.Decode(body)
	if err != nil {
		log.Error("Failed to deserialize callback", fields(base, zap.Error(err), zap.ByteString("body", body))...)
		return text(http.StatusBadRequest, DecodeFailureBody), ""
	}

	phase := snap.Phase()
	base = fields(base, zap.String("order_id", snap.ID), zap.String("phase", string(phase)))
	if phase == quote.PhaseInitial {
		log.Info("No shipping option selected, generating default tiers", base...)
	} else {
		log.Info("Updating total for selected shipping option", fields(base, zap.String("tier_id", snap.ChosenTier.ID))...)
	}

	res, err := h.calculator(adapter.Profile()).Compute(snap)
	if err != nil {
		if rej, ok := quote.AsRejection(err); ok {
			return h.reject(log, base, adapter, rej), phase
		}
		if quote.IsClientError(err) {
			log.Error("Invalid shipping selection", fields(base, zap.Error(err))...)
			return text(http.StatusBadRequest, DecodeFailureBody), phase
		}
		log.Error("Quote computation failed", fields(base, zap.Error(err))...)
		return text(http.StatusInternalServerError, internalErrorBody), phase
	}

	out, err := adapter.Encode(res)
	if err != nil {
		log.Error("Failed to encode quote", fields(base, zap.Error(err))...)
		return text(http.StatusInternalServerError, internalErrorBody), phase
	}

	log.Info("Returning quote", fields(base,
		zap.String("total", res.Total.String()),
		zap.String("shipping", res.ShippingCost.String()),
	)...)
	return Response{Status: http.StatusOK, Body: out, ContentType: ContentTypeJSON}, phase
}

func (h *Handler) reject(log otelzap.LoggerWithCtx, base []zap.Field, adapter provider.Adapter, rej *quote.Rejection) Response {
	for _, is := range rej.Issues {
		log.Info("Rejecting shipping address", fields(base, zap.String("issue", string(is.Code)))...)
		h.metrics.RecordRejection(adapter.Name(), string(is.Code))
	}

	out, err := adapter.EncodeRejection(rej)
	if err != nil {
		log.Error("Failed to encode rejection", fields(base, zap.Error(err))...)
		return text(http.StatusInternalServerError, internalErrorBody)
	}
	return Response{Status: adapter.Profile().Status(), Body: out, ContentType: ContentTypeJSON}
}

func (h *Handler) calculator(p provider.Profile) *quote.Calculator {
	opts := p.CalculatorOptions()
	if len(h.rules) > 0 {
		opts = append(opts, quote.WithValidator(quote.NewValidator(h.rules...)))
	}
	return quote.NewCalculator(opts...)
}

func (h *Handler) finish(span trace.Span, providerName string, phase quote.Phase, start time.Time, resp Response) Response {
	status := strconv.Itoa(resp.Status)
	span.SetAttributes(
		attribute.String("phase", string(phase)),
		attribute.Int("http.status_code", resp.Status),
	)
	h.metrics.RecordCallback(providerName, string(phase), status, time.Since(start).Seconds())
	return resp
}

func text(status int, body string) Response {
	return Response{Status: status, Body: []byte(body), ContentType: ContentTypeText}
}

// fields returns base followed by extra without aliasing base.
func fields(base []zap.Field, extra ...zap.Field) []zap.Field {
	out := make([]zap.Field, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
