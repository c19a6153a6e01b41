package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/cookedfr/cookedfr/internal/config"
	"github.com/cookedfr/cookedfr/internal/fortune"
	"github.com/cookedfr/cookedfr/internal/schema"
	"github.com/cookedfr/cookedfr/internal/upstream"
)

const healthProbeTimeout = 5 * time.Second

// Handler serves the relay and its auxiliary routes.
type Handler struct {
	teller    *fortune.Teller
	generator upstream.Generator
	provider  string
	metrics   *Metrics
	logger    zerolog.Logger
}

// NewHandler constructs a Handler around the configured generator.
func NewHandler(generator upstream.Generator, cfg *config.Config, metrics *Metrics, logger zerolog.Logger) *Handler {
	return &Handler{
		teller:    fortune.NewTeller(generator, cfg.Upstream.Model, logger),
		generator: generator,
		provider:  cfg.Upstream.Provider,
		metrics:   metrics,
		logger:    logger,
	}
}

// HandleFortune validates the name, asks the upstream for a fortune and
// collapses every generation failure into one generic 500.
func (h *Handler) HandleFortune(w http.ResponseWriter, r *http.Request) {
	req, err := ParseFortuneRequest(r)
	if err != nil {
		h.metrics.IncValidationFailures()
		if httpErr, ok := IsHTTPError(err); ok {
			WriteError(w, httpErr.Status, httpErr.Message)
			return
		}
		WriteError(w, http.StatusBadRequest, schema.MessageInvalidName)
		return
	}

	h.metrics.IncInFlight()
	text, err := h.teller.Tell(r.Context(), req.Name)
	h.metrics.DecInFlight()

	if err != nil {
		if errors.Is(err, fortune.ErrInvalidName) {
			h.metrics.IncValidationFailures()
			WriteError(w, http.StatusBadRequest, schema.MessageInvalidName)
			return
		}

		kind := upstream.KindOf(err)
		h.metrics.IncUpstreamFailure(kind)
		h.logger.Error().
			Err(err).
			Str("request_id", r.Header.Get(requestIDHeader)).
			Str("kind", string(kind)).
			Msg("Error fetching fortune")
		WriteError(w, http.StatusInternalServerError, schema.MessageGenerationFailed)
		return
	}

	h.metrics.IncFortunes()
	WriteJSON(w, http.StatusOK, schema.FortuneResponse{Fortune: text})
}

// HandleHealthGet reports liveness; ?detailed=true also probes the upstream.
func (h *Handler) HandleHealthGet(w http.ResponseWriter, r *http.Request) {
	resp := schema.HealthResponse{Status: "ok"}
	if r.URL.Query().Get("detailed") == "true" {
		resp.Upstream = h.probeUpstream(r.Context())
	}
	WriteJSON(w, http.StatusOK, resp)
}

// HandleHealthPost mirrors HandleHealthGet for clients that only POST.
func (h *Handler) HandleHealthPost(w http.ResponseWriter, r *http.Request) {
	h.HandleHealthGet(w, r)
}

func (h *Handler) probeUpstream(ctx context.Context) *schema.UpstreamHealth {
	result := &schema.UpstreamHealth{Provider: h.provider}

	checker, ok := h.generator.(upstream.HealthChecker)
	if !ok {
		result.Status = "unknown"
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	start := time.Now()
	err := checker.Health(ctx)
	result.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		result.Status = "unhealthy"
		result.Error = string(upstream.KindOf(err))
		return result
	}

	result.Status = "healthy"
	return result
}
