package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"carrierrates/internal/fedex"
	"carrierrates/internal/rate"
)

type Server struct {
	providers *rate.Registry
	est       rate.Estimator
	logger    *zap.Logger
	metrics   *Metrics
}

type Option func(*Server)

func WithLogger(l *zap.Logger) Option { return func(s *Server) { s.logger = l } }

func WithMetrics(m *Metrics) Option { return func(s *Server) { s.metrics = m } }

func WithEstimator(est rate.Estimator) Option { return func(s *Server) { s.est = est } }

// New builds the HTTP handler. A nil registry serves only the dummy provider.
func New(providers *rate.Registry, opts ...Option) http.Handler {
	s := &Server{providers: providers}
	for _, o := range opts {
		o(s)
	}
	if s.providers == nil {
		s.providers = rate.NewRegistry("dummy")
		s.providers.Register("dummy", rate.NewDummy(nil))
	}
	if s.est == nil {
		s.est = rate.NewDummy(nil)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(prometheus.NewRegistry())
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/rates", s.handleEstimate)
	r.Post("/rates", s.handleQuote)
	r.Method(http.MethodGet, "/metrics", s.metrics.handler())
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Quick estimate
type EstimateResponse struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
	Carrier  string  `json:"carrier"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var weightOz float64
	if v := q.Get("weight_oz"); v != "" {
		f, err := json.Number(v).Float64()
		if err != nil {
			writeErrorJSON(w, http.StatusBadRequest, "invalid_weight", "weight_oz must be a number")
			return
		}
		weightOz = f
	}
	currency, amount, carrier := s.est.Estimate(q.Get("from_country"), q.Get("to_country"), q.Get("carrier_code"), weightOz)
	writeJSON(w, http.StatusOK, EstimateResponse{Currency: currency, Amount: amount, Carrier: carrier})
}

// Carrier quotes
type QuoteRequest struct {
	Provider string        `json:"provider"`
	Shipment rate.Shipment `json:"shipment"`
	Options  rate.Options  `json:"options"`
}

type QuoteResponse struct {
	Provider string       `json:"provider"`
	Rates    []rate.Quote `json:"rates"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	if len(req.Shipment.Packages) == 0 {
		writeErrorJSON(w, http.StatusBadRequest, "invalid_request", "at least one package required")
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Provider))
	if name == "" {
		name = s.providers.Default()
	}
	p, ok := s.providers.ByName(name)
	if !ok {
		writeErrorJSON(w, http.StatusBadRequest, "unsupported_provider", "unsupported provider")
		return
	}

	start := time.Now()
	quotes, err := p.Rates(r.Context(), req.Shipment, req.Options)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		outcome, status, code := classify(err)
		s.metrics.observe(name, outcome, 0, elapsed)
		loggerFrom(r, s.logger).Warn("rate request failed", zap.String("provider", name), zap.String("outcome", outcome), zap.Error(err))
		writeErrorJSON(w, status, code, err.Error())
		return
	}
	s.metrics.observe(name, "success", len(quotes), elapsed)
	writeJSON(w, http.StatusOK, QuoteResponse{Provider: name, Rates: quotes})
}

// classify maps provider errors to a metrics outcome and HTTP error.
func classify(err error) (outcome string, status int, code string) {
	var rerr *fedex.RateError
	switch {
	case errors.As(err, &rerr):
		return "carrier_error", http.StatusUnprocessableEntity, "rate_request_failed"
	case errors.Is(err, fedex.ErrMalformedRateReply):
		return "malformed", http.StatusBadGateway, "malformed_rate_reply"
	default:
		return "transport_error", http.StatusBadGateway, "carrier_unavailable"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErrorJSON writes a standardized JSON error response:
// {"error": {"code": string, "message": string}}
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

// requestIDMiddleware ensures X-Request-ID is set on the response.
// If provided in the request header, it is propagated; otherwise a UUID is generated.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if rid == "" {
			rid = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", rid)
		next.ServeHTTP(w, r.WithContext(contextWithRequestID(r.Context(), rid)))
	})
}

// requestLogger logs one line per request with the request ID attached.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := s.logger.With(zap.String("request_id", requestIDFrom(r.Context())))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(contextWithLogger(r.Context(), logger)))
		logger.Info("request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("latency", time.Since(start)),
		)
	})
}
