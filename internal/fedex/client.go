// Package fedex quotes shipping rates against the FedEx Web Services rate
// endpoint.
//
// A call builds a RateRequest document, posts it, decodes the reply or SOAP
// fault into a nested map, classifies it and extracts one quote per
// offered service. Delivery dates missing from the reply are inferred from
// the transit-time code and the ship timestamp.
package fedex

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"carrierrates/internal/calendar"
	"carrierrates/internal/rate"
)

const (
	ProductionURL = "https://ws.fedex.com/xml"
	TestURL       = "https://wsbeta.fedex.com/xml"

	tracerName = "carrierrates/fedex"
)

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	Credentials Credentials
	// Mode selects the endpoint: "production" or anything else for test.
	Mode string
	// URL overrides the Mode endpoint when set.
	URL     string
	Timeout time.Duration
	// Debug logs raw response bodies.
	Debug bool
}

func (c Config) endpoint() string {
	if c.URL != "" {
		return c.URL
	}
	if strings.EqualFold(c.Mode, "production") {
		return ProductionURL
	}
	return TestURL
}

type Option func(*Client)

func WithHTTPClient(h HTTPDoer) Option { return func(c *Client) { c.http = h } }

func WithLogger(l *zap.Logger) Option { return func(c *Client) { c.logger = l } }

func WithCalendar(cal calendar.Advancer) Option {
	return func(c *Client) { c.extractor = NewExtractor(cal) }
}

func WithFragments(f Fragments) Option { return func(c *Client) { c.frags = f } }

func WithTracer(t trace.Tracer) Option { return func(c *Client) { c.tracer = t } }

// Client implements rate.Provider. It is safe for concurrent use when its
// HTTPDoer is.
type Client struct {
	url       string
	debug     bool
	creds     Credentials
	frags     Fragments
	builder   *RequestBuilder
	extractor *Extractor
	http      HTTPDoer
	logger    *zap.Logger
	tracer    trace.Tracer
}

func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		url:   cfg.endpoint(),
		debug: cfg.Debug,
		creds: cfg.Credentials,
	}
	for _, o := range opts {
		o(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.extractor == nil {
		c.extractor = NewExtractor(nil)
	}
	c.builder = NewRequestBuilder(c.creds, RateService, c.frags)
	return c
}

// Rates requests quotes for s. Carrier failures come back as *RateError,
// unexpected reply shapes wrap ErrMalformedRateReply, and transport errors
// are returned as they are.
func (c *Client) Rates(ctx context.Context, s rate.Shipment, opts rate.Options) ([]rate.Quote, error) {
	ctx, span := c.tracer.Start(ctx, "fedex.Rates", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("http.url", c.url),
		attribute.String("fedex.service_type", opts.ServiceType),
		attribute.Int("fedex.package_count", len(s.Packages)),
	)

	body, resolved, err := c.builder.Build(s, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	raw, err := c.post(ctx, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if c.debug {
		c.logger.Debug("fedex rate response", zap.ByteString("body", raw))
	}

	resp, err := Normalize(raw)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !Success(resp) {
		rerr := c.rateError(resp, len(raw))
		span.SetStatus(codes.Error, rerr.Message)
		return nil, rerr
	}
	quotes, err := c.extractor.Extract(resp, resolved)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("fedex.quote_count", len(quotes)))
	return quotes, nil
}

func (c *Client) rateError(resp map[string]any, bodyLen int) *RateError {
	msg, err := ErrorMessage(resp)
	if err != nil {
		c.logger.Warn("unrecognized fedex error response",
			zap.Error(err),
			zap.Int("body_bytes", bodyLen),
		)
		return &RateError{Message: ErrUnknownFaultFormat.Error(), Err: err}
	}
	return &RateError{Message: msg}
}

// post sends the document and returns the body whatever the status code;
// faults arrive with 500.
func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "new fedex request")
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("Accept", "text/xml")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	return io.ReadAll(res.Body)
}
