package matcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/domain/search/request"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/result"
	logpkg "github.com/kailas-cloud/dnamatch/internal/logger"
	"github.com/kailas-cloud/dnamatch/internal/metrics"
	"github.com/kailas-cloud/dnamatch/internal/tracing"
)

// DefaultEndpoint is where the reference matching service listens.
const DefaultEndpoint = "http://127.0.0.1:8080/kmer_search"

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 20

// Client talks to the k-mer matching service over HTTP+JSON.
type Client struct {
	endpoint string
	http     *http.Client
	tracer   trace.Tracer
	logger   *zap.Logger
}

// Config holds the matching service client settings.
type Config struct {
	Endpoint string
	// HTTPClient defaults to a client without a timeout: a search runs
	// until the service answers or the caller's context ends.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a matching service client.
func NewClient(cfg *Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: endpoint,
		http:     hc,
		tracer:   tracing.Tracer(),
		logger:   logger,
	}
}

// Endpoint returns the URL searches are posted to.
func (c *Client) Endpoint() string { return c.endpoint }

// Search posts req to the matching service and decodes the ranked candidates.
// Failures are *Error values classified as transport, service or decode errors.
func (c *Client) Search(ctx context.Context, req request.Request) (resp result.Response, err error) {
	ctx, span := c.tracer.Start(ctx, "matcher.Search",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.Int("dnamatch.k", req.K()),
			attribute.Int("dnamatch.sequence_length", len(req.QuerySequence())),
			attribute.String("http.url", c.endpoint),
		),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		status := "success"
		if err != nil {
			status = string(KindOf(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			metrics.MatcherResults.Observe(float64(resp.Len()))
			span.SetAttributes(attribute.Int("dnamatch.results", resp.Len()))
		}
		metrics.MatcherRequestsTotal.WithLabelValues(status).Inc()
		metrics.MatcherRequestDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(searchRequest{QuerySequence: req.QuerySequence(), K: req.K()})
	if err != nil {
		return result.Response{}, &Error{Kind: KindTransport, Cause: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return result.Response{}, &Error{Kind: KindTransport, Cause: fmt.Errorf("build request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log := logpkg.FromContextOr(ctx, c.logger)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn("matching service unreachable",
			zap.String("endpoint", c.endpoint),
			zap.Error(err),
		)
		return result.Response{}, &Error{Kind: KindTransport, Cause: err}
	}
	defer httpResp.Body.Close()

	span.SetAttributes(attribute.Int("http.status_code", httpResp.StatusCode))

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		// The error body is not part of the contract; drain it so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxResponseBytes))
		log.Warn("matching service returned failure status",
			zap.String("endpoint", c.endpoint),
			zap.Int("status", httpResp.StatusCode),
		)
		return result.Response{}, &Error{Kind: KindService, StatusCode: httpResp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return result.Response{}, &Error{Kind: KindTransport, Cause: fmt.Errorf("read response: %w", err)}
	}

	var decoded searchResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return result.Response{}, &Error{Kind: KindDecode, Cause: err}
	}
	if decoded.Results == nil {
		return result.Response{}, &Error{Kind: KindDecode, Cause: errors.New("missing results")}
	}

	resp = decoded.toDomain()
	log.Debug("matching service responded",
		zap.Int("k", req.K()),
		zap.Int("results", resp.Len()),
		zap.Float64("execution_time", resp.ExecutionTime()),
		zap.Duration("latency", time.Since(start)),
	)
	return resp, nil
}

// Probe checks that the matching service answers HTTP at all. The search
// route only accepts POST, so any status code counts as reachable.
func (c *Client) Probe(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, http.NoBody)
	if err != nil {
		return &Error{Kind: KindTransport, Cause: fmt.Errorf("build request: %w", err)}
	}
	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return &Error{Kind: KindTransport, Cause: err}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, 4096))
	_ = httpResp.Body.Close()
	return nil
}
