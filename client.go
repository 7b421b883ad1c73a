package dnamatch

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dnamatch/internal/domain/search/request"
	"github.com/kailas-cloud/dnamatch/internal/domain/search/result"
	"github.com/kailas-cloud/dnamatch/internal/transport/matcher"
	searchuc "github.com/kailas-cloud/dnamatch/internal/usecase/search"
)

// Client is the dnamatch SDK entry point.
type Client struct {
	matcher searchuc.Matcher
	obs     *observer
}

// New creates a Client. No connection is made until the first search.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, fmt.Errorf("dnamatch: init observer: %w", err)
	}

	mc := matcher.NewClient(&matcher.Config{
		Endpoint:   cfg.endpoint,
		HTTPClient: cfg.httpClient,
		Logger:     zap.NewNop(),
	})
	return &Client{
		matcher: &observedMatcher{inner: mc, obs: obs},
		obs:     obs,
	}, nil
}

// Search validates the input and runs one search against the matching
// service. Validation failures return ErrEmptySequence or ErrInvalidK without
// a request being sent; fetch failures wrap ErrTransport, ErrService or
// ErrDecode.
func (c *Client) Search(ctx context.Context, sequence string, k int) (*Response, error) {
	req, err := request.New(sequence, k)
	if err != nil {
		c.obs.observe("validate", time.Now(), err)
		return nil, fmt.Errorf("dnamatch: %w", err)
	}

	resp, err := c.matcher.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("dnamatch: search: %w", err)
	}
	return toResponse(&resp), nil
}

// NewSession returns an idle session bound to this client's matching service.
func (c *Client) NewSession() *Session {
	return newSession(searchuc.New(c.matcher, zap.NewNop()), c.obs)
}

// observedMatcher records every matching service call on the observer.
type observedMatcher struct {
	inner searchuc.Matcher
	obs   *observer
}

func (m *observedMatcher) Search(ctx context.Context, req request.Request) (result.Response, error) {
	start := time.Now()
	resp, err := m.inner.Search(ctx, req)
	m.obs.observe("search", start, err)
	return resp, err //nolint:wrapcheck // transparent decorator
}
