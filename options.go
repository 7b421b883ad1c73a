package dnamatch

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	endpoint   string
	httpClient *http.Client

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithEndpoint sets the matching service URL searches are posted to.
// Defaults to http://127.0.0.1:8080/kmer_search.
func WithEndpoint(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.endpoint = url
	})
}

// WithHTTPClient sets the HTTP client used for matching service calls.
// The default client has no timeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
