package providers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// TransportConfig configures the shared HTTP connection pool.
type TransportConfig struct {
	// MaxIdleConns is the maximum number of idle connections across all hosts
	MaxIdleConns int

	// MaxIdleConnsPerHost is the maximum number of idle connections per host
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection is kept
	IdleConnTimeout time.Duration

	// MaxResponseBytes is the largest response body accepted; larger
	// bodies fail with MalformedResponse
	MaxResponseBytes int64
}

// DefaultTransportConfig returns pool settings suitable for a handful of providers.
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		MaxResponseBytes:    64 << 20,
	}
}

// RawResponse is a fully read provider response.
type RawResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	Latency    time.Duration
}

// Transport sends one HTTP request per call over a pooled client. It never
// retries; retry policy belongs to the caller.
type Transport struct {
	client   *http.Client
	maxBytes int64
	logger   *slog.Logger
}

// NewTransport creates a Transport with connection pooling.
func NewTransport(cfg TransportConfig, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultTransportConfig().MaxResponseBytes
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	return &Transport{
		// Per-call deadlines come from the context, not the client.
		client:   &http.Client{Transport: transport},
		maxBytes: cfg.MaxResponseBytes,
		logger:   logger,
	}
}

// NewTransportWithClient wraps an existing client (used by tests).
func NewTransportWithClient(client *http.Client, logger *slog.Logger) *Transport {
	if logger == nil {
		logger = slog.Default()
	}
	return &Transport{client: client, maxBytes: DefaultTransportConfig().MaxResponseBytes, logger: logger}
}

// Do performs a single request bounded by timeout. The response body is
// always read and closed before Do returns, so connections are released on
// success, failure and cancellation alike. Non-2xx statuses are not errors
// here; see CheckStatus.
func (t *Transport) Do(ctx context.Context, provider ProviderID, method, url string, headers map[string]string, body []byte, timeout time.Duration) (*RawResponse, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &ProviderError{
			Kind:     ServiceUnavailable,
			Provider: provider,
			Message:  "failed to create request",
			Cause:    err,
		}
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	t.logger.Debug("sending request to provider",
		"provider", provider,
		"method", method,
		"url", url,
		"body_bytes", len(body),
	)

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, t.classify(ctx, provider, timeout, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes+1))
	if err != nil {
		return nil, t.classify(ctx, provider, timeout, fmt.Errorf("failed to read response: %w", err))
	}
	if int64(len(data)) > t.maxBytes {
		t.logger.Warn("provider response too large",
			"provider", provider,
			"status", resp.StatusCode,
			"max_bytes", t.maxBytes,
		)
		return nil, Malformed(provider, "response exceeds %d bytes", t.maxBytes)
	}

	latency := time.Since(start)
	t.logger.Debug("provider responded",
		"provider", provider,
		"status", resp.StatusCode,
		"latency", latency,
		"body_bytes", len(data),
	)

	return &RawResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		Latency:    latency,
	}, nil
}

// classify maps a transport failure onto the error taxonomy: deadlines and
// cancellation become NetworkTimeout, everything else ServiceUnavailable.
func (t *Transport) classify(ctx context.Context, provider ProviderID, timeout time.Duration, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		t.logger.Warn("provider request timed out", "provider", provider, "timeout", timeout)
		return &ProviderError{
			Kind:     NetworkTimeout,
			Provider: provider,
			Message:  fmt.Sprintf("request timeout after %s", timeout),
			Cause:    context.DeadlineExceeded,
		}
	case errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled):
		return &ProviderError{
			Kind:     NetworkTimeout,
			Provider: provider,
			Message:  "request cancelled",
			Cause:    context.Canceled,
		}
	case errors.As(err, &netErr) && netErr.Timeout():
		t.logger.Warn("provider request timed out", "provider", provider, "error", err)
		return &ProviderError{
			Kind:     NetworkTimeout,
			Provider: provider,
			Message:  "network timeout",
			Cause:    err,
		}
	default:
		t.logger.Warn("provider request failed", "provider", provider, "error", err)
		return &ProviderError{
			Kind:     ServiceUnavailable,
			Provider: provider,
			Message:  "connection failed",
			Cause:    err,
		}
	}
}

// Close releases idle pooled connections.
func (t *Transport) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
