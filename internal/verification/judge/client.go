package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"veritas/internal/platform/config"
	dErrors "veritas/pkg/domain-errors"
	"veritas/pkg/platform/circuit"
	"veritas/pkg/platform/sentinel"
)

const evaluatePath = "/evaluate"

// HTTPClient talks to the discrepancy judge over HTTP. Transport failures and
// non-2xx statuses are retried with linear backoff; a payload that decodes but
// violates the contract is not retried.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    time.Duration
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

type ClientOption func(*HTTPClient)

func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *HTTPClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient overrides the underlying client, primarily for tests.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBreaker overrides the circuit breaker, primarily for tests and tuning.
func WithBreaker(b *circuit.Breaker) ClientOption {
	return func(c *HTTPClient) {
		if b != nil {
			c.breaker = b
		}
	}
}

// NewHTTPClient builds a judge client from config. The per-attempt timeout is
// cfg.Timeout; cfg.MaxRetries additional attempts follow the first.
func NewHTTPClient(cfg config.JudgeConfig, opts ...ClientOption) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "judge base URL is required")
	}

	c := &HTTPClient{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.Backoff,
		breaker: circuit.New("judge",
			circuit.WithFailureThreshold(3),
			circuit.WithSuccessThreshold(1),
		),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Evaluate posts the request to the judge and decodes its verdicts. On
// transport failure it retries up to MaxRetries times before reporting
// sentinel.ErrUnavailable; a malformed body reports sentinel.ErrMalformedResponse
// without retrying. When the breaker is open the call is short-circuited to
// sentinel.ErrUnavailable without touching the network; the breaker lets a
// probe through once its cooldown elapses.
func (c *HTTPClient) Evaluate(ctx context.Context, req Request) (*Response, error) {
	if !c.breaker.Allow() {
		return nil, dErrors.Wrap(
			fmt.Errorf("%w: judge circuit open", sentinel.ErrUnavailable),
			dErrors.CodeUnavailable,
			"judge circuit open",
		)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "encode judge request")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeUnavailable, "judge evaluation cancelled")
			case <-time.After(time.Duration(attempt) * c.backoff):
			}
		}

		resp, err := c.evaluateOnce(ctx, req, body)
		if err == nil {
			c.recordSuccess()
			return resp, nil
		}
		if errors.Is(err, sentinel.ErrMalformedResponse) {
			c.recordFailure()
			return nil, err
		}
		lastErr = err
		c.logger.WarnContext(ctx, "judge attempt failed",
			"attempt", attempt+1,
			"error", err,
		)
	}

	c.recordFailure()
	return nil, dErrors.Wrap(
		fmt.Errorf("%w: %v", sentinel.ErrUnavailable, lastErr),
		dErrors.CodeUnavailable,
		"judge unreachable after retries",
	)
}

func (c *HTTPClient) evaluateOnce(ctx context.Context, req Request, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+evaluatePath, bytes.NewReader(body))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build judge request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("judge call: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(httpResp.Body, 4096))
		return nil, fmt.Errorf("judge returned status %d", httpResp.StatusCode)
	}

	var resp Response
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode judge response: %v", sentinel.ErrMalformedResponse, err)
	}
	answered := make(map[string]bool, len(resp.EvaluatedDiscrepancies))
	for _, v := range resp.EvaluatedDiscrepancies {
		if v.Field == "" {
			return nil, fmt.Errorf("%w: verdict missing field name", sentinel.ErrMalformedResponse)
		}
		answered[v.Field] = true
	}
	// Every submitted discrepancy needs a verdict; a partial reply would let
	// conflicts slip through unclassified.
	for _, d := range req.Discrepancies {
		if !answered[d.Field] {
			return nil, fmt.Errorf("%w: no verdict for field %q", sentinel.ErrMalformedResponse, d.Field)
		}
	}
	return &resp, nil
}

func (c *HTTPClient) recordSuccess() {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.Info("judge circuit closed", "breaker", c.breaker.Name())
	}
}

func (c *HTTPClient) recordFailure() {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.Warn("judge circuit opened", "breaker", c.breaker.Name())
	}
}

// Degraded reports whether the judge breaker is currently open.
func (c *HTTPClient) Degraded() bool {
	return c.breaker.IsOpen()
}
