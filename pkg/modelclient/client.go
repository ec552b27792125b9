// Package modelclient calls a remote model server that scores proxy
// feature rows.
package modelclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/zestai/zrp/internal/proxy"
	"github.com/zestai/zrp/internal/resilience"
)

// Request is the body posted to the model server.
type Request struct {
	Mode proxy.Mode       `json:"mode"`
	Rows []proxy.Features `json:"rows"`
}

// Response is the model server's reply. Predictions must line up with the
// request rows.
type Response struct {
	Predictions []proxy.Prediction `json:"predictions"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRateLimit caps requests per second. Zero or less disables the limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		burst := int(rps)
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBatchSize sets how many rows go in one request.
func WithBatchSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.batchSize = n
		}
	}
}

// WithRetry sets the retry policy for each request.
func WithRetry(p resilience.Policy) Option {
	return func(c *Client) {
		c.retry = p
	}
}

// WithName labels the client in logs.
func WithName(name string) Option {
	return func(c *Client) {
		c.name = name
	}
}

// Client is a proxy.Classifier backed by an HTTP model server.
type Client struct {
	url       string
	name      string
	http      *http.Client
	limiter   *rate.Limiter
	batchSize int
	retry     resilience.Policy
}

var _ proxy.Classifier = (*Client)(nil)

// New returns a client posting to url.
func New(url string, opts ...Option) *Client {
	c := &Client{
		url:       url,
		name:      url,
		http:      &http.Client{Timeout: 60 * time.Second},
		limiter:   rate.NewLimiter(10, 10),
		batchSize: 500,
		retry:     resilience.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.retry.OnRetry == nil {
		c.retry.OnRetry = resilience.RetryLogger("modelclient", c.name)
	}
	return c
}

// Predict scores rows in batches and returns the predictions in row order.
// A batch whose reply has the wrong length or ids fails the call with
// proxy.ErrPredictionMismatch.
func (c *Client) Predict(ctx context.Context, mode proxy.Mode, rows []proxy.Features) ([]proxy.Prediction, error) {
	log := zap.L().With(zap.String("component", "modelclient"), zap.String("model", c.name))

	out := make([]proxy.Prediction, 0, len(rows))
	for start := 0; start < len(rows); start += c.batchSize {
		end := min(start+c.batchSize, len(rows))
		batch := rows[start:end]

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "modelclient: rate limiter")
		}

		preds, err := resilience.Do(ctx, c.retry, func(ctx context.Context) ([]proxy.Prediction, error) {
			return c.post(ctx, Request{Mode: mode, Rows: batch})
		})
		if err != nil {
			return nil, eris.Wrapf(err, "modelclient: %s rows %d-%d", c.name, start, end)
		}
		if err := aligned(batch, preds); err != nil {
			return nil, eris.Wrapf(err, "modelclient: %s rows %d-%d", c.name, start, end)
		}

		log.Debug("batch scored",
			zap.String("mode", string(mode)),
			zap.Int("start", start),
			zap.Int("rows", len(batch)),
		)
		out = append(out, preds...)
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, body Request) ([]proxy.Prediction, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "modelclient: encode request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "modelclient: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "modelclient: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &resilience.StatusError{StatusCode: resp.StatusCode, Body: string(data)}
	}

	var r Response
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "modelclient: decode response")
	}
	return r.Predictions, nil
}

func aligned(rows []proxy.Features, preds []proxy.Prediction) error {
	if len(preds) != len(rows) {
		return eris.Wrapf(proxy.ErrPredictionMismatch, "%d rows, %d predictions", len(rows), len(preds))
	}
	for i := range rows {
		if preds[i].ID != rows[i].ID {
			return eris.Wrapf(proxy.ErrPredictionMismatch, "row %d: id %q, prediction %q", i, rows[i].ID, preds[i].ID)
		}
	}
	return nil
}
