// Package describe is the client of the shader description service, which
// turns a natural-language description into fragment shader source.
package describe

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	generatePath = "/api/generate_shader"

	// Placeholder is returned when the service answers without shader code.
	Placeholder = "No shader code received"

	defaultTimeout       = 60 * time.Second
	defaultRetryInterval = 500 * time.Millisecond
	maxErrorBody         = 4 << 10
)

var (
	// ErrUnavailable matches every failure to obtain a response from the
	// service. Retrying with a new description may succeed.
	ErrUnavailable = errors.New("description service unavailable")
	// ErrEmptyDescription is returned for blank descriptions; nothing is sent.
	ErrEmptyDescription = errors.New("empty description")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// StatusError is a non-2xx response.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	return "failed to generate shader: " + e.Status
}

func (e *StatusError) Is(target error) bool { return target == ErrUnavailable }

// requestError is a transport or decoding failure.
type requestError struct {
	err error
}

func (e *requestError) Error() string        { return "failed to generate shader: " + e.err.Error() }
func (e *requestError) Unwrap() error        { return e.err }
func (e *requestError) Is(target error) bool { return target == ErrUnavailable }

type generateRequest struct {
	Description string `json:"description"`
}

type generateResponse struct {
	ShaderCode string `json:"shader_code"`
}

// Client calls the description service. Server errors and transport failures
// are retried with exponential backoff; client errors are not. A circuit
// breaker stops hammering a service that keeps failing.
type Client struct {
	baseURL  string
	http     *http.Client
	log      *zap.Logger
	retries  int
	interval time.Duration
	breaker  *gobreaker.CircuitBreaker
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(log *zap.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithTimeout bounds each request, including reading the response.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithRetries sets how many times a failed request is repeated.
func WithRetries(n int) Option {
	return func(c *Client) { c.retries = n }
}

// WithRetryInterval sets the first backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) { c.interval = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		log:      zap.NewNop(),
		retries:  2,
		interval: defaultRetryInterval,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "describe",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 5
		},
		IsSuccessful: func(err error) bool {
			var se *StatusError
			return err == nil || (errors.As(err, &se) && se.Code < http.StatusInternalServerError)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("circuit breaker state change",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return c
}

// Describe asks the service for shader code matching description. The
// returned text is raw: it may still carry code fences.
func (c *Client) Describe(ctx context.Context, description string) (string, error) {
	if strings.TrimSpace(description) == "" {
		return "", ErrEmptyDescription
	}
	body, err := json.Marshal(generateRequest{Description: description})
	if err != nil {
		return "", errors.Wrap(err, "encode request")
	}

	var code string
	operation := func() error {
		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.post(ctx, body)
		})
		if err != nil {
			var se *StatusError
			switch {
			case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
				return backoff.Permanent(&requestError{err: err})
			case errors.As(err, &se) && se.Code < http.StatusInternalServerError:
				return backoff.Permanent(err)
			case ctx.Err() != nil:
				return backoff.Permanent(err)
			}
			return err
		}
		code = result.(string)
		return nil
	}

	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = c.interval
	var policy backoff.BackOff = eb
	policy = backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.retries)), ctx)

	notify := func(err error, wait time.Duration) {
		c.log.Warn("shader request failed, retrying", zap.Error(err), zap.Duration("wait", wait))
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", err
	}
	return code, nil
}

func (c *Client) post(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(body))
	if err != nil {
		return "", &requestError{err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.With(zap.String("request_id", requestID))
	log.Debug("requesting shader", zap.String("url", req.URL.String()))

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &requestError{err: err}
	}
	defer resp.Body.Close()

	log.Debug("shader response", zap.Int("status", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Warn("shader request rejected", zap.Int("status", resp.StatusCode), zap.ByteString("body", text))
		return "", &StatusError{Code: resp.StatusCode, Status: resp.Status, Body: string(text)}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &requestError{err: errors.Wrap(err, "decode response")}
	}
	if out.ShaderCode == "" {
		return Placeholder, nil
	}
	return out.ShaderCode, nil
}
