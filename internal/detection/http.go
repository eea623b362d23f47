package detection

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/disintegration/imaging"
)

const (
	// DefaultTimeout bounds a single inference request.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is the default number of attempts per frame.
	DefaultMaxRetries = 3

	// defaultBaseBackoff is the base delay for exponential backoff.
	defaultBaseBackoff = 500 * time.Millisecond

	// maxResponseBytes limits the inference response body.
	maxResponseBytes = 10 << 20
)

// Option configures an HTTPDetector.
type Option func(*httpConfig)

type httpConfig struct {
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	minScore    float64
	client      *http.Client
}

func defaultHTTPConfig() httpConfig {
	return httpConfig{
		timeout:     DefaultTimeout,
		maxRetries:  DefaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpConfig) {
		c.timeout = d
	}
}

// WithMaxRetries sets the maximum number of attempts per frame.
func WithMaxRetries(n int) Option {
	return func(c *httpConfig) {
		c.maxRetries = n
	}
}

// WithBaseBackoff sets the base delay for exponential backoff between attempts.
func WithBaseBackoff(d time.Duration) Option {
	return func(c *httpConfig) {
		c.baseBackoff = d
	}
}

// WithMinScore drops detections scoring below s.
func WithMinScore(s float64) Option {
	return func(c *httpConfig) {
		c.minScore = s
	}
}

// WithHTTPClient overrides the default HTTP client (useful for testing).
func WithHTTPClient(client *http.Client) Option {
	return func(c *httpConfig) {
		c.client = client
	}
}

// HTTPDetector delegates inference to an external model service.
//
// Each frame is JPEG-encoded and POSTed as the multipart field "file" to the
// inference URL, which must answer {"detections": [...]}. Transport errors and
// 5xx responses are retried with exponential backoff; 4xx responses and
// malformed bodies fail immediately.
type HTTPDetector struct {
	inferenceURL string
	cfg          httpConfig
	client       *http.Client
}

// NewHTTPDetector creates a detector for the given inference endpoint.
func NewHTTPDetector(inferenceURL string, opts ...Option) *HTTPDetector {
	cfg := defaultHTTPConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxRetries < 1 {
		cfg.maxRetries = 1
	}

	client := cfg.client
	if client == nil {
		client = &http.Client{Timeout: cfg.timeout}
	}

	return &HTTPDetector{
		inferenceURL: inferenceURL,
		cfg:          cfg,
		client:       client,
	}
}

// permanentError marks a failure that retrying cannot fix.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Detect sends frame.Image to the inference service.
func (d *HTTPDetector) Detect(ctx context.Context, frame Frame) ([]DetectedObject, error) {
	if d.inferenceURL == "" {
		return nil, fmt.Errorf("http detector: %w: inference URL is empty", ErrDetectorUnavailable)
	}
	if frame.Image == nil {
		return nil, fmt.Errorf("http detector: frame has no image")
	}

	var img bytes.Buffer
	if err := imaging.Encode(&img, frame.Image, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("http detector: encoding frame: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < d.cfg.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := d.cfg.baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("http detector: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		objects, err := d.predict(ctx, img.Bytes())
		if err == nil {
			return FilterByScore(objects, d.cfg.minScore), nil
		}

		var perm *permanentError
		if errors.As(err, &perm) || ctx.Err() != nil {
			return nil, fmt.Errorf("http detector: %w", err)
		}
		lastErr = err
	}

	return nil, fmt.Errorf("http detector: all %d attempts failed: %w", d.cfg.maxRetries, lastErr)
}

// predict performs a single multipart upload and decodes the response.
func (d *HTTPDetector) predict(ctx context.Context, jpegData []byte) ([]DetectedObject, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", "frame.jpg")
	if err != nil {
		return nil, &permanentError{fmt.Errorf("create form file: %w", err)}
	}
	if _, err := part.Write(jpegData); err != nil {
		return nil, &permanentError{fmt.Errorf("write form file: %w", err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &permanentError{fmt.Errorf("close multipart writer: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.inferenceURL, body)
	if err != nil {
		return nil, &permanentError{fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", d.inferenceURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("POST %s: status %d", d.inferenceURL, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, &permanentError{fmt.Errorf("POST %s: status %d", d.inferenceURL, resp.StatusCode)}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %w", d.inferenceURL, err)
	}

	var result struct {
		Detections []DetectedObject `json:"detections"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &permanentError{fmt.Errorf("decode response: %w", err)}
	}
	if result.Detections == nil {
		return []DetectedObject{}, nil
	}
	return result.Detections, nil
}

// HealthURL returns the health endpoint that sits beside the inference
// endpoint: "http://host:5000/predict" becomes "http://host:5000/health".
func (d *HTTPDetector) HealthURL() (string, error) {
	u, err := url.Parse(d.inferenceURL)
	if err != nil {
		return "", fmt.Errorf("parse inference URL: %w", err)
	}
	u.Path = "/health"
	u.RawQuery = ""
	return u.String(), nil
}

// CheckHealth verifies that the inference service is reachable.
func (d *HTTPDetector) CheckHealth(ctx context.Context) error {
	if d.inferenceURL == "" {
		return fmt.Errorf("%w: inference URL is empty", ErrDetectorUnavailable)
	}
	healthURL, err := d.HealthURL()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDetectorUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: health check returned status %d", ErrDetectorUnavailable, resp.StatusCode)
	}
	return nil
}
