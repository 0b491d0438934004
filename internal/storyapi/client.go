// Package storyapi is the HTTP client for the ChatStoryAI content API:
// stories, chapters, characters, dialogues, outlines, bookmarks and
// categories.
package storyapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/chatstory/storymcp/internal/telemetry"
)

const (
	DefaultBaseURL = "https://chatstory-ai.vercel.app"
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 8 << 20
)

// Config configures a Client. Zero values fall back to the defaults above.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs authenticated requests against one API base URL. It holds
// no per-call state and is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q must use http or https", base)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q has no host", base)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		baseURL:    base,
		token:      strings.TrimSpace(cfg.Token),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// call sends a request and returns the response body as the upstream sent
// it. An empty 2xx body is returned as JSON null.
func (c *Client) call(ctx context.Context, op, method, path string, query url.Values, body requestBody) (RawJSON, error) {
	raw, err := c.do(ctx, op, method, path, query, body)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return RawJSON("null"), nil
	}
	if !gjson.ValidBytes(raw) {
		derr := decodeError(op, raw, errors.New("response is not valid JSON"))
		c.logFailure(method, path, derr)
		return nil, derr
	}
	return RawJSON(raw), nil
}

// do sends one request and returns the raw response body. Every failure is
// a *TransportError tagged with op.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body requestBody) ([]byte, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "storyapi."+strings.ReplaceAll(op, " ", "_"),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	raw, status, err := c.send(ctx, op, method, path, query, body)
	if status > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logFailure(method, path, err)
		return nil, err
	}
	return raw, nil
}

func (c *Client) send(ctx context.Context, op, method, path string, query url.Values, body requestBody) ([]byte, int, *TransportError) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	contentType := ""
	if body != nil {
		r, ct, err := body.encode()
		if err != nil {
			return nil, 0, requestError(op, err)
		}
		reader, contentType = r, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, 0, requestError(op, err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, noResponseError(op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, noResponseError(op, fmt.Errorf("read response body: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, statusError(op, resp, raw)
	}
	return raw, resp.StatusCode, nil
}

// reject reports a request that failed before it could be sent.
func (c *Client) reject(op, method, path string, err error) error {
	terr := requestError(op, err)
	c.logFailure(method, path, terr)
	return terr
}

func (c *Client) logFailure(method, path string, err *TransportError) {
	telemetry.IncAPIError(err.Op, err.Status)
	c.logger.Warn("upstream request failed",
		"operation", err.Op,
		"method", method,
		"path", path,
		"kind", string(err.Kind),
		"status", err.Status,
		"err", err.Error(),
	)
}
