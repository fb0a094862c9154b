// Package transport is the single HTTP channel to the commerce backend. It carries the
// session cookies and runs the 401 refresh-and-replay protocol.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultRefreshPath = "/auth/refresh"
	defaultLoginPath   = "/login"
	maxResponseBytes   = 8 << 20
	refreshKey         = "refresh"
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	RefreshPath string
	LoginPath   string

	// RequestsPerSecond caps outgoing requests when positive.
	RequestsPerSecond float64
	Burst             int

	Navigator  service.Navigator
	Logger     *slog.Logger
	Metrics    *Metrics
	HTTPClient *http.Client
}

// Client sends requests to the backend with the session's cookies attached.
type Client struct {
	baseURL     string
	refreshPath string
	loginPath   string
	timeout     time.Duration

	httpClient *http.Client
	navigator  service.Navigator
	limiter    *rate.Limiter
	metrics    *Metrics
	logger     *slog.Logger

	refreshGroup singleflight.Group
}

// Params holds the dependencies for New.
type Params struct {
	fx.In

	Config     *config.Config
	Logger     *slog.Logger
	Navigator  service.Navigator
	Registerer prometheus.Registerer `optional:"true"`
}

// New builds the Client from configuration.
func New(params Params) (*Client, error) {
	cfg := params.Config.API

	return NewClient(Options{
		BaseURL:           cfg.BaseURL,
		Timeout:           cfg.Timeout,
		RefreshPath:       cfg.RefreshPath,
		LoginPath:         params.Config.Navigation.LoginPath,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Burst:             cfg.Burst,
		Navigator:         params.Navigator,
		Logger:            params.Logger,
		Metrics:           NewMetrics(params.Registerer),
	})
}

// NewClient creates a Client. A cookie jar is attached unless opts.HTTPClient already has one.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.BaseURL) == "" {
		return nil, errors.New("transport: base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, errors.Wrap(err, "transport: invalid base URL")
	}

	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		refreshPath: opts.RefreshPath,
		loginPath:   opts.LoginPath,
		timeout:     opts.Timeout,
		navigator:   opts.Navigator,
		metrics:     opts.Metrics,
		logger:      opts.Logger,
		httpClient:  opts.HTTPClient,
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.refreshPath == "" {
		c.refreshPath = defaultRefreshPath
	}
	if c.loginPath == "" {
		c.loginPath = defaultLoginPath
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if opts.RequestsPerSecond > 0 {
		burst := max(opts.Burst, 1)
		c.limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	if c.httpClient.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, errors.Wrap(err, "transport: failed to create cookie jar")
		}
		c.httpClient.Jar = jar
	}

	return c, nil
}

// Jar exposes the session's cookie store.
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

// BaseURL returns the backend root all request paths are relative to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get sends a GET and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post sends body as JSON and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put sends body as JSON and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Patch sends body as JSON and decodes the response into out.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body}, out)
}

// Delete sends a DELETE and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path}, out)
}

// Do sends req and decodes a 2xx response into out. A 401 on a request that allows it
// triggers one shared refresh and exactly one replay of the identical request. When the
// refresh fails the caller gets the original 401 and the navigator is sent to login.
func (c *Client) Do(ctx context.Context, req *Request, out any) error {
	ctx, requestID := deliverycontext.EnsureRequestID(ctx)
	logger := c.logger.With(
		slog.String("request_id", requestID),
		slog.String("method", req.Method),
		slog.String("path", req.Path),
	)

	body, err := req.encode()
	if err != nil {
		return err
	}

	attempt := 1
	status, data, err := c.send(ctx, req, body, requestID)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && !req.SkipRefresh {
		original := domainerrors.NewAPIError(status, req.Method, req.Path, data)

		if refreshErr := c.refresh(ctx); refreshErr != nil {
			if ctx.Err() != nil {
				return errors.WithStack(ctx.Err())
			}

			logger.Warn("session refresh failed", slog.Any("error", refreshErr))
			if !req.SuppressRedirect && c.navigator != nil {
				c.navigator.HardNavigate(ctx, c.loginPath)
			}

			return errors.WithStack(original)
		}

		attempt++
		c.metrics.observeReplay()
		logger.Debug("replaying request after refresh", slog.Int("attempt", attempt))

		status, data, err = c.send(ctx, req, body, requestID)
		if err != nil {
			return err
		}
	}

	if status < 200 || status >= 300 {
		apiErr := domainerrors.NewAPIError(status, req.Method, req.Path, data)
		logger.Debug("backend returned an error",
			slog.Int("status", status),
			slog.Int("attempt", attempt),
		)

		return errors.WithStack(apiErr)
	}

	return decode(data, out)
}

// Refresh asks the backend to rotate the session, joining a refresh already in flight.
func (c *Client) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

// refresh runs at most one refresh call at a time. The shared call is detached from any
// single caller's cancellation; a caller whose context ends stops waiting for it.
func (c *Client) refresh(ctx context.Context) error {
	ch := c.refreshGroup.DoChan(refreshKey, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()

		req := &Request{Method: http.MethodPost, Path: c.refreshPath, SkipRefresh: true}
		status, data, err := c.send(rctx, req, encodedBody{}, deliverycontext.GetRequestIDFromContext(ctx))
		if err == nil && (status < 200 || status >= 300) {
			err = errors.WithStack(domainerrors.NewAPIError(status, req.Method, req.Path, data))
		}
		c.metrics.observeRefresh(err)

		return nil, err
	})

	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case res := <-ch:
		return res.Err
	}
}

// send performs one round trip. A nil error means a response was received, whatever its status.
func (c *Client) send(ctx context.Context, req *Request, body encodedBody, requestID string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &domainerrors.NetworkError{Method: req.Method, Path: req.Path, Err: err}
		}
	}

	var reader io.Reader
	if body.data != nil {
		reader = bytes.NewReader(body.data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.url(c.baseURL), reader)
	if err != nil {
		return 0, nil, errors.WithStack(err)
	}

	for k, vs := range req.Header {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	if body.contentType != "" {
		httpReq.Header.Set(contentTypeHeader, body.contentType)
	}
	httpReq.Header.Set("Accept", "application/json, text/plain, */*")
	if requestID != "" {
		httpReq.Header.Set(deliverycontext.HeaderXRequestID, requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.observeRequest(req.Method, 0, time.Since(start))

		return 0, nil, &domainerrors.NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	c.metrics.observeRequest(req.Method, resp.StatusCode, time.Since(start))
	if err != nil {
		return 0, nil, &domainerrors.NetworkError{Method: req.Method, Path: req.Path, Err: err}
	}

	return resp.StatusCode, data, nil
}

func decode(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if s, ok := out.(*string); ok {
		if json.Unmarshal(data, s) != nil {
			*s = string(data)
		}

		return nil
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return nil
}
