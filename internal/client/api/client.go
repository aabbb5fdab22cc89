// Package api performs authorized requests against the tab service.
//
// Client attaches the session credential as a bearer token and, when the
// service answers 401 to an authenticated request, clears the session and
// reports the expiry instead of the response body. Every failure is
// returned as a netx.Outcome value; nothing is raised.
package api

import (
	"context"
	"maps"
	"net/http"
	"slices"

	"github.com/dmitrijs2005/tabclient/internal/common"
	"github.com/dmitrijs2005/tabclient/internal/logging"
	"github.com/dmitrijs2005/tabclient/internal/netx"
)

// Credentials is the part of session.Store the client needs.
type Credentials interface {
	Token() string
	Logout(ctx context.Context)
}

// InvalidationRecorder is notified when a 401 clears the session.
type InvalidationRecorder interface {
	SessionInvalidated()
}

type Client struct {
	t             *netx.Transport
	creds         Credentials
	logger        logging.Logger
	invalidations InvalidationRecorder
}

type Option func(*Client)

func WithLogger(l logging.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func WithInvalidationRecorder(r InvalidationRecorder) Option {
	return func(c *Client) { c.invalidations = r }
}

func New(t *netx.Transport, creds Credentials, opts ...Option) *Client {
	c := &Client{t: t, creds: creds, logger: logging.Nop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute sends req. When req requires auth and a credential is held, it is
// attached as a bearer token; a missing credential is not an error.
func (c *Client) Execute(ctx context.Context, req netx.Request) netx.Outcome {
	headers := make(map[string]string, len(req.Headers)+1)
	for _, k := range slices.Sorted(maps.Keys(req.Headers)) {
		headers[http.CanonicalHeaderKey(k)] = req.Headers[k]
	}
	if req.RequiresAuth() {
		if token := c.creds.Token(); token != "" {
			headers[common.AuthorizationHeaderName] = common.BearerPrefix + token
		}
	}
	req.Headers = headers

	return c.t.Do(ctx, req, c.expireOnUnauthorized)
}

// expireOnUnauthorized takes over 401 responses to authenticated requests.
func (c *Client) expireOnUnauthorized(ctx context.Context, req netx.Request, resp *http.Response) (netx.Outcome, bool) {
	if resp.StatusCode != http.StatusUnauthorized || !req.RequiresAuth() {
		return netx.Outcome{}, false
	}

	c.logger.Warn(ctx, "session expired", "endpoint", req.Endpoint)
	if c.invalidations != nil {
		c.invalidations.SessionInvalidated()
	}
	c.creds.Logout(ctx)

	return netx.Outcome{
		Status: resp.StatusCode,
		Error:  netx.SessionExpiredMessage,
		Kind:   netx.KindSessionExpired,
	}, true
}

// RequestOption adjusts a request built by Get, Post, Put or Del.
type RequestOption func(*netx.Request)

// WithHeaders adds caller headers.
func WithHeaders(h map[string]string) RequestOption {
	return func(r *netx.Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string, len(h))
		}
		maps.Copy(r.Headers, h)
	}
}

// WithoutAuth sends the request without a credential and exempts it from
// session invalidation.
func WithoutAuth() RequestOption {
	return func(r *netx.Request) { r.NoAuth = true }
}

// WithBody sets a body on requests whose helper takes none, such as Del.
func WithBody(body any) RequestOption {
	return func(r *netx.Request) { r.Body = body }
}

func (c *Client) send(ctx context.Context, method, endpoint string, body any, opts []RequestOption) netx.Outcome {
	req := netx.Request{Endpoint: endpoint, Method: method, Body: body}
	for _, opt := range opts {
		opt(&req)
	}
	req.Method = method
	return c.Execute(ctx, req)
}

func (c *Client) Get(ctx context.Context, endpoint string, opts ...RequestOption) netx.Outcome {
	return c.send(ctx, http.MethodGet, endpoint, nil, opts)
}

func (c *Client) Post(ctx context.Context, endpoint string, body any, opts ...RequestOption) netx.Outcome {
	return c.send(ctx, http.MethodPost, endpoint, body, opts)
}

func (c *Client) Put(ctx context.Context, endpoint string, body any, opts ...RequestOption) netx.Outcome {
	return c.send(ctx, http.MethodPut, endpoint, body, opts)
}

func (c *Client) Del(ctx context.Context, endpoint string, opts ...RequestOption) netx.Outcome {
	return c.send(ctx, http.MethodDelete, endpoint, nil, opts)
}
