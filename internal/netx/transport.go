package netx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/tabclient/internal/common"
	"github.com/dmitrijs2005/tabclient/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const defaultUserAgent = "tabclient/1.0"

// Recorder observes completed requests. Status 0 marks transport failures.
type Recorder interface {
	ObserveRequest(method string, status int, elapsed time.Duration)
}

// ResponseHook may take over a response before its body is parsed. When it
// returns handled == true its Outcome is used and the body is discarded.
type ResponseHook func(ctx context.Context, req Request, resp *http.Response) (out Outcome, handled bool)

// Transport performs requests against one base address.
type Transport struct {
	baseURL   string
	client    *http.Client
	limiter   *rate.Limiter
	logger    logging.Logger
	recorder  Recorder
	userAgent string
}

type Option func(*Transport)

// WithHTTPClient replaces the default client (which has no timeout). A nil
// client is ignored.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Transport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(t *Transport) {
		if d > 0 {
			c := *t.client
			c.Timeout = d
			t.client = &c
		}
	}
}

// WithRateLimit paces outgoing requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(t *Transport) {
		if rps <= 0 {
			t.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		t.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(t *Transport) { t.logger = l }
}

func WithRecorder(r Recorder) Option {
	return func(t *Transport) { t.recorder = r }
}

func WithUserAgent(ua string) Option {
	return func(t *Transport) { t.userAgent = ua }
}

// NewTransport validates baseURL and applies opts.
func NewTransport(baseURL string, opts ...Option) (*Transport, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}

	t := &Transport{
		baseURL:   normalized,
		client:    &http.Client{},
		logger:    logging.Nop(),
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// NormalizeBaseURL trims whitespace and trailing slashes and requires an
// absolute http(s) address.
func NormalizeBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", common.ErrInvalidBaseURL)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", common.ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", common.ErrInvalidBaseURL)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// BaseURL returns the normalized base address.
func (t *Transport) BaseURL() string {
	return t.baseURL
}

// URL joins the base address and endpoint, adding a missing leading "/".
func (t *Transport) URL(endpoint string) string {
	if !strings.HasPrefix(endpoint, "/") {
		endpoint = "/" + endpoint
	}
	return t.baseURL + endpoint
}

// Do executes req. It never returns an error value: every failure is
// described by the Outcome.
func (t *Transport) Do(ctx context.Context, req Request, hooks ...ResponseHook) Outcome {
	start := time.Now()
	method := req.method()

	out := t.do(ctx, req, method, hooks)

	if t.recorder != nil {
		t.recorder.ObserveRequest(method, out.Status, time.Since(start))
	}
	return out
}

func (t *Transport) do(ctx context.Context, req Request, method string, hooks []ResponseHook) Outcome {
	target := t.URL(req.Endpoint)

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return transportFailure(err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return transportFailure(err.Error())
	}

	httpReq.Header.Set("Accept", common.JSONContentType)
	httpReq.Header.Set("User-Agent", t.userAgent)
	httpReq.Header.Set(common.RequestIDHeaderName, uuid.NewString())
	for _, k := range slices.Sorted(maps.Keys(req.Headers)) {
		httpReq.Header.Set(k, req.Headers[k])
	}
	if contentType != "" {
		httpReq.Header.Set(common.ContentTypeHeaderName, contentType)
	}
	requestID := httpReq.Header.Get(common.RequestIDHeaderName)

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx); err != nil {
			t.logger.Warn(ctx, "request not sent", "method", method, "url", target, "request_id", requestID, "error", err)
			return transportFailure(err.Error())
		}
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		t.logger.Warn(ctx, "transport failure", "method", method, "url", target, "request_id", requestID, "error", err)
		return transportFailure(err.Error())
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	t.logger.Debug(ctx, "http response", "method", method, "url", target, "request_id", requestID, "status", resp.StatusCode)

	for _, hook := range hooks {
		if out, handled := hook(ctx, req, resp); handled {
			return out
		}
	}

	return readOutcome(resp)
}

// encodeBody passes forms through and JSON-encodes everything else.
func encodeBody(v any) (io.Reader, string, error) {
	switch b := v.(type) {
	case nil:
		return nil, "", nil
	case *Form:
		if b == nil {
			return nil, "", nil
		}
		return bytes.NewReader(b.Body), b.ContentType, nil
	case Form:
		return bytes.NewReader(b.Body), b.ContentType, nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), common.JSONContentType, nil
}

func isJSON(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "application/json")
}

func readOutcome(resp *http.Response) Outcome {
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	out := Outcome{Status: resp.StatusCode, OK: ok}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(fmt.Sprintf("read response body: %v", err))
	}

	if isJSON(resp.Header.Get(common.ContentTypeHeaderName)) && len(data) > 0 {
		if !json.Valid(data) {
			return Outcome{
				Status: resp.StatusCode,
				Error:  "invalid JSON in response",
				Kind:   KindMalformed,
			}
		}
		if ok {
			out.Data = json.RawMessage(data)
			return out
		}
		out.Kind = KindRejected
		out.Error = serverError(data)
		if out.Error == "" {
			out.Error = GenericErrorMessage
		}
		return out
	}

	if ok {
		out.Raw = data
		return out
	}

	out.Kind = KindRejected
	out.Error = http.StatusText(resp.StatusCode)
	if out.Error == "" {
		out.Error = GenericErrorMessage
	}
	return out
}

// serverError extracts {"error": "..."} from a failure body.
func serverError(data []byte) string {
	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err != nil || len(payload.Error) == 0 {
		return ""
	}
	var msg string
	if err := json.Unmarshal(payload.Error, &msg); err != nil {
		return ""
	}
	return msg
}
