// Package contract runs single HTTP calls against a service under test and
// checks the responses against a spec.ResponseSpec.
//
// A call is one request/response cycle: build the request from the
// RequestSpec, send it, decode the body, validate status and media type, log
// the exchange. Field level checks happen afterwards on the returned
// Response, either through typed decoding (Decode) or raw path lookup (Path).
package contract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"apicontract/internal/core"
	"apicontract/internal/spec"
)

// RequestIDHeader carries the per-call correlation id.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxResponseBytes limits how much of a response, raw or decoded, is
// read into memory.
const DefaultMaxResponseBytes = 4 * 1024 * 1024

// Options configures a Client. The zero value is usable.
type Options struct {
	// Logger receives one line per logged exchange; slog.Default() when nil.
	Logger *slog.Logger
	// LogBodies adds the decoded response body to log lines.
	LogBodies bool
	Hooks     Hooks
	// MaxResponseBytes caps the raw and the decoded body; larger responses
	// fail instead of being cut. DefaultMaxResponseBytes when zero.
	MaxResponseBytes int64
}

// Client sends contract calls built from a RequestSpec.
type Client struct {
	spec       spec.RequestSpec
	httpClient *http.Client
	logger     *slog.Logger
	logBodies  bool
	hooks      Hooks
	maxBody    int64
}

// New creates a Client. A nil httpClient uses http.DefaultClient.
func New(req spec.RequestSpec, httpClient *http.Client, opts Options) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	maxBody := opts.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxResponseBytes
	}
	return &Client{
		spec:       req,
		httpClient: httpClient,
		logger:     logger,
		logBodies:  opts.LogBodies,
		hooks:      opts.Hooks,
		maxBody:    maxBody,
	}
}

// Spec returns the request spec the client was built with.
func (c *Client) Spec() spec.RequestSpec {
	return c.spec
}

// Call is one HTTP operation.
type Call struct {
	Method string
	// Path is resolved against the spec base URI and may carry a query.
	Path string
	// Body is JSON-marshaled when non-nil.
	Body    any
	Headers map[string]string
}

// Get builds a GET call.
func Get(path string) Call { return Call{Method: http.MethodGet, Path: path} }

// Post builds a POST call with a JSON body.
func Post(path string, body any) Call { return Call{Method: http.MethodPost, Path: path, Body: body} }

// Put builds a PUT call with a JSON body.
func Put(path string, body any) Call { return Call{Method: http.MethodPut, Path: path, Body: body} }

// Delete builds a DELETE call.
func Delete(path string) Call { return Call{Method: http.MethodDelete, Path: path} }

// Do performs call and validates the response against expect.
//
// When the service answered, the Response is returned even if validation
// failed so callers can inspect what came back. The error is then a
// *core.ContractError naming the endpoint.
func (c *Client) Do(ctx context.Context, expect spec.ResponseSpec, call Call) (*Response, error) {
	httpReq, err := c.buildRequest(ctx, call)
	if err != nil {
		return nil, err
	}

	info := CallInfo{
		Method:    httpReq.Method,
		URL:       httpReq.URL.String(),
		RequestID: httpReq.Header.Get(RequestIDHeader),
	}
	if c.hooks.OnRequestStart != nil {
		if hookCtx := c.hooks.OnRequestStart(ctx, info); hookCtx != nil {
			ctx = hookCtx
			httpReq = httpReq.WithContext(ctx)
		}
	}

	start := time.Now()
	resp, err := c.send(httpReq)
	duration := time.Since(start)

	result := CallResult{CallInfo: info, Duration: duration}
	if resp != nil {
		resp.Duration = duration
		resp.RequestID = info.RequestID
		result.StatusCode = resp.StatusCode
		if err == nil {
			err = expect.Validate(resp.StatusCode, resp.Header.Get("Content-Type"), resp.Body)
		}
	}
	if ce, ok := err.(*core.ContractError); ok {
		ce.WithEndpoint(info.Method, info.URL)
	}
	result.Err = err

	if c.hooks.OnRequestEnd != nil {
		c.hooks.OnRequestEnd(ctx, result)
	}
	if expect.Logging() || err != nil {
		c.logExchange(ctx, expect, result, resp)
	}

	return resp, err
}

func (c *Client) buildRequest(ctx context.Context, call Call) (*http.Request, error) {
	url, err := c.spec.URL(call.Path)
	if err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if call.Body != nil {
		bodyBytes, err := json.Marshal(call.Body)
		if err != nil {
			return nil, core.NewInvalidRequestError("failed to marshal request body", err).WithEndpoint(call.Method, url)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	httpReq, err := http.NewRequestWithContext(ctx, call.Method, url, bodyReader)
	if err != nil {
		return nil, core.NewInvalidRequestError("failed to create request", err).WithEndpoint(call.Method, url)
	}

	if call.Body != nil {
		httpReq.Header.Set("Content-Type", c.spec.ContentType())
	}
	if accept := c.spec.Accept(); accept != "" {
		httpReq.Header.Set("Accept", accept)
	}
	httpReq.Header.Set("Accept-Encoding", acceptEncoding)
	httpReq.Header.Set(RequestIDHeader, uuid.NewString())

	for key, value := range c.spec.Headers() {
		httpReq.Header.Set(key, value)
	}
	for key, value := range call.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// send executes a single request without retries and reads the decoded body.
func (c *Client) send(httpReq *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, core.NewTransportError("failed to send request: "+err.Error(), err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := readLimited(resp.Body, c.maxBody)
	out := &Response{
		Method:     httpReq.Method,
		URL:        httpReq.URL.String(),
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}
	if errors.Is(err, errBodyTooLarge) {
		return out, core.NewMalformedContractError(fmt.Sprintf("response body exceeds %d bytes", c.maxBody), err)
	}
	if err != nil {
		return nil, core.NewTransportError("failed to read response: "+err.Error(), err)
	}

	encoding := resp.Header.Get("Content-Encoding")
	body, err := decompressBody(raw, encoding, c.maxBody)
	if errors.Is(err, errBodyTooLarge) {
		return out, core.NewMalformedContractError(fmt.Sprintf("decoded %s body exceeds %d bytes", encoding, c.maxBody), err)
	}
	if err != nil {
		return out, core.NewMalformedContractError("failed to decode "+encoding+" body", err)
	}
	out.Body = body
	return out, nil
}

func (c *Client) logExchange(ctx context.Context, expect spec.ResponseSpec, result CallResult, resp *Response) {
	attrs := []slog.Attr{
		slog.String("method", result.Method),
		slog.String("url", result.URL),
		slog.String("request_id", result.RequestID),
		slog.Int("expected_status", expect.ExpectedStatus()),
		slog.Duration("duration", result.Duration),
	}
	if resp != nil {
		attrs = append(attrs,
			slog.Int("status", resp.StatusCode),
			slog.Int("body_bytes", len(resp.Body)),
			slog.String("body_hash", strconv.FormatUint(xxhash.Sum64(resp.Body), 16)),
		)
		if c.logBodies && len(resp.Body) > 0 {
			attrs = append(attrs, slog.String("body", string(resp.Body)))
		}
	}

	if result.Err != nil {
		attrs = append(attrs, slog.String("error", result.Err.Error()))
		c.logger.LogAttrs(ctx, slog.LevelError, "contract call failed", attrs...)
		return
	}
	c.logger.LogAttrs(ctx, slog.LevelInfo, "contract call", attrs...)
	if resp != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "response headers",
			slog.String("request_id", result.RequestID),
			slog.Any("headers", resp.Header),
		)
	}
}
