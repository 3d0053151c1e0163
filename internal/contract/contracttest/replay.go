// Package contracttest provides replay transports and assertion recorders
// for testing code built on the contract harness without a network.
package contracttest

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// Route is a canned response.
type Route struct {
	StatusCode      int
	ContentType     string
	ContentEncoding string
	Body            []byte
}

// JSONRoute answers with status and a JSON body.
func JSONRoute(status int, body string) Route {
	return Route{
		StatusCode:  status,
		ContentType: "application/json; charset=utf-8",
		Body:        []byte(body),
	}
}

// Key builds the route table key for a method and request URI
// ("/path?query").
func Key(method, requestURI string) string {
	return method + " " + requestURI
}

// Request is a request seen by ReplayTransport, with its body read.
type Request struct {
	Method string
	URI    string
	Header http.Header
	Body   []byte
}

// ReplayTransport answers requests from a fixed route table. Unknown routes
// get a 404 naming the missing key.
type ReplayTransport struct {
	t      *testing.T
	routes map[string]Route

	mu       sync.Mutex
	requests []Request
}

// NewReplayTransport returns a transport serving routes.
func NewReplayTransport(t *testing.T, routes map[string]Route) *ReplayTransport {
	t.Helper()
	return &ReplayTransport{t: t, routes: routes}
}

func (rt *ReplayTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	rt.t.Helper()

	var body []byte
	if req.Body != nil {
		defer func() {
			_ = req.Body.Close()
		}()
		var err error
		body, err = io.ReadAll(req.Body)
		require.NoError(rt.t, err)
	}
	rt.mu.Lock()
	rt.requests = append(rt.requests, Request{
		Method: req.Method,
		URI:    req.URL.RequestURI(),
		Header: req.Header.Clone(),
		Body:   body,
	})
	rt.mu.Unlock()

	key := Key(req.Method, req.URL.RequestURI())
	route, ok := rt.routes[key]
	if !ok {
		notFoundBody := []byte(fmt.Sprintf(`{"error":"missing replay route: %s"}`, key))
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Header: http.Header{
				"Content-Type": []string{"application/json"},
			},
			Body:    io.NopCloser(bytes.NewReader(notFoundBody)),
			Request: req,
		}, nil
	}

	statusCode := route.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	header := http.Header{}
	if route.ContentType != "" {
		header.Set("Content-Type", route.ContentType)
	}
	if route.ContentEncoding != "" {
		header.Set("Content-Encoding", route.ContentEncoding)
	}

	return &http.Response{
		StatusCode: statusCode,
		Status:     fmt.Sprintf("%d %s", statusCode, http.StatusText(statusCode)),
		Header:     header,
		Body:       io.NopCloser(bytes.NewReader(route.Body)),
		Request:    req,
	}, nil
}

// Requests returns the requests seen so far.
func (rt *ReplayTransport) Requests() []Request {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return append([]Request(nil), rt.requests...)
}

// FailingTransport never produces a response.
type FailingTransport struct {
	Err error
}

func (ft FailingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, ft.Err
}

// RecordingT captures assertion failures instead of failing the test.
type RecordingT struct {
	Failures []string
}

func (r *RecordingT) Errorf(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Failed reports whether any assertion failed.
func (r *RecordingT) Failed() bool {
	return len(r.Failures) > 0
}
