// Package spec builds the request and response expectations a contract call
// is made against. Specs are immutable values; the With* methods return
// modified copies.
package spec

import (
	"fmt"
	"maps"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"apicontract/internal/core"
)

// MediaTypeJSON is the default request and response content type.
const MediaTypeJSON = "application/json"

// RequestSpec describes where and how requests are sent.
type RequestSpec struct {
	baseURI     string
	contentType string
	accept      string
	headers     map[string]string
}

// NewRequestSpec returns a JSON request spec rooted at baseURL.
func NewRequestSpec(baseURL string) RequestSpec {
	return RequestSpec{
		baseURI:     baseURL,
		contentType: MediaTypeJSON,
		accept:      MediaTypeJSON,
	}
}

func (s RequestSpec) BaseURI() string     { return s.baseURI }
func (s RequestSpec) ContentType() string { return s.contentType }
func (s RequestSpec) Accept() string      { return s.accept }

// Headers returns a copy of the extra headers sent with every request.
func (s RequestSpec) Headers() map[string]string {
	return maps.Clone(s.headers)
}

// WithHeader returns a copy of s that also sends the given header.
func (s RequestSpec) WithHeader(key, value string) RequestSpec {
	h := make(map[string]string, len(s.headers)+1)
	maps.Copy(h, s.headers)
	h[http.CanonicalHeaderKey(key)] = value
	s.headers = h
	return s
}

// WithHeaders is WithHeader applied to every entry of headers.
func (s RequestSpec) WithHeaders(headers map[string]string) RequestSpec {
	for k, v := range headers {
		s = s.WithHeader(k, v)
	}
	return s
}

// WithContentType returns a copy of s sending bodies as contentType.
func (s RequestSpec) WithContentType(contentType string) RequestSpec {
	s.contentType = contentType
	return s
}

// WithAccept returns a copy of s with a different Accept header.
func (s RequestSpec) WithAccept(accept string) RequestSpec {
	s.accept = accept
	return s
}

// URL resolves path, which may carry a query string, against the base URI.
// A leading slash does not discard a path prefix on the base.
func (s RequestSpec) URL(path string) (string, error) {
	base, err := url.Parse(s.baseURI)
	if err != nil {
		return "", core.NewInvalidRequestError(fmt.Sprintf("invalid base URI %q", s.baseURI), err)
	}
	if base.Scheme == "" || base.Host == "" {
		return "", core.NewInvalidRequestError(fmt.Sprintf("base URI %q must be absolute", s.baseURI), nil)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return "", core.NewInvalidRequestError(fmt.Sprintf("invalid path %q", path), err)
	}
	if ref.IsAbs() {
		return "", core.NewInvalidRequestError(fmt.Sprintf("path %q must be relative to the base URI", path), nil)
	}
	return base.ResolveReference(ref).String(), nil
}

// ResponseSpec describes what a response must look like before any field
// level assertion runs.
type ResponseSpec struct {
	status      int
	logging     bool
	contentType string
}

// NewResponseSpec expects the given status code with logging on.
func NewResponseSpec(expectedStatus int) ResponseSpec {
	return ResponseSpec{
		status:  expectedStatus,
		logging: true,
	}
}

// OK200 expects 200 OK.
func OK200() ResponseSpec { return NewResponseSpec(http.StatusOK) }

// Error400 expects 400 Bad Request.
func Error400() ResponseSpec { return NewResponseSpec(http.StatusBadRequest) }

// Unique expects an arbitrary status code.
func Unique(status int) ResponseSpec { return NewResponseSpec(status) }

func (s ResponseSpec) ExpectedStatus() int { return s.status }
func (s ResponseSpec) Logging() bool       { return s.logging }
func (s ResponseSpec) ContentType() string { return s.contentType }

// WithoutLogging returns a copy of s that does not log the exchange.
func (s ResponseSpec) WithoutLogging() ResponseSpec {
	s.logging = false
	return s
}

// WithContentType returns a copy of s that also requires the response media
// type to match. Parameters such as charset are ignored.
func (s ResponseSpec) WithContentType(contentType string) ResponseSpec {
	s.contentType = contentType
	return s
}

// Validate checks status, media type and body presence.
func (s ResponseSpec) Validate(status int, contentType string, body []byte) error {
	if status != s.status {
		return core.NewStatusMismatchError(s.status, status, body)
	}

	if status == http.StatusNoContent || status == http.StatusNotModified {
		if len(body) > 0 {
			return core.NewUnexpectedBodyError(status, body)
		}
		return nil
	}

	if s.contentType != "" && !sameMediaType(s.contentType, contentType) {
		return core.NewContentTypeError(s.contentType, contentType, status)
	}
	return nil
}

func sameMediaType(expected, actual string) bool {
	e, _, err := mime.ParseMediaType(expected)
	if err != nil {
		return strings.EqualFold(expected, actual)
	}
	a, _, err := mime.ParseMediaType(actual)
	if err != nil {
		return false
	}
	return e == a
}

// Specification pairs the request and response side of one scenario.
type Specification struct {
	Request  RequestSpec
	Response ResponseSpec
}

// Install bundles req and resp for a single test.
func Install(req RequestSpec, resp ResponseSpec) Specification {
	return Specification{Request: req, Response: resp}
}
