package contract

import (
	"net/http"

	"apicontract/config"
	"apicontract/internal/httpclient"
	"apicontract/internal/spec"
)

// RequestSpecFromConfig builds the request spec described by cfg.
func RequestSpecFromConfig(cfg *config.Config) spec.RequestSpec {
	return spec.NewRequestSpec(cfg.Service.BaseURL).
		WithContentType(cfg.Service.ContentType).
		WithHeaders(cfg.Service.Headers)
}

// NewFromConfig creates a Client for the configured service. rt replaces the
// network transport when not nil. Body logging follows cfg unless opts
// already enables it.
func NewFromConfig(cfg *config.Config, rt http.RoundTripper, opts Options) *Client {
	clientCfg := httpclient.WithTimeout(cfg.HTTP.Timeout)
	clientCfg.Transport = rt
	opts.LogBodies = opts.LogBodies || cfg.Logging.Bodies
	return New(RequestSpecFromConfig(cfg), httpclient.NewHTTPClient(&clientCfg), opts)
}
