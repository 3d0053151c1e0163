package httpclient

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient_Defaults(t *testing.T) {
	client := NewHTTPClient(nil)

	assert.Equal(t, 30*time.Second, client.Timeout)
	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.DisableCompression)
	assert.Equal(t, 10*time.Second, transport.TLSHandshakeTimeout)
}

func TestWithTimeout(t *testing.T) {
	tests := []struct {
		name           string
		timeout        time.Duration
		wantTimeout    time.Duration
		wantHeaderWait time.Duration
	}{
		{name: "zero keeps default", timeout: 0, wantTimeout: 30 * time.Second, wantHeaderWait: 30 * time.Second},
		{name: "shorter caps header wait", timeout: 5 * time.Second, wantTimeout: 5 * time.Second, wantHeaderWait: 5 * time.Second},
		{name: "longer leaves header wait", timeout: time.Minute, wantTimeout: time.Minute, wantHeaderWait: 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := WithTimeout(tt.timeout)
			assert.Equal(t, tt.wantTimeout, cfg.Timeout)
			assert.Equal(t, tt.wantHeaderWait, cfg.ResponseHeaderTimeout)
		})
	}
}

type stubTransport struct{}

func (stubTransport) RoundTrip(*http.Request) (*http.Response, error) { return nil, nil }

func TestNewHTTPClient_CustomTransport(t *testing.T) {
	cfg := WithTimeout(3 * time.Second)
	cfg.Transport = stubTransport{}

	client := NewHTTPClient(&cfg)
	assert.Equal(t, stubTransport{}, client.Transport)
	assert.Equal(t, 3*time.Second, client.Timeout)
}
