package contract

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apicontract/config"
	"apicontract/internal/contract/contracttest"
	"apicontract/internal/spec"
)

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Service.BaseURL = "http://mirror.local/reqres/"
	cfg.Service.Headers = map[string]string{"x-api-key": "from-config"}
	cfg.HTTP.Timeout = 7 * time.Second

	rt := contracttest.NewReplayTransport(t, map[string]contracttest.Route{
		contracttest.Key(http.MethodGet, "/reqres/api/unknown"): contracttest.JSONRoute(http.StatusOK, `{"data":[]}`),
	})
	client := NewFromConfig(cfg, rt, Options{})

	assert.Equal(t, "http://mirror.local/reqres/", client.Spec().BaseURI())
	assert.Equal(t, 7*time.Second, client.httpClient.Timeout)

	_, err := client.Do(context.Background(), spec.OK200().WithoutLogging(), Get("api/unknown"))
	require.NoError(t, err)
	assert.Equal(t, "from-config", rt.Requests()[0].Header.Get("X-Api-Key"))
}

func TestNewFromConfig_LogBodies(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Bodies = true

	client := NewFromConfig(cfg, contracttest.FailingTransport{}, Options{})
	assert.True(t, client.logBodies)
}
