package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apicontract/internal/contract/contracttest"
)

// isolate keeps config.Load away from files and variables of the caller.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, k := range []string{"REQRES_CONFIG", "REQRES_BASE_URL", "REQRES_LOG_LEVEL", "REQRES_LOG_BODIES", "REQRES_TIMEOUT"} {
		t.Setenv(k, "")
	}
	return dir
}

func TestRun_Scenarios(t *testing.T) {
	tests := []struct {
		scenario string
		key      string
		route    contracttest.Route
		wantCode int
		wantOut  string
	}{
		{
			scenario: "register",
			key:      contracttest.Key(http.MethodPost, "/api/register"),
			route:    contracttest.JSONRoute(http.StatusOK, `{"id":4,"token":"QpwL5tke4Pnpja7X4"}`),
			wantCode: exitOK,
			wantOut:  `"token": "QpwL5tke4Pnpja7X4"`,
		},
		{
			scenario: "register-missing-password",
			key:      contracttest.Key(http.MethodPost, "/api/register"),
			route:    contracttest.JSONRoute(http.StatusBadRequest, `{"error":"Missing password"}`),
			wantCode: exitOK,
			wantOut:  "-> 400",
		},
		{
			scenario: "delete-user",
			key:      contracttest.Key(http.MethodDelete, "/api/users/2"),
			route:    contracttest.Route{StatusCode: http.StatusNoContent},
			wantCode: exitOK,
			wantOut:  "DELETE https://reqres.in/api/users/2 -> 204",
		},
		{
			scenario: "resources",
			key:      contracttest.Key(http.MethodGet, "/api/unknown"),
			route:    contracttest.JSONRoute(http.StatusInternalServerError, `{}`),
			wantCode: exitContract,
			wantOut:  "-> 500",
		},
	}

	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			isolate(t)
			rt := contracttest.NewReplayTransport(t, map[string]contracttest.Route{tt.key: tt.route})

			var stdout, stderr bytes.Buffer
			code := run(context.Background(), []string{"-scenario=" + tt.scenario}, &stdout, &stderr, rt)

			assert.Equal(t, tt.wantCode, code, stderr.String())
			assert.Contains(t, stdout.String(), tt.wantOut)
			require.Len(t, rt.Requests(), 1)
		})
	}
}

func TestRun_WritesOutput(t *testing.T) {
	dir := isolate(t)
	rt := contracttest.NewReplayTransport(t, map[string]contracttest.Route{
		contracttest.Key(http.MethodGet, "/mirror/api/users?page=2"): contracttest.JSONRoute(http.StatusOK, `{"page":2,"data":[]}`),
	})
	out := filepath.Join(dir, "users.json")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-scenario=list-users", "-output=" + out, "-base-url=http://localhost:8080/mirror/"}, &stdout, &stderr, rt)
	require.Equal(t, exitOK, code, stderr.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"page":2,"data":[]}`, string(data))
}

func TestRun_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "unknown scenario", args: []string{"-scenario=login"}},
		{name: "unknown flag", args: []string{"-verbose"}},
		{name: "relative base url", args: []string{"-base-url=reqres.in"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			var stdout, stderr bytes.Buffer
			code := run(context.Background(), tt.args, &stdout, &stderr, contracttest.FailingTransport{Err: errors.New("unreachable")})
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout.String())
		})
	}
}

func TestScenarioNames(t *testing.T) {
	assert.Equal(t, []string{
		"delete-user", "list-users", "register", "register-missing-password", "resources", "update-user",
	}, scenarioNames())
}
