// Package main provides a CLI that runs one contract scenario against the
// configured service and prints what came back.
// Usage:
//
//	go run ./cmd/probe -scenario=register -output=register.json
//	REQRES_BASE_URL=http://localhost:8080/ go run ./cmd/probe -scenario=delete-user
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"apicontract/config"
	"apicontract/internal/contract"
	"apicontract/internal/core"
	"apicontract/internal/logging"
	"apicontract/internal/reqres"
	"apicontract/internal/spec"
)

// Exit codes
const (
	exitOK       = 0
	exitContract = 1
	exitUsage    = 2
)

// scenario is one call with its expected status.
type scenario struct {
	call   contract.Call
	expect spec.ResponseSpec
}

var scenarios = map[string]scenario{
	"list-users": {
		call:   contract.Get(fmt.Sprintf("api/users?page=%d", reqres.UsersPage)),
		expect: spec.OK200(),
	},
	"register": {
		call: contract.Post("api/register", reqres.Registration{
			Email:    reqres.RegisteredEmail,
			Password: reqres.RegisteredPassword,
		}),
		expect: spec.OK200(),
	},
	"register-missing-password": {
		call:   contract.Post("api/register", reqres.Registration{Email: reqres.UnregisteredEmail}),
		expect: spec.Error400(),
	},
	"delete-user": {
		call:   contract.Delete(fmt.Sprintf("api/users/%d", reqres.SampleUserID)),
		expect: spec.Unique(http.StatusNoContent),
	},
	"update-user": {
		call: contract.Put(fmt.Sprintf("api/users/%d", reqres.SampleUserID), reqres.UserUpdate{
			Name: reqres.UpdateName,
			Job:  reqres.UpdateJob,
		}),
		expect: spec.OK200(),
	},
	"resources": {
		call:   contract.Get("api/unknown"),
		expect: spec.OK200(),
	},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, nil))
}

// run executes the CLI. rt replaces the network transport when not nil.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, rt http.RoundTripper) int {
	fs := flag.NewFlagSet("probe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name := fs.String("scenario", "list-users", "Scenario to run ("+strings.Join(scenarioNames(), ", ")+")")
	output := fs.String("output", "", "Write the response body to this file")
	baseURL := fs.String("base-url", "", "Override the configured service base URL")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	sc, ok := scenarios[*name]
	if !ok {
		fmt.Fprintf(stderr, "Error: unknown scenario %q\n", *name)
		fs.Usage()
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	if *baseURL != "" {
		cfg.Service.BaseURL = *baseURL
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitUsage
		}
	}

	logger, err := logging.New(stderr, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	client := contract.NewFromConfig(cfg, rt, contract.Options{Logger: logger})
	resp, callErr := client.Do(ctx, sc.expect, sc.call)
	if resp == nil {
		logger.Error("no response", "scenario", *name, "error", callErr)
		return exitContract
	}

	fmt.Fprintf(stdout, "%s %s -> %d (%s)\n", resp.Method, resp.URL, resp.StatusCode, resp.Duration.Round(time.Millisecond))
	body := prettyJSON(resp.Body)
	if len(body) > 0 {
		fmt.Fprintf(stdout, "%s\n", body)
	}

	if *output != "" {
		if err := os.WriteFile(*output, body, 0644); err != nil {
			logger.Error("failed to write output", "path", *output, "error", err)
			return exitContract
		}
		logger.Info("response saved", "path", *output)
	}

	if callErr != nil {
		var ce *core.ContractError
		if errors.As(callErr, &ce) {
			logger.Error("contract violated", "scenario", *name, "type", string(ce.Type), "message", ce.Message)
		}
		return exitContract
	}
	return exitOK
}

// prettyJSON indents body when it is JSON and returns it unchanged otherwise.
func prettyJSON(body []byte) []byte {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return body
	}
	return buf.Bytes()
}
