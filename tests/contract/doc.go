// Package contract holds live contract tests for the reqres.in demo API.
// Each test builds its own specs, performs exactly one HTTP call and asserts
// on the response, either through typed records or raw JSON paths.
//
// Run with: go test -tags=contract ./tests/contract/...
//
// The target and tolerances come from config (REQRES_BASE_URL,
// REQRES_TIMESTAMP_TOLERANCE, ...). A config.yaml or .env at the repository
// root is picked up even though go test runs from this directory; a relative
// REQRES_CONFIG is resolved against this directory.
package contract
