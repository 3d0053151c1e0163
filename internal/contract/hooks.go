package contract

import (
	"context"
	"time"
)

// CallInfo identifies a call before it is sent.
type CallInfo struct {
	Method    string
	URL       string
	RequestID string
}

// CallResult describes a finished call. StatusCode is zero when the service
// never answered.
type CallResult struct {
	CallInfo
	StatusCode int
	Duration   time.Duration
	Err        error
}

// Hooks observe calls. Both fields are optional.
type Hooks struct {
	// OnRequestStart may return a derived context that is used for the
	// request and passed to OnRequestEnd.
	OnRequestStart func(ctx context.Context, info CallInfo) context.Context
	OnRequestEnd   func(ctx context.Context, result CallResult)
}
