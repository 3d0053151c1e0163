package contract

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/stretchr/testify/assert"

	"apicontract/internal/core"
)

type tHelper interface {
	Helper()
}

func helper(t assert.TestingT) {
	if h, ok := t.(tHelper); ok {
		h.Helper()
	}
}

// AssertEach asserts that pred holds for every item and reports the indices
// that failed.
func AssertEach[T any](t assert.TestingT, items []T, pred func(T) bool, msgAndArgs ...any) bool {
	helper(t)

	var failed []string
	for i, it := range items {
		if !pred(it) {
			failed = append(failed, fmt.Sprintf("[%d] %+v", i, it))
		}
	}
	if len(failed) > 0 {
		return assert.Fail(t, fmt.Sprintf("%d of %d items failed:\n\t%s",
			len(failed), len(items), strings.Join(failed, "\n\t")), msgAndArgs...)
	}
	return true
}

// AssertAllHaveSuffix asserts every value ends with suffix.
func AssertAllHaveSuffix(t assert.TestingT, values []string, suffix string, msgAndArgs ...any) bool {
	helper(t)
	if !assert.NotEmpty(t, values, msgAndArgs...) {
		return false
	}
	if len(msgAndArgs) == 0 {
		msgAndArgs = []any{"expected suffix %q", suffix}
	}
	return AssertEach(t, values, func(v string) bool {
		return strings.HasSuffix(v, suffix)
	}, msgAndArgs...)
}

// AssertContainsValue asserts that s contains the decimal or string form of v.
// Used for cross-field checks such as an avatar URL carrying the user id.
func AssertContainsValue(t assert.TestingT, s string, v any, msgAndArgs ...any) bool {
	helper(t)
	return assert.Contains(t, s, fmt.Sprint(v), msgAndArgs...)
}

// AssertSortedAscending asserts values are already in ascending order. On
// failure the diff against the sorted sequence is shown.
func AssertSortedAscending[T cmp.Ordered](t assert.TestingT, values []T, msgAndArgs ...any) bool {
	helper(t)
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return assert.Equal(t, sorted, values, msgAndArgs...)
}

// ParseTimestamp parses an RFC 3339 timestamp with optional fractional
// seconds. Failures are malformed-contract errors, not value mismatches.
func ParseTimestamp(raw string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, core.NewMalformedContractError(fmt.Sprintf("invalid timestamp %q", raw), err)
	}
	return ts, nil
}

// AssertTimestampNear asserts raw parses and lies within tolerance of now.
func AssertTimestampNear(t assert.TestingT, raw string, now time.Time, tolerance time.Duration, msgAndArgs ...any) bool {
	helper(t)
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return assert.Fail(t, err.Error(), msgAndArgs...)
	}
	return assert.WithinDuration(t, now.UTC(), ts.UTC(), tolerance, msgAndArgs...)
}

// AssertTimestampBetween asserts raw parses and lies in [start-tolerance,
// end+tolerance]. start and end bracket the call that produced it, so only
// clock skew has to be covered by tolerance, not network latency.
func AssertTimestampBetween(t assert.TestingT, raw string, start, end time.Time, tolerance time.Duration, msgAndArgs ...any) bool {
	helper(t)
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return assert.Fail(t, err.Error(), msgAndArgs...)
	}
	return assert.WithinRange(t, ts, start.Add(-tolerance), end.Add(tolerance), msgAndArgs...)
}
