package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apicontract/internal/contract/contracttest"
	"apicontract/internal/core"
)

func TestAssertEach(t *testing.T) {
	rec := &contracttest.RecordingT{}
	ok := AssertEach(rec, []int{2, 4, 5, 8, 9}, func(v int) bool { return v%2 == 0 })

	assert.False(t, ok)
	require.Len(t, rec.Failures, 1)
	assert.Contains(t, rec.Failures[0], "2 of 5 items failed")
	assert.Contains(t, rec.Failures[0], "[2] 5")
	assert.Contains(t, rec.Failures[0], "[4] 9")

	assert.True(t, AssertEach(t, []int{2, 4}, func(v int) bool { return v%2 == 0 }))
}

func TestAssertAllHaveSuffix(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		pass   bool
	}{
		{name: "all match", values: []string{"george.bluth@reqres.in", "janet.weaver@reqres.in"}, pass: true},
		{name: "one outlier", values: []string{"george.bluth@reqres.in", "sydney@fife"}},
		{name: "empty collection", values: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &contracttest.RecordingT{}
			assert.Equal(t, tt.pass, AssertAllHaveSuffix(rec, tt.values, "@reqres.in"))
			assert.Equal(t, !tt.pass, rec.Failed())
		})
	}
}

func TestAssertContainsValue(t *testing.T) {
	rec := &contracttest.RecordingT{}
	assert.True(t, AssertContainsValue(rec, "https://reqres.in/img/faces/7-image.jpg", 7))
	assert.False(t, AssertContainsValue(rec, "https://reqres.in/img/faces/7-image.jpg", 8))
	assert.Len(t, rec.Failures, 1)
}

func TestAssertSortedAscending(t *testing.T) {
	tests := []struct {
		name  string
		years []int
		pass  bool
	}{
		{name: "sorted", years: []int{2000, 2001, 2002, 2003, 2004, 2005}, pass: true},
		{name: "duplicates", years: []int{2000, 2000, 2001}, pass: true},
		{name: "empty", years: []int{}, pass: true},
		{name: "nil", years: nil, pass: true},
		{name: "out of order", years: []int{2000, 2002, 2001}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &contracttest.RecordingT{}
			assert.Equal(t, tt.pass, AssertSortedAscending(rec, tt.years))
		})
	}
}

func TestAssertSortedAscending_DoesNotReorderInput(t *testing.T) {
	years := []int{2002, 2000}
	AssertSortedAscending(&contracttest.RecordingT{}, years)
	assert.Equal(t, []int{2002, 2000}, years)
}

func TestParseTimestamp(t *testing.T) {
	ts, err := ParseTimestamp("2026-10-19T10:15:30.123Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 15, 30, 123_000_000, time.UTC), ts.UTC())

	_, err = ParseTimestamp("19/10/2026 10:15")
	require.Error(t, err)
	assert.True(t, core.IsMalformedContract(err))
}

func TestAssertTimestampNear(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 15, 30, 900_000_000, time.UTC)

	tests := []struct {
		name      string
		raw       string
		tolerance time.Duration
		pass      bool
		wantMsg   string
	}{
		{name: "same instant", raw: "2026-10-19T10:15:30.900Z", tolerance: 0, pass: true},
		{name: "crosses a second boundary", raw: "2026-10-19T10:15:31.100Z", tolerance: time.Second, pass: true},
		{name: "other offset", raw: "2026-10-19T12:15:30.500+02:00", tolerance: time.Second, pass: true},
		{name: "too far", raw: "2026-10-19T10:15:35.000Z", tolerance: time.Second, wantMsg: "difference"},
		{name: "unparsable", raw: "yesterday", tolerance: time.Hour, wantMsg: "malformed_contract"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &contracttest.RecordingT{}
			assert.Equal(t, tt.pass, AssertTimestampNear(rec, tt.raw, now, tt.tolerance))
			if tt.wantMsg != "" {
				require.Len(t, rec.Failures, 1)
				assert.Contains(t, rec.Failures[0], tt.wantMsg)
			}
		})
	}
}

func TestAssertTimestampBetween(t *testing.T) {
	start := time.Date(2026, 10, 19, 10, 15, 30, 0, time.UTC)
	end := start.Add(800 * time.Millisecond)

	tests := []struct {
		name string
		raw  string
		pass bool
	}{
		{name: "inside the call", raw: "2026-10-19T10:15:30.400Z", pass: true},
		{name: "server clock slightly behind", raw: "2026-10-19T10:15:29.700Z", pass: true},
		{name: "server clock far ahead", raw: "2026-10-19T10:15:33.000Z"},
		{name: "unparsable", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &contracttest.RecordingT{}
			assert.Equal(t, tt.pass, AssertTimestampBetween(rec, tt.raw, start, end, 500*time.Millisecond))
		})
	}
}
