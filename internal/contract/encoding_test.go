package contract

import (
	"bytes"
	"compress/flate"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompressBody(t *testing.T) {
	const body = `{"id":4,"token":"QpwL5tke4Pnpja7X4"}`

	var deflated bytes.Buffer
	fw, err := flate.NewWriter(&deflated, flate.DefaultCompression)
	require.NoError(t, err)
	_, err = fw.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	tests := []struct {
		name     string
		encoding string
		raw      []byte
		wantErr  bool
	}{
		{name: "none", encoding: "", raw: []byte(body)},
		{name: "identity", encoding: "identity", raw: []byte(body)},
		{name: "gzip upper case", encoding: " GZIP ", raw: gzipBytes(t, body)},
		{name: "deflate", encoding: "deflate", raw: deflated.Bytes()},
		{name: "brotli", encoding: "br", raw: brotliBytes(t, body)},
		{name: "unsupported", encoding: "zstd", raw: []byte{0x28, 0xb5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decompressBody(tt.raw, tt.encoding, DefaultMaxResponseBytes)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, body, string(got))
		})
	}
}

func TestDecompressBody_EmptyBodyIgnoresEncoding(t *testing.T) {
	got, err := decompressBody(nil, "gzip", DefaultMaxResponseBytes)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReadLimited(t *testing.T) {
	got, err := readLimited(strings.NewReader("abcdef"), 6)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), got)

	got, err = readLimited(strings.NewReader("abcdefg"), 6)
	assert.ErrorIs(t, err, errBodyTooLarge)
	assert.Equal(t, []byte("abcdef"), got)
}

func TestDecompressBody_DecodedOverLimit(t *testing.T) {
	var buf bytes.Buffer
	fw, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = fw.Write(bytes.Repeat([]byte("a"), 4096))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	_, err = decompressBody(buf.Bytes(), "deflate", 1024)
	assert.ErrorIs(t, err, errBodyTooLarge)
}
