package contract

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
)

// acceptEncoding is advertised on every call so compressed responses are
// exercised the same way a browser client would see them.
const acceptEncoding = "gzip, deflate, br"

// errBodyTooLarge reports a body over the client's size limit.
var errBodyTooLarge = errors.New("body too large")

// readLimited reads r up to limit bytes. A longer stream returns the first
// limit bytes and errBodyTooLarge.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return data, err
	}
	if int64(len(data)) > limit {
		return data[:limit], errBodyTooLarge
	}
	return data, nil
}

// decompressBody decodes body according to Content-Encoding, producing at
// most limit bytes. Identity and empty encodings return the body unchanged;
// unknown encodings are an error.
func decompressBody(body []byte, contentEncoding string, limit int64) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))
	if len(body) == 0 || encoding == "" || encoding == "identity" {
		return body, nil
	}

	var reader io.Reader
	switch encoding {
	case "gzip", "x-gzip":
		zr, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		reader = zr
	case "deflate":
		fr := flate.NewReader(bytes.NewReader(body))
		defer fr.Close()
		reader = fr
	case "br":
		reader = brotli.NewReader(bytes.NewReader(body))
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", contentEncoding)
	}

	return readLimited(reader, limit)
}
