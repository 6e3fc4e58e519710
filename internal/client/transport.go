package client

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// acceptEncoding lists the encodings jikanTransport knows how to decode.
const acceptEncoding = "gzip, br, zstd"

// decoder wraps a compressed body into a decompressing reader.
type decoder func(body io.Reader) (io.ReadCloser, error)

var decoders = map[string]decoder{
	"gzip": func(body io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(body)
	},
	"br": func(body io.Reader) (io.ReadCloser, error) {
		return io.NopCloser(brotli.NewReader(body)), nil
	},
	"zstd": func(body io.Reader) (io.ReadCloser, error) {
		zr, err := zstd.NewReader(body)
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	},
}

// jikanTransport decorates every outgoing catalog request with the JSON
// Accept header, the configured User-Agent and Accept-Encoding, then
// transparently decompresses the response body.
type jikanTransport struct {
	base      http.RoundTripper
	userAgent string
}

func newJikanTransport(base http.RoundTripper, userAgent string) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &jikanTransport{base: base, userAgent: userAgent}
}

func (t *jikanTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}
	if t.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if req.Header.Get("Accept-Encoding") == "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// HEAD, 204 and 304 carry nothing to decode.
	if resp.Body == nil || resp.Body == http.NoBody {
		return resp, nil
	}

	decode, ok := decoders[outermostEncoding(resp.Header.Get("Content-Encoding"))]
	if !ok {
		return resp, nil
	}

	reader, err := decode(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}

	resp.Body = &decodedBody{ReadCloser: reader, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true

	return resp, nil
}

// decodedBody closes both the decompressor and the raw network body.
type decodedBody struct {
	io.ReadCloser
	raw io.ReadCloser
}

func (b *decodedBody) Close() error {
	readerErr := b.ReadCloser.Close()
	if err := b.raw.Close(); readerErr == nil {
		return err
	}
	return readerErr
}

// outermostEncoding returns the last coding of a Content-Encoding list, in
// lower case. That coding was applied last and must be removed first.
func outermostEncoding(header string) string {
	parts := strings.Split(header, ",")
	return strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
}
