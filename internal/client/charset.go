package client

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
)

// utf8Reader converts a response body to UTF-8 when its Content-Type declares
// another charset (ISO-8859-1, Windows-1252, ...). Bodies without a charset
// parameter are JSON and already UTF-8, so they pass through untouched.
func utf8Reader(body io.Reader, contentType string) (io.Reader, error) {
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return body, nil
	}
	declared := strings.ToLower(strings.TrimSpace(params["charset"]))
	if declared == "" || declared == "utf-8" || declared == "utf8" {
		return body, nil
	}
	return charset.NewReader(body, contentType)
}
