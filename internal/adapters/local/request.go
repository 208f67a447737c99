package local

import (
	"encoding/base64"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"mirror-api/pkg/lambda"
)

// LoopbackIP is used when the listener cannot determine the client address
const LoopbackIP = "127.0.0.1"

// RequestFromHTTP maps an incoming HTTP request onto the generic request shape.
// Repeated headers are joined with ", " and only the first value of a repeated
// query parameter is kept. Bodies that are not valid UTF-8 are base64 encoded,
// the same way API Gateway delivers binary payloads.
func RequestFromHTTP(r *http.Request, sourceIP string) (*lambda.Request, error) {
	headers := make(map[string]string, len(r.Header)+1)
	for name, values := range r.Header {
		headers[name] = strings.Join(values, ", ")
	}
	// net/http lifts Host out of the header map
	if r.Host != "" {
		headers["Host"] = r.Host
	}

	query := make(map[string]string)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	var body []byte
	if r.Body != nil {
		var err error
		body, err = io.ReadAll(r.Body)
		if err != nil {
			return nil, err
		}
	}

	req := &lambda.Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		Headers:     headers,
		QueryParams: query,
		SourceIP:    sourceIP,
	}
	if req.SourceIP == "" {
		req.SourceIP = LoopbackIP
	}

	if utf8.Valid(body) {
		req.Body = string(body)
	} else {
		req.Body = base64.StdEncoding.EncodeToString(body)
		req.IsBase64Encoded = true
	}

	return req, nil
}
