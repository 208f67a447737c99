package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/textproto"
	"strings"
)

// ErrEmptyBody is returned by DecodeJSON when the request carries no body
var ErrEmptyBody = errors.New("request body is empty")

// Request represents a generic HTTP request for serverless functions
type Request struct {
	Method          string            `json:"method"`
	Path            string            `json:"path"`
	Headers         map[string]string `json:"headers"`
	QueryParams     map[string]string `json:"query_params"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"is_base64_encoded"`
	SourceIP        string            `json:"source_ip"`
}

// Response represents a generic HTTP response for serverless functions
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       string            `json:"body"`
}

// HandlerFunc is a framework-agnostic handler. The invocation identifier is
// passed next to the request the same way Lambda passes its context next to
// the event.
type HandlerFunc func(ctx context.Context, req *Request, requestID string) *Response

// Header returns the value of the named header. Lookup is case-insensitive.
func (r *Request) Header(name string) string {
	if r == nil || len(r.Headers) == 0 {
		return ""
	}
	if v, ok := r.Headers[name]; ok {
		return v
	}
	if v, ok := r.Headers[textproto.CanonicalMIMEHeaderKey(name)]; ok {
		return v
	}
	for k, v := range r.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// Query returns the named query parameter or an empty string
func (r *Request) Query(name string) string {
	if r == nil {
		return ""
	}
	return r.QueryParams[name]
}

// RawBody returns the body bytes, decoding base64 payloads
func (r *Request) RawBody() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// DecodeJSON unmarshals a JSON body into v
func (r *Request) DecodeJSON(v any) error {
	body, err := r.RawBody()
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return ErrEmptyBody
	}
	return json.Unmarshal(body, v)
}
