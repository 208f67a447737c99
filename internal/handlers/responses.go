package handlers

import (
	"encoding/json"
	"net/http"

	"mirror-api/pkg/lambda"
)

// CORS header values sent on every response
const (
	AllowOrigin  = "*"
	AllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token"
	AllowMethods = "GET,OPTIONS"
)

// corsHeaders returns a fresh copy of the CORS header set
func corsHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  AllowOrigin,
		"Access-Control-Allow-Headers": AllowHeaders,
		"Access-Control-Allow-Methods": AllowMethods,
	}
}

// jsonResponse encodes v as the body of a response with the given status
func jsonResponse(status int, v any) (*lambda.Response, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	headers := corsHeaders()
	headers["Content-Type"] = "application/json"

	return &lambda.Response{
		StatusCode: status,
		Headers:    headers,
		Body:       string(body),
	}, nil
}

// emptyResponse is a bodiless response carrying only the CORS set
func emptyResponse(status int) *lambda.Response {
	return &lambda.Response{
		StatusCode: status,
		Headers:    corsHeaders(),
		Body:       "",
	}
}

// errorResponse renders an ErrorPayload
func errorResponse(status int, category, message, requestID string) *lambda.Response {
	// Marshal cannot fail for a struct of strings
	body, _ := json.Marshal(ErrorPayload{
		Error:     category,
		Message:   message,
		RequestID: requestID,
	})

	headers := corsHeaders()
	headers["Content-Type"] = "application/json"

	return &lambda.Response{
		StatusCode: status,
		Headers:    headers,
		Body:       string(body),
	}
}

// InternalErrorResponse is the generic 500 answer. The local adapter also
// uses it when the handler itself blows up.
func InternalErrorResponse(requestID string) *lambda.Response {
	return errorResponse(http.StatusInternalServerError, CategoryInternal, internalMessage, requestID)
}
