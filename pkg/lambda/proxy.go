package lambda

import (
	"context"
	"errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

var errNilResponse = errors.New("handler returned nil response")

// RequestFromProxy converts an API Gateway proxy event to a generic request
func RequestFromProxy(event events.APIGatewayProxyRequest) *Request {
	headers := make(map[string]string, len(event.Headers))
	for k, v := range event.Headers {
		headers[k] = v
	}
	// Gateway only fills MultiValueHeaders for some integrations
	for k, vs := range event.MultiValueHeaders {
		if _, ok := headers[k]; !ok && len(vs) > 0 {
			headers[k] = vs[0]
		}
	}

	query := make(map[string]string, len(event.QueryStringParameters))
	for k, v := range event.QueryStringParameters {
		query[k] = v
	}
	for k, vs := range event.MultiValueQueryStringParameters {
		if _, ok := query[k]; !ok && len(vs) > 0 {
			query[k] = vs[0]
		}
	}

	return &Request{
		Method:          event.HTTPMethod,
		Path:            event.Path,
		Headers:         headers,
		QueryParams:     query,
		Body:            event.Body,
		IsBase64Encoded: event.IsBase64Encoded,
		SourceIP:        event.RequestContext.Identity.SourceIP,
	}
}

// ToProxy converts a generic response to an API Gateway proxy response
func (r *Response) ToProxy() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}

// InvocationID returns the Lambda request id for the current invocation,
// falling back to the API Gateway request id when no Lambda context is attached.
func InvocationID(ctx context.Context, event events.APIGatewayProxyRequest) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return event.RequestContext.RequestID
}

// ProxyHandler is the signature lambda.Start expects for API Gateway proxy integrations
type ProxyHandler func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Proxy wraps h for registration with the Lambda runtime. The event and the
// invocation id go to h unchanged and its response goes back to API Gateway.
func (h HandlerFunc) Proxy() ProxyHandler {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		resp := h(ctx, RequestFromProxy(event), InvocationID(ctx, event))
		if resp == nil {
			return events.APIGatewayProxyResponse{}, errNilResponse
		}
		return resp.ToProxy(), nil
	}
}
