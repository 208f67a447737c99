package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mirror-api/internal/config"
	"mirror-api/internal/handlers"
	"mirror-api/internal/middleware"
	"mirror-api/pkg/lambda"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Environment:    "test",
		Port:           "3001",
		Region:         "ap-southeast-2",
		ServiceName:    "mirror-api",
		FrontendOrigin: "http://localhost:5173",
		Log:            config.LogConfig{Level: "info", Format: "text"},
		Limits:         config.LimitsConfig{MaxBodyBytes: 1024, RateLimitBurst: 1},
	}
}

func newTestContainer(t *testing.T) *Container {
	t.Helper()
	logger, _ := test.NewNullLogger()
	c, err := NewContainer(testConfig(), logger)
	require.NoError(t, err)
	return c
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	c := newTestContainer(t)

	assert.NotNil(t, c.Config)
	assert.NotNil(t, c.Logger)
	assert.NotNil(t, c.Handler)
}

func TestNewContainerRejectsBadConfig(t *testing.T) {
	_, err := NewContainer(nil, nil)
	assert.Error(t, err)

	cfg := testConfig()
	cfg.Port = "not-a-port"
	_, err = NewContainer(cfg, nil)
	assert.Error(t, err)
}

func TestNewContainerBuildsLogger(t *testing.T) {
	c, err := NewContainer(testConfig(), nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Logger)
}

func TestNewContainerInLambdaFallsBackToInfo(t *testing.T) {
	cfg := testConfig()
	cfg.Serverless = config.ServerlessConfig{IsLambda: true, FunctionName: "mirror-api-health"}
	cfg.Log.Level = "loud"
	cfg.Port = ""

	c, err := NewContainer(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, c.Logger.GetLevel())

	resp := c.Handler.Handle(context.Background(), &lambda.Request{Method: http.MethodGet, Path: "/health"}, "req-1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// TestLocalMatchesLambda sends the same requests through the local router and
// the Lambda proxy path and expects identical answers apart from ids and time.
func TestLocalMatchesLambda(t *testing.T) {
	c := newTestContainer(t)
	router := NewRouter(c)
	proxy := c.Handler.Func().Proxy()

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodGet, path: "/health"},
		{method: http.MethodOptions, path: "/health"},
		{method: http.MethodOptions, path: "/future/route"},
		{method: http.MethodPost, path: "/upload", body: `{"name":"file.txt"}`},
		{method: http.MethodGet, path: "/health/"},
		{method: http.MethodHead, path: "/health"},
		{method: http.MethodDelete, path: "/"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body)))

			ctx := lambdacontext.NewContext(context.Background(), &lambdacontext.LambdaContext{AwsRequestID: "aws-id"})
			cloud, err := proxy(ctx, events.APIGatewayProxyRequest{
				HTTPMethod: tt.method,
				Path:       tt.path,
				Body:       tt.body,
			})
			require.NoError(t, err)

			assert.Equal(t, cloud.StatusCode, rec.Code)
			for name, value := range cloud.Headers {
				assert.Equal(t, value, rec.Header().Get(name), name)
			}

			if cloud.Body == "" {
				assert.Zero(t, rec.Body.Len())
				return
			}

			var local, remote map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &local))
			require.NoError(t, json.Unmarshal([]byte(cloud.Body), &remote))

			assert.Equal(t, "aws-id", remote["requestId"])
			assert.Equal(t, rec.Header().Get(middleware.RequestIDHeader), local["requestId"])
			for _, m := range []map[string]any{local, remote} {
				delete(m, "requestId")
				delete(m, "timestamp")
			}
			assert.Equal(t, remote, local)
		})
	}
}

func TestRouterUploadScenario(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var payload handlers.ErrorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "Route POST /upload not found", payload.Message)
}

func TestRouterRejectsOversizedBody(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 2048))))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestRouterFrontendOriginOnRejectedRequests(t *testing.T) {
	router := NewRouter(newTestContainer(t))

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(strings.Repeat("x", 2048)))
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
