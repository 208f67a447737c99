package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"mirror-api/pkg/lambda"
)

// HealthStatus is the body of a successful health check
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Region    string `json:"region"`
	RequestID string `json:"requestId"`
	Timestamp string `json:"timestamp"`
}

func (h *Handler) health(_ context.Context, _ *lambda.Request, requestID string) (*lambda.Response, error) {
	status := HealthStatus{
		Status:    "ok",
		Service:   h.service,
		Region:    h.region,
		RequestID: requestID,
		Timestamp: formatTimestamp(h.now()),
	}

	resp, err := jsonResponse(http.StatusOK, status)
	if err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{"requestId": requestID}).Info("Health check successful")

	return resp, nil
}
