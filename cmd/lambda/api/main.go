package main

import (
	"mirror-api/internal/config"
	"mirror-api/pkg/server"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

var container *server.Container

func init() {
	cfg, err := config.Load(nil)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(cfg, nil)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	container.Logger.WithFields(logrus.Fields{
		"function": cfg.Serverless.FunctionName,
		"version":  cfg.Serverless.Version,
		"stage":    cfg.Serverless.Stage,
		"region":   cfg.Region,
	}).Info("Cold start")
}

func main() {
	awslambda.Start(container.Handler.Func().Proxy())
}
