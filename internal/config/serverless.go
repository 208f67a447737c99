package config

import (
	"os"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Version      string
	Stage        string
}

// DetectServerless inspects the Lambda runtime environment
func DetectServerless() ServerlessConfig {
	return ServerlessConfig{
		IsLambda:     isRunningInLambda(),
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Version:      os.Getenv("AWS_LAMBDA_FUNCTION_VERSION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// isRunningInLambda detects if the application is running in AWS Lambda
func isRunningInLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

// DeploymentMode returns the current deployment mode
func (c *Config) DeploymentMode() string {
	if c.Serverless.IsLambda {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless fills format defaults that depend on the deployment mode.
// CloudWatch ingests JSON lines, a terminal is easier to read as text.
func AdaptConfigForServerless(config *Config) *Config {
	if config.Log.Format != "" {
		return config
	}

	if config.Serverless.IsLambda || config.IsProduction() {
		config.Log.Format = "json"
	} else {
		config.Log.Format = "text"
	}

	return config
}
