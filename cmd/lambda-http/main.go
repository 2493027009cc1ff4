package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"

	"acen-backend/internal/bootstrap"
	"acen-backend/internal/shared/config"
	"acen-backend/internal/shared/telemetry"
)

type lambdaHandler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// newHandler builds the router once, on the first invocation.
func newHandler(build func() (*gin.Engine, error)) lambdaHandler {
	var (
		once      sync.Once
		initErr   error
		ginLambda *ginadapter.GinLambdaV2
	)
	return func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		once.Do(func() {
			router, err := build()
			if err != nil {
				initErr = err
				return
			}
			ginLambda = ginadapter.NewV2(router)
		})
		if initErr != nil {
			telemetry.Error("lambda.bootstrap_failed", map[string]any{"error": initErr})
			return errorResponse(`{"error":{"code":"internal_error","message":"bootstrap failed"}}`), initErr
		}
		return ginLambda.ProxyWithContext(ctx, req)
	}
}

func errorResponse(body string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       body,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func buildRouter() (*gin.Engine, error) {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		return nil, err
	}
	return app.Router, nil
}

func main() {
	lambda.Start(newHandler(buildRouter))
}
