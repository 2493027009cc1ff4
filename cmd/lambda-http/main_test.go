package main

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acen-backend/internal/bootstrap"
	"acen-backend/internal/shared/config"
)

func healthRequest() events.APIGatewayV2HTTPRequest {
	return events.APIGatewayV2HTTPRequest{
		RawPath: "/api/v1/health",
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method: http.MethodGet,
				Path:   "/api/v1/health",
			},
		},
	}
}

func TestHandlerServesRouter(t *testing.T) {
	builds := 0
	h := newHandler(func() (*gin.Engine, error) {
		builds++
		app, err := bootstrap.Build(config.Config{Env: "dev", AdherenceThreshold: 0.6, TrendWindow: 7})
		if err != nil {
			return nil, err
		}
		return app.Router, nil
	})

	for i := 0; i < 2; i++ {
		resp, err := h(context.Background(), healthRequest())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Body, `"storage":"memory"`)
	}
	assert.Equal(t, 1, builds)
}

func TestHandlerReportsBootstrapFailure(t *testing.T) {
	boom := errors.New("no database")
	h := newHandler(func() (*gin.Engine, error) { return nil, boom })

	resp, err := h(context.Background(), healthRequest())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}
