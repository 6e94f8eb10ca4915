package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"riderequest/internal/middleware"
)

// ProxyFunc is a function shaped like a proxy-integration Lambda handler.
type ProxyFunc func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// Gin serves a ProxyFunc from a gin route, translating the HTTP request into
// the event shape the gateway would send. Claims set by
// middleware.ClaimsMiddleware become the authorizer context.
func Gin(fn ProxyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		req, err := toProxyRequest(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
			return
		}

		resp, err := fn(c.Request.Context(), req)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error(), Reference: req.RequestContext.RequestID})
			return
		}

		for k, v := range resp.Headers {
			c.Header(k, v)
		}
		for k, values := range resp.MultiValueHeaders {
			for _, v := range values {
				c.Writer.Header().Add(k, v)
			}
		}
		c.Data(resp.StatusCode, "application/json", []byte(resp.Body))
	}
}

func toProxyRequest(c *gin.Context) (events.APIGatewayProxyRequest, error) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}

	headers := make(map[string]string, len(c.Request.Header))
	for k := range c.Request.Header {
		headers[k] = c.Request.Header.Get(k)
	}

	query := make(map[string]string)
	for k := range c.Request.URL.Query() {
		query[k] = c.Query(k)
	}

	req := events.APIGatewayProxyRequest{
		Resource:              c.FullPath(),
		Path:                  c.Request.URL.Path,
		HTTPMethod:            c.Request.Method,
		Headers:               headers,
		MultiValueHeaders:     c.Request.Header,
		QueryStringParameters: query,
		Body:                  string(body),
		RequestContext: events.APIGatewayProxyRequestContext{
			RequestID:  uuid.NewString(),
			Stage:      "local",
			HTTPMethod: c.Request.Method,
			Path:       c.Request.URL.Path,
			Identity: events.APIGatewayRequestIdentity{
				SourceIP:  c.ClientIP(),
				UserAgent: c.Request.UserAgent(),
			},
		},
	}

	if claims, ok := c.Get(middleware.ClaimsKey); ok {
		req.RequestContext.Authorizer = map[string]any{"claims": claims}
	}

	return req, nil
}
