package server

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// LambdaHandler returns an API Gateway proxy handler serving the same routes
// as Run, for deployment behind AWS Lambda.
func (s *Server) LambdaHandler() func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	adapter := httpadapter.New(s.router)
	return adapter.ProxyWithContext
}
