package main

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/nathants/memo-app/lib"
)

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	api, err := lib.MemoApiDefault()
	if err != nil {
		return lib.MemoErrorResponse(http.StatusInternalServerError, err), nil
	}
	return api.Complete(ctx, req)
}

func main() {
	lambda.Start(handleRequest)
}
