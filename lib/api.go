package lib

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/apigatewayv2"
	apitypes "github.com/aws/aws-sdk-go-v2/service/apigatewayv2/types"
)

// ApiGetApis is the subset of *apigatewayv2.Client used to find an api.
type ApiGetApis interface {
	GetApis(ctx context.Context, params *apigatewayv2.GetApisInput, optFns ...func(*apigatewayv2.Options)) (*apigatewayv2.GetApisOutput, error)
}

var apiClient *apigatewayv2.Client
var apiClientLock sync.Mutex

func ApiClient() *apigatewayv2.Client {
	apiClientLock.Lock()
	defer apiClientLock.Unlock()
	if apiClient == nil {
		apiClient = apigatewayv2.NewFromConfig(*Session())
	}
	return apiClient
}

func ApiList(ctx context.Context, client ApiGetApis) ([]apitypes.Api, error) {
	if doDebug {
		d := &Debug{start: time.Now(), name: "ApiList"}
		defer d.Log()
	}
	var token *string
	var items []apitypes.Api
	for {
		out, err := client.GetApis(ctx, &apigatewayv2.GetApisInput{
			NextToken: token,
		})
		if err != nil {
			Logger.Println("error:", err)
			return nil, err
		}
		items = append(items, out.Items...)
		if out.NextToken == nil {
			break
		}
		token = out.NextToken
	}
	return items, nil
}

const (
	ErrApiNotFound = "ErrApiNotFound"
)

func Api(ctx context.Context, client ApiGetApis, name string) (*apitypes.Api, error) {
	apis, err := ApiList(ctx, client)
	if err != nil {
		Logger.Println("error:", err)
		return nil, err
	}
	var result []apitypes.Api
	for _, api := range apis {
		if aws.ToString(api.Name) == name {
			result = append(result, api)
		}
	}
	switch len(result) {
	case 0:
		return nil, fmt.Errorf("%s", ErrApiNotFound)
	case 1:
		return &result[0], nil
	default:
		err := fmt.Errorf("more than 1 api (%d) with name: %s", len(result), name)
		Logger.Println("error:", err)
		return nil, err
	}
}

// ApiUrl prefers the endpoint reported by api gateway and falls back to the
// default execute-api hostname.
func ApiUrl(ctx context.Context, client ApiGetApis, name, region string) (string, error) {
	api, err := Api(ctx, client, name)
	if err != nil {
		return "", err
	}
	if api.ApiEndpoint != nil && *api.ApiEndpoint != "" {
		return *api.ApiEndpoint, nil
	}
	return fmt.Sprintf("https://%s.execute-api.%s.amazonaws.com", aws.ToString(api.ApiId), region), nil
}
