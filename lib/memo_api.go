package lib

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
)

const (
	MemoResourceItems  = "/items"
	MemoResourceItem   = "/item"
	MemoResourceItemID = "/item/{memoId}"

	memoPreflightAllowHeaders = "Content-Type,X-Amz-Date,Authorization,X-Api-Key,X-Amz-Security-Token,X-Amz-User-Agent"
	memoPreflightAllowMethods = "OPTIONS,GET,PUT,POST,DELETE"
)

type ProxyHandler func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

type MemoStoreAPI interface {
	List(ctx context.Context) ([]map[string]any, error)
	Create(ctx context.Context, input map[string]any) (map[string]any, error)
	Complete(ctx context.Context, memoID string) (string, error)
}

type MemoApi struct {
	store MemoStoreAPI
}

func NewMemoApi(store MemoStoreAPI) *MemoApi {
	return &MemoApi{store: store}
}

func memoHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

func MemoPreflightHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Headers":     memoPreflightAllowHeaders,
		"Access-Control-Allow-Origin":      "*",
		"Access-Control-Allow-Credentials": "false",
		"Access-Control-Allow-Methods":     memoPreflightAllowMethods,
	}
}

// memoErrorResponse carries the same headers as a success so browsers can
// read the error body cross origin.
func memoErrorResponse(status int, memoErr *MemoError) events.APIGatewayProxyResponse {
	data, err := json.Marshal(memoErr)
	if err != nil {
		Logger.Println("error:", err)
		data = []byte(`{"message":"internal error","code":"` + MemoErrInternal + `"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    memoHeaders(),
		Body:       string(data),
	}
}

func MemoErrorResponse(status int, err error) events.APIGatewayProxyResponse {
	return memoErrorResponse(status, NewMemoError(err))
}

func memoStoreErrorResponse(err error) events.APIGatewayProxyResponse {
	return MemoErrorResponse(http.StatusInternalServerError, err)
}

func (a *MemoApi) List(ctx context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	items, err := a.store.List(ctx)
	if err != nil {
		return memoStoreErrorResponse(err), nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		Logger.Println("error:", err)
		return memoStoreErrorResponse(err), nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    memoHeaders(),
		Body:       string(data),
	}, nil
}

func memoRequestBody(req events.APIGatewayProxyRequest) (map[string]any, *MemoError) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			Logger.Println("error:", err)
			return nil, memoBadRequest("request body is not valid base64")
		}
		body = decoded
	}
	var input map[string]any
	err := json.Unmarshal(body, &input)
	if err != nil || input == nil {
		Logger.Println("error: bad request body:", err)
		return nil, memoBadRequest("request body must be a json object")
	}
	return input, nil
}

// Create stores the request's imageData as is. A body without imageData still
// creates a record, just without that attribute.
func (a *MemoApi) Create(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	input, memoErr := memoRequestBody(req)
	if memoErr != nil {
		return memoErrorResponse(http.StatusBadRequest, memoErr), nil
	}
	_, err := a.store.Create(ctx, input)
	if err != nil {
		return memoStoreErrorResponse(err), nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    memoHeaders(),
	}, nil
}

// Complete marks the memo named by the memoId path parameter. Without the
// parameter the empty key goes to the store, which rejects it.
func (a *MemoApi) Complete(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	memoID := req.PathParameters[MemoKeyID]
	_, err := a.store.Complete(ctx, memoID)
	if err != nil {
		return memoStoreErrorResponse(err), nil
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    memoHeaders(),
	}, nil
}

func MemoPreflight(_ context.Context, _ events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    MemoPreflightHeaders(),
	}, nil
}

type MemoRoute struct {
	Resource string
	Method   string
	Handler  ProxyHandler
}

func (a *MemoApi) Routes() []MemoRoute {
	return []MemoRoute{
		{MemoResourceItems, http.MethodGet, a.List},
		{MemoResourceItems, http.MethodOptions, MemoPreflight},
		{MemoResourceItem, http.MethodPost, a.Create},
		{MemoResourceItem, http.MethodOptions, MemoPreflight},
		{MemoResourceItemID, http.MethodPut, a.Complete},
		{MemoResourceItemID, http.MethodOptions, MemoPreflight},
	}
}

// memoResourceFromPath maps a concrete path to its resource template, for
// events whose resource is a catch all route rather than the template.
func memoResourceFromPath(path string) (string, map[string]string) {
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	switch {
	case path == MemoResourceItems:
		return MemoResourceItems, map[string]string{}
	case path == MemoResourceItem:
		return MemoResourceItem, map[string]string{}
	case strings.HasPrefix(path, MemoResourceItem+"/"):
		memoID := strings.TrimPrefix(path, MemoResourceItem+"/")
		if memoID == "" || strings.Contains(memoID, "/") {
			return "", nil
		}
		unescaped, err := url.PathUnescape(memoID)
		if err == nil {
			memoID = unescaped
		}
		return MemoResourceItemID, map[string]string{MemoKeyID: memoID}
	default:
		return "", nil
	}
}

// Handle dispatches a proxy event to the handler for its resource and method.
func (a *MemoApi) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	routes := a.Routes()
	known := false
	for _, route := range routes {
		if route.Resource == req.Resource {
			known = true
			break
		}
	}
	if !known {
		resource, params := memoResourceFromPath(req.Path)
		if resource == "" {
			return memoErrorResponse(http.StatusNotFound, &MemoError{
				Message:    "no such resource: " + req.Path,
				Code:       MemoErrNotFound,
				StatusCode: http.StatusNotFound,
			}), nil
		}
		req.Resource = resource
		for k, v := range req.PathParameters {
			params[k] = v
		}
		req.PathParameters = params
	}
	var allow []string
	for _, route := range routes {
		if route.Resource != req.Resource {
			continue
		}
		if route.Method == strings.ToUpper(req.HTTPMethod) {
			return route.Handler(ctx, req)
		}
		allow = append(allow, route.Method)
	}
	sort.Strings(allow)
	resp := memoErrorResponse(http.StatusMethodNotAllowed, &MemoError{
		Message:    "method not allowed: " + req.HTTPMethod + " " + req.Resource,
		Code:       MemoErrMethodNotAllowed,
		StatusCode: http.StatusMethodNotAllowed,
	})
	resp.Headers["Allow"] = strings.Join(allow, ", ")
	return resp, nil
}

var memoApi *MemoApi
var memoApiLock sync.Mutex

// MemoApiDefault returns the process wide api over MemoStoreDefault.
func MemoApiDefault() (*MemoApi, error) {
	memoApiLock.Lock()
	defer memoApiLock.Unlock()
	if memoApi == nil {
		store, err := MemoStoreDefault()
		if err != nil {
			return nil, err
		}
		memoApi = NewMemoApi(store)
	}
	return memoApi, nil
}
