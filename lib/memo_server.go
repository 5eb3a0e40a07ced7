package lib

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
)

const memoServerMaxBody = 10 << 20

// MemoRouter serves the api over plain http, turning each request into the
// proxy event api gateway would have sent.
func MemoRouter(api *MemoApi) *mux.Router {
	router := mux.NewRouter()
	for _, route := range api.Routes() {
		router.HandleFunc(route.Resource, memoHTTPHandler(api, route.Resource)).Methods(route.Method)
	}
	router.NotFoundHandler = memoHTTPHandler(api, "")
	router.MethodNotAllowedHandler = memoHTTPHandler(api, "")
	return router
}

func memoHTTPHandler(api *MemoApi, resource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := memoProxyRequest(r, resource)
		if err != nil {
			Logger.Println("error:", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := api.Handle(r.Context(), req)
		if err != nil {
			Logger.Println("error:", err)
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		body := []byte(resp.Body)
		if resp.IsBase64Encoded {
			body, err = base64.StdEncoding.DecodeString(resp.Body)
			if err != nil {
				Logger.Println("error:", err)
				return
			}
		}
		_, _ = w.Write(body)
	}
}

func memoProxyRequest(r *http.Request, resource string) (events.APIGatewayProxyRequest, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, memoServerMaxBody+1))
	if err != nil {
		return events.APIGatewayProxyRequest{}, err
	}
	if len(data) > memoServerMaxBody {
		return events.APIGatewayProxyRequest{}, errors.New("request body too large")
	}
	req := events.APIGatewayProxyRequest{
		Resource:                        resource,
		Path:                            r.URL.Path,
		HTTPMethod:                      r.Method,
		Headers:                         map[string]string{},
		MultiValueHeaders:               map[string][]string{},
		QueryStringParameters:           map[string]string{},
		MultiValueQueryStringParameters: map[string][]string{},
	}
	if resource != "" {
		req.PathParameters = mux.Vars(r)
	}
	for k, vs := range r.Header {
		req.Headers[k] = strings.Join(vs, ",")
		req.MultiValueHeaders[k] = vs
	}
	for k, vs := range r.URL.Query() {
		req.QueryStringParameters[k] = vs[len(vs)-1]
		req.MultiValueQueryStringParameters[k] = vs
	}
	if utf8.Valid(data) {
		req.Body = string(data)
	} else {
		req.Body = base64.StdEncoding.EncodeToString(data)
		req.IsBase64Encoded = true
	}
	return req, nil
}

// MemoServe listens on addr until ctx is done.
func MemoServe(ctx context.Context, addr string, api *MemoApi) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           MemoRouter(api),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errs := make(chan error, 1)
	go func() {
		errs <- server.ListenAndServe()
	}()
	Logger.Println("listening on:", addr)
	select {
	case err := <-errs:
		Logger.Println("error:", err)
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := server.Shutdown(shutdownCtx)
		if err != nil {
			Logger.Println("error:", err)
			return err
		}
		return nil
	}
}
