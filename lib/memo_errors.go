package lib

import (
	"errors"
	"net/http"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/smithy-go"
)

const (
	MemoErrBadRequest       = "BadRequest"
	MemoErrNotFound         = "NotFound"
	MemoErrMethodNotAllowed = "MethodNotAllowed"
	MemoErrInternal         = "InternalError"
)

// MemoError is the json body of every non 2xx response. Store failures are
// flattened into it instead of leaking sdk error shapes.
type MemoError struct {
	Message    string `json:"message"`
	Code       string `json:"code"`
	RequestID  string `json:"requestId,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
}

func (e *MemoError) Error() string {
	return e.Code + ": " + e.Message
}

// NewMemoError describes a store error. StatusCode is the status the store
// answered with, when the failure came from an http response.
func NewMemoError(err error) *MemoError {
	var memoErr *MemoError
	if errors.As(err, &memoErr) {
		return memoErr
	}
	body := &MemoError{
		Message: err.Error(),
		Code:    MemoErrInternal,
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		body.Code = apiErr.ErrorCode()
		if msg := apiErr.ErrorMessage(); msg != "" {
			body.Message = msg
		}
	}
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		body.RequestID = respErr.ServiceRequestID()
		body.StatusCode = respErr.HTTPStatusCode()
	}
	return body
}

func memoBadRequest(msg string) *MemoError {
	return &MemoError{Message: msg, Code: MemoErrBadRequest, StatusCode: http.StatusBadRequest}
}
