package moveapi

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// FallbackMessage is shown when neither the server nor the transport gave a reason.
const FallbackMessage = "An error occurred"

// ErrorResponse is the JSON error body of the transport request API.
type ErrorResponse struct {
	Message   string            `json:"message"`
	Error     string            `json:"error"`
	Code      string            `json:"code"`
	Details   map[string]string `json:"details"`
	RequestID string            `json:"request_id"`
}

// APIError is returned by every Client call that did not succeed.
// Status is zero when the request never got an HTTP response.
type APIError struct {
	Status    int
	Message   string
	Code      string
	Fields    map[string]string
	RequestID string
	Err       error
}

func (e *APIError) Error() string {
	switch {
	case e.Status == 0 && e.Err != nil:
		return "move api: " + e.Err.Error()
	case e.Message != "":
		return fmt.Sprintf("move api (HTTP Status: %d): %s", e.Status, e.Message)
	default:
		return fmt.Sprintf("move api (HTTP Status: %d)", e.Status)
	}
}

func (e *APIError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// MessageOf picks the text shown to a user: the server message, else the
// transport error, else FallbackMessage.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.Status == 0 && apiErr.Err != nil {
			return apiErr.Err.Error()
		}
		return FallbackMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}

func transportError(err error) error {
	return &APIError{Err: err}
}

// errorFromResponse decodes the error body of a non-2xx response. A body that
// is not JSON still yields an APIError with the status.
func errorFromResponse(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*ErrorResponse); ok && body != nil {
		apiErr.Message = body.Message
		apiErr.Code = body.Code
		apiErr.Fields = body.Details
		apiErr.RequestID = body.RequestID
		if apiErr.Message == "" {
			apiErr.Message = body.Error
		}
	}
	return apiErr
}
