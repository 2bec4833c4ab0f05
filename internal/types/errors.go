package types

import "fmt"

// Error codes used by the transport
const (
	CodeHTTPError         = "HTTP_ERROR"
	CodeBadRequest        = "BAD_REQUEST"
	CodeServerError       = "SERVER_ERROR"
	CodeMalformedResponse = "MALFORMED_RESPONSE"
)

// Error represents an API error
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
	Endpoint   string `json:"endpoint,omitempty"`
	Body       string `json:"body,omitempty"`
	Err        error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		if e.Endpoint != "" {
			return fmt.Sprintf("%s: %s", e.Endpoint, e.Message)
		}
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("error: %s", e.Code)
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}
