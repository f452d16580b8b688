package ai

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
)

// Failure describes why a remote call produced no result. Status is the
// HTTP status when the remote side answered, zero otherwise.
type Failure struct {
	Op     string
	Status int
	Err    error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", f.Op, f.Status, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Reason is a short description suitable for logs and admin notices.
func (f *Failure) Reason() string {
	switch {
	case f.Status == http.StatusUnauthorized:
		return "invalid API key"
	case f.Status == http.StatusNotFound:
		return "model or resource not found"
	case f.Status == http.StatusTooManyRequests:
		return "rate limit or quota exceeded"
	case f.Status == http.StatusBadRequest:
		return "request rejected"
	case f.Status >= http.StatusInternalServerError:
		return "remote service error"
	case f.Status != 0:
		return http.StatusText(f.Status)
	}
	return "no response"
}

func newFailure(op string, err error) *Failure {
	f := &Failure{Op: op, Err: err}

	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		f.Status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		f.Status = reqErr.HTTPStatusCode
	}
	return f
}
