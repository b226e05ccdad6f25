package galaxykit

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoContainerEngine is returned by the image operations of a Client that
// was constructed without a container engine.
var ErrNoContainerEngine = errors.New("no container engine configured")

// ErrAuthTokenParse is returned from NewClient when the token endpoint did not
// answer with a JSON document carrying a token.
type ErrAuthTokenParse struct {
	Body  string
	Cause error
}

func (e *ErrAuthTokenParse) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Failed to fetch token: %s: %s", e.Cause, e.Body)
	}
	return fmt.Sprintf("Failed to fetch token: %s", e.Body)
}

func (e *ErrAuthTokenParse) Unwrap() error {
	return e.Cause
}

// ErrParse is returned when a response body is not valid JSON.
type ErrParse struct {
	Body  string
	Cause error
}

func (e *ErrParse) Error() string {
	return "Failed to parse JSON response from API"
}

func (e *ErrParse) Unwrap() error {
	return e.Cause
}

// RemoteErrorDetail is a single entry of the API's errors envelope.
type RemoteErrorDetail struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ErrRemote is returned when the API answers with an errors envelope. The
// message is the title of the first reported error.
type ErrRemote struct {
	StatusCode int
	Errors     []RemoteErrorDetail
}

func (e *ErrRemote) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("received %d from API server", e.StatusCode)
	}
	return e.Errors[0].Title
}

// First returns the first reported error.
func (e *ErrRemote) First() RemoteErrorDetail {
	if len(e.Errors) == 0 {
		return RemoteErrorDetail{Status: fmt.Sprintf("%d", e.StatusCode)}
	}
	return e.Errors[0]
}

// ErrUnexpectedStatus is returned for non-2xx responses that did not carry an
// errors envelope.
type ErrUnexpectedStatus struct {
	StatusCode int
	Body       interface{}
}

func (e *ErrUnexpectedStatus) Error() string {
	return fmt.Sprintf("received %d from API server", e.StatusCode)
}

// ErrNotFound is returned by lookups of users and groups that do not exist.
type ErrNotFound struct {
	Type string
	Name string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %q not found.", e.Type, e.Name)
}
