package galaxytest

import (
	"fmt"
	"net/http"
)

// apiError is rendered in the Galaxy errors envelope.
type apiError struct {
	status int
	code   string
	title  string
	detail string
}

func (e *apiError) Error() string {
	return e.title
}

type errorEntry struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

type errorEnvelope struct {
	Errors []errorEntry `json:"errors"`
}

func (e *apiError) envelope() errorEnvelope {
	return errorEnvelope{
		Errors: []errorEntry{
			{
				Status: fmt.Sprintf("%d", e.status),
				Code:   e.code,
				Title:  e.title,
				Detail: e.detail,
			},
		},
	}
}

func errNotAuthenticated() *apiError {
	return &apiError{
		status: http.StatusUnauthorized,
		code:   "not_authenticated",
		title:  "Authentication credentials were not provided.",
	}
}

func errAuthenticationFailed() *apiError {
	return &apiError{
		status: http.StatusUnauthorized,
		code:   "authentication_failed",
		title:  "Invalid username/password.",
	}
}

func errInvalidToken() *apiError {
	return &apiError{
		status: http.StatusUnauthorized,
		code:   "authentication_failed",
		title:  "Invalid token.",
	}
}

func errNotFound() *apiError {
	return &apiError{
		status: http.StatusNotFound,
		code:   "not_found",
		title:  "Not found.",
	}
}

func errInvalid(title, detail string) *apiError {
	return &apiError{
		status: http.StatusBadRequest,
		code:   "invalid",
		title:  title,
		detail: detail,
	}
}

func errInternalServer() *apiError {
	return &apiError{
		status: http.StatusInternalServerError,
		code:   "server_error",
		title:  "A server error occurred.",
	}
}
