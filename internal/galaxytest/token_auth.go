package galaxytest

import (
	"net/http"
	"strings"
)

// tokenAuthFilter admits requests carrying "Authorization: Token <token>" for
// a token this server issued.
type tokenAuthFilter struct {
	store *store
}

func (t *tokenAuthFilter) Decorate(handle http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headerValue := r.Header.Get("Authorization")
		if headerValue == "" {
			writeAPIError(w, errNotAuthenticated())
			return
		}
		headerValueParts := strings.SplitN(headerValue, " ", 2)
		if len(headerValueParts) != 2 || headerValueParts[0] != "Token" {
			writeAPIError(w, errNotAuthenticated())
			return
		}
		if _, ok := t.store.tokenOwner(headerValueParts[1]); !ok {
			writeAPIError(w, errInvalidToken())
			return
		}
		handle(w, r)
	}
}
