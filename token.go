package galaxykit

import (
	"context"
	"io"
	"net/http"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const tokenPath = "v3/auth/token/"

// Token is the body returned by the token endpoint.
type Token struct {
	Token string `json:"token"`
}

// exchangeToken trades a username and password for an API token.
func (b *baseClient) exchangeToken(
	ctx context.Context,
	username string,
	password string,
) (string, error) {
	resp, err := b.submitRequest(
		ctx,
		OutboundRequest{
			Method:  http.MethodPost,
			Path:    tokenPath,
			Headers: basicAuthHeaders(username, password),
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "error requesting token")
	}
	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "error reading token response body")
	}

	token := Token{}
	if _, err = parseResponse(resp.StatusCode, bodyBytes, &token); err != nil {
		if parseErr, ok := err.(*ErrParse); ok {
			return "", &ErrAuthTokenParse{Body: parseErr.Body, Cause: parseErr.Cause}
		}
		return "", err
	}
	if token.Token == "" {
		glog.Errorf("Failed to fetch token: %s", bodyBytes)
		return "", &ErrAuthTokenParse{Body: string(bodyBytes)}
	}
	return token.Token, nil
}
