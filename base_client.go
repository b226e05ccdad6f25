package galaxykit

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	headerAccept        = "Accept"
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerContentLength = "Content-Length"

	mimeJSON        = "application/json"
	mimeJSONPayload = "application/json;charset=utf-8"
)

type baseClient struct {
	baseURL    *url.URL
	headers    map[string]string
	token      string
	httpClient *http.Client
}

func basicAuthHeaders(username string, password string) map[string]string {
	return map[string]string{
		headerAuthorization: fmt.Sprintf(
			"Basic %s",
			base64.StdEncoding.EncodeToString(
				[]byte(fmt.Sprintf("%s:%s", username, password)),
			),
		),
	}
}

func tokenAuthHeader(token string) string {
	return fmt.Sprintf("Token %s", token)
}

// BaseURL returns the root every request path is resolved against.
func (b *baseClient) BaseURL() string {
	return b.baseURL.String()
}

// Token returns the API token, if any, the client authenticates with.
func (b *baseClient) Token() string {
	return b.token
}

// Headers returns a copy of the headers sent with every request.
func (b *baseClient) Headers() map[string]string {
	headers := make(map[string]string, len(b.headers))
	for k, v := range b.headers {
		headers[k] = v
	}
	return headers
}

func (b *baseClient) Get(ctx context.Context, path string) (interface{}, error) {
	return b.Do(ctx, OutboundRequest{Method: http.MethodGet, Path: path})
}

func (b *baseClient) Post(
	ctx context.Context,
	path string,
	body interface{},
) (interface{}, error) {
	return b.Do(
		ctx,
		OutboundRequest{Method: http.MethodPost, Path: path, ReqBodyObj: body},
	)
}

func (b *baseClient) Put(
	ctx context.Context,
	path string,
	body interface{},
) (interface{}, error) {
	return b.Do(
		ctx,
		OutboundRequest{Method: http.MethodPut, Path: path, ReqBodyObj: body},
	)
}

func (b *baseClient) Delete(
	ctx context.Context,
	path string,
) (interface{}, error) {
	return b.Do(ctx, OutboundRequest{Method: http.MethodDelete, Path: path})
}

// Do submits the request and returns the parsed JSON response body.
func (b *baseClient) Do(
	ctx context.Context,
	req OutboundRequest,
) (interface{}, error) {
	resp, err := b.submitRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "error reading response body")
	}
	return parseResponse(resp.StatusCode, bodyBytes, req.RespObj)
}

func (b *baseClient) resolve(path string) (*url.URL, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing request path %q", path)
	}
	return b.baseURL.ResolveReference(ref), nil
}

func (b *baseClient) submitRequest(
	ctx context.Context,
	req OutboundRequest,
) (*http.Response, error) {
	headers := b.headers
	if req.Headers != nil {
		headers = req.Headers
	}

	var payload []byte
	var reqBodyReader io.Reader
	if req.ReqBodyObj != nil {
		var err error
		if payload, err = encodePayload(req.ReqBodyObj); err != nil {
			return nil, err
		}
		reqBodyReader = bytes.NewReader(payload)
	}

	u, err := b.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	httpReq, err := http.NewRequestWithContext(
		ctx,
		req.Method,
		u.String(),
		reqBodyReader,
	)
	if err != nil {
		return nil, errors.Wrapf(
			err,
			"error creating request %s %s",
			req.Method,
			req.Path,
		)
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	if payload != nil {
		httpReq.Header.Set(headerContentType, mimeJSONPayload)
		httpReq.Header.Set(headerContentLength, strconv.Itoa(len(payload)))
		httpReq.ContentLength = int64(len(payload))
	}

	glog.V(2).Infof("%s %s", req.Method, u.Redacted())
	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "error invoking API")
	}
	return resp, nil
}

// encodePayload turns a request body into the bytes sent over the wire.
// Strings and byte slices are taken verbatim.
func encodePayload(body interface{}) ([]byte, error) {
	switch b := body.(type) {
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "error marshaling request body")
		}
		return payload, nil
	}
}

func parseResponse(
	statusCode int,
	bodyBytes []byte,
	respObj interface{},
) (interface{}, error) {
	if statusCode == http.StatusNoContent {
		return nil, nil
	}
	if len(bytes.TrimSpace(bodyBytes)) == 0 && !successful(statusCode) {
		return nil, &ErrUnexpectedStatus{StatusCode: statusCode}
	}
	var body interface{}
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		glog.Errorf("%s", bodyBytes)
		return nil, &ErrParse{Body: string(bodyBytes), Cause: err}
	}
	if remoteErr := remoteError(statusCode, body); remoteErr != nil {
		return nil, remoteErr
	}
	if !successful(statusCode) {
		return nil, &ErrUnexpectedStatus{StatusCode: statusCode, Body: body}
	}
	if respObj != nil {
		if err := json.Unmarshal(bodyBytes, respObj); err != nil {
			return nil, errors.Wrap(err, "error unmarshaling response body")
		}
	}
	return body, nil
}

func successful(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

// remoteError inspects a parsed body for the API's errors envelope, e.g.
// {"errors": [{"status": "403", "code": "not_authenticated", "title": "..."}]}
func remoteError(statusCode int, body interface{}) *ErrRemote {
	m, ok := body.(map[string]interface{})
	if !ok {
		return nil
	}
	list, ok := m["errors"].([]interface{})
	if !ok || len(list) == 0 {
		return nil
	}
	details := make([]RemoteErrorDetail, 0, len(list))
	for _, item := range list {
		entry, _ := item.(map[string]interface{})
		details = append(
			details,
			RemoteErrorDetail{
				Status: stringField(entry, "status"),
				Code:   stringField(entry, "code"),
				Title:  stringField(entry, "title"),
				Detail: stringField(entry, "detail"),
			},
		)
	}
	return &ErrRemote{StatusCode: statusCode, Errors: details}
}

func stringField(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
