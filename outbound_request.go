package galaxykit

// OutboundRequest describes a single call against the Galaxy API.
type OutboundRequest struct {
	Method string
	// Path is resolved against the client's base URL, so an absolute path
	// replaces the base URL's path.
	Path string
	// Headers, when non-nil, replace the client's stored headers for this call
	// only.
	Headers map[string]string
	// ReqBodyObj is sent as-is when it is a string or []byte and is marshaled
	// to JSON otherwise.
	ReqBodyObj interface{}
	// RespObj, when non-nil, additionally receives the response body.
	RespObj interface{}
}
