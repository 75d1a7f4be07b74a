package sbhttpbase

import (
	"context"
	"io"
	"net/http"
)

// Request bundles everything a handler needs for one call. Params holds the
// route placeholders, so a handler mounted at /suite/:suite_id/dump reads the
// suite id from Params["suite_id"].
type Request struct {
	PathPattern string
	Writer      http.ResponseWriter
	Request     *http.Request
	Params      map[string]string
}

// The With* helpers copy the request so middleware can swap a field without
// touching what the next handler in the chain sees.

func (r *Request) WithWriter(w http.ResponseWriter) *Request {
	newRequest := *r
	newRequest.Writer = w
	return &newRequest
}

func (r *Request) WithRequest(req *http.Request) *Request {
	newRequest := *r
	newRequest.Request = req
	return &newRequest
}

func (r *Request) WithContext(ctx context.Context) *Request {
	newRequest := *r
	newRequest.Request = r.Request.WithContext(ctx)
	return &newRequest
}

func (r *Request) WithBody(body io.ReadCloser) *Request {
	newRequest := *r
	reqCopy := *r.Request
	reqCopy.Body = body
	newRequest.Request = &reqCopy
	return &newRequest
}
