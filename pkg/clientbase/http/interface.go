package cbhttp

import lhttp "github.com/svmpsp/bad-framework/pkg/http"

type Client interface {
	Do(r *Request, m ...MiddlewareFunc) (*Response, *lhttp.HttpError)
	DoNoResponse(r *Request, m ...MiddlewareFunc) *lhttp.HttpError
}
