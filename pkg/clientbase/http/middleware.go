package cbhttp

import (
	lhttp "github.com/svmpsp/bad-framework/pkg/http"
)

type RunnerFunc func(r *Request) (*Response, *lhttp.HttpError)
type MiddlewareFunc func(next RunnerFunc) RunnerFunc
