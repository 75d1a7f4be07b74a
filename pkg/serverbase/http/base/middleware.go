package sbhttpbase

// MiddlewareFunc wraps a handler on the master or worker REST servers. The
// panic recovery and default content type interceptors are built from it.
type MiddlewareFunc func(request *Request, next HandleFunc)

// Register satisfies RegistrableMiddleware for middleware that behaves the
// same on every route.
func (fn MiddlewareFunc) Register(path, method string) MiddlewareFunc {
	return fn
}

var _ RegistrableMiddleware = MiddlewareFunc(nil)

// RegistrableMiddleware is notified of each route it is mounted on and may
// return a specialized MiddlewareFunc for it.
type RegistrableMiddleware interface {
	Register(path, method string) MiddlewareFunc
}
