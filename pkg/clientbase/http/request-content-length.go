package cbhttp

// ContentLength pins the length of a streamed body. Bodies built from a
// plain reader rather than a byte slice would otherwise go out chunked with
// no length.
func ContentLength(length int64) RequestOption {
	return func(r *Request) *Request {
		r.ContentLength = length
		return r
	}
}
