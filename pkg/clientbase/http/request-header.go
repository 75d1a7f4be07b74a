package cbhttp

func AddHeader(key, value string) RequestOption {
	return func(r *Request) *Request {
		if r.Header == nil {
			r.Header = make(map[string][]string)
		}
		r.Header.Add(key, value)
		return r
	}
}
