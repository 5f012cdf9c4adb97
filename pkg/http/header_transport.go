package http

import "net/http"

// headerTransport sets fixed headers on every outbound request. Empty values
// are skipped so optional settings like a token need no branching at the call site.
type headerTransport struct {
	headers   map[string]string
	transport http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqCopy := req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			reqCopy.Header.Set(k, v)
		}
	}

	return t.transport.RoundTrip(reqCopy)
}

func WithHeaders(headers map[string]string) HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &headerTransport{
			headers:   headers,
			transport: rt,
		}
	})
}

// WithAuthToken adds a bearer token, e.g. for an Ollama instance behind a proxy
func WithAuthToken(token string) HttpOpts {
	if token == "" {
		return WithHeaders(nil)
	}
	return WithHeaders(map[string]string{"Authorization": "Bearer " + token})
}
