package grok

import "fmt"

// Kind classifies a failed completion call.
type Kind int

const (
	// KindTransport covers DNS, TLS, connection, and timeout failures:
	// no HTTP response was received.
	KindTransport Kind = iota
	// KindAuth is a 401 or 403 response: the API key was rejected.
	KindAuth
	// KindServer is any other non-2xx response.
	KindServer
	// KindParse is a 2xx response whose body is not the expected shape.
	KindParse
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	case KindServer:
		return "server"
	case KindParse:
		return "parse"
	default:
		return "unknown"
	}
}

// APIError describes a failed completion call. Exactly one is produced per
// failed request; the credential never appears in Detail.
type APIError struct {
	Kind   Kind
	Status int // HTTP status, 0 when no response was received
	Detail string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("completion failed (%s, HTTP %d): %s", e.Kind, e.Status, e.Detail)
	}
	return fmt.Sprintf("completion failed (%s): %s", e.Kind, e.Detail)
}
