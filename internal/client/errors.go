package client

import (
	"fmt"

	"github.com/vcto/mcp-probe/internal/mcp"
)

// TransportError reports a non-success HTTP exchange. The response body is
// kept verbatim for diagnostics; no decode is attempted.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.Status, e.Body)
}

// ApplicationError wraps a syntactically valid JSON-RPC response that carries
// an error member instead of a result.
type ApplicationError struct {
	RPC *mcp.Error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.RPC.Code, e.RPC.Message)
}

// ParseError reports an expected nested structure (search hits, content
// blocks) that was absent or malformed in an otherwise valid response.
type ParseError struct {
	What string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %v", e.What, e.Err)
	}
	return fmt.Sprintf("parse %s", e.What)
}

func (e *ParseError) Unwrap() error { return e.Err }
