// Package sse decodes the pseudo-SSE framing some MCP servers use for POST
// responses: one or more "data:" lines, blank-line terminated, one JSON-RPC
// payload per event.
package sse

import (
	"encoding/json"
	"fmt"
	"strings"
)

const dataMarker = "data:"

// DecodeError reports a body that could not be decoded as an SSE-framed JSON
// payload. Fragment carries the offending raw text for diagnostics.
type DecodeError struct {
	Reason   string
	Fragment string
}

func (e *DecodeError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("sse decode: %s", e.Reason)
	}
	return fmt.Sprintf("sse decode: %s: %q", e.Reason, e.Fragment)
}

// DecodeFirst extracts the first "data:" line from body and parses it as
// JSON. It does not aggregate multi-line data fields or look past the first
// event; use a Scanner when the full stream matters.
func DecodeFirst(body []byte) (json.RawMessage, error) {
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, dataMarker) {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, dataMarker))
		if !json.Valid([]byte(payload)) {
			return nil, &DecodeError{Reason: "data line is not valid JSON", Fragment: payload}
		}
		return json.RawMessage(payload), nil
	}
	return nil, &DecodeError{Reason: "no data line in response body", Fragment: truncate(string(body), 120)}
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
