// Package client issues JSON-RPC calls to an MCP endpoint that answers each
// HTTP POST with a pseudo-SSE framed response.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/vcto/mcp-probe/internal/mcp"
	"github.com/vcto/mcp-probe/internal/sse"
)

const defaultTimeout = 30 * time.Second

// Client performs one JSON-RPC exchange per Call against <base>/sse. It is a
// scoped session resource: open it for a run, Close it on every exit path.
// The request id counter is atomic, but the probe drives one call at a time.
type Client struct {
	baseURL string
	http    *http.Client
	nextID  int64
}

// New creates a client for the given base URL. A zero timeout falls back to
// the default.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NextID returns the next request correlation id: 1, 2, 3, ... with no reuse
// for the lifetime of the client.
func (c *Client) NextID() int64 {
	return atomic.AddInt64(&c.nextID, 1)
}

// Call sends one request and decodes one response. Outcomes:
//   - *TransportError for a non-200 status (body kept, decode skipped)
//   - *sse.DecodeError when the body has no parseable data event
//   - the decoded Response otherwise; an error member is the caller's to
//     classify
//
// A single attempt, no retry.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (*mcp.Response, error) {
	id := c.NextID()
	body, err := json.Marshal(mcp.NewRequest(id, method, params))
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sse", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}
	return decodeResponse(raw, id)
}

// decodeResponse scans the SSE events in raw for the reply correlated to id.
// Servers that omit the id on their single reply are accepted as-is; a body
// with events but no matching reply is a framing failure.
func decodeResponse(raw []byte, id int64) (*mcp.Response, error) {
	events, err := sse.DataEvents(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, &sse.DecodeError{Reason: "no data line in response body"}
	}

	var fallback *mcp.Response
	for i, payload := range events {
		var r mcp.Response
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			if i == 0 {
				return nil, &sse.DecodeError{Reason: "data line is not valid JSON", Fragment: payload}
			}
			continue
		}
		if r.ID == id {
			return &r, nil
		}
		if fallback == nil && r.ID == 0 {
			fallback = &r
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	return nil, &sse.DecodeError{Reason: "no response event for request id"}
}

// Close releases the session's idle connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
