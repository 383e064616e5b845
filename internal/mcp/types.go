// Package mcp holds the JSON-RPC envelope and the slices of the MCP data
// model the probe consumes. Only the fields the scripted scenario actually
// inspects are modeled; everything else stays raw JSON.
package mcp

import "encoding/json"

// ProtocolVersion is the MCP revision the probe advertises during initialize.
const ProtocolVersion = "2024-11-05"

// Request represents a JSON-RPC request
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      int64       `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

// Response represents a JSON-RPC response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error represents a JSON-RPC error
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRequest builds a versioned envelope for a single call.
func NewRequest(id int64, method string, params interface{}) Request {
	return Request{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// ToolContent is one content block of a tools/call result. The probe only
// consumes text blocks; other types pass through unread.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the result payload of a tools/call response.
type CallResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// FirstText returns the text of the first text content block, if any.
func (r CallResult) FirstText() (string, bool) {
	for _, c := range r.Content {
		if c.Type == "text" {
			return c.Text, true
		}
	}
	return "", false
}

// SearchHit is a single entry in a search tool result set.
type SearchHit struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	URL   string `json:"url,omitempty"`
}

// SearchResults is the document set a search tool returns, serialized as
// JSON inside a text content block.
type SearchResults struct {
	Results []SearchHit `json:"results"`
}
