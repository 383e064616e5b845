// Package target provides a reference MCP server speaking the pseudo-SSE
// framing the probe expects: one POST in, one "data:" framed JSON-RPC reply
// out. It backs the e2e tests and the probe-target binary; it is a test
// double, not a production server.
package target

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "probe-target"
	serverVersion = "1.0.0"
)

// Document is one entry of the built-in corpus.
type Document struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

var corpus = []Document{
	{
		ID:    "mcp-overview",
		Title: "MCP Overview",
		URL:   "doc://mcp-overview",
		Text:  "The Model Context Protocol exposes discoverable tools to language-model hosts over JSON-RPC.",
	},
	{
		ID:    "mcp-transports",
		Title: "MCP Transports",
		URL:   "doc://mcp-transports",
		Text:  "MCP messages travel over stdio or HTTP; streamed HTTP responses use Server-Sent Events framing.",
	},
	{
		ID:    "tool-calling",
		Title: "Tool Calling",
		URL:   "doc://tool-calling",
		Text:  "Clients invoke tools with tools/call and receive ordered content blocks in the result.",
	},
}

// NewServer builds the MCP server with the search and fetch tools registered.
func NewServer() *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	searchTool := mcp.NewTool("search",
		mcp.WithDescription("Searches the built-in document corpus"),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query")),
	)
	s.AddTool(searchTool, searchHandler)

	fetchTool := mcp.NewTool("fetch",
		mcp.WithDescription("Fetches a document by id"),
		mcp.WithString("id", mcp.Required(), mcp.Description("Document id")),
	)
	s.AddTool(fetchTool, fetchHandler)

	return s
}

func searchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	query, ok := args["query"].(string)
	if !ok || query == "" {
		return mcp.NewToolResultError("query parameter is required and must be a string"), nil
	}

	type hit struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		URL   string `json:"url"`
	}
	results := make([]hit, 0)
	for _, doc := range corpus {
		if matches(doc, query) {
			results = append(results, hit{ID: doc.ID, Title: doc.Title, URL: doc.URL})
		}
	}

	payload, err := json.Marshal(map[string]interface{}{"results": results})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func matches(doc Document, query string) bool {
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(strings.ToLower(doc.Title), term) ||
			strings.Contains(strings.ToLower(doc.Text), term) {
			return true
		}
	}
	return false
}

func fetchHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}
	id, ok := args["id"].(string)
	if !ok || id == "" {
		return mcp.NewToolResultError("id parameter is required and must be a string"), nil
	}
	for _, doc := range corpus {
		if doc.ID == id {
			return mcp.NewToolResultText(doc.Text), nil
		}
	}
	return mcp.NewToolResultError(fmt.Sprintf("unknown document: %s", id)), nil
}

// SSEHandler adapts an MCP server to the pseudo-SSE POST framing: the whole
// JSON-RPC reply is written as a single "data:" event and the stream ends.
type SSEHandler struct {
	server *server.MCPServer
}

// NewSSEHandler wraps s for mounting at the /sse route.
func NewSSEHandler(s *server.MCPServer) *SSEHandler {
	return &SSEHandler{server: s}
}

func (h *SSEHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	resp := h.server.HandleMessage(r.Context(), body)
	if resp == nil {
		// Notification: nothing to frame.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "data: %s\n\n", payload)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
