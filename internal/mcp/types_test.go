package mcp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	req := NewRequest(7, "tools/list", map[string]interface{}{})
	assert.Equal(t, "2.0", req.JSONRPC)
	assert.Equal(t, int64(7), req.ID)
	assert.Equal(t, "tools/list", req.Method)
}

func TestFirstText(t *testing.T) {
	r := CallResult{Content: []ToolContent{
		{Type: "image", Text: ""},
		{Type: "text", Text: "first"},
		{Type: "text", Text: "second"},
	}}
	text, ok := r.FirstText()
	assert.True(t, ok)
	assert.Equal(t, "first", text)

	empty := CallResult{}
	_, ok = empty.FirstText()
	assert.False(t, ok)
}

func TestResponseDistinguishesResultAndError(t *testing.T) {
	var ok Response
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":1,"result":{"tools":[]}}`), &ok))
	assert.Nil(t, ok.Error)
	assert.NotEmpty(t, ok.Result)

	var failed Response
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":2,"error":{"code":-32601,"message":"Method not found"}}`), &failed))
	require.NotNil(t, failed.Error)
	assert.Equal(t, -32601, failed.Error.Code)
	assert.Empty(t, failed.Result)
}
