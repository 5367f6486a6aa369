package util

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "test_tool"
	req.Params.Arguments = args
	return req
}

func TestAdaptLegacyHandler(t *testing.T) {
	var seen map[string]interface{}
	h := AdaptLegacyHandler(func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		seen = arguments
		return mcp.NewToolResultText("ok"), nil
	})

	result, err := h(context.Background(), callRequest(map[string]interface{}{"a": "b"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "b", seen["a"])
}

func TestErrorGuard(t *testing.T) {
	panicking := ErrorGuard(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		panic("kaboom")
	})
	result, err := panicking(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	failing := ErrorGuard(func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("failed")
	})
	result, err = failing(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}
