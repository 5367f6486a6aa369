package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/aio-keywords/pkg/keywords"
	"github.com/athapong/aio-keywords/services"
	"github.com/athapong/aio-keywords/util"
)

// maxFetchBytes bounds the size of a fetched page.
const maxFetchBytes = 10 << 20

// KeywordExtractor extracts a keyword report from one document.
type KeywordExtractor interface {
	ExtractReport(req keywords.ExtractRequest) (*keywords.Report, error)
}

// RegisterKeywordTool registers the keyword extraction tools.
func RegisterKeywordTool(s *server.MCPServer, extractor KeywordExtractor) {
	tool := mcp.NewTool("extract_keywords",
		mcp.WithDescription("Extracts ranked keywords, named entities and entity relationships from plain text or HTML. Returns JSON."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Text or HTML document to analyse")),
		mcp.WithNumber("max_keywords", mcp.Description("Maximum number of keywords to return (default 20)")),
		mcp.WithNumber("min_score", mcp.Description("Minimum term score between 0 and 1 (default 0.05)")),
		mcp.WithBoolean("report", mcp.Description("Return the full report with entities, relationships and method outcomes instead of the keyword list")),
	)
	s.AddTool(tool, util.ErrorGuard(util.AdaptLegacyHandler(keywordHandler(extractor))))

	urlTool := mcp.NewTool("extract_url_keywords",
		mcp.WithDescription("Fetches an HTTP/HTTPS page and extracts ranked keywords from its main content. Returns JSON."),
		mcp.WithString("url", mcp.Required(), mcp.Description("The complete HTTP/HTTPS URL to fetch (e.g., https://example.com)")),
		mcp.WithNumber("max_keywords", mcp.Description("Maximum number of keywords to return (default 20)")),
		mcp.WithNumber("min_score", mcp.Description("Minimum term score between 0 and 1 (default 0.05)")),
		mcp.WithBoolean("report", mcp.Description("Return the full report instead of the keyword list")),
	)
	s.AddTool(urlTool, util.ErrorGuard(util.AdaptLegacyHandler(urlKeywordHandler(extractor, services.DefaultHttpClient()))))
}

func keywordHandler(extractor KeywordExtractor) util.LegacyHandler {
	return func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		content, ok := arguments["content"].(string)
		if !ok {
			return mcp.NewToolResultError("content must be a string"), nil
		}
		return extract(extractor, content, arguments)
	}
}

func urlKeywordHandler(extractor KeywordExtractor, client *http.Client) util.LegacyHandler {
	return func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		url, ok := arguments["url"].(string)
		if !ok {
			return mcp.NewToolResultError("url must be a string"), nil
		}

		resp, err := client.Get(url)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to fetch URL: %s", err)), nil
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return mcp.NewToolResultError(fmt.Sprintf("failed to fetch URL: status %s", resp.Status)), nil
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to read response body: %s", err)), nil
		}

		return extract(extractor, string(body), arguments)
	}
}

func extract(extractor KeywordExtractor, content string, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	req, err := requestFromArgs(content, arguments)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := extractor.ExtractReport(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to extract keywords: %s", err)), nil
	}

	var out interface{} = report.Keywords
	if full, _ := arguments["report"].(bool); full {
		out = report
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %s", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// requestFromArgs builds a request from tool arguments. JSON numbers arrive
// as float64.
func requestFromArgs(content string, arguments map[string]interface{}) (keywords.ExtractRequest, error) {
	req := keywords.NewExtractRequest(content)

	if v, ok := arguments["max_keywords"]; ok && v != nil {
		n, ok := v.(float64)
		if !ok || n != math.Trunc(n) || n < 1 {
			return req, fmt.Errorf("max_keywords must be a positive integer")
		}
		req.MaxKeywords = int(n)
	}

	if v, ok := arguments["min_score"]; ok && v != nil {
		f, ok := v.(float64)
		if !ok || f < 0 || f > 1 {
			return req, fmt.Errorf("min_score must be a number between 0 and 1")
		}
		req.MinScore = f
	}

	return req, nil
}
