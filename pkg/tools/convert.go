package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/extract"
	"github.com/mchmarny/hiscore/pkg/sheet"
)

// ConvertTool handles the convert_rows MCP tool.
type ConvertTool struct{}

// NewConvertTool creates a ConvertTool.
func NewConvertTool() *ConvertTool {
	return &ConvertTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *ConvertTool) Definition() mcp.Tool {
	return mcp.NewTool("convert_rows",
		mcp.WithDescription(
			"Extract (score, statement) answers from raw comma separated spreadsheet rows "+
				"and return them in the processed score,statement CSV format. "+
				"Rows may hold the score and statement in columns A and B, "+
				"both in one cell (\"8 I enjoy working outdoors\"), "+
				"or the statement in column A with the score in column F.",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Raw rows, one per line, cells separated by commas."),
		),
		mcp.WithString("candidate",
			mcp.Description("Candidate name used for the suggested file name."),
		),
	)
}

// Handle processes the convert_rows tool call.
func (t *ConvertTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("text", "")
	if strings.TrimSpace(text) == "" {
		return mcp.NewToolResultError("text is required"), nil
	}

	pairs := extract.Rows(sheet.SplitRows(text))
	if len(pairs) == 0 {
		return mcp.NewToolResultError("no usable rows found: expected a score and a statement of at least 6 characters per row"), nil
	}

	return jsonResult(map[string]any{
		"file":    sheet.ProcessedFileName(req.GetString("candidate", "")),
		"answers": len(pairs),
		"csv":     answer.Encode(pairs),
	})
}
