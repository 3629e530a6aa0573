// Package tools exposes conversion and scoring as MCP tools.
package tools

import (
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mchmarny/hiscore/pkg/score"
)

const serverName = "hiscore"

const instructions = "hiscore converts questionnaire answers into the score,statement format " +
	"and scores them with a linear weight model into taxonomy sections and composite axes. " +
	"Call convert_rows on raw spreadsheet text first, then score_answers with the processed CSV. " +
	"Use list_taxonomy to see the known labels."

// NewServer returns an MCP server with every tool registered. model is used
// by score_answers when the call does not carry its own model.
func NewServer(version string, model *score.WeightModel) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	convertTool := NewConvertTool()
	s.AddTool(convertTool.Definition(), convertTool.Handle)

	scoreTool := NewScoreTool(model)
	s.AddTool(scoreTool.Definition(), scoreTool.Handle)

	taxonomyTool := NewTaxonomyTool()
	s.AddTool(taxonomyTool.Definition(), taxonomyTool.Handle)

	return s
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultErrorf("error encoding result: %v", err), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
