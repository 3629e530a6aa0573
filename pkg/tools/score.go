package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/score"
)

// ScoreTool handles the score_answers MCP tool.
type ScoreTool struct {
	model *score.WeightModel
}

// NewScoreTool creates a ScoreTool with a default model, which may be nil.
func NewScoreTool(model *score.WeightModel) *ScoreTool {
	return &ScoreTool{model: model}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("score_answers",
		mcp.WithDescription(
			"Score processed answers with a linear weight model. "+
				"Returns label scores (0-10) per taxonomy section, the nine composite axes "+
				"and the top strengths and development areas. "+
				"Labels the taxonomy does not know are scored under traits and listed as unclassified.",
		),
		mcp.WithString("csv",
			mcp.Required(),
			mcp.Description("Processed answers: a score,statement header and one <score>,\"<statement>\" line per answer."),
		),
		mcp.WithString("model",
			mcp.Description("Weight model JSON. Either {\"generic\": {label: {feature: weight, \"_intercept\": n}}} "+
				"or {group: {label: {...}}}. Defaults to the configured model."),
		),
		mcp.WithString("candidate",
			mcp.Description("Candidate name echoed in the result."),
		),
	)
}

// Handle processes the score_answers tool call.
func (t *ScoreTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := req.GetString("csv", "")
	answers := answer.Decode(text)
	if len(answers) == 0 {
		return mcp.NewToolResultError("csv has no answers"), nil
	}

	m := t.model
	if raw := req.GetString("model", ""); strings.TrimSpace(raw) != "" {
		m = score.LoadModel([]byte(raw))
	}

	res := score.Evaluate(answers, m)
	res.Candidate = req.GetString("candidate", "")
	return jsonResult(res)
}
