package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

// TaxonomyTool handles the list_taxonomy MCP tool.
type TaxonomyTool struct{}

// NewTaxonomyTool creates a TaxonomyTool.
func NewTaxonomyTool() *TaxonomyTool {
	return &TaxonomyTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *TaxonomyTool) Definition() mcp.Tool {
	return mcp.NewTool("list_taxonomy",
		mcp.WithDescription("List taxonomy sections with their labels, the label aliases and the composite definitions."),
		mcp.WithString("section",
			mcp.Description("Only list this section: traits, expectations, taskPrefs, interests, workEnv, behavioral or functions."),
		),
	)
}

// Handle processes the list_taxonomy tool call.
func (t *TaxonomyTool) Handle(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s := req.GetString("section", ""); s != "" {
		sec := taxonomy.Section(s)
		if !sec.IsValid() {
			return mcp.NewToolResultErrorf("unknown section %q", s), nil
		}
		return jsonResult(map[string]any{string(sec): taxonomy.Labels(sec)})
	}
	return jsonResult(Catalog())
}

// TaxonomyCatalog describes the whole taxonomy.
type TaxonomyCatalog struct {
	Sections   map[taxonomy.Section][]string `json:"sections" yaml:"sections"`
	Aliases    map[string]string             `json:"aliases" yaml:"aliases"`
	Composites []taxonomy.Composite          `json:"composites" yaml:"composites"`
}

// Catalog returns the full taxonomy description.
func Catalog() *TaxonomyCatalog {
	c := &TaxonomyCatalog{
		Sections:   make(map[taxonomy.Section][]string, len(taxonomy.Sections)),
		Aliases:    taxonomy.Aliases(),
		Composites: taxonomy.Composites(),
	}
	for _, s := range taxonomy.Sections {
		c.Sections[s] = taxonomy.Labels(s)
	}
	return c
}
