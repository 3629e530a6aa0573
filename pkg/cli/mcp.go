package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/score"
	"github.com/mchmarny/hiscore/pkg/tools"
)

var mcpCmd = &urfave.Command{
	Name:   "mcp",
	Usage:  "Serve the convert, score and taxonomy tools over MCP stdio",
	Action: cmdMCP,
	Flags:  []urfave.Flag{modelFlag},
}

func cmdMCP(ctx context.Context, cmd *urfave.Command) error {
	var m *score.WeightModel
	if ref := modelRef(cmd); ref != "" {
		var err error
		if m, err = readModel(ctx, ref, getConfig(cmd).Config.ModelToken); err != nil {
			return err
		}
	}

	// logs go to stderr, stdout carries the protocol
	slog.Debug("starting MCP server", "model", m != nil)

	s := tools.NewServer(version, m)
	if err := server.ServeStdio(s); err != nil {
		return fmt.Errorf("serving MCP: %w", err)
	}
	return nil
}
