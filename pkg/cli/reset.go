package cli

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/config"
	"github.com/mchmarny/hiscore/pkg/data"
)

var (
	yesFlag = &urfave.BoolFlag{
		Name:    "yes",
		Aliases: []string{"y"},
		Usage:   "Do not ask for confirmation",
	}

	resetCmd = &urfave.Command{
		Name:            "reset",
		Usage:           "Delete the local assessment history and start fresh",
		HideHelpCommand: true,
		Flags:           []urfave.Flag{yesFlag},
		Action:          cmdReset,
	}
)

func cmdReset(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)

	if data.NormalizeDriver(cfg.Config.DBDriver) != config.DriverSQLite {
		return fmt.Errorf("reset only applies to the local sqlite history")
	}

	if !cmd.Bool(yesFlag.Name) {
		fmt.Fprintf(stdout, "This will permanently delete all data in %s\n", cfg.DBPath)
		fmt.Fprint(stdout, "Are you sure? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(stdout, "Aborted.")
			return nil
		}
	}

	// close the DB before deleting the file
	cfg.close()

	if err := os.Remove(cfg.DBPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting database: %w", err)
	}

	slog.Info("database deleted", "path", cfg.DBPath)

	// re-initialize empty database
	if err := data.Init(cfg.DBPath); err != nil {
		return fmt.Errorf("re-initializing database: %w", err)
	}

	slog.Info("database re-initialized", "path", cfg.DBPath)
	fmt.Fprintln(stdout, "Reset complete.")
	return nil
}
