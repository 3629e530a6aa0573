package cli

import (
	"context"
	"errors"
	"fmt"

	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/auth"
	"github.com/mchmarny/hiscore/pkg/config"
)

var authCmd = &urfave.Command{
	Name:  "auth",
	Usage: "Manage the local HTTP API token",
	Commands: []*urfave.Command{
		{
			Name:   "token",
			Usage:  "Generate a new API token, store it and enable auth",
			Action: cmdAuthToken,
		},
		{
			Name:   "show",
			Usage:  "Print the stored API token",
			Action: cmdAuthShow,
		},
		{
			Name:   "delete",
			Usage:  "Delete the stored API token and disable auth",
			Action: cmdAuthDelete,
		},
	},
}

func cmdAuthToken(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)

	token, err := auth.GenerateToken()
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}

	if err := auth.NewStore(cfg.HomeDir).Save(token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	if !cfg.Config.Auth {
		cfg.Config.Auth = true
		if err := config.Save(cfg.HomeDir, cfg.Config); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	fmt.Fprintln(stdout, token)
	return nil
}

func cmdAuthShow(_ context.Context, cmd *urfave.Command) error {
	token, err := auth.NewStore(getConfig(cmd).HomeDir).Get()
	if err != nil {
		return fmt.Errorf("getting token: %w", err)
	}
	fmt.Fprintln(stdout, token)
	return nil
}

func cmdAuthDelete(_ context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)

	if err := auth.NewStore(cfg.HomeDir).Delete(); err != nil && !errors.Is(err, auth.ErrNoToken) {
		return fmt.Errorf("deleting token: %w", err)
	}

	if cfg.Config.Auth {
		cfg.Config.Auth = false
		if err := config.Save(cfg.HomeDir, cfg.Config); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	fmt.Fprintln(stdout, "Token deleted.")
	return nil
}
