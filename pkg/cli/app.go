package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	urfave "github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/mchmarny/hiscore/pkg/config"
	"github.com/mchmarny/hiscore/pkg/data"
	"github.com/mchmarny/hiscore/pkg/logging"
)

const (
	appName      = "hiscore"
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	stdout io.Writer = os.Stdout

	debugFlag = &urfave.BoolFlag{
		Name:  "debug",
		Usage: "Prints verbose logs (optional, default: false)",
	}

	noColorFlag = &urfave.BoolFlag{
		Name:    "no-color",
		Usage:   "Disables colored log output (optional, default: false)",
		Sources: urfave.EnvVars("HISCORE_NO_COLOR"),
	}

	configDirFlag = &urfave.StringFlag{
		Name:    "config",
		Usage:   "Path to the config directory (default: $HOME/.hiscore)",
		Sources: urfave.EnvVars("HISCORE_CONFIG"),
	}

	dbFlag = &urfave.StringFlag{
		Name:    "db",
		Usage:   "Sqlite file path or postgres DSN, overrides db_dsn from config",
		Sources: urfave.EnvVars("HISCORE_DB"),
	}

	formatFlag = &urfave.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultCLILogger(config.DefaultLogLevel, true)

	app := newApp()
	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	Config  *config.Config
	HomeDir string
	DBPath  string
	Debug   bool
	Format  string

	db *sql.DB
}

// DB opens the history store on first use.
func (a *appConfig) DB(ctx context.Context) (*sql.DB, error) {
	if a.db != nil {
		return a.db, nil
	}

	driver := data.NormalizeDriver(a.Config.DBDriver)
	slog.Debug("opening database", "driver", driver)

	db, err := data.Open(ctx, driver, a.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	a.db = db
	return db, nil
}

func (a *appConfig) close() {
	if a.db == nil {
		return
	}
	if err := a.db.Close(); err != nil {
		slog.Debug("error closing database", "error", err)
	}
	a.db = nil
}

func getConfig(cmd *urfave.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *urfave.Command {
	return &urfave.Command{
		Name:            appName,
		Version:         fmt.Sprintf("%s (%s - %s)", version, commit, date),
		HideHelpCommand: true,
		Usage:           "Score questionnaire answers into trait, preference and composite profiles",
		Flags: []urfave.Flag{
			debugFlag,
			noColorFlag,
			configDirFlag,
			dbFlag,
			formatFlag,
		},
		Commands: []*urfave.Command{
			convertCmd,
			scoreCmd,
			reportCmd,
			compositeCmd,
			taxonomyCmd,
			modelCmd,
			historyCmd,
			serverCmd,
			mcpCmd,
			watchCmd,
			authCmd,
			resetCmd,
		},
		Before: before,
		After: func(_ context.Context, cmd *urfave.Command) error {
			if cfg, ok := cmd.Root().Metadata[appConfigKey].(*appConfig); ok {
				cfg.close()
			}
			return nil
		},
	}
}

func before(ctx context.Context, cmd *urfave.Command) (context.Context, error) {
	dir := cmd.String(configDirFlag.Name)
	if dir == "" {
		d, _, err := config.GetOrCreateHomeDir(appName)
		if err != nil {
			return ctx, fmt.Errorf("getting home dir: %w", err)
		}
		dir = d
	}

	c, err := config.ReadOrCreate(dir)
	if err != nil {
		return ctx, fmt.Errorf("reading config: %w", err)
	}

	debug := cmd.Bool(debugFlag.Name)
	level := c.LogLevel
	if debug {
		level = "debug"
	}
	logging.SetDefaultCLILogger(level, !cmd.Bool(noColorFlag.Name))

	f := cmd.String(formatFlag.Name)
	if f == formatYAML || f == "yml" {
		f = formatYAML
	} else {
		f = formatJSON
	}

	dbPath := cmd.String(dbFlag.Name)
	if dbPath == "" {
		dbPath = c.DBDSN
	}
	if dbPath == "" {
		dbPath = filepath.Join(dir, data.DataFileName)
	}

	if cmd.Metadata == nil {
		cmd.Metadata = map[string]any{}
	}
	cmd.Metadata[appConfigKey] = &appConfig{
		Config:  c,
		HomeDir: dir,
		DBPath:  dbPath,
		Debug:   debug,
		Format:  f,
	}

	slog.Debug("config loaded", "dir", dir, "driver", c.DBDriver)
	return ctx, nil
}

func encode(cmd *urfave.Command, v any) error {
	if getConfig(cmd).Format == formatYAML {
		return yaml.NewEncoder(stdout).Encode(v)
	}
	e := json.NewEncoder(stdout)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
