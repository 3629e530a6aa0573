package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/config"
	"github.com/mchmarny/hiscore/pkg/net"
	"github.com/mchmarny/hiscore/pkg/score"
	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

const modelFileName = "model.json"

var (
	errNoModel = errors.New("no weight model, set --model or model in config")

	modelFlag = &urfave.StringFlag{
		Name:    "model",
		Aliases: []string{"m"},
		Usage:   "Weight model JSON file path or http(s) URL (default: model from config)",
		Sources: urfave.EnvVars("HISCORE_MODEL"),
	}
)

// modelRef returns the model reference from the flag or the config.
func modelRef(cmd *urfave.Command) string {
	if ref := cmd.String(modelFlag.Name); ref != "" {
		return ref
	}
	return getConfig(cmd).Config.Model
}

// fetchModel reads the model document from a file path or URL. URLs are
// fetched with token as the bearer token when it is set.
func fetchModel(ctx context.Context, ref, token string) ([]byte, error) {
	if ref == "" {
		return nil, errNoModel
	}

	var (
		b   []byte
		err error
	)
	if net.IsURL(ref) {
		b, err = net.Fetch(ctx, ref, token)
	} else {
		b, err = os.ReadFile(ref)
	}
	if err != nil {
		return nil, fmt.Errorf("reading model %s: %w", ref, err)
	}
	return b, nil
}

// readModel loads the weight model behind ref. Only a reference that cannot
// be read is an error, a malformed document yields an empty model.
func readModel(ctx context.Context, ref, token string) (*score.WeightModel, error) {
	b, err := fetchModel(ctx, ref, token)
	if err != nil {
		return nil, err
	}

	m := score.LoadModel(b)
	if m.IsEmpty() {
		slog.Warn("weight model has no labels, nothing will be scored", "ref", ref)
	}
	for _, l := range score.Unclassified(m) {
		slog.Warn("label not in taxonomy, scored under traits", "label", l)
	}

	slog.Debug("model loaded", "ref", ref, "labels", len(m.Labels))
	return m, nil
}

// loadModel resolves the model of a scoring command. Without a reference
// the empty model is used.
func loadModel(ctx context.Context, cmd *urfave.Command) (*score.WeightModel, string, error) {
	ref := modelRef(cmd)
	if ref == "" {
		slog.Warn("no weight model configured, nothing will be scored")
		return &score.WeightModel{}, "", nil
	}

	m, err := readModel(ctx, ref, getConfig(cmd).Config.ModelToken)
	if err != nil {
		return nil, "", err
	}
	return m, ref, nil
}

var (
	modelLabelFlag = &urfave.StringFlag{
		Name:  "label",
		Usage: "Print the intercept and feature weights of a single label",
	}

	modelFileFlag = &urfave.StringFlag{
		Name:  "file",
		Usage: "Where to save the model (default: model.json in the config dir)",
	}

	modelCmd = &urfave.Command{
		Name:  "model",
		Usage: "Inspect or download the weight model",
		Commands: []*urfave.Command{
			{
				Name:   "show",
				Usage:  "Print the labels of the configured model",
				Action: cmdModelShow,
				Flags:  []urfave.Flag{modelFlag, modelLabelFlag},
			},
			{
				Name:      "pull",
				Usage:     "Download a model and make it the configured default",
				ArgsUsage: "<url>",
				Action:    cmdModelPull,
				Flags:     []urfave.Flag{modelFileFlag},
			},
		},
	}
)

// ModelInfo summarizes a weight model.
type ModelInfo struct {
	Ref          string              `json:"ref" yaml:"ref"`
	Labels       map[string][]string `json:"labels" yaml:"labels"`
	Features     int                 `json:"features" yaml:"features"`
	Unclassified []string            `json:"unclassified,omitempty" yaml:"unclassified,omitempty"`
}

func cmdModelShow(ctx context.Context, cmd *urfave.Command) error {
	m, ref, err := loadModel(ctx, cmd)
	if err != nil {
		return err
	}

	if name := cmd.String(modelLabelFlag.Name); name != "" {
		l, ok := m.Find(taxonomy.Canonical(name))
		if !ok {
			return fmt.Errorf("label %q not in model %s", name, ref)
		}
		return encode(cmd, l)
	}

	info := &ModelInfo{
		Ref:          ref,
		Labels:       make(map[string][]string),
		Unclassified: score.Unclassified(m),
	}
	for _, l := range m.Labels {
		sec := string(taxonomy.SectionOf(l.Label))
		info.Labels[sec] = append(info.Labels[sec], l.Label)
		info.Features += len(l.Features)
	}

	return encode(cmd, info)
}

func cmdModelPull(ctx context.Context, cmd *urfave.Command) error {
	ref := cmd.Args().First()
	if !net.IsURL(ref) {
		return fmt.Errorf("model URL required, got %q", ref)
	}

	cfg := getConfig(cmd)
	path := cmd.String(modelFileFlag.Name)
	if path == "" {
		path = filepath.Join(cfg.HomeDir, modelFileName)
	}

	if err := net.Download(ctx, ref, path, cfg.Config.ModelToken); err != nil {
		return fmt.Errorf("downloading model: %w", err)
	}

	// validate before making it the default
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading model %s: %w", path, err)
	}
	if _, err := score.ParseModel(b); err != nil {
		return fmt.Errorf("parsing model %s: %w", ref, err)
	}

	cfg.Config.Model = path
	if err := config.Save(cfg.HomeDir, cfg.Config); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	slog.Info("model saved", "url", ref, "path", path)
	return nil
}
