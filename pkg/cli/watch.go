package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/data"
	"github.com/mchmarny/hiscore/pkg/score"
	"github.com/mchmarny/hiscore/pkg/watch"
)

const processedPrefix = "processed_"

var (
	watchDirFlag = &urfave.StringFlag{
		Name:     "dir",
		Aliases:  []string{"d"},
		Usage:    "Inbox directory to watch for questionnaire files",
		Required: true,
	}

	existingFlag = &urfave.BoolFlag{
		Name:  "existing",
		Usage: "Also process files already in the inbox",
	}

	watchCmd = &urfave.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Convert questionnaire files as they are dropped into a directory",
		UsageText: `hiscore watch --dir ./inbox --out ./processed
   hiscore watch --dir ./inbox --model weights.json --save`,
		Action: cmdWatch,
		Flags: []urfave.Flag{
			watchDirFlag,
			outDirFlag,
			existingFlag,
			modelFlag,
			saveFlag,
		},
	}
)

// inboxHandler converts, and optionally scores and saves, inbox files.
type inboxHandler struct {
	out      string
	model    *score.WeightModel
	modelRef string
	save     bool
	cfg      *appConfig
}

func cmdWatch(ctx context.Context, cmd *urfave.Command) error {
	cfg := getConfig(cmd)
	h := &inboxHandler{
		out:  outputDir(cmd),
		save: cmd.Bool(saveFlag.Name),
		cfg:  cfg,
	}

	if ref := modelRef(cmd); ref != "" {
		m, err := readModel(ctx, ref, cfg.Config.ModelToken)
		if err != nil {
			return err
		}
		h.model, h.modelRef = m, ref
	}
	if h.save && h.model == nil {
		return fmt.Errorf("--save requires a model: %w", errNoModel)
	}

	w, err := watch.New(cmd.String(watchDirFlag.Name), h.handle)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	w.Existing = cmd.Bool(existingFlag.Name)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Debug("watch settings", "dir", w.Dir, "out", h.out, "scoring", h.model != nil, "save", h.save)
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watching %s: %w", w.Dir, err)
	}
	return nil
}

func (h *inboxHandler) handle(ctx context.Context, path string) error {
	// own output may land in the inbox
	if strings.HasPrefix(filepath.Base(path), processedPrefix) {
		slog.Debug("skipping processed file", "path", path)
		return nil
	}

	src, err := ingestFile(path)
	if err != nil {
		return err
	}

	if _, err := writeProcessed(src, h.out); err != nil {
		return err
	}

	if h.model == nil {
		return nil
	}

	res := score.Evaluate(answer.NewAnswerSet(src.Pairs), h.model)
	res.Candidate = src.Candidate
	slog.Info("scored", "candidate", res.Candidate, "labels", res.Scores.Len())

	if !h.save {
		return nil
	}

	db, err := h.cfg.DB(ctx)
	if err != nil {
		return err
	}

	date, _ := assessmentDate("")
	a := toAssessment(src, res, h.modelRef, date)
	if err := data.SaveAssessment(ctx, db, a); err != nil {
		return fmt.Errorf("saving assessment for %s: %w", a.Candidate, err)
	}

	slog.Info("assessment saved", "id", a.ID, "candidate", a.Candidate)
	return nil
}
