package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	humanize "github.com/dustin/go-humanize"
	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/sheet"
)

const (
	dirMode  = 0700
	fileMode = 0600
)

var (
	outDirFlag = &urfave.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Directory for processed files (default: processed_dir from config, or the current dir)",
	}

	candidateFlag = &urfave.StringFlag{
		Name:  "candidate",
		Usage: "Candidate name (default: derived from the file name)",
	}

	convertCmd = &urfave.Command{
		Name:      "convert",
		Aliases:   []string{"c"},
		Usage:     "Extract answers from questionnaire files into processed_<candidate>.csv",
		ArgsUsage: "<file...>",
		UsageText: `hiscore convert jane.xlsx                 # writes processed_jane.csv
   hiscore convert --out ./done *.xlsx *.csv  # convert many files`,
		Action: cmdConvert,
		Flags: []urfave.Flag{
			outDirFlag,
			candidateFlag,
		},
	}
)

// ConvertResult describes one converted file.
type ConvertResult struct {
	Source    string     `json:"source" yaml:"source"`
	Candidate string     `json:"candidate" yaml:"candidate"`
	Kind      sheet.Kind `json:"kind" yaml:"kind"`
	Sheet     string     `json:"sheet,omitempty" yaml:"sheet,omitempty"`
	Answers   int        `json:"answers" yaml:"answers"`
	Output    string     `json:"output" yaml:"output"`
	Size      string     `json:"size" yaml:"size"`
}

func cmdConvert(_ context.Context, cmd *urfave.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one file required")
	}

	dir := outputDir(cmd)
	candidate := cmd.String(candidateFlag.Name)
	if candidate != "" && len(files) > 1 {
		return fmt.Errorf("--candidate can only be used with a single file")
	}

	list := make([]*ConvertResult, 0, len(files))
	for _, f := range files {
		res, err := ingestFile(f)
		if err != nil {
			return err
		}
		if candidate != "" {
			res.Candidate = candidate
		}

		r, err := writeProcessed(res, dir)
		if err != nil {
			return err
		}
		list = append(list, r)
	}

	return encode(cmd, list)
}

func outputDir(cmd *urfave.Command) string {
	if d := cmd.String(outDirFlag.Name); d != "" {
		return d
	}
	if d := getConfig(cmd).Config.ProcessedDir; d != "" {
		return d
	}
	return "."
}

func ingestFile(path string) (*sheet.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := sheet.Ingest(path, f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return res, nil
}

func writeProcessed(res *sheet.Result, dir string) (*ConvertResult, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("creating dir %s: %w", dir, err)
	}

	out := filepath.Join(dir, res.FileName())
	b := []byte(res.CSV())
	if err := os.WriteFile(out, b, fileMode); err != nil {
		return nil, fmt.Errorf("writing %s: %w", out, err)
	}

	slog.Info("converted", "source", res.Source, "output", out, "answers", len(res.Pairs))

	return &ConvertResult{
		Source:    res.Source,
		Candidate: res.Candidate,
		Kind:      res.Kind,
		Sheet:     res.Sheet,
		Answers:   len(res.Pairs),
		Output:    out,
		Size:      humanize.Bytes(uint64(len(b))),
	}, nil
}
