package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	urfave "github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/hiscore/pkg/answer"
	"github.com/mchmarny/hiscore/pkg/data"
	"github.com/mchmarny/hiscore/pkg/score"
	"github.com/mchmarny/hiscore/pkg/sheet"
	"github.com/mchmarny/hiscore/pkg/taxonomy"
)

var (
	saveFlag = &urfave.BoolFlag{
		Name:  "save",
		Usage: "Record the scores in the local history",
	}

	dateFlag = &urfave.StringFlag{
		Name:  "date",
		Usage: fmt.Sprintf("Assessment date (%s, default: today)", data.DateLayout),
	}

	reportOutFlag = &urfave.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Usage:   "Report file path (default: stdout)",
	}

	compositeNameFlag = &urfave.StringFlag{
		Name:  "name",
		Usage: "Composite name, e.g. Outlook (default: all)",
	}

	scoreCmd = &urfave.Command{
		Name:      "score",
		Aliases:   []string{"s"},
		Usage:     "Score answer files with a weight model",
		ArgsUsage: "<file...>",
		UsageText: `hiscore score --model weights.json processed_jane.csv
   hiscore score --model https://example.com/weights.json --save *.csv`,
		Action: cmdScore,
		Flags: []urfave.Flag{
			modelFlag,
			candidateFlag,
			dateFlag,
			saveFlag,
		},
	}

	reportCmd = &urfave.Command{
		Name:      "report",
		Usage:     "Write the Category,Trait,Score table for an answer file",
		ArgsUsage: "<file>",
		Action:    cmdReport,
		Flags: []urfave.Flag{
			modelFlag,
			reportOutFlag,
		},
	}

	compositeCmd = &urfave.Command{
		Name:      "composite",
		Usage:     "Derive the four-axis composites for an answer file",
		ArgsUsage: "<file>",
		Action:    cmdComposite,
		Flags: []urfave.Flag{
			modelFlag,
			compositeNameFlag,
		},
	}
)

// ScoreResult is the score output of one file.
type ScoreResult struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	Source       string `json:"source,omitempty" yaml:"source,omitempty"`
	score.Result `yaml:",inline"`
}

type scored struct {
	src *sheet.Result
	res *score.Result
}

func cmdScore(ctx context.Context, cmd *urfave.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("at least one file required")
	}

	candidate := cmd.String(candidateFlag.Name)
	if candidate != "" && len(files) > 1 {
		return fmt.Errorf("--candidate can only be used with a single file")
	}

	date, err := assessmentDate(cmd.String(dateFlag.Name))
	if err != nil {
		return err
	}

	m, ref, err := loadModel(ctx, cmd)
	if err != nil {
		return err
	}

	list, err := scoreFiles(ctx, files, m)
	if err != nil {
		return err
	}
	if candidate != "" {
		list[0].res.Candidate = candidate
	}

	out := make([]*ScoreResult, 0, len(list))
	for _, s := range list {
		out = append(out, &ScoreResult{Source: s.src.Source, Result: *s.res})
	}

	if cmd.Bool(saveFlag.Name) {
		db, err := getConfig(cmd).DB(ctx)
		if err != nil {
			return err
		}
		for i, s := range list {
			a := toAssessment(s.src, s.res, ref, date)
			if err := data.SaveAssessment(ctx, db, a); err != nil {
				return fmt.Errorf("saving assessment for %s: %w", s.res.Candidate, err)
			}
			out[i].ID = a.ID
			slog.Info("assessment saved", "id", a.ID, "candidate", a.Candidate)
		}
	}

	if len(out) == 1 {
		return encode(cmd, out[0])
	}
	return encode(cmd, out)
}

// scoreFiles ingests and scores files concurrently. Results keep the order
// of files.
func scoreFiles(ctx context.Context, files []string, m *score.WeightModel) ([]*scored, error) {
	list := make([]*scored, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			src, err := ingestFile(f)
			if err != nil {
				return err
			}
			res := score.Evaluate(answer.NewAnswerSet(src.Pairs), m)
			res.Candidate = src.Candidate
			list[i] = &scored{src: src, res: res}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return list, nil
}

func assessmentDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now().Format(data.DateLayout), nil
	}
	if _, err := time.Parse(data.DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q, expected %s", s, data.DateLayout)
	}
	return s, nil
}

func toAssessment(src *sheet.Result, res *score.Result, ref, date string) *data.Assessment {
	a := &data.Assessment{
		Candidate:  res.Candidate,
		AssessedOn: date,
		Source:     src.Source,
		AnswersCSV: src.CSV(),
		ModelRef:   ref,
		Scores:     make([]data.LabelScore, 0, res.Scores.Len()),
	}
	for _, sec := range taxonomy.Sections {
		for _, ls := range res.Scores.Ranked(sec) {
			a.Scores = append(a.Scores, data.LabelScore{
				Section: string(ls.Section),
				Label:   ls.Label,
				Value:   ls.Value,
			})
		}
	}
	return a
}

// boardFromAssessment rebuilds a score board from stored label values.
func boardFromAssessment(a *data.Assessment) score.ScoreBoard {
	b := score.NewScoreBoard()
	for _, s := range a.Scores {
		sec := taxonomy.Section(s.Section)
		if !sec.IsValid() {
			sec = taxonomy.SectionOf(s.Label)
		}
		b[sec][s.Label] = s.Value
	}
	return b
}

func scoreSingle(ctx context.Context, cmd *urfave.Command) (score.ScoreBoard, error) {
	if cmd.Args().Len() != 1 {
		return nil, fmt.Errorf("exactly one file required")
	}

	m, _, err := loadModel(ctx, cmd)
	if err != nil {
		return nil, err
	}

	src, err := ingestFile(cmd.Args().First())
	if err != nil {
		return nil, err
	}

	return score.Score(answer.NewAnswerSet(src.Pairs), m), nil
}

func cmdReport(ctx context.Context, cmd *urfave.Command) error {
	board, err := scoreSingle(ctx, cmd)
	if err != nil {
		return err
	}

	var w io.Writer = stdout
	if p := cmd.String(reportOutFlag.Name); p != "" {
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("creating report file %s: %w", p, err)
		}
		defer f.Close()
		w = f
	}

	if err := score.WriteReport(w, board); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func cmdComposite(ctx context.Context, cmd *urfave.Command) error {
	board, err := scoreSingle(ctx, cmd)
	if err != nil {
		return err
	}

	name := cmd.String(compositeNameFlag.Name)
	if name == "" {
		return encode(cmd, score.DeriveAll(board))
	}

	c, ok := taxonomy.CompositeByName(name)
	if !ok {
		return fmt.Errorf("unknown composite %q", name)
	}
	return encode(cmd, score.NamedAxes{Composite: c, Axes: score.Derive(board, c)})
}
