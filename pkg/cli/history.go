package cli

import (
	"context"
	"fmt"

	humanize "github.com/dustin/go-humanize"
	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/data"
	"github.com/mchmarny/hiscore/pkg/score"
)

var (
	likeFlag = &urfave.StringFlag{
		Name:  "like",
		Usage: "Candidate name filter (case-insensitive substring)",
	}

	limitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of results",
		Value: data.DefaultListLimit,
	}

	historyCmd = &urfave.Command{
		Name:    "history",
		Aliases: []string{"h"},
		Usage:   "Query the local assessment history",
		Commands: []*urfave.Command{
			{
				Name:   "list",
				Usage:  "List saved assessments",
				Action: cmdHistoryList,
				Flags:  []urfave.Flag{likeFlag, limitFlag},
			},
			{
				Name:      "show",
				Usage:     "Show one assessment with its scores and composites",
				ArgsUsage: "<id>",
				Action:    cmdHistoryShow,
			},
			{
				Name:      "trend",
				Usage:     "Show label values across the assessments of a candidate",
				ArgsUsage: "<candidate>",
				Action:    cmdHistoryTrend,
			},
			{
				Name:      "delete",
				Usage:     "Delete one assessment",
				ArgsUsage: "<id>",
				Action:    cmdHistoryDelete,
			},
			{
				Name:   "state",
				Usage:  "Show row counts of the local store",
				Action: cmdHistoryState,
			},
		},
	}
)

// HistoryItem is one row of the history list.
type HistoryItem struct {
	ID         string `json:"id" yaml:"id"`
	Candidate  string `json:"candidate" yaml:"candidate"`
	AssessedOn string `json:"assessed_on" yaml:"assessedOn"`
	Source     string `json:"source,omitempty" yaml:"source,omitempty"`
	Labels     int    `json:"labels" yaml:"labels"`
	Saved      string `json:"saved" yaml:"saved"`
}

// HistoryDetail is a stored assessment with the values derived from it.
type HistoryDetail struct {
	data.Assessment `yaml:",inline"`
	Composites      []score.NamedAxes `json:"composites" yaml:"composites"`
	Summary         *score.Summary    `json:"summary" yaml:"summary"`
}

func cmdHistoryList(ctx context.Context, cmd *urfave.Command) error {
	db, err := getConfig(cmd).DB(ctx)
	if err != nil {
		return err
	}

	list, err := data.ListAssessments(ctx, db, cmd.String(likeFlag.Name), cmd.Int(limitFlag.Name))
	if err != nil {
		return fmt.Errorf("listing assessments: %w", err)
	}

	items := make([]*HistoryItem, 0, len(list))
	for _, a := range list {
		items = append(items, &HistoryItem{
			ID:         a.ID,
			Candidate:  a.Candidate,
			AssessedOn: a.AssessedOn,
			Source:     a.Source,
			Labels:     a.LabelCount,
			Saved:      humanize.Time(a.CreatedAt),
		})
	}

	return encode(cmd, items)
}

func cmdHistoryShow(ctx context.Context, cmd *urfave.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("assessment id required")
	}

	db, err := getConfig(cmd).DB(ctx)
	if err != nil {
		return err
	}

	a, err := data.GetAssessment(ctx, db, id)
	if err != nil {
		return fmt.Errorf("getting assessment %s: %w", id, err)
	}

	return encode(cmd, historyDetail(a))
}

func historyDetail(a *data.Assessment) *HistoryDetail {
	board := boardFromAssessment(a)
	return &HistoryDetail{
		Assessment: *a,
		Composites: score.DeriveAll(board),
		Summary:    score.Summarize(board, score.DefaultSummarySize),
	}
}

func cmdHistoryTrend(ctx context.Context, cmd *urfave.Command) error {
	candidate := cmd.Args().First()
	if candidate == "" {
		return fmt.Errorf("candidate required")
	}

	db, err := getConfig(cmd).DB(ctx)
	if err != nil {
		return err
	}

	points, err := data.GetLabelHistory(ctx, db, candidate)
	if err != nil {
		return fmt.Errorf("getting history of %s: %w", candidate, err)
	}

	return encode(cmd, points)
}

func cmdHistoryDelete(ctx context.Context, cmd *urfave.Command) error {
	id := cmd.Args().First()
	if id == "" {
		return fmt.Errorf("assessment id required")
	}

	db, err := getConfig(cmd).DB(ctx)
	if err != nil {
		return err
	}

	if err := data.DeleteAssessment(ctx, db, id); err != nil {
		return fmt.Errorf("deleting assessment %s: %w", id, err)
	}

	return encode(cmd, map[string]string{"deleted": id})
}

func cmdHistoryState(ctx context.Context, cmd *urfave.Command) error {
	db, err := getConfig(cmd).DB(ctx)
	if err != nil {
		return err
	}

	state, err := data.GetDataState(ctx, db)
	if err != nil {
		return fmt.Errorf("getting data state: %w", err)
	}

	return encode(cmd, state)
}
