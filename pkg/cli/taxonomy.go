package cli

import (
	"context"
	"fmt"

	urfave "github.com/urfave/cli/v3"

	"github.com/mchmarny/hiscore/pkg/taxonomy"
	"github.com/mchmarny/hiscore/pkg/tools"
)

var (
	sectionFlag = &urfave.StringFlag{
		Name:  "section",
		Usage: "Only list this section [traits, expectations, taskPrefs, interests, workEnv, behavioral, functions]",
	}

	taxonomyCmd = &urfave.Command{
		Name:    "taxonomy",
		Aliases: []string{"t"},
		Usage:   "List taxonomy sections, labels, aliases and composites",
		Action:  cmdTaxonomy,
		Flags: []urfave.Flag{
			sectionFlag,
		},
	}
)

func cmdTaxonomy(_ context.Context, cmd *urfave.Command) error {
	s := cmd.String(sectionFlag.Name)
	if s == "" {
		return encode(cmd, tools.Catalog())
	}

	sec := taxonomy.Section(s)
	if !sec.IsValid() {
		return fmt.Errorf("unknown section %q", s)
	}
	return encode(cmd, taxonomy.Labels(sec))
}
