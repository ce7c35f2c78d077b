package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arnavshah/fence-patrol-api/internal/app"
	"github.com/arnavshah/fence-patrol-api/pkg/csvio"
	"github.com/arnavshah/fence-patrol-api/pkg/metrics"
	"github.com/arnavshah/fence-patrol-api/pkg/scheduler"
)

// Output formats
const (
	formatTable = "table"
	formatCSV   = "csv"
)

func assignCmd(c *cli) *cobra.Command {
	var format, strategy string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Post the available volunteers on the key points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatTable && format != formatCSV {
				return fmt.Errorf("unknown format %q (want %s or %s)", format, formatTable, formatCSV)
			}
			if strategy != "" {
				c.cfg.Scheduling.Strategy = strategy
			}

			s, closeStore, err := app.OpenStore(c.ctx, c.cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			svc, err := app.NewRoster(c.cfg, s, c.logger, metrics.Nop{})
			if err != nil {
				return err
			}
			res, err := svc.CurrentAssignments(c.ctx)
			if err != nil {
				return fmt.Errorf("failed to compute assignments: %w", err)
			}

			if format == formatCSV {
				return csvio.WriteAssignments(cmd.OutOrStdout(), res.Assignments)
			}
			return renderAssignments(cmd.OutOrStdout(), res)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table or csv")
	cmd.Flags().StringVar(&strategy, "strategy", "", "Matching strategy: greedy_global or nearest_first (overrides config)")
	return cmd
}

func renderAssignments(w io.Writer, res *scheduler.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Post", "Importance", "Quota", "Volunteers")

	quotas := make(map[int]int, len(res.Quotas))
	for _, q := range res.Quotas {
		quotas[q.PointID] = q.Quota
	}
	for _, a := range res.Assignments {
		if err := table.Append([]string{
			strconv.Itoa(a.PostID),
			strconv.FormatFloat(a.Importance, 'f', -1, 64),
			strconv.Itoa(quotas[a.PostID]),
			strings.Join(a.Volunteers, ", "),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	if len(res.Unassigned) > 0 {
		names := make([]string, 0, len(res.Unassigned))
		for _, v := range res.Unassigned {
			names = append(names, v.Name)
		}
		fmt.Fprintf(w, "\nUnassigned (%d): %s\n", len(names), strings.Join(names, ", "))
	}
	return nil
}
