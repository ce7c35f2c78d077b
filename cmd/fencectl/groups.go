package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/arnavshah/fence-patrol-api/internal/app"
	"github.com/arnavshah/fence-patrol-api/pkg/metrics"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

func groupsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "groups",
		Short: "Split the available volunteers into patrol groups by location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := app.OpenStore(c.ctx, c.cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			svc, err := app.NewRoster(c.cfg, s, c.logger, metrics.Nop{})
			if err != nil {
				return err
			}
			groups, err := svc.PatrolGroups(c.ctx)
			if err != nil {
				return fmt.Errorf("failed to form groups: %w", err)
			}
			return renderGroups(cmd.OutOrStdout(), groups)
		},
	}
}

func renderGroups(w io.Writer, groups []models.Group) error {
	table := tablewriter.NewWriter(w)
	table.Header("Group", "Size", "Volunteers")
	for _, g := range groups {
		if err := table.Append([]string{
			g.Name,
			strconv.Itoa(len(g.Volunteers)),
			strings.Join(g.Volunteers, ", "),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}
