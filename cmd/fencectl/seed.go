package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arnavshah/fence-patrol-api/internal/app"
	"github.com/arnavshah/fence-patrol-api/pkg/csvio"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
	"github.com/arnavshah/fence-patrol-api/pkg/store"
)

func seedCmd(c *cli) *cobra.Command {
	var volunteersPath, fencePointsPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import volunteer and fence point sheets into the configured store",
		Long: `Reads CSV sheets in the volunteers.csv / fence_points.csv layout and upserts
every row into the configured store, keeping ids. Useful for moving data into
the sql or dynamodb backends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if volunteersPath == "" && fencePointsPath == "" {
				return fmt.Errorf("at least one of --volunteers or --fence-points is required")
			}

			s, closeStore, err := app.OpenStore(c.ctx, c.cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			nv, np, err := seed(c.ctx, s, volunteersPath, fencePointsPath)
			if err != nil {
				return err
			}
			c.logger.Info("store seeded",
				zap.String("backend", c.cfg.Store.Backend),
				zap.Int("volunteers", nv),
				zap.Int("fence_points", np))
			return nil
		},
	}

	cmd.Flags().StringVar(&volunteersPath, "volunteers", "", "Volunteers CSV to import")
	cmd.Flags().StringVar(&fencePointsPath, "fence-points", "", "Fence points CSV to import")
	return cmd
}

// seed upserts the rows of the given sheets into s; an empty path is skipped
func seed(ctx context.Context, s store.Store, volunteersPath, fencePointsPath string) (int, int, error) {
	var volunteers []models.Volunteer
	if volunteersPath != "" {
		f, err := os.Open(volunteersPath)
		if err != nil {
			return 0, 0, err
		}
		volunteers, err = csvio.ReadVolunteers(f)
		f.Close()
		if err != nil {
			return 0, 0, fmt.Errorf("%s: %w", volunteersPath, err)
		}
	}

	var points []models.FencePoint
	if fencePointsPath != "" {
		f, err := os.Open(fencePointsPath)
		if err != nil {
			return 0, 0, err
		}
		points, err = csvio.ReadFencePoints(f)
		f.Close()
		if err != nil {
			return 0, 0, fmt.Errorf("%s: %w", fencePointsPath, err)
		}
	}

	for i := range volunteers {
		if err := s.UpsertVolunteer(ctx, &volunteers[i]); err != nil {
			return 0, 0, err
		}
	}
	for i := range points {
		if err := s.UpsertFencePoint(ctx, &points[i]); err != nil {
			return len(volunteers), 0, err
		}
	}
	return len(volunteers), len(points), nil
}
