// Package store persists volunteers and fence points. Every backend hands out
// fresh copies on each call; nothing is cached between calls.
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/arnavshah/fence-patrol-api/pkg/config"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// ErrNotFound is returned when a volunteer or fence point id does not exist
var ErrNotFound = errors.New("not found")

// VolunteerStore defines volunteer persistence. Every backend lists
// volunteers in ascending id order, so the matcher sees the same input order
// whichever backend holds the roster.
type VolunteerStore interface {
	ListVolunteers(ctx context.Context) ([]models.Volunteer, error)
	GetVolunteer(ctx context.Context, id int) (*models.Volunteer, error)
	// UpsertVolunteer inserts or replaces v. A zero ID is replaced with the next free id.
	UpsertVolunteer(ctx context.Context, v *models.Volunteer) error
	DeleteVolunteer(ctx context.Context, id int) error
}

// FencePointStore defines fence point persistence. Points are listed in
// ascending point id order.
type FencePointStore interface {
	ListFencePoints(ctx context.Context) ([]models.FencePoint, error)
	GetFencePoint(ctx context.Context, id int) (*models.FencePoint, error)
	UpsertFencePoint(ctx context.Context, p *models.FencePoint) error
	DeleteFencePoint(ctx context.Context, id int) error
}

// Store combines both tables behind one backend
type Store interface {
	VolunteerStore
	FencePointStore
	Close() error
}

// New opens the backend selected in cfg. The sql backend shares db, which
// must then be non-nil.
func New(ctx context.Context, cfg config.StoreConfig, env string, db *gorm.DB) (Store, error) {
	switch cfg.Backend {
	case config.BackendCSV:
		return NewCSVStore(cfg.VolunteersCSV, cfg.FencePointsCSV), nil
	case config.BackendSQL:
		if db == nil {
			return nil, errors.New("sql store requires a database connection")
		}
		return NewSQLStore(db), nil
	case config.BackendDynamoDB:
		return NewDynamoDBStore(ctx, DynamoDBOptions{
			Region:      cfg.AWSRegion,
			Endpoint:    cfg.DynamoDBEndpoint,
			Environment: env,
		})
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

// Available filters volunteers marked available, keeping their order
func Available(volunteers []models.Volunteer) []models.Volunteer {
	var out []models.Volunteer
	for _, v := range volunteers {
		if v.Available {
			out = append(out, v)
		}
	}
	return out
}

func nextVolunteerID(volunteers []models.Volunteer) int {
	next := 1
	for _, v := range volunteers {
		if v.ID >= next {
			next = v.ID + 1
		}
	}
	return next
}

func sortVolunteers(volunteers []models.Volunteer) {
	sort.SliceStable(volunteers, func(i, j int) bool { return volunteers[i].ID < volunteers[j].ID })
}

func sortFencePoints(points []models.FencePoint) {
	sort.SliceStable(points, func(i, j int) bool { return points[i].PointID < points[j].PointID })
}
