// Package roster connects the volunteer store to the scheduler. Every call
// reads a fresh snapshot from the store; nothing is cached between requests.
package roster

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/arnavshah/fence-patrol-api/pkg/metrics"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
	"github.com/arnavshah/fence-patrol-api/pkg/scheduler"
	"github.com/arnavshah/fence-patrol-api/pkg/store"
)

// Service answers roster queries and edits against a store
type Service struct {
	Store     store.Store
	Scheduler *scheduler.Scheduler
	Logger    *zap.Logger
	Metrics   metrics.Collector
}

// New creates a Service. A nil logger or collector discards output.
func New(s store.Store, sched *scheduler.Scheduler, logger *zap.Logger, collector metrics.Collector) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if collector == nil {
		collector = metrics.Nop{}
	}
	return &Service{Store: s, Scheduler: sched, Logger: logger, Metrics: collector}
}

// CurrentAssignments posts the available volunteers on the key points
func (s *Service) CurrentAssignments(ctx context.Context) (*scheduler.Result, error) {
	volunteers, err := s.Store.ListVolunteers(ctx)
	if err != nil {
		return nil, s.storeError("list_volunteers", err)
	}
	points, err := s.Store.ListFencePoints(ctx)
	if err != nil {
		return nil, s.storeError("list_fence_points", err)
	}
	return s.Compute(store.Available(volunteers), points)
}

// Compute runs an assignment over a caller-supplied snapshot of available volunteers
func (s *Service) Compute(volunteers []models.Volunteer, points []models.FencePoint) (*scheduler.Result, error) {
	res, err := s.Scheduler.Assign(volunteers, points)
	if err != nil {
		return nil, err
	}

	staffed := 0
	for _, q := range res.Quotas {
		if q.Quota > 0 {
			staffed++
		}
	}
	assigned := len(volunteers) - len(res.Unassigned)
	s.Metrics.AssignmentRun(string(s.Scheduler.Strategy), staffed, assigned, len(res.Unassigned))

	if len(res.Unassigned) > 0 {
		names := make([]string, 0, len(res.Unassigned))
		for _, v := range res.Unassigned {
			names = append(names, v.Name)
		}
		s.Logger.Warn("volunteers left without a post",
			zap.Int("count", len(names)),
			zap.Strings("names", names))
	}
	s.Logger.Debug("assignments computed",
		zap.String("strategy", string(s.Scheduler.Strategy)),
		zap.Int("volunteers", len(volunteers)),
		zap.Int("staffed_posts", staffed))
	return res, nil
}

// PatrolGroups partitions the available volunteers into groups per location
func (s *Service) PatrolGroups(ctx context.Context) ([]models.Group, error) {
	volunteers, err := s.Store.ListVolunteers(ctx)
	if err != nil {
		return nil, s.storeError("list_volunteers", err)
	}
	return s.Groups(store.Available(volunteers))
}

// Groups partitions a caller-supplied set of volunteers, all of them taken as available
func (s *Service) Groups(volunteers []models.Volunteer) ([]models.Group, error) {
	groups, err := s.Scheduler.Groups(volunteers)
	if err != nil {
		return nil, err
	}
	s.Metrics.GroupsFormed(len(groups))
	return groups, nil
}

// ListVolunteers returns every stored volunteer, ordered by id
func (s *Service) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	volunteers, err := s.Store.ListVolunteers(ctx)
	if err != nil {
		return nil, s.storeError("list_volunteers", err)
	}
	if volunteers == nil {
		volunteers = []models.Volunteer{}
	}
	return volunteers, nil
}

// AddVolunteer stores a new, available volunteer and returns it with its id
func (s *Service) AddVolunteer(ctx context.Context, name, location string, closestPoint int) (*models.Volunteer, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if name == "" || location == "" {
		return nil, fmt.Errorf("%w: name and location are required", scheduler.ErrInvalidInput)
	}
	if !s.Scheduler.Ring.Contains(closestPoint) {
		return nil, fmt.Errorf("%w: closest point %d is not on the fence (0-%d)",
			scheduler.ErrInvalidInput, closestPoint, s.Scheduler.Ring.Size-1)
	}

	v := &models.Volunteer{
		Name:         name,
		Location:     location,
		ClosestPoint: closestPoint,
		Available:    true,
	}
	if err := s.Store.UpsertVolunteer(ctx, v); err != nil {
		return nil, s.storeError("upsert_volunteer", err)
	}
	s.Logger.Info("volunteer added", zap.Int("id", v.ID), zap.String("name", v.Name))
	return v, nil
}

// RemoveVolunteer deletes a volunteer; unknown ids yield store.ErrNotFound
func (s *Service) RemoveVolunteer(ctx context.Context, id int) error {
	if err := s.Store.DeleteVolunteer(ctx, id); err != nil {
		return s.storeError("delete_volunteer", err)
	}
	s.Logger.Info("volunteer removed", zap.Int("id", id))
	return nil
}

// SetAvailability toggles whether a volunteer can be posted
func (s *Service) SetAvailability(ctx context.Context, id int, available bool) (*models.Volunteer, error) {
	v, err := s.Store.GetVolunteer(ctx, id)
	if err != nil {
		return nil, s.storeError("get_volunteer", err)
	}
	v.Available = available
	if err := s.Store.UpsertVolunteer(ctx, v); err != nil {
		return nil, s.storeError("upsert_volunteer", err)
	}
	return v, nil
}

// ListFencePoints returns every stored fence point, ordered by point id
func (s *Service) ListFencePoints(ctx context.Context) ([]models.FencePoint, error) {
	points, err := s.Store.ListFencePoints(ctx)
	if err != nil {
		return nil, s.storeError("list_fence_points", err)
	}
	if points == nil {
		points = []models.FencePoint{}
	}
	return points, nil
}

// SetImportance updates a fence point's importance, creating the point if it
// is on the ring but not stored yet.
func (s *Service) SetImportance(ctx context.Context, pointID int, importance float64) (*models.FencePoint, error) {
	if !s.Scheduler.Ring.Contains(pointID) {
		return nil, fmt.Errorf("%w: point %d is not on the fence", scheduler.ErrInvalidInput, pointID)
	}

	p, err := s.Store.GetFencePoint(ctx, pointID)
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		p = &models.FencePoint{PointID: pointID, IsKeyPoint: s.Scheduler.IsKeyPoint(pointID)}
	default:
		return nil, s.storeError("get_fence_point", err)
	}

	p.Importance = importance
	if err := s.Store.UpsertFencePoint(ctx, p); err != nil {
		return nil, s.storeError("upsert_fence_point", err)
	}
	return p, nil
}

// storeError counts failed store operations other than lookups of unknown ids
func (s *Service) storeError(op string, err error) error {
	if !errors.Is(err, store.ErrNotFound) {
		s.Metrics.StoreError(op)
		s.Logger.Error("store operation failed", zap.String("op", op), zap.Error(err))
	}
	return err
}
