package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/fence-patrol-api/pkg/database"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// SQLStore keeps both tables in Postgres or SQLite through gorm
type SQLStore struct {
	db *gorm.DB
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a store on an already migrated connection (see database.Open)
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	var rows []database.Volunteer
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list volunteers: %w", err)
	}
	out := make([]models.Volunteer, 0, len(rows))
	for _, r := range rows {
		out = append(out, volunteerFromRow(r))
	}
	return out, nil
}

func (s *SQLStore) GetVolunteer(ctx context.Context, id int) (*models.Volunteer, error) {
	var row database.Volunteer
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get volunteer %d: %w", id, err)
	}
	v := volunteerFromRow(row)
	return &v, nil
}

func (s *SQLStore) UpsertVolunteer(ctx context.Context, v *models.Volunteer) error {
	row := database.Volunteer{
		ID:           v.ID,
		Name:         v.Name,
		Location:     v.Location,
		ClosestPoint: v.ClosestPoint,
		Available:    v.Available,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if row.ID == 0 {
			var maxID int
			if err := tx.Model(&database.Volunteer{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
				return err
			}
			row.ID = maxID + 1
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "location", "closest_point", "available", "updated_at"}),
		}).Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("failed to upsert volunteer: %w", err)
	}
	v.ID = row.ID
	return nil
}

func (s *SQLStore) DeleteVolunteer(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&database.Volunteer{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete volunteer %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) ListFencePoints(ctx context.Context) ([]models.FencePoint, error) {
	var rows []database.FencePoint
	if err := s.db.WithContext(ctx).Order("point_id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list fence points: %w", err)
	}
	out := make([]models.FencePoint, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.FencePoint{PointID: r.PointID, Importance: r.Importance, IsKeyPoint: r.IsKeyPoint})
	}
	return out, nil
}

func (s *SQLStore) GetFencePoint(ctx context.Context, id int) (*models.FencePoint, error) {
	var row database.FencePoint
	err := s.db.WithContext(ctx).First(&row, "point_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("fence point %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fence point %d: %w", id, err)
	}
	return &models.FencePoint{PointID: row.PointID, Importance: row.Importance, IsKeyPoint: row.IsKeyPoint}, nil
}

func (s *SQLStore) UpsertFencePoint(ctx context.Context, p *models.FencePoint) error {
	row := database.FencePoint{PointID: p.PointID, Importance: p.Importance, IsKeyPoint: p.IsKeyPoint}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "point_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"importance", "is_key_point", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to upsert fence point: %w", err)
	}
	return nil
}

func (s *SQLStore) DeleteFencePoint(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Where("point_id = ?", id).Delete(&database.FencePoint{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete fence point %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("fence point %d: %w", id, ErrNotFound)
	}
	return nil
}

// Close leaves the shared connection open; its owner closes it
func (s *SQLStore) Close() error { return nil }

func volunteerFromRow(r database.Volunteer) models.Volunteer {
	return models.Volunteer{
		ID:           r.ID,
		Name:         r.Name,
		Location:     r.Location,
		ClosestPoint: r.ClosestPoint,
		Available:    r.Available,
	}
}
