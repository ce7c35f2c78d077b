package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/arnavshah/fence-patrol-api/pkg/csvio"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// CSVStore keeps both tables in CSV files. Files are re-read on every call and
// replaced atomically on every write, so rows keep their file order.
type CSVStore struct {
	volunteersPath  string
	fencePointsPath string
	mu              sync.Mutex
}

var _ Store = (*CSVStore)(nil)

// NewCSVStore creates a store over the two files. Missing files read as empty tables.
func NewCSVStore(volunteersPath, fencePointsPath string) *CSVStore {
	return &CSVStore{volunteersPath: volunteersPath, fencePointsPath: fencePointsPath}
}

func (s *CSVStore) ListVolunteers(ctx context.Context) ([]models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	volunteers, err := s.readVolunteers()
	if err != nil {
		return nil, err
	}
	sortVolunteers(volunteers)
	return volunteers, nil
}

func (s *CSVStore) GetVolunteer(ctx context.Context, id int) (*models.Volunteer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	volunteers, err := s.readVolunteers()
	if err != nil {
		return nil, err
	}
	for i := range volunteers {
		if volunteers[i].ID == id {
			return &volunteers[i], nil
		}
	}
	return nil, fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
}

func (s *CSVStore) UpsertVolunteer(ctx context.Context, v *models.Volunteer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	volunteers, err := s.readVolunteers()
	if err != nil {
		return err
	}
	if v.ID == 0 {
		v.ID = nextVolunteerID(volunteers)
	}

	replaced := false
	for i := range volunteers {
		if volunteers[i].ID == v.ID {
			volunteers[i] = *v
			replaced = true
			break
		}
	}
	if !replaced {
		volunteers = append(volunteers, *v)
	}
	return writeAtomic(s.volunteersPath, func(w io.Writer) error {
		return csvio.WriteVolunteers(w, volunteers)
	})
}

func (s *CSVStore) DeleteVolunteer(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	volunteers, err := s.readVolunteers()
	if err != nil {
		return err
	}
	kept := volunteers[:0]
	for _, v := range volunteers {
		if v.ID != id {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(volunteers) {
		return fmt.Errorf("volunteer %d: %w", id, ErrNotFound)
	}
	return writeAtomic(s.volunteersPath, func(w io.Writer) error {
		return csvio.WriteVolunteers(w, kept)
	})
}

func (s *CSVStore) ListFencePoints(ctx context.Context) ([]models.FencePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	points, err := s.readFencePoints()
	if err != nil {
		return nil, err
	}
	sortFencePoints(points)
	return points, nil
}

func (s *CSVStore) GetFencePoint(ctx context.Context, id int) (*models.FencePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	points, err := s.readFencePoints()
	if err != nil {
		return nil, err
	}
	for i := range points {
		if points[i].PointID == id {
			return &points[i], nil
		}
	}
	return nil, fmt.Errorf("fence point %d: %w", id, ErrNotFound)
}

func (s *CSVStore) UpsertFencePoint(ctx context.Context, p *models.FencePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	points, err := s.readFencePoints()
	if err != nil {
		return err
	}
	replaced := false
	for i := range points {
		if points[i].PointID == p.PointID {
			points[i] = *p
			replaced = true
			break
		}
	}
	if !replaced {
		points = append(points, *p)
	}
	return writeAtomic(s.fencePointsPath, func(w io.Writer) error {
		return csvio.WriteFencePoints(w, points)
	})
}

func (s *CSVStore) DeleteFencePoint(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	points, err := s.readFencePoints()
	if err != nil {
		return err
	}
	kept := points[:0]
	for _, p := range points {
		if p.PointID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(points) {
		return fmt.Errorf("fence point %d: %w", id, ErrNotFound)
	}
	return writeAtomic(s.fencePointsPath, func(w io.Writer) error {
		return csvio.WriteFencePoints(w, kept)
	})
}

// Close is a no-op; files are not held open between calls
func (s *CSVStore) Close() error { return nil }

func (s *CSVStore) readVolunteers() ([]models.Volunteer, error) {
	f, err := os.Open(s.volunteersPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open volunteers file: %w", err)
	}
	defer f.Close()
	return csvio.ReadVolunteers(f)
}

func (s *CSVStore) readFencePoints() ([]models.FencePoint, error) {
	f, err := os.Open(s.fencePointsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open fence points file: %w", err)
	}
	defer f.Close()
	return csvio.ReadFencePoints(f)
}

func writeAtomic(path string, write func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
