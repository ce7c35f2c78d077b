package scheduler

import (
	"fmt"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// DefaultKeyPoints are the fence positions eligible for staffing
var DefaultKeyPoints = []int{1, 4, 7, 12, 16, 19, 21}

// Options holds the constants the scheduler is configured with
type Options struct {
	RingSize  int
	BaseQuota int
	GroupSize int
	KeyPoints []int
	Strategy  Strategy
}

// Scheduler handles the logic of posting volunteers on the fence and
// splitting them into patrol groups. It holds no state between calls.
type Scheduler struct {
	Ring      Ring
	BaseQuota int
	GroupSize int
	Strategy  Strategy
	keyPoints map[int]bool
}

// Result is the outcome of one assignment computation
type Result struct {
	Quotas      []Quota             `json:"quotas"`
	Assignments []models.Assignment `json:"assignments"`
	Unassigned  []models.Volunteer  `json:"unassigned"`
}

// New creates a scheduler, substituting defaults for zero-valued options
func New(opts Options) (*Scheduler, error) {
	if opts.RingSize == 0 {
		opts.RingSize = DefaultRingSize
	}
	if opts.BaseQuota == 0 {
		opts.BaseQuota = DefaultBaseQuota
	}
	if opts.GroupSize == 0 {
		opts.GroupSize = DefaultGroupSize
	}
	if opts.KeyPoints == nil {
		opts.KeyPoints = DefaultKeyPoints
	}

	ring, err := NewRing(opts.RingSize)
	if err != nil {
		return nil, err
	}
	if opts.BaseQuota < 1 {
		return nil, fmt.Errorf("%w: base quota must be positive, got %d", ErrInvalidInput, opts.BaseQuota)
	}
	if opts.GroupSize < 1 {
		return nil, fmt.Errorf("%w: group size must be positive, got %d", ErrInvalidInput, opts.GroupSize)
	}
	strategy, err := ParseStrategy(string(opts.Strategy))
	if err != nil {
		return nil, err
	}

	keyPoints := make(map[int]bool, len(opts.KeyPoints))
	for _, p := range opts.KeyPoints {
		if !ring.Contains(p) {
			return nil, fmt.Errorf("%w: key point %d is outside the ring of size %d", ErrInvalidInput, p, ring.Size)
		}
		keyPoints[p] = true
	}

	return &Scheduler{
		Ring:      ring,
		BaseQuota: opts.BaseQuota,
		GroupSize: opts.GroupSize,
		Strategy:  strategy,
		keyPoints: keyPoints,
	}, nil
}

// IsKeyPoint reports whether a fence position is eligible for staffing
func (s *Scheduler) IsKeyPoint(pointID int) bool {
	return s.keyPoints[pointID]
}

// KeyPointsOf returns the points eligible for staffing, in input order
func (s *Scheduler) KeyPointsOf(points []models.FencePoint) []models.FencePoint {
	var eligible []models.FencePoint
	for _, p := range points {
		if s.keyPoints[p.PointID] {
			eligible = append(eligible, p)
		}
	}
	return eligible
}

// Assign staffs the key points among points with the given volunteers.
// Callers pass only available volunteers.
func (s *Scheduler) Assign(volunteers []models.Volunteer, points []models.FencePoint) (*Result, error) {
	quotas, err := AllocatePosts(len(volunteers), s.KeyPointsOf(points), s.BaseQuota)
	if err != nil {
		return nil, err
	}
	matched, err := Match(volunteers, quotas, s.Ring, s.Strategy)
	if err != nil {
		return nil, err
	}
	return &Result{
		Quotas:      quotas,
		Assignments: matched.Assignments,
		Unassigned:  matched.Unassigned,
	}, nil
}

// Groups partitions volunteers into patrol groups per location
func (s *Scheduler) Groups(volunteers []models.Volunteer) ([]models.Group, error) {
	return PartitionLocations(volunteers, s.GroupSize)
}
