package scheduler

import (
	"fmt"
	"sort"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// DefaultBaseQuota is the number of volunteers every staffed post receives before extras
const DefaultBaseQuota = 2

// Quota is the number of volunteers a staffed post should receive
type Quota struct {
	PointID    int     `json:"point_id"`
	Quota      int     `json:"quota"`
	Importance float64 `json:"importance"`
}

// SortByImportance returns a copy of posts ordered by ascending importance.
// Posts with equal importance keep their input order.
func SortByImportance(posts []models.FencePoint) []models.FencePoint {
	sorted := make([]models.FencePoint, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Importance < sorted[j].Importance
	})
	return sorted
}

// AllocatePosts decides which posts are staffed and how many volunteers each gets.
//
// Only numVolunteers/baseQuota posts can be staffed, the most important first.
// Each staffed post gets baseQuota volunteers, then the leftover volunteers are
// handed out one per post in importance order. That hand-out is a single pass:
// when there are more leftovers than staffed posts the remainder is not placed.
func AllocatePosts(numVolunteers int, posts []models.FencePoint, baseQuota int) ([]Quota, error) {
	if numVolunteers < 0 {
		return nil, fmt.Errorf("%w: volunteer count must not be negative, got %d", ErrInvalidInput, numVolunteers)
	}
	if baseQuota < 1 {
		return nil, fmt.Errorf("%w: base quota must be positive, got %d", ErrInvalidInput, baseQuota)
	}
	if err := checkUniquePoints(posts); err != nil {
		return nil, err
	}

	sorted := SortByImportance(posts)
	maxStaffable := numVolunteers / baseQuota
	if maxStaffable < len(sorted) {
		sorted = sorted[:maxStaffable]
	}

	extra := numVolunteers - baseQuota*len(sorted)
	quotas := make([]Quota, 0, len(sorted))
	for _, p := range sorted {
		q := Quota{PointID: p.PointID, Quota: baseQuota, Importance: p.Importance}
		if extra > 0 {
			q.Quota++
			extra--
		}
		quotas = append(quotas, q)
	}
	return quotas, nil
}

func checkUniquePoints(posts []models.FencePoint) error {
	seen := make(map[int]bool, len(posts))
	for _, p := range posts {
		if seen[p.PointID] {
			return fmt.Errorf("%w: duplicate point id %d", ErrInvalidInput, p.PointID)
		}
		seen[p.PointID] = true
	}
	return nil
}
