package scheduler

import (
	"fmt"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// Strategy selects how volunteers are matched to staffed posts
type Strategy string

const (
	// StrategyGreedyGlobal fills posts in importance order, each slot taking the
	// closest remaining volunteer. Ties go to the volunteer seen first.
	StrategyGreedyGlobal Strategy = "greedy_global"
	// StrategyNearestFirst sends every volunteer to their nearest staffed post,
	// then backfills anyone turned away into the first post with room.
	StrategyNearestFirst Strategy = "nearest_first"
)

// ParseStrategy resolves a strategy name. An empty name selects StrategyGreedyGlobal.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "", StrategyGreedyGlobal:
		return StrategyGreedyGlobal, nil
	case StrategyNearestFirst:
		return StrategyNearestFirst, nil
	}
	return "", fmt.Errorf("%w: unknown matching strategy %q", ErrInvalidInput, name)
}

// MatchResult is the outcome of matching volunteers to staffed posts
type MatchResult struct {
	// Assignments follow quota order. Posts that got nobody are left out.
	Assignments []models.Assignment
	AssignedIDs map[int]struct{}
	// Unassigned keeps the input order of volunteers that were not posted.
	Unassigned []models.Volunteer
}

// Match places volunteers at staffed posts according to their quotas.
// Quotas are processed in the order given, which AllocatePosts already sorts by importance.
func Match(volunteers []models.Volunteer, quotas []Quota, ring Ring, strategy Strategy) (*MatchResult, error) {
	if ring.Size < 1 {
		return nil, fmt.Errorf("%w: ring size must be positive, got %d", ErrInvalidInput, ring.Size)
	}
	if err := checkUniqueVolunteers(volunteers); err != nil {
		return nil, err
	}

	var slots [][]models.Volunteer
	switch strategy {
	case StrategyGreedyGlobal, "":
		slots = matchGreedy(volunteers, quotas, ring)
	case StrategyNearestFirst:
		slots = matchNearestFirst(volunteers, quotas, ring)
	default:
		return nil, fmt.Errorf("%w: unknown matching strategy %q", ErrInvalidInput, strategy)
	}

	result := &MatchResult{AssignedIDs: make(map[int]struct{})}
	for i, q := range quotas {
		if len(slots[i]) == 0 {
			continue
		}
		names := make([]string, 0, len(slots[i]))
		for _, v := range slots[i] {
			names = append(names, v.Name)
			result.AssignedIDs[v.ID] = struct{}{}
		}
		result.Assignments = append(result.Assignments, models.Assignment{
			PostID:     q.PointID,
			Importance: q.Importance,
			Volunteers: names,
		})
	}
	for _, v := range volunteers {
		if _, ok := result.AssignedIDs[v.ID]; !ok {
			result.Unassigned = append(result.Unassigned, v)
		}
	}
	return result, nil
}

// matchGreedy rescans the whole remaining pool for every slot, which is
// quadratic in the number of volunteers per post.
func matchGreedy(volunteers []models.Volunteer, quotas []Quota, ring Ring) [][]models.Volunteer {
	remaining := make([]models.Volunteer, len(volunteers))
	copy(remaining, volunteers)

	slots := make([][]models.Volunteer, len(quotas))
	for i, q := range quotas {
		for len(slots[i]) < q.Quota && len(remaining) > 0 {
			best := 0
			bestDist := ring.Distance(q.PointID, remaining[0].ClosestPoint)
			for j := 1; j < len(remaining); j++ {
				if d := ring.Distance(q.PointID, remaining[j].ClosestPoint); d < bestDist {
					best, bestDist = j, d
				}
			}
			slots[i] = append(slots[i], remaining[best])
			remaining = append(remaining[:best], remaining[best+1:]...)
		}
	}
	return slots
}

func matchNearestFirst(volunteers []models.Volunteer, quotas []Quota, ring Ring) [][]models.Volunteer {
	slots := make([][]models.Volunteer, len(quotas))
	if len(quotas) == 0 {
		return slots
	}

	var deferred []models.Volunteer
	for _, v := range volunteers {
		nearest := nearestPost(v.ClosestPoint, quotas, ring)
		if len(slots[nearest]) < quotas[nearest].Quota {
			slots[nearest] = append(slots[nearest], v)
		} else {
			deferred = append(deferred, v)
		}
	}

	for _, v := range deferred {
		for i, q := range quotas {
			if len(slots[i]) < q.Quota {
				slots[i] = append(slots[i], v)
				break
			}
		}
	}
	return slots
}

// nearestPost returns the index of the quota closest to point. Equidistant
// posts resolve to the lower point id.
func nearestPost(point int, quotas []Quota, ring Ring) int {
	best := 0
	bestDist := ring.Distance(point, quotas[0].PointID)
	for i := 1; i < len(quotas); i++ {
		d := ring.Distance(point, quotas[i].PointID)
		if d < bestDist || (d == bestDist && quotas[i].PointID < quotas[best].PointID) {
			best, bestDist = i, d
		}
	}
	return best
}

func checkUniqueVolunteers(volunteers []models.Volunteer) error {
	seen := make(map[int]bool, len(volunteers))
	for _, v := range volunteers {
		if seen[v.ID] {
			return fmt.Errorf("%w: duplicate volunteer id %d", ErrInvalidInput, v.ID)
		}
		seen[v.ID] = true
	}
	return nil
}
