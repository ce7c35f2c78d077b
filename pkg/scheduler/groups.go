package scheduler

import (
	"fmt"
	"sort"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// DefaultGroupSize is the target number of volunteers per patrol group
const DefaultGroupSize = 3

// PartitionGroup splits one location's volunteers into contiguous patrol groups.
//
// Fewer than two full groups' worth of volunteers stay together. Otherwise the
// list is cut into total/groupSize groups whose sizes differ by at most one,
// the larger groups coming first.
func PartitionGroup(location string, names []string, groupSize int) ([]models.Group, error) {
	if groupSize < 1 {
		return nil, fmt.Errorf("%w: group size must be positive, got %d", ErrInvalidInput, groupSize)
	}

	total := len(names)
	if total == 0 {
		return nil, nil
	}

	numGroups := 1
	if total >= 2*groupSize {
		numGroups = total / groupSize
	}
	baseSize := total / numGroups
	extras := total % numGroups

	groups := make([]models.Group, 0, numGroups)
	pos := 0
	for i := 0; i < numGroups; i++ {
		size := baseSize
		if i < extras {
			size++
		}
		members := make([]string, size)
		copy(members, names[pos:pos+size])
		groups = append(groups, models.Group{
			Name:       fmt.Sprintf("%s Group %d", location, i+1),
			Volunteers: members,
		})
		pos += size
	}
	return groups, nil
}

// GroupByLocation collects volunteer names per location, keeping input order
// within each location. Locations are returned in ascending order.
func GroupByLocation(volunteers []models.Volunteer) ([]string, map[string][]string) {
	byLocation := make(map[string][]string)
	for _, v := range volunteers {
		byLocation[v.Location] = append(byLocation[v.Location], v.Name)
	}
	locations := make([]string, 0, len(byLocation))
	for loc := range byLocation {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations, byLocation
}

// PartitionLocations partitions every location present in volunteers and
// concatenates the groups.
func PartitionLocations(volunteers []models.Volunteer, groupSize int) ([]models.Group, error) {
	locations, byLocation := GroupByLocation(volunteers)
	groups := []models.Group{}
	for _, loc := range locations {
		g, err := PartitionGroup(loc, byLocation[loc], groupSize)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g...)
	}
	return groups, nil
}
