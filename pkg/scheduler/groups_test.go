package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

func names(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("v%02d", i)
	}
	return out
}

func sizes(groups []models.Group) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g.Volunteers)
	}
	return out
}

func TestPartitionGroup_Sizes(t *testing.T) {
	tests := []struct {
		total int
		want  []int
	}{
		{total: 0, want: []int{}},
		{total: 2, want: []int{2}},
		{total: 3, want: []int{3}},
		{total: 5, want: []int{5}},
		{total: 6, want: []int{3, 3}},
		{total: 7, want: []int{4, 3}},
		{total: 8, want: []int{4, 4}},
		{total: 11, want: []int{4, 4, 3}},
		{total: 13, want: []int{4, 3, 3, 3}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d volunteers", tt.total), func(t *testing.T) {
			groups, err := PartitionGroup("North", names(tt.total), 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, sizes(groups))
		})
	}
}

func TestPartitionGroup_Labels(t *testing.T) {
	groups, err := PartitionGroup("North", names(7), 3)
	require.NoError(t, err)

	require.Len(t, groups, 2)
	assert.Equal(t, "North Group 1", groups[0].Name)
	assert.Equal(t, "North Group 2", groups[1].Name)
	assert.Equal(t, []string{"v00", "v01", "v02", "v03"}, groups[0].Volunteers)
	assert.Equal(t, []string{"v04", "v05", "v06"}, groups[1].Volunteers)

	groups, err = PartitionGroup("South", []string{"Dana", "Eli"}, 3)
	require.NoError(t, err)
	assert.Equal(t, []models.Group{{Name: "South Group 1", Volunteers: []string{"Dana", "Eli"}}}, groups)
}

func TestPartitionGroup_FidelityAndBalance(t *testing.T) {
	for _, groupSize := range []int{1, 2, 3, 4, 5} {
		for total := 0; total <= 40; total++ {
			input := names(total)
			groups, err := PartitionGroup("X", input, groupSize)
			require.NoError(t, err)

			var joined []string
			for _, g := range groups {
				joined = append(joined, g.Volunteers...)
			}
			if total == 0 {
				assert.Empty(t, joined)
				continue
			}
			assert.Equal(t, input, joined, "size=%d total=%d", groupSize, total)

			if len(groups) > 1 {
				s := sizes(groups)
				lo, hi := s[0], s[0]
				for _, n := range s {
					lo, hi = min(lo, n), max(hi, n)
				}
				assert.LessOrEqual(t, hi-lo, 1, "size=%d total=%d", groupSize, total)
			}
		}
	}
}

func TestPartitionGroup_DoesNotAliasInput(t *testing.T) {
	input := names(6)
	groups, err := PartitionGroup("X", input, 3)
	require.NoError(t, err)

	groups[0].Volunteers[0] = "changed"
	assert.Equal(t, "v00", input[0])
}

func TestPartitionGroup_InvalidSize(t *testing.T) {
	_, err := PartitionGroup("X", names(3), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPartitionLocations_SortsLocations(t *testing.T) {
	volunteers := []models.Volunteer{
		{ID: 1, Name: "s1", Location: "South"},
		{ID: 2, Name: "n1", Location: "North"},
		{ID: 3, Name: "s2", Location: "South"},
		{ID: 4, Name: "n2", Location: "North"},
	}

	groups, err := PartitionLocations(volunteers, 3)
	require.NoError(t, err)

	assert.Equal(t, []models.Group{
		{Name: "North Group 1", Volunteers: []string{"n1", "n2"}},
		{Name: "South Group 1", Volunteers: []string{"s1", "s2"}},
	}, groups)
}

func TestPartitionLocations_Empty(t *testing.T) {
	groups, err := PartitionLocations(nil, 3)
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.NotNil(t, groups)
}
