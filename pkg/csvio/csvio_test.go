package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

func TestReadVolunteers(t *testing.T) {
	in := "\ufeffid,name,location,closest_point,available\n" +
		"1,Avi,North,3,True\n" +
		"2,Dana,South,22,False\n" +
		"3,Eli,North,0,\n"

	volunteers, err := ReadVolunteers(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []models.Volunteer{
		{ID: 1, Name: "Avi", Location: "North", ClosestPoint: 3, Available: true},
		{ID: 2, Name: "Dana", Location: "South", ClosestPoint: 22, Available: false},
		{ID: 3, Name: "Eli", Location: "North", ClosestPoint: 0, Available: true},
	}, volunteers)
}

func TestReadVolunteers_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "missing header row"},
		{name: "missing column", in: "id,name,location\n1,a,b\n", want: `missing required column "closest_point"`},
		{name: "bad id", in: "id,name,location,closest_point\nx,a,b,1\n", want: "line 2: invalid id"},
		{name: "bad available", in: "id,name,location,closest_point,available\n1,a,b,1,maybe\n", want: "invalid available"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadVolunteers(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestVolunteers_WriteThenRead(t *testing.T) {
	volunteers := []models.Volunteer{
		{ID: 7, Name: "Noa, Jr.", Location: "East", ClosestPoint: 12, Available: true},
		{ID: 9, Name: "Yael", Location: "West", ClosestPoint: 19, Available: false},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteVolunteers(&buf, volunteers))
	assert.True(t, strings.HasPrefix(buf.String(), "id,name,location,closest_point,available\n"))

	got, err := ReadVolunteers(&buf)
	require.NoError(t, err)
	assert.Equal(t, volunteers, got)
}

func TestReadFencePoints_DefaultsImportance(t *testing.T) {
	in := "point_id,importance\n1,5\n4,\n7,high\n12,2.5\n"

	points, err := ReadFencePoints(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []models.FencePoint{
		{PointID: 1, Importance: 5},
		{PointID: 4, Importance: models.DefaultImportance},
		{PointID: 7, Importance: models.DefaultImportance},
		{PointID: 12, Importance: 2.5},
	}, points)
}

func TestWriteAssignments(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAssignments(&buf, []models.Assignment{
		{PostID: 4, Importance: 1, Volunteers: []string{"C", "B"}},
		{PostID: 1, Importance: 5, Volunteers: []string{"A"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "key_point,importance,volunteer_name\n4,1,C\n4,1,B\n1,5,A\n", buf.String())
}
