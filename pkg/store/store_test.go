package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/fence-patrol-api/pkg/config"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// runStoreSuite exercises the behavior every backend must share
func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("empty tables", func(t *testing.T) {
		volunteers, err := s.ListVolunteers(ctx)
		require.NoError(t, err)
		assert.Empty(t, volunteers)

		_, err = s.GetVolunteer(ctx, 1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("volunteers", func(t *testing.T) {
		avi := &models.Volunteer{Name: "Avi", Location: "North", ClosestPoint: 3, Available: true}
		require.NoError(t, s.UpsertVolunteer(ctx, avi))
		assert.Equal(t, 1, avi.ID)

		dana := &models.Volunteer{Name: "Dana", Location: "South", ClosestPoint: 0, Available: false}
		require.NoError(t, s.UpsertVolunteer(ctx, dana))
		assert.Equal(t, 2, dana.ID)

		got, err := s.GetVolunteer(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, *dana, *got)

		dana.Available = true
		require.NoError(t, s.UpsertVolunteer(ctx, dana))

		volunteers, err := s.ListVolunteers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Volunteer{*avi, *dana}, volunteers)

		require.NoError(t, s.DeleteVolunteer(ctx, 1))
		assert.ErrorIs(t, s.DeleteVolunteer(ctx, 1), ErrNotFound)

		volunteers, err = s.ListVolunteers(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.Volunteer{*dana}, volunteers)

		eli := &models.Volunteer{Name: "Eli", Location: "North", ClosestPoint: 12}
		require.NoError(t, s.UpsertVolunteer(ctx, eli))
		assert.Equal(t, 3, eli.ID)
	})

	t.Run("listed by id", func(t *testing.T) {
		require.NoError(t, s.UpsertVolunteer(ctx, &models.Volunteer{ID: 9, Name: "Ira", Location: "East", ClosestPoint: 5}))
		require.NoError(t, s.UpsertVolunteer(ctx, &models.Volunteer{ID: 7, Name: "Gal", Location: "East", ClosestPoint: 6}))

		volunteers, err := s.ListVolunteers(ctx)
		require.NoError(t, err)
		var ids []int
		for _, v := range volunteers {
			ids = append(ids, v.ID)
		}
		assert.Equal(t, []int{2, 3, 7, 9}, ids)
	})

	t.Run("fence points", func(t *testing.T) {
		require.NoError(t, s.UpsertFencePoint(ctx, &models.FencePoint{PointID: 4, Importance: 1, IsKeyPoint: true}))
		require.NoError(t, s.UpsertFencePoint(ctx, &models.FencePoint{PointID: 0, Importance: 0}))
		require.NoError(t, s.UpsertFencePoint(ctx, &models.FencePoint{PointID: 4, Importance: 2.5, IsKeyPoint: true}))

		p, err := s.GetFencePoint(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, 2.5, p.Importance)

		points, err := s.ListFencePoints(ctx)
		require.NoError(t, err)
		assert.Equal(t, []models.FencePoint{
			{PointID: 0, Importance: 0},
			{PointID: 4, Importance: 2.5, IsKeyPoint: true},
		}, points)

		require.NoError(t, s.DeleteFencePoint(ctx, 0))
		assert.ErrorIs(t, s.DeleteFencePoint(ctx, 0), ErrNotFound)
		_, err = s.GetFencePoint(ctx, 0)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	require.NoError(t, s.Close())
}

func TestAvailable(t *testing.T) {
	volunteers := []models.Volunteer{
		{ID: 1, Available: true},
		{ID: 2},
		{ID: 3, Available: true},
	}
	got := Available(volunteers)
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestNew_SelectsBackend(t *testing.T) {
	dir := t.TempDir()
	s, err := New(context.Background(), config.StoreConfig{
		Backend:        config.BackendCSV,
		VolunteersCSV:  dir + "/v.csv",
		FencePointsCSV: dir + "/p.csv",
	}, "test", nil)
	require.NoError(t, err)
	assert.IsType(t, &CSVStore{}, s)

	_, err = New(context.Background(), config.StoreConfig{Backend: config.BackendSQL}, "test", nil)
	assert.Error(t, err)

	_, err = New(context.Background(), config.StoreConfig{Backend: "redis"}, "test", nil)
	assert.Error(t, err)
}
