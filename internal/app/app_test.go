package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arnavshah/fence-patrol-api/pkg/auth"
	"github.com/arnavshah/fence-patrol-api/pkg/config"
	"github.com/arnavshah/fence-patrol-api/pkg/database"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
	"github.com/arnavshah/fence-patrol-api/pkg/store"
)

func init() {
	gin.SetMode(gin.TestMode)
	auth.HashCost = bcrypt.MinCost
}

func testConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.VolunteersCSV = filepath.Join(dir, "volunteers.csv")
	cfg.Store.FencePointsCSV = filepath.Join(dir, "fence_points.csv")
	cfg.Store.DataPath = filepath.Join(dir, "fence_patrol.db")
	cfg.Auth.JWTSecret = "jwt"
	cfg.Auth.APIMasterSecret = "master"
	return cfg
}

func TestNew_BootstrapsAdminAndServes(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, zap.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	var admin database.User
	require.NoError(t, a.DB.Where("username = ?", "admin").First(&admin).Error)
	assert.Equal(t, database.RoleAdmin, admin.Role)
	assert.IsType(t, &store.CSVStore{}, a.Store)

	r := a.Router(prometheus.NewRegistry())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		bytes.NewBufferString(`{"username": "admin", "password": "admin123"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestNew_SQLBackendSharesDatabase(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Backend = config.BackendSQL
	a, err := New(context.Background(), cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	defer a.Close()

	v, err := a.Roster.AddVolunteer(context.Background(), "A", "North", 3)
	require.NoError(t, err)

	var row database.Volunteer
	require.NoError(t, a.DB.First(&row, v.ID).Error)
	assert.Equal(t, "A", row.Name)
}

func TestOpenStore(t *testing.T) {
	cfg := testConfig(t)
	s, closeFn, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)

	require.NoError(t, s.UpsertFencePoint(context.Background(), &models.FencePoint{PointID: 4, Importance: 1}))
	require.NoError(t, closeFn())
	assert.NoFileExists(t, cfg.Store.DataPath, "csv backend needs no database")

	cfg.Store.Backend = "redis"
	_, _, err = OpenStore(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewRoster_RejectsBadScheduling(t *testing.T) {
	cfg := testConfig(t)
	cfg.Scheduling.KeyPoints = []int{30}
	_, err := NewRoster(cfg, nil, zap.NewNop(), nil)
	assert.Error(t, err)
}
