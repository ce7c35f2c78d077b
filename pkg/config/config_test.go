package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arnavshah/fence-patrol-api/pkg/scheduler"
)

func envMap(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestValidate_DefaultConfig(t *testing.T) {
	cfg := Default()

	err := Validate(cfg)
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 4, 7, 12, 16, 19, 21}, cfg.Scheduling.KeyPoints)
	assert.Equal(t, 24, cfg.Scheduling.LastPoint)
}

func TestValidate_UnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = "mongo"

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_UnknownStrategy(t *testing.T) {
	cfg := Default()
	cfg.Scheduling.Strategy = "optimal"

	assert.Error(t, Validate(cfg))
}

func TestValidate_DuplicateKeyPoints(t *testing.T) {
	cfg := Default()
	cfg.Scheduling.KeyPoints = []int{1, 4, 4}

	assert.Error(t, Validate(cfg))
}

func TestValidate_KeyPointOutsideFence(t *testing.T) {
	cfg := Default()
	cfg.Scheduling.LastPoint = 10
	cfg.Scheduling.KeyPoints = []int{1, 12}

	err := Validate(cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "outside the fence")
}

func TestValidate_CSVBackendNeedsFiles(t *testing.T) {
	cfg := Default()
	cfg.Store.VolunteersCSV = ""

	assert.Error(t, Validate(cfg))

	cfg.Store.Backend = BackendSQL
	assert.NoError(t, Validate(cfg))
}

func TestApplyEnv_Overrides(t *testing.T) {
	cfg := Default()

	err := applyEnv(cfg, envMap(map[string]string{
		"PORT":                      "9090",
		"STORE_BACKEND":             "dynamodb",
		"BASE_VOLUNTEERS_PER_POINT": "3",
		"GROUP_SIZE":                "4",
		"KEY_POINTS":                "2, 5,9",
		"CORS_ORIGINS":              "https://a.example, https://b.example",
		"MATCHING_STRATEGY":         "nearest_first",
		"ADMIN_PASSWORD":            "",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendDynamoDB, cfg.Store.Backend)
	assert.Equal(t, 3, cfg.Scheduling.BaseVolunteersPerPoint)
	assert.Equal(t, 4, cfg.Scheduling.GroupSize)
	assert.Equal(t, []int{2, 5, 9}, cfg.Scheduling.KeyPoints)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "nearest_first", cfg.Scheduling.Strategy)
	assert.Equal(t, "admin123", cfg.Auth.AdminPassword)
}

func TestApplyEnv_InvalidNumber(t *testing.T) {
	cfg := Default()

	err := applyEnv(cfg, envMap(map[string]string{"GROUP_SIZE": "three"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GROUP_SIZE")

	err = applyEnv(cfg, envMap(map[string]string{"KEY_POINTS": "1,x"}))
	assert.Error(t, err)
}

func TestLoad_FromYAML(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "STORE_BACKEND", "KEY_POINTS", "LAST_POINT", "MATCHING_STRATEGY"} {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "fence.yaml")
	content := `
port: "7000"
environment: prod
store:
  backend: sql
  data_path: /tmp/fence.db
scheduling:
  base_volunteers_per_point: 2
  group_size: 3
  last_point: 30
  key_points: [0, 10, 20]
  strategy: nearest_first
auth:
  admin_username: root
  admin_password: secret
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Environment)
	assert.Equal(t, BackendSQL, cfg.Store.Backend)
	assert.Equal(t, []int{0, 10, 20}, cfg.Scheduling.KeyPoints)

	opts := cfg.SchedulerOptions()
	assert.Equal(t, 30, opts.RingSize)
	assert.Equal(t, scheduler.StrategyNearestFirst, opts.Strategy)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}
