package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/arnavshah/fence-patrol-api/pkg/scheduler"
)

// Store backends
const (
	BackendCSV      = "csv"
	BackendSQL      = "sql"
	BackendDynamoDB = "dynamodb"
)

// StoreConfig selects and configures the volunteer data store
type StoreConfig struct {
	Backend          string `yaml:"backend" validate:"oneof=csv sql dynamodb"`
	VolunteersCSV    string `yaml:"volunteers_csv" validate:"required_if=Backend csv"`
	FencePointsCSV   string `yaml:"fence_points_csv" validate:"required_if=Backend csv"`
	DatabaseURL      string `yaml:"database_url,omitempty"`
	DataPath         string `yaml:"data_path" validate:"required"`
	AWSRegion        string `yaml:"aws_region,omitempty"`
	DynamoDBEndpoint string `yaml:"dynamodb_endpoint,omitempty"`
}

// SchedulingConfig holds the constants of the assignment algorithm
type SchedulingConfig struct {
	BaseVolunteersPerPoint int    `yaml:"base_volunteers_per_point" validate:"min=1"`
	GroupSize              int    `yaml:"group_size" validate:"min=1"`
	LastPoint              int    `yaml:"last_point" validate:"min=1"`
	KeyPoints              []int  `yaml:"key_points" validate:"unique,dive,min=0"`
	Strategy               string `yaml:"strategy" validate:"oneof=greedy_global nearest_first"`
}

// AuthConfig holds secrets and the bootstrap admin account
type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	APIMasterSecret string `yaml:"api_master_secret"`
	AdminUsername   string `yaml:"admin_username" validate:"required"`
	AdminPassword   string `yaml:"admin_password" validate:"required"`
}

// Config represents the application configuration
type Config struct {
	Port        string           `yaml:"port" validate:"required,numeric"`
	Environment string           `yaml:"environment" validate:"required"`
	CORSOrigins []string         `yaml:"cors_origins"`
	LogFile     string           `yaml:"log_file,omitempty"`
	Store       StoreConfig      `yaml:"store"`
	Scheduling  SchedulingConfig `yaml:"scheduling"`
	Auth        AuthConfig       `yaml:"auth"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the configuration used when nothing else is provided
func Default() *Config {
	return &Config{
		Port:        "8000",
		Environment: "dev",
		CORSOrigins: []string{"http://localhost:3000"},
		Store: StoreConfig{
			Backend:        BackendCSV,
			VolunteersCSV:  "volunteers.csv",
			FencePointsCSV: "fence_points.csv",
			DataPath:       "fence_patrol.db",
		},
		Scheduling: SchedulingConfig{
			BaseVolunteersPerPoint: scheduler.DefaultBaseQuota,
			GroupSize:              scheduler.DefaultGroupSize,
			LastPoint:              scheduler.DefaultRingSize,
			KeyPoints:              append([]int(nil), scheduler.DefaultKeyPoints...),
			Strategy:               string(scheduler.StrategyGreedyGlobal),
		},
		Auth: AuthConfig{
			AdminUsername: "admin",
			AdminPassword: "admin123",
		},
	}
}

// LoadEnvFiles loads the first .env file found in the working directory or its parents
func LoadEnvFiles() {
	for _, p := range []string{".env", "../.env", "../../.env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. An empty path skips the file
// unless CONFIG_PATH is set.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration struct and the key point layout
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	for i, p := range cfg.Scheduling.KeyPoints {
		if p >= cfg.Scheduling.LastPoint {
			return fmt.Errorf("key_points[%d] = %d is outside the fence of %d points", i, p, cfg.Scheduling.LastPoint)
		}
	}
	return nil
}

// SchedulerOptions converts the scheduling section into scheduler options
func (c *Config) SchedulerOptions() scheduler.Options {
	return scheduler.Options{
		RingSize:  c.Scheduling.LastPoint,
		BaseQuota: c.Scheduling.BaseVolunteersPerPoint,
		GroupSize: c.Scheduling.GroupSize,
		KeyPoints: c.Scheduling.KeyPoints,
		Strategy:  scheduler.Strategy(c.Scheduling.Strategy),
	}
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	strs := map[string]*string{
		"PORT":              &cfg.Port,
		"ENVIRONMENT":       &cfg.Environment,
		"LOG_FILE":          &cfg.LogFile,
		"STORE_BACKEND":     &cfg.Store.Backend,
		"VOLUNTEERS_CSV":    &cfg.Store.VolunteersCSV,
		"FENCE_POINTS_CSV":  &cfg.Store.FencePointsCSV,
		"DATABASE_URL":      &cfg.Store.DatabaseURL,
		"DATA_PATH":         &cfg.Store.DataPath,
		"AWS_REGION":        &cfg.Store.AWSRegion,
		"DYNAMODB_ENDPOINT": &cfg.Store.DynamoDBEndpoint,
		"MATCHING_STRATEGY": &cfg.Scheduling.Strategy,
		"JWT_SECRET":        &cfg.Auth.JWTSecret,
		"API_MASTER_SECRET": &cfg.Auth.APIMasterSecret,
		"ADMIN_USERNAME":    &cfg.Auth.AdminUsername,
		"ADMIN_PASSWORD":    &cfg.Auth.AdminPassword,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"BASE_VOLUNTEERS_PER_POINT": &cfg.Scheduling.BaseVolunteersPerPoint,
		"GROUP_SIZE":                &cfg.Scheduling.GroupSize,
		"LAST_POINT":                &cfg.Scheduling.LastPoint,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	if v, ok := lookup("KEY_POINTS"); ok && v != "" {
		points, err := parseIntList(v)
		if err != nil {
			return fmt.Errorf("invalid KEY_POINTS: %w", err)
		}
		cfg.Scheduling.KeyPoints = points
	}
	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		cfg.CORSOrigins = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
