package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Volunteer represents the volunteers table
type Volunteer struct {
	ID           int       `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Location     string    `gorm:"not null;index" json:"location"`
	ClosestPoint int       `gorm:"not null" json:"closest_point"`
	Available    bool      `gorm:"not null" json:"available"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// FencePoint represents the fence_points table
type FencePoint struct {
	PointID    int       `gorm:"primaryKey;autoIncrement:false" json:"point_id"`
	Importance float64   `gorm:"not null" json:"importance"`
	IsKeyPoint bool      `gorm:"not null" json:"is_key_point"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"-"`
	KeyPreview string     `json:"key_preview"`
	Name       string     `gorm:"not null" json:"name"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID              uint   `gorm:"primaryKey" json:"id"`
	KeyID           uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date            string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount    int    `gorm:"default:0" json:"request_count"`
	TotalPosts      int    `gorm:"default:0" json:"total_posts"`
	TotalVolunteers int    `gorm:"default:0" json:"total_volunteers"`
}

// User represents the users table. Role is either RoleAdmin or RoleViewer.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null;default:viewer" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// User roles
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Open connects to Postgres when dsn is set, otherwise to the SQLite file at
// dataPath, and migrates the schema.
func Open(dsn, dataPath string) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), gormCfg)
	} else {
		if dataPath == "" {
			dataPath = "fence_patrol.db"
		}
		db, err = gorm.Open(sqlite.Open(dataPath), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := db.AutoMigrate(&Volunteer{}, &FencePoint{}, &APIKey{}, &APIUsage{}, &User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}
