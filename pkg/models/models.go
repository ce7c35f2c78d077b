package models

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultImportance is used for fence points whose importance is missing or not a number
const DefaultImportance = 10.0

// Volunteer represents a person who can be posted on the fence or join a patrol group
type Volunteer struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Location     string `json:"location"`
	ClosestPoint int    `json:"closest_point"`
	Available    bool   `json:"available"`
}

// UnmarshalJSON treats a missing "available" field as available
func (v *Volunteer) UnmarshalJSON(data []byte) error {
	type plain Volunteer
	decoded := plain{Available: true}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*v = Volunteer(decoded)
	return nil
}

// FencePoint represents a position on the perimeter ring.
// Lower importance values are staffed first.
type FencePoint struct {
	PointID    int     `json:"point_id"`
	Importance float64 `json:"importance"`
	IsKeyPoint bool    `json:"is_key_point"`
}

// UnmarshalJSON accepts any importance value and coerces it with CoerceImportance
func (p *FencePoint) UnmarshalJSON(data []byte) error {
	var raw struct {
		PointID    int  `json:"point_id"`
		Importance any  `json:"importance"`
		IsKeyPoint bool `json:"is_key_point"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.PointID = raw.PointID
	p.Importance = CoerceImportance(raw.Importance)
	p.IsKeyPoint = raw.IsKeyPoint
	return nil
}

// ParseImportance parses a textual importance, falling back to DefaultImportance
func ParseImportance(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultImportance
	}
	return f
}

// CoerceImportance converts a decoded value of unknown type into an importance
func CoerceImportance(v any) float64 {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return DefaultImportance
		}
		return t
	case float32:
		return CoerceImportance(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		return ParseImportance(t.String())
	case string:
		return ParseImportance(t)
	default:
		return DefaultImportance
	}
}

// Assignment lists the volunteers posted at one staffed fence point
type Assignment struct {
	PostID     int      `json:"key_point"`
	Importance float64  `json:"importance"`
	Volunteers []string `json:"volunteers"`
}

// Group is one patrol group formed from a single location's volunteers
type Group struct {
	Name       string   `json:"name"`
	Volunteers []string `json:"volunteers"`
}

// AssignmentsResponse is returned by the snapshot-based assignment endpoint
type AssignmentsResponse struct {
	Assignments []Assignment `json:"assignments"`
	Unassigned  []Volunteer  `json:"unassigned"`
	Quotas      map[int]int  `json:"quotas"`
}

// SnapshotInput is a caller-supplied view of volunteers and fence points
type SnapshotInput struct {
	Volunteers  []Volunteer  `json:"volunteers"`
	FencePoints []FencePoint `json:"fence_points"`
}

// NewVolunteerInput is the body for adding a volunteer
type NewVolunteerInput struct {
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location" binding:"required"`
	ClosestPoint *int   `json:"closest_point" binding:"required"`
}

// StatusInput is the body for toggling a volunteer's availability
type StatusInput struct {
	ID        int   `json:"id"`
	Available *bool `json:"available" binding:"required"`
}
