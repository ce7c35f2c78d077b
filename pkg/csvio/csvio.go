// Package csvio reads and writes the volunteer, fence point and assignment
// tables in the CSV layout used by the original spreadsheets.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

var (
	VolunteerHeader  = []string{"id", "name", "location", "closest_point", "available"}
	FencePointHeader = []string{"point_id", "importance", "is_key_point"}
	AssignmentHeader = []string{"key_point", "importance", "volunteer_name"}
)

// columns maps header names to their index
type columns map[string]int

func readHeader(r *csv.Reader, required ...string) (columns, error) {
	header, err := r.Read()
	if err == io.EOF {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	cols := make(columns, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}
	return cols, nil
}

func (c columns) get(record []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// ReadVolunteers parses a volunteers table. Rows are returned in file order.
func ReadVolunteers(in io.Reader) ([]models.Volunteer, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	cols, err := readHeader(r, "id", "name", "location", "closest_point")
	if err != nil {
		return nil, fmt.Errorf("volunteers: %w", err)
	}

	var volunteers []models.Volunteer
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("volunteers line %d: %w", line, err)
		}

		id, err := strconv.Atoi(cols.get(record, "id"))
		if err != nil {
			return nil, fmt.Errorf("volunteers line %d: invalid id: %w", line, err)
		}
		closest, err := strconv.Atoi(cols.get(record, "closest_point"))
		if err != nil {
			return nil, fmt.Errorf("volunteers line %d: invalid closest_point: %w", line, err)
		}
		available := true
		if raw := cols.get(record, "available"); raw != "" {
			if available, err = strconv.ParseBool(raw); err != nil {
				return nil, fmt.Errorf("volunteers line %d: invalid available: %w", line, err)
			}
		}

		volunteers = append(volunteers, models.Volunteer{
			ID:           id,
			Name:         cols.get(record, "name"),
			Location:     cols.get(record, "location"),
			ClosestPoint: closest,
			Available:    available,
		})
	}
	return volunteers, nil
}

// WriteVolunteers writes a volunteers table with a header row
func WriteVolunteers(out io.Writer, volunteers []models.Volunteer) error {
	w := csv.NewWriter(out)
	if err := w.Write(VolunteerHeader); err != nil {
		return err
	}
	for _, v := range volunteers {
		if err := w.Write([]string{
			strconv.Itoa(v.ID),
			v.Name,
			v.Location,
			strconv.Itoa(v.ClosestPoint),
			formatBool(v.Available),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadFencePoints parses a fence points table. Importance values that are
// missing or not numbers become models.DefaultImportance.
func ReadFencePoints(in io.Reader) ([]models.FencePoint, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1
	cols, err := readHeader(r, "point_id")
	if err != nil {
		return nil, fmt.Errorf("fence points: %w", err)
	}

	var points []models.FencePoint
	for line := 2; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("fence points line %d: %w", line, err)
		}

		id, err := strconv.Atoi(cols.get(record, "point_id"))
		if err != nil {
			return nil, fmt.Errorf("fence points line %d: invalid point_id: %w", line, err)
		}
		isKey, _ := strconv.ParseBool(cols.get(record, "is_key_point"))

		points = append(points, models.FencePoint{
			PointID:    id,
			Importance: models.ParseImportance(cols.get(record, "importance")),
			IsKeyPoint: isKey,
		})
	}
	return points, nil
}

// WriteFencePoints writes a fence points table with a header row
func WriteFencePoints(out io.Writer, points []models.FencePoint) error {
	w := csv.NewWriter(out)
	if err := w.Write(FencePointHeader); err != nil {
		return err
	}
	for _, p := range points {
		if err := w.Write([]string{
			strconv.Itoa(p.PointID),
			strconv.FormatFloat(p.Importance, 'f', -1, 64),
			formatBool(p.IsKeyPoint),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteAssignments writes one row per posted volunteer
func WriteAssignments(out io.Writer, assignments []models.Assignment) error {
	w := csv.NewWriter(out)
	if err := w.Write(AssignmentHeader); err != nil {
		return err
	}
	for _, a := range assignments {
		for _, name := range a.Volunteers {
			if err := w.Write([]string{
				strconv.Itoa(a.PostID),
				strconv.FormatFloat(a.Importance, 'f', -1, 64),
				name,
			}); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// Existing sheets spell booleans capitalised. strconv.ParseBool reads both forms.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
