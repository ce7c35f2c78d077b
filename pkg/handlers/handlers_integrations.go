package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arnavshah/fence-patrol-api/pkg/csvio"
	"github.com/arnavshah/fence-patrol-api/pkg/database"
	"github.com/arnavshah/fence-patrol-api/pkg/models"
	"github.com/arnavshah/fence-patrol-api/pkg/scheduler"
	"github.com/arnavshah/fence-patrol-api/pkg/store"
)

// AssignmentsJSON computes assignments over a posted snapshot instead of the store
func (h *Handler) AssignmentsJSON(c *gin.Context) {
	var input models.SnapshotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.Roster.Compute(store.Available(input.Volunteers), input.FencePoints)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(res.Quotas), len(input.Volunteers))
	c.JSON(http.StatusOK, toResponse(res))
}

// AssignmentsCSV computes assignments from uploaded volunteer and fence point sheets
func (h *Handler) AssignmentsCSV(c *gin.Context) {
	volsFile, _ := c.FormFile("volunteers_file")
	pointsFile, _ := c.FormFile("fence_points_file")

	if volsFile == nil || pointsFile == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "volunteers_file and fence_points_file are required"})
		return
	}

	var volunteers []models.Volunteer
	if err := readUpload(volsFile, func(f multipart.File) (err error) {
		volunteers, err = csvio.ReadVolunteers(f)
		return err
	}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read volunteers file: " + err.Error()})
		return
	}

	var points []models.FencePoint
	if err := readUpload(pointsFile, func(f multipart.File) (err error) {
		points, err = csvio.ReadFencePoints(f)
		return err
	}); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read fence points file: " + err.Error()})
		return
	}

	res, err := h.Roster.Compute(store.Available(volunteers), points)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, len(res.Quotas), len(volunteers))

	var outCSV strings.Builder
	if err := csvio.WriteAssignments(&outCSV, res.Assignments); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"csv": outCSV.String()})
}

func readUpload(fh *multipart.FileHeader, read func(multipart.File) error) error {
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return read(f)
}

// GroupsJSON partitions the available posted volunteers into patrol groups
func (h *Handler) GroupsJSON(c *gin.Context) {
	var input struct {
		Volunteers []models.Volunteer `json:"volunteers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groups, err := h.Roster.Groups(store.Available(input.Volunteers))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.RecordUsage(c, 0, len(input.Volunteers))
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// RecordUsage records API usage in the database using an efficient upsert
func (h *Handler) RecordUsage(c *gin.Context, postCount, volunteerCount int) {
	apiKeyRaw, exists := c.Get("apiKey")
	if !exists {
		return
	}
	apiKey := apiKeyRaw.(*database.APIKey)

	today := time.Now().Format("2006-01-02")

	// Use OnConflict for a single-query upsert (supported by both Postgres and SQLite)
	err := h.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count":    gorm.Expr("request_count + ?", 1),
			"total_posts":      gorm.Expr("total_posts + ?", postCount),
			"total_volunteers": gorm.Expr("total_volunteers + ?", volunteerCount),
		}),
	}).Create(&database.APIUsage{
		KeyID:           apiKey.ID,
		Date:            today,
		RequestCount:    1,
		TotalPosts:      postCount,
		TotalVolunteers: volunteerCount,
	}).Error
	if err != nil {
		h.Logger.Warn("failed to record usage", zap.Uint("key_id", apiKey.ID), zap.Error(err))
	}
}

// toResponse shapes a scheduler result for integration clients, with empty lists instead of null
func toResponse(res *scheduler.Result) models.AssignmentsResponse {
	out := models.AssignmentsResponse{
		Assignments: res.Assignments,
		Unassigned:  res.Unassigned,
		Quotas:      make(map[int]int, len(res.Quotas)),
	}
	if out.Assignments == nil {
		out.Assignments = []models.Assignment{}
	}
	if out.Unassigned == nil {
		out.Unassigned = []models.Volunteer{}
	}
	for _, q := range res.Quotas {
		out.Quotas[q.PointID] = q.Quota
	}
	return out
}
