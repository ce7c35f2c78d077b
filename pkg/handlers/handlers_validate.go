package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// ValidateSnapshot checks a posted snapshot without computing assignments
func (h *Handler) ValidateSnapshot(c *gin.Context) {
	var input models.SnapshotInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"valid": false,
			"error": err.Error(),
		})
		return
	}

	if problem := h.checkSnapshot(input); problem != "" {
		c.JSON(http.StatusOK, gin.H{"valid": false, "error": problem})
		return
	}

	available := 0
	for _, v := range input.Volunteers {
		if v.Available {
			available++
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"stats": gin.H{
			"volunteer_count":   len(input.Volunteers),
			"available_count":   available,
			"fence_point_count": len(input.FencePoints),
			"key_point_count":   len(h.Roster.Scheduler.KeyPointsOf(input.FencePoints)),
		},
	})
}

// checkSnapshot returns a description of the first problem found, or ""
func (h *Handler) checkSnapshot(input models.SnapshotInput) string {
	if len(input.Volunteers) == 0 {
		return "At least one volunteer is required"
	}
	if len(input.FencePoints) == 0 {
		return "At least one fence point is required"
	}

	ring := h.Roster.Scheduler.Ring
	volIDs := make(map[int]bool)
	for _, v := range input.Volunteers {
		if volIDs[v.ID] {
			return fmt.Sprintf("Duplicate volunteer ID: %d", v.ID)
		}
		volIDs[v.ID] = true
		if !ring.Contains(v.ClosestPoint) {
			return fmt.Sprintf("Volunteer %d: closest_point %d is not on the fence", v.ID, v.ClosestPoint)
		}
	}

	pointIDs := make(map[int]bool)
	for _, p := range input.FencePoints {
		if pointIDs[p.PointID] {
			return fmt.Sprintf("Duplicate fence point ID: %d", p.PointID)
		}
		pointIDs[p.PointID] = true
		if !ring.Contains(p.PointID) {
			return fmt.Sprintf("Fence point %d is not on the fence", p.PointID)
		}
	}
	return ""
}
