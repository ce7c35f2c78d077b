package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/fence-patrol-api/pkg/models"
)

// ListVolunteers returns every stored volunteer
func (h *Handler) ListVolunteers(c *gin.Context) {
	volunteers, err := h.Roster.ListVolunteers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, volunteers)
}

// AddVolunteer stores a new volunteer, available by default
func (h *Handler) AddVolunteer(c *gin.Context) {
	var input models.NewVolunteerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.Roster.AddVolunteer(c.Request.Context(), input.Name, input.Location, *input.ClosestPoint)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Volunteer added", "volunteer": v})
}

// RemoveVolunteer deletes a volunteer by id
func (h *Handler) RemoveVolunteer(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.Roster.RemoveVolunteer(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Volunteer removed"})
}

// UpdateStatus sets a volunteer's availability
func (h *Handler) UpdateStatus(c *gin.Context) {
	var input models.StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.Roster.SetAvailability(c.Request.Context(), input.ID, *input.Available)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "volunteer": v})
}

// Assignments returns the current post assignments for available volunteers
// as a bare list, most important post first
func (h *Handler) Assignments(c *gin.Context) {
	res, err := h.Roster.CurrentAssignments(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	assignments := res.Assignments
	if assignments == nil {
		assignments = []models.Assignment{}
	}
	c.JSON(http.StatusOK, assignments)
}

// Locations returns the patrol groups of the available volunteers
func (h *Handler) Locations(c *gin.Context) {
	groups, err := h.Roster.PatrolGroups(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// ListFencePoints returns every stored fence point
func (h *Handler) ListFencePoints(c *gin.Context) {
	points, err := h.Roster.ListFencePoints(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, points)
}

// SetImportance changes the staffing priority of a fence point
func (h *Handler) SetImportance(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req struct {
		Importance *float64 `json:"importance" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p, err := h.Roster.SetImportance(c.Request.Context(), id, *req.Importance)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
