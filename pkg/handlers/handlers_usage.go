package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arnavshah/fence-patrol-api/pkg/database"
)

// usageDays bounds the history returned by the usage endpoints
const usageDays = 30

// usageTotals sums a key's usage rows
type usageTotals struct {
	Requests   int64 `json:"requests"`
	Posts      int64 `json:"posts"`
	Volunteers int64 `json:"volunteers"`
}

// recentUsage loads the newest usage rows of a key, at most usageDays of them
func (h *Handler) recentUsage(keyID uint) ([]database.APIUsage, usageTotals, error) {
	usage := []database.APIUsage{}
	var totals usageTotals
	if err := h.DB.Where("key_id = ?", keyID).Order("date desc").Limit(usageDays).Find(&usage).Error; err != nil {
		return nil, totals, err
	}
	for _, u := range usage {
		totals.Requests += int64(u.RequestCount)
		totals.Posts += int64(u.TotalPosts)
		totals.Volunteers += int64(u.TotalVolunteers)
	}
	return usage, totals, nil
}

// GetUsage returns usage stats for a key
func (h *Handler) GetUsage(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	usage, totals, err := h.recentUsage(uint(id))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"usage": usage, "totals": totals})
}

// GetMyUsage returns usage stats for the calling API key
func (h *Handler) GetMyUsage(c *gin.Context) {
	raw, _ := c.Get("apiKey")
	apiKey, ok := raw.(*database.APIKey)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "API Key context missing"})
		return
	}

	usage, totals, err := h.recentUsage(apiKey.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"key_name":      apiKey.Name,
		"rate_limit":    apiKey.RateLimit,
		"usage_history": usage,
		"totals":        totals,
	})
}
