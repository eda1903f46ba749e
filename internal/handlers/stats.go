package handlers

import (
	"errors"
	"net/http"

	"github.com/alimgiray/commitboard/internal/models"
	"github.com/alimgiray/commitboard/internal/services"
	"github.com/alimgiray/commitboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

// fetchStatsRequest keeps only what the proxy reads from each member.
// Any other member fields are ignored whatever their type.
type fetchStatsRequest struct {
	Team []struct {
		Username string `json:"username"`
	} `json:"team"`
}

func (r fetchStatsRequest) members() []models.TeamMember {
	if r.Team == nil {
		return nil
	}
	members := make([]models.TeamMember, len(r.Team))
	for i, entry := range r.Team {
		members[i] = models.TeamMember{Username: entry.Username}
	}
	return members
}

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// FetchStats handles POST /api/fetch-stats
func (h *StatsHandler) FetchStats(c *gin.Context) {
	var request fetchStatsRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid team array"})
		return
	}

	resp, err := h.statsService.FetchStats(c.Request.Context(), request.members())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// FetchUserStats handles GET /api/fetchstats?username=
func (h *StatsHandler) FetchUserStats(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username"})
		return
	}

	result, err := h.statsService.LookupOne(c.Request.Context(), username)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if result.Outcome == models.LookupNotFound {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	avatarURL := result.AvatarURL
	if avatarURL == "" {
		avatarURL = h.statsService.FallbackAvatar()
	}
	c.JSON(http.StatusOK, gin.H{
		"avatarUrl": avatarURL,
		"stats":     result.Stats,
	})
}

// Preflight answers CORS preflight requests; the CORS middleware has already set the headers
func (h *StatsHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusOK)
}

// MethodNotAllowed rejects methods the stats endpoints do not serve
func (h *StatsHandler) MethodNotAllowed(c *gin.Context) {
	c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
}

func (h *StatsHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRoster):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid team array"})
	case errors.Is(err, services.ErrCredentialMissing):
		logger.WithError(err).Error("Stats request rejected, GITHUB_TOKEN is not set")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "GitHub token not configured"})
	default:
		logger.WithError(err).Error("Stats request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
