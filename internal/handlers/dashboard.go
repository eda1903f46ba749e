package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"time"

	"github.com/alimgiray/commitboard/internal/models"
	"github.com/alimgiray/commitboard/internal/services"
	"github.com/alimgiray/commitboard/pkg/logger"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DashboardConfig struct {
	Title               string
	FallbackAvatar      string
	CalendarURLTemplate string
}

type DashboardHandler struct {
	roster        []models.TeamMember
	fetcher       services.StatsFetcher
	exportService *services.ExportService
	config        DashboardConfig
}

type sortButton struct {
	Label       string
	Description string
	Active      bool
	Indicator   string
	Href        string
}

var sortLabels = map[services.SortKey][2]string{
	services.SortByName:          {"Name", "Sort by contributor name"},
	services.SortByContributions: {"Contributions", "Sort by total contributions"},
	services.SortByPRs:           {"Pull Requests", "Sort by pull requests created"},
	services.SortByIssues:        {"Issues", "Sort by issues created"},
}

func NewDashboardHandler(
	roster []models.TeamMember,
	fetcher services.StatsFetcher,
	exportService *services.ExportService,
	config DashboardConfig,
) *DashboardHandler {
	return &DashboardHandler{
		roster:        roster,
		fetcher:       fetcher,
		exportService: exportService,
		config:        config,
	}
}

// Dashboard handles the dashboard page
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	state := h.mount(c)
	if state == nil {
		return
	}

	view := state.View()
	cards := services.NewCards(view, state.Stats, state.Avatars, h.config.FallbackAvatar, h.config.CalendarURLTemplate)

	buttons := make([]sortButton, 0, len(services.SortKeys))
	for _, key := range services.SortKeys {
		labels := sortLabels[key]
		button := sortButton{
			Label:       labels[0],
			Description: labels[1],
			Active:      state.Sort.Key == key,
			Href:        "/?" + queryFor(state.Sort.Toggle(key), state.Filters).Encode(),
		}
		if button.Active {
			button.Indicator = "↓"
			if state.Sort.Direction == services.SortAscending {
				button.Indicator = "↑"
			}
		}
		buttons = append(buttons, button)
	}

	data := gin.H{
		"Title":          h.config.Title,
		"Cards":          cards,
		"Error":          state.Error,
		"SortButtons":    buttons,
		"Sort":           state.Sort,
		"Teams":          services.UniqueTeams(h.roster),
		"Roles":          services.UniqueRoles(h.roster),
		"TeamFilter":     filterValue(state.Filters.Team),
		"RoleFilter":     filterValue(state.Filters.Role),
		"TotalCount":     len(h.roster),
		"FilteredCount":  len(view),
		"ClearHref":      "/?" + queryFor(state.Sort, services.NoFilters()).Encode(),
		"ExportHref":     "/export.xlsx?" + queryFor(state.Sort, state.Filters).Encode(),
		"FallbackAvatar": h.config.FallbackAvatar,
		"Year":           time.Now().Year(),
	}

	c.HTML(http.StatusOK, "dashboard", data)
}

// Export handles the spreadsheet download of the current view
func (h *DashboardHandler) Export(c *gin.Context) {
	state := h.mount(c)
	if state == nil {
		return
	}

	cards := services.NewCards(state.View(), state.Stats, state.Avatars, h.config.FallbackAvatar, h.config.CalendarURLTemplate)

	var buf bytes.Buffer
	if err := h.exportService.WriteWorkbook(&buf, cards); err != nil {
		logger.WithError(err).Error("Failed to build spreadsheet export")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="commitboard.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Team returns the static roster
func (h *DashboardHandler) Team(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"team": h.roster})
}

// mount builds fresh state for one page load, applies the query's sort and
// filters, and fetches stats once. It returns nil when the client went away
// before the fetch finished.
func (h *DashboardHandler) mount(c *gin.Context) *services.DashboardState {
	state := services.NewDashboardState(h.roster)

	if key, ok := services.ParseSortKey(c.Query("sort")); ok {
		state.Sort = services.SortState{Key: key, Direction: services.SortDescending}
		if dir, ok := services.ParseSortDirection(c.Query("dir")); ok {
			state.Sort.Direction = dir
		}
	}
	if team := c.Query("team"); team != "" {
		state.SetTeamFilter(team)
	}
	if role := c.Query("role"); role != "" {
		state.SetRoleFilter(role)
	}

	ctx := c.Request.Context()
	if err := state.Load(ctx, h.fetcher); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		logger.WithError(err).Warn("Dashboard could not load stats")
	}

	return state
}

func queryFor(sort services.SortState, filters services.Filters) url.Values {
	q := url.Values{}
	q.Set("sort", string(sort.Key))
	q.Set("dir", string(sort.Direction))
	if filters.IsActive() {
		q.Set("team", filterValue(filters.Team))
		q.Set("role", filterValue(filters.Role))
	}
	return q
}

func filterValue(v string) string {
	if v == "" {
		return services.FilterAll
	}
	return v
}
