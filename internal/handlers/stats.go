package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaember/habitsv2/internal/service"
)

type StatsHandler struct {
	statsService    service.StatsService
	calendarService service.CalendarService
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService service.StatsService, calendarService service.CalendarService) *StatsHandler {
	return &StatsHandler{statsService: statsService, calendarService: calendarService}
}

// GetHabitStats handles GET /api/v1/habits/:id/stats?tz=&week_start=
func (h *StatsHandler) GetHabitStats(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	stats, err := h.statsService.ForHabit(c.Request.Context(), userID, habitID,
		c.Query("tz"), c.Query("week_start"))
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GetCalendar handles GET /api/v1/calendar?month=YYYY-MM&habit_id=&tz=&week_start=
func (h *StatsHandler) GetCalendar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	habitID, ok := parseQueryUUID(c, "habit_id")
	if !ok {
		return
	}

	calendar, err := h.calendarService.Month(c.Request.Context(), userID, habitID,
		c.Query("month"), c.Query("tz"), c.Query("week_start"))
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}
	c.JSON(http.StatusOK, calendar)
}
