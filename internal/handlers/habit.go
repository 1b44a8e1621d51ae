package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaember/habitsv2/internal/apierror"
	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/service"
)

type HabitHandler struct {
	habitService service.HabitService
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(habitService service.HabitService) *HabitHandler {
	return &HabitHandler{habitService: habitService}
}

// ListHabits handles GET /api/v1/habits
func (h *HabitHandler) ListHabits(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	habits, err := h.habitService.List(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}
	c.JSON(http.StatusOK, gin.H{"habits": habits})
}

// CreateHabit handles POST /api/v1/habits
func (h *HabitHandler) CreateHabit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	habit, err := h.habitService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}
	c.JSON(http.StatusCreated, habit)
}

// GetHabit handles GET /api/v1/habits/:id
func (h *HabitHandler) GetHabit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	habit, err := h.habitService.Get(c.Request.Context(), userID, habitID)
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}
	c.JSON(http.StatusOK, habit)
}

// UpdateHabit handles PATCH /api/v1/habits/:id
func (h *HabitHandler) UpdateHabit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	habitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req models.UpdateHabitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	habit, err := h.habitService.Update(c.Request.Context(), userID, habitID, &req)
	if err != nil {
		writeServiceError(c, err, "habit")
		return
	}
	c.JSON(http.StatusOK, habit)
}
