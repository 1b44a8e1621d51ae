package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/metaember/habitsv2/internal/apierror"
	"github.com/metaember/habitsv2/internal/models"
	"github.com/metaember/habitsv2/internal/service"
)

type HouseholdHandler struct {
	householdService service.HouseholdService
}

// NewHouseholdHandler creates a new household handler
func NewHouseholdHandler(householdService service.HouseholdService) *HouseholdHandler {
	return &HouseholdHandler{householdService: householdService}
}

// GetHousehold handles GET /api/v1/households
func (h *HouseholdHandler) GetHousehold(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	household, err := h.householdService.Get(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, err, "household")
		return
	}
	c.JSON(http.StatusOK, household)
}

// CreateHousehold handles POST /api/v1/households
func (h *HouseholdHandler) CreateHousehold(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.CreateHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	household, err := h.householdService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "household")
		return
	}
	c.JSON(http.StatusCreated, household)
}

// JoinHousehold handles POST /api/v1/households/join
func (h *HouseholdHandler) JoinHousehold(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.JoinHouseholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	household, err := h.householdService.Join(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "household")
		return
	}
	c.JSON(http.StatusOK, household)
}

// AddMember handles POST /api/v1/households/members
func (h *HouseholdHandler) AddMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req models.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewBadRequestError(requestID, err.Error(), "Invalid JSON format"))
		return
	}

	member, err := h.householdService.AddMember(c.Request.Context(), userID, &req)
	if err != nil {
		writeServiceError(c, err, "user")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// RemoveMember handles DELETE /api/v1/households/members?user_id=
func (h *HouseholdHandler) RemoveMember(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	memberID, ok := parseQueryUUID(c, "user_id")
	if !ok {
		return
	}

	if err := h.householdService.RemoveMember(c.Request.Context(), userID, memberID); err != nil {
		writeServiceError(c, err, "user")
		return
	}
	c.Status(http.StatusNoContent)
}
