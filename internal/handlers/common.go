// Package handlers contains the gin HTTP handlers for the habits API.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/metaember/habitsv2/internal/apierror"
	"github.com/metaember/habitsv2/internal/logger"
	"github.com/metaember/habitsv2/internal/service"
)

// currentUserID reads the authenticated user id set by the auth middleware.
// Writes a 401 problem and returns false when absent.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok {
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(apierror.GetRequestID(c)))
		return uuid.Nil, false
	}
	return id, true
}

// parseIDParam parses a :id path parameter as a UUID.
func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: name, Message: "must be a UUID", Code: "invalid_format"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// parseQueryUUID parses a required UUID query parameter.
func parseQueryUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: name, Message: "is required", Code: "required"},
		}))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		requestID := apierror.GetRequestID(c)
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: name, Message: "must be a UUID", Code: "invalid_format"},
		}))
		return uuid.Nil, false
	}
	return id, true
}

// writeServiceError translates service-layer errors into problem responses.
func writeServiceError(c *gin.Context, err error, resource string) {
	requestID := apierror.GetRequestID(c)

	var ve *service.ValidationError
	if errors.As(err, &ve) {
		apierror.WriteProblem(c, apierror.NewValidationError(requestID, []apierror.FieldError{
			{Field: ve.Field, Message: ve.Message, Code: "invalid"},
		}))
		return
	}

	var voided *service.AlreadyVoidedError
	if errors.As(err, &voided) {
		apierror.WriteProblem(c, apierror.NewAlreadyVoidedError(requestID, voided.ExistingID.String()))
		return
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, resource, c.Param("id")))
	case errors.Is(err, service.ErrForbidden):
		apierror.WriteProblem(c, apierror.NewForbiddenError(requestID))
	case errors.Is(err, service.ErrInvalidCredentials):
		apierror.WriteProblem(c, apierror.NewUnauthorizedError(requestID))
	case errors.Is(err, service.ErrEmailTaken):
		apierror.WriteProblem(c, apierror.NewConflictError(requestID, "Email is already registered"))
	case errors.Is(err, service.ErrAlreadyInHousehold):
		apierror.WriteProblem(c, apierror.NewConflictError(requestID, "User already belongs to a household"))
	case errors.Is(err, service.ErrNoHousehold):
		apierror.WriteProblem(c, apierror.NewNotFoundError(requestID, "household", ""))
	case errors.Is(err, service.ErrFutureTimestamp):
		apierror.WriteProblem(c, apierror.NewFutureTimestampError(requestID, "tsClient"))
	default:
		logger.Ctx(c.Request.Context()).Error("request failed", logger.Err(err))
		apierror.WriteProblem(c, apierror.NewInternalError(requestID))
	}
}
