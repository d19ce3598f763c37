package api

import (
	"alcyxob/fitness-program/internal/service"
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ProgramHandler serves plan generation and plan reads.
type ProgramHandler struct {
	programService     service.ProgramService
	exposeErrorDetails bool
	log                zerolog.Logger
}

// NewProgramHandler creates a new ProgramHandler.
func NewProgramHandler(programService service.ProgramService, exposeErrorDetails bool, log zerolog.Logger) *ProgramHandler {
	return &ProgramHandler{programService: programService, exposeErrorDetails: exposeErrorDetails, log: log}
}

// --- Request/Response Structs ---

// flexString accepts a JSON string, number, boolean, array or null and keeps
// its text. Voice assistants send "3" and 3 interchangeably.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case len(data) > 0 && data[0] == '[':
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, len(items))
		for i, item := range items {
			parts[i] = string(item)
		}
		*f = flexString(strings.Join(parts, ","))
	default:
		*f = flexString(data)
	}
	return nil
}

type GenerateProgramRequest struct {
	UserID              flexString `json:"user_id" binding:"required"`
	Age                 flexString `json:"age"`
	Height              flexString `json:"height"`
	Weight              flexString `json:"weight"`
	Injuries            flexString `json:"injuries"`
	WorkoutDays         flexString `json:"workout_days"`
	FitnessGoal         flexString `json:"fitness_goal"`
	FitnessLevel        flexString `json:"fitness_level"`
	DietaryRestrictions flexString `json:"dietary_restrictions"`
}

func (r GenerateProgramRequest) toInput() service.GenerateProgramInput {
	return service.GenerateProgramInput{
		UserID:              string(r.UserID),
		Age:                 string(r.Age),
		Height:              string(r.Height),
		Weight:              string(r.Weight),
		Injuries:            string(r.Injuries),
		WorkoutDays:         string(r.WorkoutDays),
		FitnessGoal:         string(r.FitnessGoal),
		FitnessLevel:        string(r.FitnessLevel),
		DietaryRestrictions: string(r.DietaryRestrictions),
	}
}

type GenerateProgramResponse struct {
	Success bool                           `json:"success"`
	Data    *service.GenerateProgramResult `json:"data,omitempty"`
}

type GenerateProgramErrorResponse struct {
	Success      bool   `json:"success"`
	Error        string `json:"error"`
	ErrorDetails string `json:"errorDetails,omitempty"`
}

// --- Handler Methods ---

// GenerateProgram godoc
// @Summary Generate a fitness program
// @Description Asks the model for a workout and a diet plan and stores them as the user's active plan.
// @Tags Programs
// @Accept json
// @Produce json
// @Param program body GenerateProgramRequest true "User profile answers"
// @Success 200 {object} GenerateProgramResponse
// @Failure 500 {object} GenerateProgramErrorResponse
// @Router /api/vapi/generate-program [post]
func (h *ProgramHandler) GenerateProgram(c *gin.Context) {
	var req GenerateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "Invalid request payload", err)
		return
	}

	result, err := h.programService.GenerateProgram(c.Request.Context(), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserIDRequired):
			h.fail(c, "user_id is required", err)
		case errors.Is(err, service.ErrMalformedUpstreamResponse):
			h.fail(c, "Model returned an invalid plan", err)
		case errors.Is(err, service.ErrAIRequest):
			h.fail(c, "Failed to generate fitness program", err)
		default:
			h.fail(c, "Failed to save fitness program", err)
		}
		return
	}

	c.JSON(http.StatusOK, GenerateProgramResponse{Success: true, Data: result})
}

// fail answers every generation failure with 500 and the error envelope.
func (h *ProgramHandler) fail(c *gin.Context, message string, err error) {
	h.log.Error().Err(err).Str("request_id", getRequestID(c)).Msg(message)
	resp := GenerateProgramErrorResponse{Success: false, Error: message}
	if h.exposeErrorDetails {
		resp.ErrorDetails = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}

// GetUserPlans godoc
// @Summary List a user's plans
// @Tags Programs
// @Produce json
// @Param clerkId path string true "Clerk user ID"
// @Success 200 {array} domain.Plan
// @Router /api/users/{clerkId}/plans [get]
func (h *ProgramHandler) GetUserPlans(c *gin.Context) {
	plans, err := h.programService.GetUserPlans(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		h.log.Error().Err(err).Str("request_id", getRequestID(c)).Msg("failed to list plans")
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetActivePlan godoc
// @Summary Get a user's active plan
// @Tags Programs
// @Produce json
// @Param clerkId path string true "Clerk user ID"
// @Success 200 {object} domain.Plan
// @Failure 404 {object} map[string]string
// @Router /api/users/{clerkId}/plans/active [get]
func (h *ProgramHandler) GetActivePlan(c *gin.Context) {
	plan, err := h.programService.GetActivePlan(c.Request.Context(), c.Param("clerkId"))
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			abortWithError(c, http.StatusNotFound, "No active plan")
			return
		}
		h.log.Error().Err(err).Str("request_id", getRequestID(c)).Msg("failed to get active plan")
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve active plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}
