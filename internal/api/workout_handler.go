package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	msgBadDateFilter = "Date has wrong format. Use YYYY-MM-DD."
	msgNotNull       = "This field may not be null."
)

// WorkoutHandler serves the caller's workouts and their export.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	exportService  service.ExportService
	logger         *zap.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, exportService service.ExportService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, exportService: exportService, logger: logger}
}

// --- DTOs ---

// CreateWorkoutRequest defines the expected JSON for creating a workout.
// A "user" key in the body is ignored; the owner is always the caller.
type CreateWorkoutRequest struct {
	Date     string   `json:"date" binding:"required,datetime=2006-01-02"`
	Type     string   `json:"type" binding:"required,oneof=cardio strength flexibility sports other"`
	Duration *int     `json:"duration" binding:"omitempty,min=0"`
	Distance *float64 `json:"distance"`
	Notes    string   `json:"notes"`
}

// UpdateWorkoutRequest serves both PUT and PATCH.
type UpdateWorkoutRequest struct {
	Date     Optional[string]  `json:"date"`
	Type     Optional[string]  `json:"type"`
	Duration Optional[int]     `json:"duration"`
	Distance Optional[float64] `json:"distance"`
	Notes    Optional[string]  `json:"notes"`
}

// toPatch builds the domain patch. A full update (partial=false) requires
// date and type and resets every optional field that was not sent.
func (r UpdateWorkoutRequest) toPatch(partial bool) (domain.WorkoutPatch, map[string][]string) {
	var (
		patch  domain.WorkoutPatch
		fields = map[string][]string{}
	)
	switch {
	case r.Date.present():
		d, err := parseDate("date", r.Date.Value)
		if err != nil {
			fields["date"] = []string{msgBadDate}
		} else {
			patch.Date = &d
		}
	case r.Date.Null:
		fields["date"] = []string{msgNotNull}
	case !partial:
		fields["date"] = []string{msgRequired}
	}

	switch {
	case r.Type.present():
		t := domain.WorkoutType(r.Type.Value)
		patch.Type = &t
	case r.Type.Null:
		fields["type"] = []string{msgNotNull}
	case !partial:
		fields["type"] = []string{msgRequired}
	}

	if r.Duration.present() {
		patch.Duration = &r.Duration.Value
	} else if r.Duration.Null || !partial {
		patch.ClearDuration = true
	}
	if r.Distance.present() {
		patch.Distance = &r.Distance.Value
	} else if r.Distance.Null || !partial {
		patch.ClearDistance = true
	}

	switch {
	case r.Notes.present():
		patch.Notes = &r.Notes.Value
	case r.Notes.Null:
		fields["notes"] = []string{msgNotNull}
	case !partial:
		empty := ""
		patch.Notes = &empty
	}
	return patch, fields
}

// --- Handler Methods ---

// ListWorkouts godoc
// @Summary List the caller's workouts
// @Tags Workouts
// @Produce json
// @Param date query string false "Exact date (YYYY-MM-DD)"
// @Param type query string false "Workout type"
// @Success 200 {array} WorkoutListItem
// @Security BearerAuth
// @Router /workouts/ [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}

	var filter domain.WorkoutFilter
	if raw := c.Query("date"); raw != "" {
		d, err := parseDate("date", raw)
		if err != nil {
			abortWithFields(c, map[string][]string{"date": {msgBadDateFilter}})
			return
		}
		filter.Date = &d
	}
	filter.Type = domain.WorkoutType(c.Query("type"))

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), userID, filter)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutSummariesToResponse(workouts))
}

// CreateWorkout godoc
// @Summary Log a workout
// @Description Fails with a non_field_errors conflict when the caller already has a workout of this type on this date.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body CreateWorkoutRequest true "Workout"
// @Success 201 {object} WorkoutDetailResponse
// @Failure 400 {object} map[string][]string "Field errors or conflict"
// @Security BearerAuth
// @Router /workouts/ [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	date, err := parseDate("date", req.Date)
	if err != nil {
		abortWithBindError(c, err)
		return
	}

	workout := &domain.Workout{
		Date:     date,
		Type:     domain.WorkoutType(req.Type),
		Duration: req.Duration,
		Distance: req.Distance,
		Notes:    req.Notes,
	}
	detail, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, workout)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutDetailToResponse(detail))
}

// GetWorkout godoc
// @Summary Get one workout with its exercises
// @Tags Workouts
// @Produce json
// @Param id path int true "Workout ID"
// @Success 200 {object} WorkoutDetailResponse
// @Failure 404 {object} map[string]string "detail"
// @Security BearerAuth
// @Router /workouts/{id}/ [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	detail, err := h.workoutService.GetWorkout(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutDetailToResponse(detail))
}

// ReplaceWorkout handles PUT /workouts/{id}/.
func (h *WorkoutHandler) ReplaceWorkout(c *gin.Context) { h.update(c, false) }

// PatchWorkout handles PATCH /workouts/{id}/.
func (h *WorkoutHandler) PatchWorkout(c *gin.Context) { h.update(c, true) }

func (h *WorkoutHandler) update(c *gin.Context, partial bool) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	patch, fields := req.toPatch(partial)
	if len(fields) > 0 {
		abortWithFields(c, fields)
		return
	}

	detail, err := h.workoutService.UpdateWorkout(c.Request.Context(), userID, id, patch)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutDetailToResponse(detail))
}

// DeleteWorkout godoc
// @Summary Delete a workout and its exercises
// @Tags Workouts
// @Param id path int true "Workout ID"
// @Success 204
// @Failure 404 {object} map[string]string "detail"
// @Security BearerAuth
// @Router /workouts/{id}/ [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteWorkout(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportWorkouts godoc
// @Summary Export the caller's workout history as CSV
// @Description Uploads the file to object storage and returns a presigned download link.
// @Tags Workouts
// @Produce json
// @Success 201 {object} service.ExportResult
// @Failure 503 {object} map[string]string "Storage not configured"
// @Security BearerAuth
// @Router /workouts/export/ [post]
func (h *WorkoutHandler) ExportWorkouts(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	result, err := h.exportService.ExportWorkouts(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
