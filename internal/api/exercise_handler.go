package api

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/service"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExerciseHandler holds the exercise service dependency.
type ExerciseHandler struct {
	exerciseService service.ExerciseService
	logger          *zap.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, logger *zap.Logger) *ExerciseHandler {
	return &ExerciseHandler{exerciseService: exerciseService, logger: logger}
}

// --- DTOs for API (Data Transfer Objects) ---

// CreateExerciseRequest defines the expected JSON for creating an exercise.
type CreateExerciseRequest struct {
	WorkoutID *int64   `json:"workout_id" binding:"required"`
	Name      string   `json:"name" binding:"required,max=100"`
	Sets      *int     `json:"sets" binding:"omitempty,min=0"`
	Reps      *int     `json:"reps" binding:"omitempty,min=0"`
	Weight    *float64 `json:"weight"`
	Duration  *int     `json:"duration" binding:"omitempty,min=0"`
}

// UpdateExerciseRequest serves both PUT and PATCH. workout_id is read-only here.
type UpdateExerciseRequest struct {
	Name     Optional[string]  `json:"name"`
	Sets     Optional[int]     `json:"sets"`
	Reps     Optional[int]     `json:"reps"`
	Weight   Optional[float64] `json:"weight"`
	Duration Optional[int]     `json:"duration"`
}

func (r UpdateExerciseRequest) toPatch(partial bool) (domain.ExercisePatch, map[string][]string) {
	var (
		patch  domain.ExercisePatch
		fields = map[string][]string{}
	)
	switch {
	case r.Name.present():
		if len([]rune(r.Name.Value)) > 100 {
			fields["name"] = []string{"Ensure this field has no more than 100 characters."}
		}
		patch.Name = &r.Name.Value
	case r.Name.Null:
		fields["name"] = []string{msgNotNull}
	case !partial:
		fields["name"] = []string{msgRequired}
	}

	patch.Sets, patch.ClearSets = optionalInt(r.Sets, partial)
	patch.Reps, patch.ClearReps = optionalInt(r.Reps, partial)
	patch.Duration, patch.ClearDuration = optionalInt(r.Duration, partial)
	if r.Weight.present() {
		patch.Weight = &r.Weight.Value
	} else if r.Weight.Null || !partial {
		patch.ClearWeight = true
	}
	return patch, fields
}

func optionalInt(o Optional[int], partial bool) (*int, bool) {
	if o.present() {
		v := o.Value
		return &v, false
	}
	return nil, o.Null || !partial
}

// --- Handler Methods ---

// ListExercises godoc
// @Summary List the caller's exercises
// @Tags Exercises
// @Produce json
// @Param workout_id query int false "Only exercises of this workout"
// @Success 200 {array} ExerciseResponse
// @Security BearerAuth
// @Router /exercises/ [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var workoutID *int64
	if raw := c.Query("workout_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			abortWithFields(c, map[string][]string{"workout_id": {"A valid integer is required."}})
			return
		}
		workoutID = &id
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), userID, workoutID)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// CreateExercise godoc
// @Summary Add an exercise to one of the caller's workouts
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body CreateExerciseRequest true "Exercise"
// @Success 201 {object} ExerciseResponse
// @Failure 400 {object} map[string][]string "Field errors, including an unknown workout_id"
// @Security BearerAuth
// @Router /exercises/ [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}

	exercise := &domain.Exercise{
		WorkoutID: *req.WorkoutID,
		Name:      req.Name,
		Sets:      req.Sets,
		Reps:      req.Reps,
		Weight:    req.Weight,
		Duration:  req.Duration,
	}
	created, err := h.exerciseService.CreateExercise(c.Request.Context(), userID, exercise)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, MapExerciseToResponse(created))
}

// GetExercise godoc
// @Summary Get one exercise
// @Tags Exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} ExerciseResponse
// @Failure 404 {object} map[string]string "detail"
// @Security BearerAuth
// @Router /exercises/{id}/ [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.GetExercise(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

func (h *ExerciseHandler) ReplaceExercise(c *gin.Context) { h.update(c, false) }

func (h *ExerciseHandler) PatchExercise(c *gin.Context) { h.update(c, true) }

func (h *ExerciseHandler) update(c *gin.Context, partial bool) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBindError(c, err)
		return
	}
	patch, fields := req.toPatch(partial)
	if len(fields) > 0 {
		abortWithFields(c, fields)
		return
	}

	exercise, err := h.exerciseService.UpdateExercise(c.Request.Context(), userID, id, patch)
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}

// DeleteExercise godoc
// @Summary Delete an exercise
// @Tags Exercises
// @Param id path int true "Exercise ID"
// @Success 204
// @Failure 404 {object} map[string]string "detail"
// @Security BearerAuth
// @Router /exercises/{id}/ [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	userID, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.DeleteExercise(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
