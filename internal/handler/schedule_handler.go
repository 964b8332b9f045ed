package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pulsefit/studio-scheduler-api/internal/dto"
	"github.com/pulsefit/studio-scheduler-api/internal/service"
	appErrors "github.com/pulsefit/studio-scheduler-api/pkg/errors"
	"github.com/pulsefit/studio-scheduler-api/pkg/response"
)

// ScheduleHandler manages the weekly schedule endpoints.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Get godoc
// @Summary Current schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	instances := h.service.Current()
	response.JSON(c, http.StatusOK, instances, map[string]interface{}{
		"total":   len(instances),
		"canUndo": h.service.CanUndo(),
		"canRedo": h.service.CanRedo(),
	})
}

// Summary godoc
// @Summary Schedule summary
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/summary [get]
func (h *ScheduleHandler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summary)
}

// Seed godoc
// @Summary Seed schedule from the priority catalog
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.SeedScheduleRequest false "Seed options"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedule/seed [post]
func (h *ScheduleHandler) Seed(c *gin.Context) {
	var req dto.SeedScheduleRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.service.Seed(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// Optimize godoc
// @Summary Rebuild schedule under the iteration's objective
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.OptimizeScheduleRequest true "Optimization options"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /schedule/optimize [post]
func (h *ScheduleHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeScheduleRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.service.Optimize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// FillGaps godoc
// @Summary Append a bounded batch of additive placements
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.FillGapsRequest false "Gap fill options"
// @Success 200 {object} response.Envelope
// @Router /schedule/fill-gaps [post]
func (h *ScheduleHandler) FillGaps(c *gin.Context) {
	var req dto.FillGapsRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}
	outcome, err := h.service.FillGaps(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// Validate godoc
// @Summary Validate a candidate against the hour policy
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.ValidateClassRequest true "Candidate class"
// @Success 200 {object} response.Envelope
// @Router /schedule/validate [post]
func (h *ScheduleHandler) Validate(c *gin.Context) {
	var req dto.ValidateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	verdict, err := h.service.Validate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, verdict)
}

// AddClass godoc
// @Summary Manually place one class
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.ClassInstanceRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule/classes [post]
func (h *ScheduleHandler) AddClass(c *gin.Context) {
	var req dto.ClassInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.service.AddClass(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, outcome)
}

// ReplaceClass godoc
// @Summary Replace one class wholesale
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path string true "Instance ID"
// @Param payload body dto.ClassInstanceRequest true "Class payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/classes/{id} [put]
func (h *ScheduleHandler) ReplaceClass(c *gin.Context) {
	var req dto.ClassInstanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	outcome, err := h.service.ReplaceClass(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// DeleteClass godoc
// @Summary Remove one class
// @Tags Schedule
// @Produce json
// @Param id path string true "Instance ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /schedule/classes/{id} [delete]
func (h *ScheduleHandler) DeleteClass(c *gin.Context) {
	outcome, err := h.service.DeleteClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// Clear godoc
// @Summary Empty the schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [delete]
func (h *ScheduleHandler) Clear(c *gin.Context) {
	outcome, err := h.service.Clear(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// Undo godoc
// @Summary Step back one committed state
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/undo [post]
func (h *ScheduleHandler) Undo(c *gin.Context) {
	outcome, err := h.service.Undo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// Redo godoc
// @Summary Step forward one committed state
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/redo [post]
func (h *ScheduleHandler) Redo(c *gin.Context) {
	outcome, err := h.service.Redo(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, outcome)
}

// Lock godoc
// @Summary Lock instances or teachers against engine rewrites
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.LockRequest true "Lock targets"
// @Success 200 {object} response.Envelope
// @Router /schedule/locks [post]
func (h *ScheduleHandler) Lock(c *gin.Context) {
	var req dto.LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Lock(req))
}

// Unlock godoc
// @Summary Release instance or teacher locks
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.LockRequest true "Unlock targets"
// @Success 200 {object} response.Envelope
// @Router /schedule/locks [delete]
func (h *ScheduleHandler) Unlock(c *gin.Context) {
	var req dto.LockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Unlock(req))
}

// Locks godoc
// @Summary Current lock set
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/locks [get]
func (h *ScheduleHandler) Locks(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.LockStatus())
}

// bindOptionalJSON binds a JSON body when one is present; an empty body leaves
// the request at its zero value so defaults apply.
func bindOptionalJSON(c *gin.Context, dest interface{}) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
	}
	return nil
}
