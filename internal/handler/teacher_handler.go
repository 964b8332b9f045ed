package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pulsefit/studio-scheduler-api/internal/models"
	"github.com/pulsefit/studio-scheduler-api/internal/repository"
	"github.com/pulsefit/studio-scheduler-api/pkg/response"
)

// TeacherHandler serves read-only roster views. Roster maintenance lives in
// the external roster manager.
type TeacherHandler struct {
	repo *repository.TeacherRepository
}

// NewTeacherHandler constructs handler.
func NewTeacherHandler(repo *repository.TeacherRepository) *TeacherHandler {
	return &TeacherHandler{repo: repo}
}

// List godoc
// @Summary List teachers
// @Tags Teachers
// @Produce json
// @Param status query string false "Filter by status (active, new, inactive)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /teachers [get]
func (h *TeacherHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	teachers, total, err := h.repo.List(c.Request.Context(), c.Query("status"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	pagination := models.Pagination{Page: page, PageSize: limit, Total: total}
	if limit > 0 {
		pagination.TotalPages = (total + limit - 1) / limit
	}
	response.JSON(c, http.StatusOK, teachers, map[string]interface{}{"pagination": pagination})
}
