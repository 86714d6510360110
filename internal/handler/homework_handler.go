package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/homework-tracker-api/internal/dto"
	"github.com/noah-isme/homework-tracker-api/internal/middleware"
	"github.com/noah-isme/homework-tracker-api/internal/models"
	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
	"github.com/noah-isme/homework-tracker-api/pkg/response"
)

type homeworkService interface {
	List(ctx context.Context, active bool) ([]models.Homework, bool, error)
	Get(ctx context.Context, id string) (*models.Homework, error)
	Create(ctx context.Context, req dto.CreateHomeworkRequest) (*models.Homework, error)
	Delete(ctx context.Context, id string) error
}

// HomeworkHandler exposes homework endpoints.
type HomeworkHandler struct {
	svc homeworkService
}

// NewHomeworkHandler constructs the handler.
func NewHomeworkHandler(svc homeworkService) *HomeworkHandler {
	return &HomeworkHandler{svc: svc}
}

// List godoc
// @Summary List homeworks
// @Tags Homeworks
// @Produce json
// @Param active query bool false "Only homeworks due in the future"
// @Success 200 {object} response.Envelope
// @Router /homeworks [get]
func (h *HomeworkHandler) List(c *gin.Context) {
	var query dto.ListHomeworksQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	homeworks, hit, err := h.svc.List(c.Request.Context(), query.Active)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, homeworks, middleware.ExtractMeta(c))
}

// Get godoc
// @Summary Get a homework
// @Tags Homeworks
// @Produce json
// @Param id path string true "Homework ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /homeworks/{id} [get]
func (h *HomeworkHandler) Get(c *gin.Context) {
	hw, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hw)
}

// Create godoc
// @Summary Create a homework and notify subscribers
// @Tags Homeworks
// @Accept json
// @Produce json
// @Param payload body dto.CreateHomeworkRequest true "Homework"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /homeworks [post]
func (h *HomeworkHandler) Create(c *gin.Context) {
	var req dto.CreateHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	hw, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, hw)
}

// Delete godoc
// @Summary Delete a homework
// @Tags Homeworks
// @Param id path string true "Homework ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /homeworks/{id} [delete]
func (h *HomeworkHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
