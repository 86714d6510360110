package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/homework-tracker-api/internal/dto"
	"github.com/noah-isme/homework-tracker-api/internal/models"
	"github.com/noah-isme/homework-tracker-api/internal/service"
	"github.com/noah-isme/homework-tracker-api/pkg/response"
)

type reminderService interface {
	RunAll(ctx context.Context, trigger string) (*models.NotificationBatchResult, error)
	SendForHomework(ctx context.Context, homeworkID, trigger string) (*models.NotificationBatchResult, error)
}

type expirySweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// ReminderHandler exposes the on-demand triggers.
type ReminderHandler struct {
	reminders reminderService
	sweeper   expirySweeper
}

// NewReminderHandler constructs the handler.
func NewReminderHandler(reminders reminderService, sweeper expirySweeper) *ReminderHandler {
	return &ReminderHandler{reminders: reminders, sweeper: sweeper}
}

// RunAll godoc
// @Summary Send reminders for every active homework now
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.ReminderRunResponse}
// @Failure 503 {object} response.Envelope
// @Router /reminders/run [post]
func (h *ReminderHandler) RunAll(c *gin.Context) {
	// Sends must finish even if the caller disconnects.
	ctx := context.WithoutCancel(c.Request.Context())
	result, err := h.reminders.RunAll(ctx, service.TriggerOnDemand)
	h.respond(c, result, err)
}

// RemindHomework godoc
// @Summary Send a reminder for one homework now
// @Tags Reminders
// @Produce json
// @Param id path string true "Homework ID"
// @Success 200 {object} response.Envelope{data=dto.ReminderRunResponse}
// @Failure 404 {object} response.Envelope
// @Router /homeworks/{id}/remind [post]
func (h *ReminderHandler) RemindHomework(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	result, err := h.reminders.SendForHomework(ctx, c.Param("id"), service.TriggerOnDemand)
	h.respond(c, result, err)
}

// Sweep godoc
// @Summary Delete expired homeworks now
// @Tags Reminders
// @Produce json
// @Success 200 {object} response.Envelope{data=dto.SweepResponse}
// @Router /sweeper/run [post]
func (h *ReminderHandler) Sweep(c *gin.Context) {
	deleted, err := h.sweeper.Sweep(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.SweepResponse{DeletedCount: deleted})
}

func (h *ReminderHandler) respond(c *gin.Context, result *models.NotificationBatchResult, err error) {
	payload := dto.NewReminderRunResponse(result)
	if err != nil {
		payload.Success = false
		response.ErrorWithData(c, err, payload)
		return
	}
	response.JSON(c, http.StatusOK, payload)
}
