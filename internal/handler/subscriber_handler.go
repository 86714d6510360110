package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/homework-tracker-api/internal/dto"
	"github.com/noah-isme/homework-tracker-api/internal/models"
	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
	"github.com/noah-isme/homework-tracker-api/pkg/response"
)

type subscriberService interface {
	List(ctx context.Context) ([]models.Subscriber, error)
	Subscribe(ctx context.Context, req dto.CreateSubscriberRequest) (*models.Subscriber, error)
	UnsubscribeAll(ctx context.Context, id string) error
	UnsubscribeFromHomework(ctx context.Context, id string, req dto.UnsubscribeRequest) error
}

// SubscriberHandler exposes subscription endpoints.
type SubscriberHandler struct {
	svc subscriberService
}

// NewSubscriberHandler constructs the handler.
func NewSubscriberHandler(svc subscriberService) *SubscriberHandler {
	return &SubscriberHandler{svc: svc}
}

// List godoc
// @Summary List subscribers
// @Tags Subscribers
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subscribers [get]
func (h *SubscriberHandler) List(c *gin.Context) {
	subs, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subs)
}

// Subscribe godoc
// @Summary Subscribe an email address
// @Tags Subscribers
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubscriberRequest true "Subscriber"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /subscribers [post]
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req dto.CreateSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	sub, err := h.svc.Subscribe(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// UnsubscribeAll godoc
// @Summary Remove a subscriber
// @Tags Subscribers
// @Param id path string true "Subscriber ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /subscribers/{id} [delete]
func (h *SubscriberHandler) UnsubscribeAll(c *gin.Context) {
	if err := h.svc.UnsubscribeAll(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Unsubscribe godoc
// @Summary Opt a subscriber out of one homework
// @Tags Subscribers
// @Accept json
// @Param id path string true "Subscriber ID"
// @Param payload body dto.UnsubscribeRequest true "Homework to mute"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /subscribers/{id}/unsubscribe [post]
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	var req dto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if err := h.svc.UnsubscribeFromHomework(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
