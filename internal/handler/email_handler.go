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

type emailService interface {
	List(ctx context.Context) ([]models.EmailAddress, error)
	Create(ctx context.Context, req dto.CreateEmailRequest) (*models.EmailAddress, error)
}

// EmailHandler exposes the emails collection.
type EmailHandler struct {
	svc emailService
}

// NewEmailHandler constructs the handler.
func NewEmailHandler(svc emailService) *EmailHandler {
	return &EmailHandler{svc: svc}
}

// List godoc
// @Summary List stored email addresses
// @Tags Emails
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /emails [get]
func (h *EmailHandler) List(c *gin.Context) {
	emails, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emails)
}

// Create godoc
// @Summary Store an email address
// @Tags Emails
// @Accept json
// @Produce json
// @Param payload body dto.CreateEmailRequest true "Email"
// @Success 201 {object} response.Envelope
// @Router /emails [post]
func (h *EmailHandler) Create(c *gin.Context) {
	var req dto.CreateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	email, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, email)
}
