package service

import (
	"context"
	"strings"

	"github.com/noah-isme/homework-tracker-api/internal/dto"
	"github.com/noah-isme/homework-tracker-api/internal/models"
	appErrors "github.com/noah-isme/homework-tracker-api/pkg/errors"
	"github.com/noah-isme/homework-tracker-api/pkg/validation"
)

type emailRepository interface {
	List(ctx context.Context) ([]models.EmailAddress, error)
	Create(ctx context.Context, email *models.EmailAddress) error
}

// EmailService manages the free-standing emails collection.
type EmailService struct {
	repo      emailRepository
	validator *validation.Validator
}

// NewEmailService constructs the service.
func NewEmailService(repo emailRepository, validator *validation.Validator) *EmailService {
	if validator == nil {
		validator = validation.New()
	}
	return &EmailService{repo: repo, validator: validator}
}

// List returns every stored address.
func (s *EmailService) List(ctx context.Context) ([]models.EmailAddress, error) {
	emails, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list emails")
	}
	return emails, nil
}

// Create stores an address.
func (s *EmailService) Create(ctx context.Context, req dto.CreateEmailRequest) (*models.EmailAddress, error) {
	req.Address = strings.TrimSpace(req.Address)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}
	email := &models.EmailAddress{Address: req.Address}
	if err := s.repo.Create(ctx, email); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store email")
	}
	return email, nil
}
