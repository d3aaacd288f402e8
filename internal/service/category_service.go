package service

import (
	"context"
	"errors"

	"legalhub/internal/models"
	"legalhub/internal/repository"
	"legalhub/pkg/validator"
)

// CategoryStore persists contract categories
type CategoryStore interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// CategoryService manages contract categories
type CategoryService struct {
	categories CategoryStore
	contracts  ContractStore
	audit      AuditLogger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories CategoryStore, contracts ContractStore, audit AuditLogger) *CategoryService {
	return &CategoryService{categories: categories, contracts: contracts, audit: audit}
}

// CategoryInput is the create payload for a category
type CategoryInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// List returns all categories with their contract counts
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []models.Category{}
	}
	return categories, nil
}

// Create adds a category. Names are unique. Admin-like only.
func (s *CategoryService) Create(ctx context.Context, actor Actor, input CategoryInput) (*models.Category, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	input.Name = validator.SanitizeString(input.Name)
	input.Description = validator.SanitizeString(input.Description)
	if err := validator.ValidateStruct(input); err != nil {
		return nil, validationFrom(err)
	}

	c := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		CreatedBy:   actor.UserID,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	if s.audit != nil {
		s.audit.Log(ctx, actor, "category.create", c.ID, c.Name)
	}
	return c, nil
}

// Delete removes a category. Its contracts become uncategorized. Admin-like only.
func (s *CategoryService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdminLike() {
		return ErrForbidden
	}
	if err := checkID(id); err != nil {
		return err
	}
	ok, err := s.categories.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if s.audit != nil {
		s.audit.Log(ctx, actor, "category.delete", id, "")
	}
	return nil
}

// Contracts returns the category and the contracts filed under it
func (s *CategoryService) Contracts(ctx context.Context, id string) (*models.Category, []models.Contract, error) {
	if err := checkID(id); err != nil {
		return nil, nil, err
	}
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if cat == nil {
		return nil, nil, ErrNotFound
	}
	contracts, err := s.contracts.List(ctx, repository.ContractFilter{CategoryID: id})
	if err != nil {
		return nil, nil, err
	}
	if contracts == nil {
		contracts = []models.Contract{}
	}
	return cat, contracts, nil
}
