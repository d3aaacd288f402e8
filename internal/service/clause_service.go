package service

import (
	"context"

	"legalhub/internal/models"
	"legalhub/internal/repository"
	"legalhub/pkg/validator"
)

// ClauseStore persists the standard clause library
type ClauseStore interface {
	Create(ctx context.Context, c *models.Clause) error
	Update(ctx context.Context, c *models.Clause) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Clause, error)
	List(ctx context.Context, f repository.ClauseFilter) ([]models.Clause, error)
}

// ClauseService manages the standard clause library
type ClauseService struct {
	clauses ClauseStore
	audit   AuditLogger
}

// NewClauseService creates a new clause service
func NewClauseService(clauses ClauseStore, audit AuditLogger) *ClauseService {
	return &ClauseService{clauses: clauses, audit: audit}
}

// ClauseInput is the create and update payload for a clause
type ClauseInput struct {
	Name         string              `json:"name" validate:"required,max=300"`
	Content      string              `json:"content" validate:"required,max=20000"`
	ContractType models.ContractType `json:"contract_type" validate:"required,contract_type"`
	RiskLevel    models.RiskLevel    `json:"risk_level" validate:"omitempty,risk_level"`
	Notes        string              `json:"notes" validate:"max=5000"`
}

func (in ClauseInput) apply(c *models.Clause) error {
	in.Name = validator.SanitizeString(in.Name)
	in.Content = validator.SanitizeString(in.Content)
	in.Notes = validator.SanitizeString(in.Notes)
	if err := validator.ValidateStruct(in); err != nil {
		return validationFrom(err)
	}
	c.Name = in.Name
	c.Content = in.Content
	c.ContractType = in.ContractType
	c.RiskLevel = in.RiskLevel
	if c.RiskLevel == "" {
		c.RiskLevel = models.RiskLow
	}
	c.Notes = in.Notes
	return nil
}

// List returns clauses matching the filter
func (s *ClauseService) List(ctx context.Context, f repository.ClauseFilter) ([]models.Clause, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, invalid("contract_type is invalid")
	}
	if f.RiskLevel != "" && !f.RiskLevel.Valid() {
		return nil, invalid("risk_level is invalid")
	}
	f.Search = validator.SanitizeString(f.Search)
	clauses, err := s.clauses.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if clauses == nil {
		clauses = []models.Clause{}
	}
	return clauses, nil
}

// Get returns one clause
func (s *ClauseService) Get(ctx context.Context, id string) (*models.Clause, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	c, err := s.clauses.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// Create adds a clause. Admin-like only.
func (s *ClauseService) Create(ctx context.Context, actor Actor, input ClauseInput) (*models.Clause, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	c := &models.Clause{CreatedBy: actor.UserID}
	if err := input.apply(c); err != nil {
		return nil, err
	}
	if err := s.clauses.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log(ctx, actor, "clause.create", c.ID, c.Name)
	return c, nil
}

// Update replaces a clause. Admin-like only.
func (s *ClauseService) Update(ctx context.Context, actor Actor, id string, input ClauseInput) (*models.Clause, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(c); err != nil {
		return nil, err
	}
	ok, err := s.clauses.Update(ctx, c)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.log(ctx, actor, "clause.update", id, c.Name)
	return c, nil
}

// Delete removes a clause. Admin-like only.
func (s *ClauseService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdminLike() {
		return ErrForbidden
	}
	if err := checkID(id); err != nil {
		return err
	}
	ok, err := s.clauses.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.log(ctx, actor, "clause.delete", id, "")
	return nil
}

func (s *ClauseService) log(ctx context.Context, actor Actor, action, resource, details string) {
	if s.audit != nil {
		s.audit.Log(ctx, actor, action, resource, details)
	}
}
