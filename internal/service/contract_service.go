package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"legalhub/internal/models"
	"legalhub/internal/repository"
	"legalhub/pkg/validator"
)

// expiringWindowDays is how far ahead Stats counts a contract as expiring soon
const expiringWindowDays = 30

// ContractStore persists contract records
type ContractStore interface {
	Create(ctx context.Context, c *models.Contract) error
	Update(ctx context.Context, c *models.Contract) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Contract, error)
	List(ctx context.Context, f repository.ContractFilter) ([]models.Contract, error)
}

// ContractService manages the contract store
type ContractService struct {
	contracts  ContractStore
	categories CategoryStore
	audit      AuditLogger
}

// NewContractService creates a new contract service
func NewContractService(contracts ContractStore, categories CategoryStore, audit AuditLogger) *ContractService {
	return &ContractService{contracts: contracts, categories: categories, audit: audit}
}

// ContractInput is the create and update payload for a contract
type ContractInput struct {
	CategoryID    string                `json:"category_id" validate:"omitempty,uuid"`
	Title         string                `json:"title" validate:"required,max=500"`
	ContractType  models.ContractType   `json:"contract_type" validate:"required,contract_type"`
	PartnerName   string                `json:"partner_name" validate:"max=500"`
	Status        models.ContractStatus `json:"status" validate:"omitempty,contract_status"`
	EffectiveDate string                `json:"effective_date" validate:"omitempty,date"`
	ExpiryDate    string                `json:"expiry_date" validate:"omitempty,date"`
	Value         int64                 `json:"value" validate:"gte=0"`
	RiskLevel     models.RiskLevel      `json:"risk_level" validate:"omitempty,risk_level"`
	FileURL       string                `json:"file_url" validate:"omitempty,url"`
}

func (in ContractInput) apply(c *models.Contract) error {
	in.Title = validator.SanitizeString(in.Title)
	in.PartnerName = validator.SanitizeString(in.PartnerName)
	in.FileURL = strings.TrimSpace(in.FileURL)
	if err := validator.ValidateStruct(in); err != nil {
		return validationFrom(err)
	}

	effective, err := optionalDate("effective_date", in.EffectiveDate)
	if err != nil {
		return err
	}
	expiry, err := optionalDate("expiry_date", in.ExpiryDate)
	if err != nil {
		return err
	}
	if effective != nil && expiry != nil && expiry.Before(effective.Time) {
		return invalid("expiry_date must not be before effective_date")
	}

	c.Title = in.Title
	c.ContractType = in.ContractType
	c.PartnerName = in.PartnerName
	c.Status = in.Status
	if c.Status == "" {
		c.Status = models.ContractDraft
	}
	c.EffectiveDate = effective
	c.ExpiryDate = expiry
	c.Value = in.Value
	c.RiskLevel = in.RiskLevel
	if c.RiskLevel == "" {
		c.RiskLevel = models.RiskLow
	}
	c.CategoryID = nil
	if in.CategoryID != "" {
		id := in.CategoryID
		c.CategoryID = &id
	}
	c.FileURL = nil
	if in.FileURL != "" {
		url := in.FileURL
		c.FileURL = &url
	}
	return nil
}

func (s *ContractService) checkCategory(ctx context.Context, c *models.Contract) error {
	if c.CategoryID == nil || s.categories == nil {
		return nil
	}
	cat, err := s.categories.GetByID(ctx, *c.CategoryID)
	if err != nil {
		return err
	}
	if cat == nil {
		return invalid("category_id does not exist")
	}
	return nil
}

// Create stores a new contract. Admin-like only.
func (s *ContractService) Create(ctx context.Context, actor Actor, input ContractInput) (*models.Contract, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	c := &models.Contract{CreatedBy: actor.UserID}
	if err := input.apply(c); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, c); err != nil {
		return nil, err
	}
	if err := s.contracts.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log(ctx, actor, "contract.create", c.ID, c.Title)
	return c, nil
}

// Update replaces the editable fields of a contract. Admin-like only.
func (s *ContractService) Update(ctx context.Context, actor Actor, id string, input ContractInput) (*models.Contract, error) {
	if !actor.IsAdminLike() {
		return nil, ErrForbidden
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := input.apply(existing); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, existing); err != nil {
		return nil, err
	}
	ok, err := s.contracts.Update(ctx, existing)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	s.log(ctx, actor, "contract.update", id, existing.Title)
	return existing, nil
}

// Delete removes a contract. Admin-like only.
func (s *ContractService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.IsAdminLike() {
		return ErrForbidden
	}
	if err := checkID(id); err != nil {
		return err
	}
	ok, err := s.contracts.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	s.log(ctx, actor, "contract.delete", id, "")
	return nil
}

// Get returns one contract
func (s *ContractService) Get(ctx context.Context, id string) (*models.Contract, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	c, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

// List returns contracts matching the filter
func (s *ContractService) List(ctx context.Context, f repository.ContractFilter) ([]models.Contract, error) {
	switch {
	case f.Status != "" && !f.Status.Valid():
		return nil, invalid("status is invalid")
	case f.Type != "" && !f.Type.Valid():
		return nil, invalid("contract_type is invalid")
	case f.RiskLevel != "" && !f.RiskLevel.Valid():
		return nil, invalid("risk_level is invalid")
	case f.CategoryID != "" && checkID(f.CategoryID) != nil:
		return nil, invalid("category_id is invalid")
	}
	f.Search = validator.SanitizeString(f.Search)

	contracts, err := s.contracts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if contracts == nil {
		contracts = []models.Contract{}
	}
	return contracts, nil
}

// Stats summarises all contracts as of now
func (s *ContractService) Stats(ctx context.Context, now time.Time) (*models.ContractStats, error) {
	contracts, err := s.contracts.List(ctx, repository.ContractFilter{})
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if s.categories != nil {
		if categories, err = s.categories.List(ctx); err != nil {
			return nil, err
		}
	}
	return ComputeStats(contracts, categories, now), nil
}

// ComputeStats builds the dashboard summary. A contract is expiring soon when
// it is not already expired and its expiry date is within 30 days of now.
func ComputeStats(contracts []models.Contract, categories []models.Category, now time.Time) *models.ContractStats {
	stats := &models.ContractStats{
		Total:      len(contracts),
		ByStatus:   make(map[models.ContractStatus]int, len(models.ContractStatuses)),
		ByCategory: []models.CategoryCount{},
	}
	for _, st := range models.ContractStatuses {
		stats.ByStatus[st] = 0
	}

	perCategory := make(map[string]int)
	uncategorized := 0
	for _, c := range contracts {
		stats.ByStatus[c.Status]++
		if c.RiskLevel == models.RiskHigh {
			stats.HighRisk++
		}
		if c.ExpiryDate != nil && c.Status != models.ContractExpired {
			if days := c.ExpiryDate.DaysUntil(now); days >= 0 && days <= expiringWindowDays {
				stats.ExpiringSoon++
			}
		}
		if c.CategoryID == nil {
			uncategorized++
		} else {
			perCategory[*c.CategoryID]++
		}
	}

	for _, cat := range categories {
		id := cat.ID
		stats.ByCategory = append(stats.ByCategory, models.CategoryCount{
			CategoryID: &id,
			Name:       cat.Name,
			Count:      perCategory[cat.ID],
		})
	}
	if uncategorized > 0 {
		stats.ByCategory = append(stats.ByCategory, models.CategoryCount{Name: "Chưa phân loại", Count: uncategorized})
	}
	return stats
}

// UpcomingDeadlines lists contract expiry dates falling within the next
// withinDays days, soonest first. Expired contracts are skipped.
func (s *ContractService) UpcomingDeadlines(ctx context.Context, now time.Time, withinDays int) ([]models.Deadline, error) {
	if withinDays <= 0 {
		withinDays = expiringWindowDays
	}
	if withinDays > 366 {
		return nil, invalid("days must be at most 366")
	}
	contracts, err := s.contracts.List(ctx, repository.ContractFilter{Sort: "expiry_date"})
	if err != nil {
		return nil, err
	}
	return Deadlines(contracts, now, withinDays), nil
}

// Deadlines derives the expiry deadlines of contracts as of now
func Deadlines(contracts []models.Contract, now time.Time, withinDays int) []models.Deadline {
	deadlines := []models.Deadline{}
	for _, c := range contracts {
		if c.ExpiryDate == nil || c.Status == models.ContractExpired {
			continue
		}
		days := c.ExpiryDate.DaysUntil(now)
		if days < 0 || days > withinDays {
			continue
		}
		deadlines = append(deadlines, models.Deadline{
			ContractID:    c.ID,
			ContractTitle: c.Title,
			PartnerName:   c.PartnerName,
			Type:          models.DeadlineExpiry,
			DueDate:       *c.ExpiryDate,
			DaysRemaining: days,
		})
	}
	slices.SortStableFunc(deadlines, func(a, b models.Deadline) int {
		return a.DaysRemaining - b.DaysRemaining
	})
	return deadlines
}

func (s *ContractService) log(ctx context.Context, actor Actor, action, resource, details string) {
	if s.audit != nil {
		s.audit.Log(ctx, actor, action, resource, details)
	}
}
