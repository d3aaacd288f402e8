package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"legalhub/internal/models"
)

// ContractFilter narrows a contract listing. Zero values match everything.
type ContractFilter struct {
	CategoryID string
	Status     models.ContractStatus
	Type       models.ContractType
	RiskLevel  models.RiskLevel
	Search     string
	Sort       string // created_at (default), expiry_date, value, title
}

// ContractRepository handles contract database operations
type ContractRepository struct {
	db *sql.DB
}

// NewContractRepository creates a new contract repository
func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractColumns = `id, category_id, title, contract_type, partner_name, status, effective_date,
	expiry_date, value, risk_level, file_url, COALESCE(created_by::text, ''), created_at, updated_at`

func scanContract(s rowScanner) (*models.Contract, error) {
	var c models.Contract
	err := s.Scan(
		&c.ID,
		&c.CategoryID,
		&c.Title,
		&c.ContractType,
		&c.PartnerName,
		&c.Status,
		&c.EffectiveDate,
		&c.ExpiryDate,
		&c.Value,
		&c.RiskLevel,
		&c.FileURL,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func nullUUID(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Create inserts a new contract
func (r *ContractRepository) Create(ctx context.Context, c *models.Contract) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query := `
		INSERT INTO contracts (
			id, category_id, title, contract_type, partner_name, status, effective_date,
			expiry_date, value, risk_level, file_url, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.CategoryID, c.Title, c.ContractType, c.PartnerName, c.Status, c.EffectiveDate,
		c.ExpiryDate, c.Value, c.RiskLevel, c.FileURL, nullUUID(c.CreatedBy),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contract: %w", err)
	}
	return nil
}

// Update overwrites the editable fields of a contract. Returns false if it does not exist.
func (r *ContractRepository) Update(ctx context.Context, c *models.Contract) (bool, error) {
	query := `
		UPDATE contracts
		SET category_id = $2, title = $3, contract_type = $4, partner_name = $5, status = $6,
			effective_date = $7, expiry_date = $8, value = $9, risk_level = $10, file_url = $11,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING created_at, updated_at, COALESCE(created_by::text, '')
	`
	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.CategoryID, c.Title, c.ContractType, c.PartnerName, c.Status,
		c.EffectiveDate, c.ExpiryDate, c.Value, c.RiskLevel, c.FileURL,
	).Scan(&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update contract: %w", err)
	}
	return true, nil
}

// Delete removes a contract. Returns false if it does not exist.
func (r *ContractRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete contract: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete contract: %w", err)
	}
	return n > 0, nil
}

// GetByID retrieves a contract. Returns nil if it does not exist.
func (r *ContractRepository) GetByID(ctx context.Context, id string) (*models.Contract, error) {
	c, err := scanContract(r.db.QueryRowContext(ctx, `SELECT `+contractColumns+` FROM contracts WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contract: %w", err)
	}
	return c, nil
}

var contractSorts = map[string]string{
	"":            "created_at DESC",
	"created_at":  "created_at DESC",
	"expiry_date": "expiry_date ASC NULLS LAST",
	"value":       "value DESC",
	"title":       "title ASC",
}

// List returns contracts matching the filter
func (r *ContractRepository) List(ctx context.Context, f ContractFilter) ([]models.Contract, error) {
	var w where
	if f.CategoryID != "" {
		w.add("category_id = ?", f.CategoryID)
	}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	if f.Type != "" {
		w.add("contract_type = ?", f.Type)
	}
	if f.RiskLevel != "" {
		w.add("risk_level = ?", f.RiskLevel)
	}
	w.search(f.Search, "title", "partner_name")

	order, ok := contractSorts[f.Sort]
	if !ok {
		order = contractSorts[""]
	}

	query := `SELECT ` + contractColumns + ` FROM contracts` + w.String() + ` ORDER BY ` + order + `, id`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list contracts: %w", err)
	}
	defer rows.Close()

	var contracts []models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contract: %w", err)
		}
		contracts = append(contracts, *c)
	}
	return contracts, rows.Err()
}
