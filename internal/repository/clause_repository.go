package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"legalhub/internal/models"
)

// ClauseFilter narrows a clause listing
type ClauseFilter struct {
	Type      models.ContractType
	RiskLevel models.RiskLevel
	Search    string
}

// ClauseRepository handles standard clause database operations
type ClauseRepository struct {
	db *sql.DB
}

// NewClauseRepository creates a new clause repository
func NewClauseRepository(db *sql.DB) *ClauseRepository {
	return &ClauseRepository{db: db}
}

const clauseColumns = `id, name, content, contract_type, risk_level, notes, COALESCE(created_by::text, ''), created_at, updated_at`

func scanClause(s rowScanner) (*models.Clause, error) {
	var c models.Clause
	if err := s.Scan(&c.ID, &c.Name, &c.Content, &c.ContractType, &c.RiskLevel, &c.Notes, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a clause
func (r *ClauseRepository) Create(ctx context.Context, c *models.Clause) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO clauses (id, name, content, contract_type, risk_level, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Content, c.ContractType, c.RiskLevel, c.Notes, nullUUID(c.CreatedBy),
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create clause: %w", err)
	}
	return nil
}

// Update overwrites a clause. Returns false if it does not exist.
func (r *ClauseRepository) Update(ctx context.Context, c *models.Clause) (bool, error) {
	err := r.db.QueryRowContext(ctx, `
		UPDATE clauses
		SET name = $2, content = $3, contract_type = $4, risk_level = $5, notes = $6, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
		RETURNING COALESCE(created_by::text, ''), created_at, updated_at`,
		c.ID, c.Name, c.Content, c.ContractType, c.RiskLevel, c.Notes,
	).Scan(&c.CreatedBy, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to update clause: %w", err)
	}
	return true, nil
}

// Delete removes a clause. Returns false if it does not exist.
func (r *ClauseRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clauses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete clause: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete clause: %w", err)
	}
	return n > 0, nil
}

// GetByID retrieves a clause. Returns nil if it does not exist.
func (r *ClauseRepository) GetByID(ctx context.Context, id string) (*models.Clause, error) {
	c, err := scanClause(r.db.QueryRowContext(ctx, `SELECT `+clauseColumns+` FROM clauses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get clause: %w", err)
	}
	return c, nil
}

// List returns clauses matching the filter, by name
func (r *ClauseRepository) List(ctx context.Context, f ClauseFilter) ([]models.Clause, error) {
	var w where
	if f.Type != "" {
		w.add("contract_type = ?", f.Type)
	}
	if f.RiskLevel != "" {
		w.add("risk_level = ?", f.RiskLevel)
	}
	w.search(f.Search, "name", "content")

	return r.query(ctx, `SELECT `+clauseColumns+` FROM clauses`+w.String()+` ORDER BY name, id`, w.args...)
}

// ListByIDs returns the clauses with the given ids, by name
func (r *ClauseRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Clause, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.query(ctx, `SELECT `+clauseColumns+` FROM clauses WHERE id = ANY($1::uuid[]) ORDER BY name, id`, pq.Array(ids))
}

func (r *ClauseRepository) query(ctx context.Context, query string, args ...any) ([]models.Clause, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clauses: %w", err)
	}
	defer rows.Close()

	var clauses []models.Clause
	for rows.Next() {
		c, err := scanClause(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan clause: %w", err)
		}
		clauses = append(clauses, *c)
	}
	return clauses, rows.Err()
}
