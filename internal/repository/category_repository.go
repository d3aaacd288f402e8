package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"legalhub/internal/models"
)

// CategoryRepository handles contract category database operations
type CategoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserts a category. Returns ErrDuplicate if the name is taken.
func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contract_categories (id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		c.ID, c.Name, c.Description, nullUUID(c.CreatedBy),
	).Scan(&c.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category. Returns nil if it does not exist.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT cc.id, cc.name, cc.description, COALESCE(cc.created_by::text, ''), cc.created_at,
			(SELECT COUNT(*) FROM contracts WHERE category_id = cc.id)
		FROM contract_categories cc
		WHERE cc.id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt, &c.ContractCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &c, nil
}

// List returns all categories with their contract counts, by name
func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cc.id, cc.name, cc.description, COALESCE(cc.created_by::text, ''), cc.created_at, COUNT(c.id)
		FROM contract_categories cc
		LEFT JOIN contracts c ON c.category_id = cc.id
		GROUP BY cc.id
		ORDER BY cc.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedBy, &c.CreatedAt, &c.ContractCount); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Delete removes a category; its contracts become uncategorised
func (r *CategoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM contract_categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete category: %w", err)
	}
	return n > 0, nil
}
