package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"legalhub/internal/models"
)

// ProfileRepository handles profile and role database operations
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `p.user_id, p.email, p.full_name, p.department, COALESCE(r.role, 'user'), p.created_at, p.updated_at`

func scanProfile(s rowScanner) (*models.Profile, error) {
	var p models.Profile
	if err := s.Scan(&p.UserID, &p.Email, &p.FullName, &p.Department, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByID retrieves a profile with its role. Returns nil if it does not exist.
func (r *ProfileRepository) GetByID(ctx context.Context, userID string) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles p
		LEFT JOIN user_roles r ON r.user_id = p.user_id
		WHERE p.user_id = $1`

	p, err := scanProfile(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// Ensure creates the profile and role rows on first sign-in and refreshes the
// e-mail address afterwards. Existing names, departments and roles are kept.
func (r *ProfileRepository) Ensure(ctx context.Context, userID, email, fullName string, role models.Role) (*models.Profile, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO profiles (user_id, email, full_name)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE
			SET email = EXCLUDED.email,
				full_name = CASE WHEN profiles.full_name = '' THEN EXCLUDED.full_name ELSE profiles.full_name END`,
			userID, email, fullName,
		); err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_roles (user_id, role)
			VALUES ($1, $2)
			ON CONFLICT (user_id) DO NOTHING`,
			userID, role,
		); err != nil {
			return fmt.Errorf("failed to ensure role: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, userID)
}

// Update changes the editable profile fields
func (r *ProfileRepository) Update(ctx context.Context, userID, fullName, department string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET full_name = $2, department = $3, updated_at = CURRENT_TIMESTAMP
		WHERE user_id = $1`,
		userID, fullName, department,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("profile not found")
	}
	return nil
}

// SetRole assigns a role to a user
func (r *ProfileRepository) SetRole(ctx context.Context, userID string, role models.Role) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`,
		userID, role,
	)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	return nil
}

// GetEmail returns the e-mail address of a user, or "" if unknown
func (r *ProfileRepository) GetEmail(ctx context.Context, userID string) (string, error) {
	var email string
	err := r.db.QueryRowContext(ctx, `SELECT email FROM profiles WHERE user_id = $1`, userID).Scan(&email)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get email: %w", err)
	}
	return email, nil
}

// ListAdminLike returns every admin and legal profile that has an e-mail address
func (r *ProfileRepository) ListAdminLike(ctx context.Context) ([]models.Profile, error) {
	query := `SELECT ` + profileColumns + `
		FROM profiles p
		JOIN user_roles r ON r.user_id = p.user_id
		WHERE r.role IN ('admin', 'legal') AND p.email <> ''
		ORDER BY p.email`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	defer rows.Close()

	var profiles []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
