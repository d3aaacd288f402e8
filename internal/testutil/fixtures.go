package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"legalhub/internal/models"
)

// Fixtures holds test data
type Fixtures struct {
	DB         *sql.DB
	Admin      *models.Profile
	Legal      *models.Profile
	Requester  *models.Profile
	Other      *models.Profile
	Categories []models.Category
	Clauses    []models.Clause
}

// SetupFixtures creates profiles for every role, two categories and two clauses
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	f := &Fixtures{DB: db}
	f.Admin = CreateProfile(t, db, "admin@test.com", "Quản trị viên", "Pháp chế", models.RoleAdmin)
	f.Legal = CreateProfile(t, db, "legal@test.com", "Chuyên viên pháp chế", "Pháp chế", models.RoleLegal)
	f.Requester = CreateProfile(t, db, "user@test.com", "Nguyễn Văn A", "Kinh doanh", models.RoleUser)
	f.Other = CreateProfile(t, db, "other@test.com", "Trần Thị B", "Hành chính", models.RoleUser)

	f.Categories = []models.Category{
		createCategory(t, db, "Hợp đồng thuê", f.Admin.UserID),
		createCategory(t, db, "Hợp đồng dịch vụ", f.Admin.UserID),
	}
	f.Clauses = []models.Clause{
		createClause(t, db, "Điều khoản thanh toán", "Thanh toán trong 30 ngày kể từ ngày nhận hóa đơn.", models.RiskMedium, f.Admin.UserID),
		createClause(t, db, "Điều khoản bảo mật", "Các bên không tiết lộ thông tin bí mật.", models.RiskHigh, f.Admin.UserID),
	}

	return f
}

// CreateProfile inserts a profile with the given role
func CreateProfile(t *testing.T, db *sql.DB, email, fullName, department string, role models.Role) *models.Profile {
	t.Helper()

	p := &models.Profile{
		UserID:     uuid.NewString(),
		Email:      email,
		FullName:   fullName,
		Department: department,
		Role:       role,
	}

	err := db.QueryRow(
		`INSERT INTO profiles (user_id, email, full_name, department) VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`,
		p.UserID, p.Email, p.FullName, p.Department,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create profile %s: %v", email, err)
	}

	if _, err := db.Exec(`INSERT INTO user_roles (user_id, role) VALUES ($1, $2)`, p.UserID, role); err != nil {
		t.Fatalf("Failed to assign role %s to %s: %v", role, email, err)
	}

	return p
}

func createCategory(t *testing.T, db *sql.DB, name, createdBy string) models.Category {
	t.Helper()

	c := models.Category{ID: uuid.NewString(), Name: name, CreatedBy: createdBy}
	err := db.QueryRowContext(context.Background(),
		`INSERT INTO contract_categories (id, name, created_by) VALUES ($1, $2, $3) RETURNING created_at`,
		c.ID, c.Name, c.CreatedBy,
	).Scan(&c.CreatedAt)
	if err != nil {
		t.Fatalf("Failed to create category %s: %v", name, err)
	}
	return c
}

func createClause(t *testing.T, db *sql.DB, name, content string, risk models.RiskLevel, createdBy string) models.Clause {
	t.Helper()

	c := models.Clause{
		ID:           uuid.NewString(),
		Name:         name,
		Content:      content,
		ContractType: models.ContractTypeService,
		RiskLevel:    risk,
		CreatedBy:    createdBy,
	}
	err := db.QueryRow(
		`INSERT INTO clauses (id, name, content, contract_type, risk_level, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at, updated_at`,
		c.ID, c.Name, c.Content, c.ContractType, c.RiskLevel, c.CreatedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create clause %s: %v", name, err)
	}
	return c
}
