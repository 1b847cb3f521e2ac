package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (id, registration_id, email, role, company_id, approval_status, approved_by, approved_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	u.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		u.ID, u.RegistrationID, u.Email, u.Role, u.CompanyID, u.ApprovalStatus, u.ApprovedBy, u.ApprovedAt, u.CreatedAt)
	if constraint, ok := uniqueViolation(err); ok {
		// The uid and registration id are both fixed per request, so either
		// collision means another decider already provisioned this request.
		if constraint == "users_pkey" || constraint == "users_registration_id_key" {
			return domain.ErrConflict
		}
		return domain.ErrDuplicateEmail
	}
	return err
}

const userColumns = `id, registration_id, email, role, company_id, approval_status, COALESCE(approved_by, ''), approved_at, created_at`

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	u := &domain.User{}
	var approvedAt sql.NullTime
	err := row.Scan(&u.ID, &u.RegistrationID, &u.Email, &u.Role, &u.CompanyID, &u.ApprovalStatus, &u.ApprovedBy, &approvedAt, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	if approvedAt.Valid {
		u.ApprovedAt = &approvedAt.Time
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return u, err
}
