package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/repository"
)

// Name of the partial unique index on lower(email) for non-rejected rows.
const activeEmailConstraint = "registration_requests_active_email_idx"

type registrationRepository struct {
	db *sql.DB
}

func NewRegistrationRepository(db *sql.DB) repository.RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) Create(ctx context.Context, req *domain.RegistrationRequest) error {
	query := `INSERT INTO registration_requests
	          (id, email, password_hash, first_name, last_name, full_name, phone, bio, department, position, employee_id, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	req.Status = domain.RegistrationStatusPending
	req.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		req.ID, req.Email, req.PasswordHash, req.FirstName, req.LastName, req.FullName,
		req.Phone, req.Bio, req.Department, req.Position, req.EmployeeID, req.Status, req.CreatedAt)
	if constraint, ok := uniqueViolation(err); ok && constraint == activeEmailConstraint {
		return domain.ErrDuplicateEmail
	}
	return err
}

const registrationColumns = `id, email, password_hash, first_name, last_name, full_name,
	COALESCE(phone, ''), COALESCE(bio, ''), COALESCE(department, ''), COALESCE(position, ''), COALESCE(employee_id, ''),
	status, created_at`

func scanRegistration(row interface{ Scan(...any) error }) (*domain.RegistrationRequest, error) {
	req := &domain.RegistrationRequest{}
	err := row.Scan(&req.ID, &req.Email, &req.PasswordHash, &req.FirstName, &req.LastName, &req.FullName,
		&req.Phone, &req.Bio, &req.Department, &req.Position, &req.EmployeeID, &req.Status, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationColumns + ` FROM registration_requests WHERE id = $1`
	req, err := scanRegistration(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return req, err
}

func (r *registrationRepository) GetActiveByEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationColumns + ` FROM registration_requests
	          WHERE LOWER(email) = LOWER($1) AND status <> 'rejected'`
	req, err := scanRegistration(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return req, err
}

func (r *registrationRepository) List(ctx context.Context, status domain.RegistrationStatus, page, pageSize int32) ([]domain.RegistrationRequest, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + registrationColumns + ` FROM registration_requests
	          WHERE ($1 = '' OR status = $1) ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, string(status), pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var count int32
	countQuery := `SELECT count(*) FROM registration_requests WHERE ($1 = '' OR status = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, string(status)).Scan(&count); err != nil {
		return nil, 0, err
	}

	var reqs []domain.RegistrationRequest
	for rows.Next() {
		req, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, count, rows.Err()
}

func (r *registrationRepository) Finalize(ctx context.Context, id string, to domain.RegistrationStatus, entry *domain.ApprovalLogEntry) error {
	if !to.Terminal() {
		return fmt.Errorf("cannot finalize to non-terminal status %q", to)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Status guard: only the first decision flips the row. A concurrent
	// decider observes zero affected rows here and backs off.
	res, err := tx.ExecContext(ctx,
		`UPDATE registration_requests SET status = $1 WHERE id = $2 AND status = 'pending'`,
		to, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrConflict
	}

	entry.CreatedAt = time.Now().UTC()
	err = tx.QueryRowContext(ctx,
		`INSERT INTO approval_logs (registration_id, user_id, approved_by, action, company_id, notes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		entry.RegistrationID, entry.UserID, entry.ApprovedBy, entry.Action, entry.CompanyID, entry.Notes, entry.CreatedAt).
		Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to append approval log: %w", err)
	}

	return tx.Commit()
}
