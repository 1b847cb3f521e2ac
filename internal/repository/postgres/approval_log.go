package postgres

import (
	"context"
	"database/sql"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/repository"
)

type approvalLogRepository struct {
	db *sql.DB
}

func NewApprovalLogRepository(db *sql.DB) repository.ApprovalLogRepository {
	return &approvalLogRepository{db: db}
}

func (r *approvalLogRepository) ListByRegistration(ctx context.Context, registrationID string) ([]domain.ApprovalLogEntry, error) {
	query := `SELECT id, registration_id, user_id, approved_by, action, company_id, COALESCE(notes, ''), created_at
	          FROM approval_logs WHERE registration_id = $1 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, registrationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.ApprovalLogEntry
	for rows.Next() {
		var e domain.ApprovalLogEntry
		if err := rows.Scan(&e.ID, &e.RegistrationID, &e.UserID, &e.ApprovedBy, &e.Action, &e.CompanyID, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
