package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"learnportal-backend/internal/domain"
)

func registrationRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "first_name", "last_name", "full_name",
		"phone", "bio", "department", "position", "employee_id", "status", "created_at",
	})
}

func TestRegistrationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRegistrationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		req := &domain.RegistrationRequest{
			ID:           "req-1",
			Email:        "jane.doe@example.com",
			PasswordHash: "$2a$10$hash",
			FirstName:    "Jane",
			LastName:     "Doe",
			FullName:     "Jane Doe",
		}

		mock.ExpectExec("INSERT INTO registration_requests").
			WithArgs(req.ID, req.Email, req.PasswordHash, req.FirstName, req.LastName, req.FullName,
				"", "", "", "", "", domain.RegistrationStatusPending, sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Create(ctx, req)
		assert.NoError(t, err)
		assert.Equal(t, domain.RegistrationStatusPending, req.Status)
		assert.False(t, req.CreatedAt.IsZero())
	})

	t.Run("ActiveEmailIndexViolation", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO registration_requests").
			WillReturnError(&pq.Error{Code: uniqueViolationCode, Constraint: activeEmailConstraint})

		err := repo.Create(ctx, &domain.RegistrationRequest{ID: "req-2", Email: "taken@example.com"})
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	})
}

func TestRegistrationRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRegistrationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM registration_requests WHERE id").
			WithArgs("req-1").
			WillReturnRows(registrationRows().AddRow(
				"req-1", "jane.doe@example.com", "$2a$10$hash", "Jane", "Doe", "Jane Doe",
				"", "", "Engineering", "", "", "pending", time.Now()))

		req, err := repo.GetByID(ctx, "req-1")
		assert.NoError(t, err)
		assert.Equal(t, "jane.doe@example.com", req.Email)
		assert.Equal(t, domain.RegistrationStatusPending, req.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM registration_requests WHERE id").
			WithArgs("missing").
			WillReturnRows(registrationRows())

		_, err := repo.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegistrationRepository_GetActiveByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRegistrationRepository(db)
	ctx := context.Background()

	t.Run("RejectedRowsAreInvisible", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM registration_requests").
			WithArgs("rejected@example.com").
			WillReturnRows(registrationRows())

		_, err := repo.GetActiveByEmail(ctx, "rejected@example.com")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestRegistrationRepository_Finalize(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRegistrationRepository(db)
	ctx := context.Background()

	t.Run("ApproveCommitsStatusAndLogTogether", func(t *testing.T) {
		uid := "uid-1"
		entry := &domain.ApprovalLogEntry{
			RegistrationID: "req-1",
			UserID:         &uid,
			ApprovedBy:     "admin-1",
			Action:         domain.ApprovalActionApprovedRegular,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE registration_requests SET status").
			WithArgs(domain.RegistrationStatusApproved, "req-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO approval_logs").
			WithArgs("req-1", &uid, "admin-1", domain.ApprovalActionApprovedRegular, nil, "", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectCommit()

		err := repo.Finalize(ctx, "req-1", domain.RegistrationStatusApproved, entry)
		assert.NoError(t, err)
		assert.Equal(t, int64(42), entry.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LostRaceReturnsConflictWithoutLogEntry", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE registration_requests SET status").
			WithArgs(domain.RegistrationStatusRejected, "req-1").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		entry := &domain.ApprovalLogEntry{RegistrationID: "req-1", ApprovedBy: "admin-2", Action: domain.ApprovalActionRejected}
		err := repo.Finalize(ctx, "req-1", domain.RegistrationStatusRejected, entry)
		assert.ErrorIs(t, err, domain.ErrConflict)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RefusesNonTerminalStatus", func(t *testing.T) {
		err := repo.Finalize(ctx, "req-1", domain.RegistrationStatusPending, &domain.ApprovalLogEntry{})
		assert.Error(t, err)
	})
}
