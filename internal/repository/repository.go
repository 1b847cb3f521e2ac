package repository

import (
	"context"

	"learnportal-backend/internal/domain"
)

type RegistrationRepository interface {
	// Create inserts a pending request. The store's partial unique index on
	// non-rejected emails is the canonical duplicate guard; a violation is
	// returned as domain.ErrDuplicateEmail.
	Create(ctx context.Context, req *domain.RegistrationRequest) error
	GetByID(ctx context.Context, id string) (*domain.RegistrationRequest, error)
	// GetActiveByEmail returns the pending or approved request holding the
	// email, or domain.ErrNotFound.
	GetActiveByEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error)
	List(ctx context.Context, status domain.RegistrationStatus, page, pageSize int32) ([]domain.RegistrationRequest, int32, error)
	// Finalize appends the approval log entry and flips the request to a
	// terminal status in one transaction. The status write is conditional on
	// the row still being pending; a lost race returns domain.ErrConflict
	// and writes nothing.
	Finalize(ctx context.Context, id string, to domain.RegistrationStatus, entry *domain.ApprovalLogEntry) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.UserProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error)
}

// ApprovalLogRepository reads the append-only decision audit trail. Entries
// are written inside RegistrationRepository.Finalize, never through this
// interface.
type ApprovalLogRepository interface {
	ListByRegistration(ctx context.Context, registrationID string) ([]domain.ApprovalLogEntry, error)
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
}
