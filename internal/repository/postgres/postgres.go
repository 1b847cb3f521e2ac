package postgres

import (
	"database/sql"

	"learnportal-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.RegistrationRepository
	repository.UserRepository
	repository.ProfileRepository
	repository.ApprovalLogRepository
	repository.CompanyRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		RegistrationRepository: NewRegistrationRepository(db),
		UserRepository:         NewUserRepository(db),
		ProfileRepository:      NewProfileRepository(db),
		ApprovalLogRepository:  NewApprovalLogRepository(db),
		CompanyRepository:      NewCompanyRepository(db),
	}
}
