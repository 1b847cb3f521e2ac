package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/identity"
)

// MockRegistrationRepo
type MockRegistrationRepo struct {
	mock.Mock
}

func (m *MockRegistrationRepo) Create(ctx context.Context, req *domain.RegistrationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRepo) GetActiveByEmail(ctx context.Context, email string) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}
func (m *MockRegistrationRepo) List(ctx context.Context, status domain.RegistrationStatus, page, pageSize int32) ([]domain.RegistrationRequest, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, int32(args.Int(1)), args.Error(2)
	}
	return args.Get(0).([]domain.RegistrationRequest), int32(args.Int(1)), args.Error(2)
}
func (m *MockRegistrationRepo) Finalize(ctx context.Context, id string, to domain.RegistrationStatus, entry *domain.ApprovalLogEntry) error {
	args := m.Called(ctx, id, to, entry)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProfileRepo
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile *domain.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}
func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

// MockApprovalLogRepo
type MockApprovalLogRepo struct {
	mock.Mock
}

func (m *MockApprovalLogRepo) ListByRegistration(ctx context.Context, registrationID string) ([]domain.ApprovalLogEntry, error) {
	args := m.Called(ctx, registrationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ApprovalLogEntry), args.Error(1)
}

// MockCompanyRepo
type MockCompanyRepo struct {
	mock.Mock
}

func (m *MockCompanyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Company), args.Error(1)
}
func (m *MockCompanyRepo) List(ctx context.Context) ([]domain.Company, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Company), args.Error(1)
}

// MockIdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) CreateIdentity(ctx context.Context, id identity.Identity) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
func (m *MockIdentityProvider) DeleteIdentity(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}
func (m *MockIdentityProvider) ListIdentities(ctx context.Context) ([]identity.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Record), args.Error(1)
}

// MockProvisioner
type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) Provision(ctx context.Context, req *domain.RegistrationRequest, companyID *string, approvedBy string) (string, error) {
	args := m.Called(ctx, req, companyID, approvedBy)
	return args.String(0), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, email, name string) error {
	args := m.Called(ctx, email, name)
	return args.Error(0)
}
func (m *MockEmailService) SendRejection(ctx context.Context, email, name, reason string) error {
	args := m.Called(ctx, email, name, reason)
	return args.Error(0)
}
