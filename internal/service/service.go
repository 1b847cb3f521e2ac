package service

import (
	"context"

	"learnportal-backend/internal/domain"
)

// SubmitRegistrationInput carries an applicant's submission. Validation tags
// cover shape; cross-field rules (password confirmation) are checked in the
// intake.
type SubmitRegistrationInput struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Phone           string `json:"phone"`
	Bio             string `json:"bio"`
	Department      string `json:"department"`
	Position        string `json:"position"`
	EmployeeID      string `json:"employee_id"`
}

// DecisionResult reports the outcome of a terminal decision.
type DecisionResult struct {
	Request *domain.RegistrationRequest `json:"request"`
	Action  domain.ApprovalAction       `json:"action"`
	UserID  *string                     `json:"user_id,omitempty"`
}

type IntakeService interface {
	// Submit validates and durably records an applicant request. It has no
	// other side effects: no identity exists until an administrator approves.
	Submit(ctx context.Context, input SubmitRegistrationInput) (*domain.RegistrationRequest, error)
	Get(ctx context.Context, id string) (*domain.RegistrationRequest, error)
	List(ctx context.Context, status domain.RegistrationStatus, page, pageSize int32) ([]domain.RegistrationRequest, int32, error)
}

type DecisionService interface {
	// Decide applies a terminal decision to a pending request on behalf of
	// decidedBy. The caller's administrative capability is assumed to be
	// verified already.
	Decide(ctx context.Context, registrationID, decidedBy string, decision domain.Decision) (*DecisionResult, error)
	// History returns the audit trail for a registration request, oldest
	// first. At most one entry exists per request.
	History(ctx context.Context, registrationID string) ([]domain.ApprovalLogEntry, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
}

type Provisioner interface {
	// Provision creates the external identity and the local user record
	// (both mandatory), then the profile (best effort). Returns the new
	// user id.
	Provision(ctx context.Context, req *domain.RegistrationRequest, companyID *string, approvedBy string) (string, error)
}

type EmailService interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendRejection(ctx context.Context, email, name, reason string) error
}
