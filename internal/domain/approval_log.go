package domain

import "time"

type ApprovalAction string

const (
	ApprovalActionApprovedRegular ApprovalAction = "approved_as_regular"
	ApprovalActionApprovedCompany ApprovalAction = "approved_with_company"
	ApprovalActionRejected        ApprovalAction = "rejected"
)

// ApprovalLogEntry records who decided a registration request, how, and why.
// Entries are append-only: exactly one per terminal decision, never updated
// or deleted.
type ApprovalLogEntry struct {
	ID             int64          `json:"id"`
	RegistrationID string         `json:"registration_id"`
	UserID         *string        `json:"user_id"`
	ApprovedBy     string         `json:"approved_by"`
	Action         ApprovalAction `json:"action"`
	CompanyID      *string        `json:"company_id"`
	Notes          string         `json:"notes"`
	CreatedAt      time.Time      `json:"created_at"`
}
