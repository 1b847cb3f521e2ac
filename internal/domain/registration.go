package domain

import "time"

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "pending"
	RegistrationStatusApproved RegistrationStatus = "approved"
	RegistrationStatusRejected RegistrationStatus = "rejected"
)

// Terminal reports whether no further status transition is permitted.
func (s RegistrationStatus) Terminal() bool {
	return s == RegistrationStatusApproved || s == RegistrationStatusRejected
}

// RegistrationRequest is a submitted, not-yet-decided application for
// platform access. Rows are never deleted; rejected requests are retained
// for audit and free their email for re-submission.
type RegistrationRequest struct {
	ID           string             `json:"id"`
	Email        string             `json:"email"`
	PasswordHash string             `json:"-"`
	FirstName    string             `json:"first_name"`
	LastName     string             `json:"last_name"`
	FullName     string             `json:"full_name"`
	Phone        string             `json:"phone"`
	Bio          string             `json:"bio"`
	Department   string             `json:"department"`
	Position     string             `json:"position"`
	EmployeeID   string             `json:"employee_id"`
	Status       RegistrationStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
}
