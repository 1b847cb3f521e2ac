package domain

import "time"

type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super_admin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleUser       UserRole = "user"
)

// User is the local account record. Its ID equals the external identity's
// UID; creation is tied to identity creation succeeding.
type User struct {
	ID             string     `json:"id"`
	RegistrationID string     `json:"registration_id"`
	Email          string     `json:"email"`
	Role           UserRole   `json:"role"`
	CompanyID      *string    `json:"company_id"`
	ApprovalStatus string     `json:"approval_status"`
	ApprovedBy     string     `json:"approved_by"`
	ApprovedAt     *time.Time `json:"approved_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

// UserProfile mirrors the personal and professional fields of the
// registration request. It is written best-effort; a user without a profile
// is still a valid account.
type UserProfile struct {
	UserID            string    `json:"user_id"`
	FullName          string    `json:"full_name"`
	Phone             string    `json:"phone"`
	Bio               string    `json:"bio"`
	Department        string    `json:"department"`
	Position          string    `json:"position"`
	EmployeeID        string    `json:"employee_id"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
}
