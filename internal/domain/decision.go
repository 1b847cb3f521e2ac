package domain

// Decision is the administrator's verdict on a pending registration request.
// The three outcomes are distinct types rather than an action string plus
// optional fields, so a company approval cannot be constructed without a
// company id.
type Decision interface {
	Action() ApprovalAction
	DecisionNotes() string
}

// Rejection declines the request. No identity or account is created.
type Rejection struct {
	Notes string
}

func (Rejection) Action() ApprovalAction  { return ApprovalActionRejected }
func (d Rejection) DecisionNotes() string { return d.Notes }

// RegularApproval provisions the applicant without a company binding.
type RegularApproval struct {
	Notes string
}

func (RegularApproval) Action() ApprovalAction  { return ApprovalActionApprovedRegular }
func (d RegularApproval) DecisionNotes() string { return d.Notes }

// CompanyApproval provisions the applicant bound to an organizational tenant.
type CompanyApproval struct {
	CompanyID string
	Notes     string
}

func (CompanyApproval) Action() ApprovalAction  { return ApprovalActionApprovedCompany }
func (d CompanyApproval) DecisionNotes() string { return d.Notes }
