package http

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/service"
)

// RegistrationHandler serves the public intake endpoint and the
// administrative review endpoints.
type RegistrationHandler struct {
	intake   service.IntakeService
	decision service.DecisionService
}

func NewRegistrationHandler(intake service.IntakeService, decision service.DecisionService) *RegistrationHandler {
	return &RegistrationHandler{intake: intake, decision: decision}
}

// HandleSubmit accepts an applicant's registration request.
func (h *RegistrationHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var input service.SubmitRegistrationInput
	if err := decodeBody(r, &input); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "malformed_body", Message: "request body must be valid JSON",
		})
		return
	}

	req, err := h.intake.Submit(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

type listResponse struct {
	Requests []domain.RegistrationRequest `json:"requests"`
	Total    int32                        `json:"total"`
	Page     int32                        `json:"page"`
	PageSize int32                        `json:"page_size"`
}

// HandleList returns registration requests, optionally filtered by status.
func (h *RegistrationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	status := domain.RegistrationStatus(q.Get("status"))
	switch status {
	case "", domain.RegistrationStatusPending, domain.RegistrationStatusApproved, domain.RegistrationStatusRejected:
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "validation_failed", Message: "unknown status filter", Field: "status",
		})
		return
	}

	page := parseInt32(q.Get("page"), 1)
	pageSize := parseInt32(q.Get("page_size"), 20)

	requests, total, err := h.intake.List(r.Context(), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, listResponse{
		Requests: requests, Total: total, Page: page, PageSize: pageSize,
	})
}

// HandleGet returns a single registration request by id.
func (h *RegistrationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	req, err := h.intake.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

type decisionRequest struct {
	Action    string `json:"action"`
	CompanyID string `json:"company_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

const (
	actionReject             = "reject"
	actionApproveRegular     = "approve_regular"
	actionApproveWithCompany = "approve_with_company"
)

// HandleDecide applies an administrator's terminal decision.
func (h *RegistrationHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	claims, ok := ClaimsFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{
			Code: "unauthorized", Message: "missing authentication",
		})
		return
	}

	var body decisionRequest
	if err := decodeBody(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "malformed_body", Message: "request body must be valid JSON",
		})
		return
	}

	var decision domain.Decision
	switch body.Action {
	case actionReject:
		decision = domain.Rejection{Notes: body.Notes}
	case actionApproveRegular:
		decision = domain.RegularApproval{Notes: body.Notes}
	case actionApproveWithCompany:
		decision = domain.CompanyApproval{CompanyID: body.CompanyID, Notes: body.Notes}
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Code: "validation_failed", Message: "action must be reject, approve_regular, or approve_with_company", Field: "action",
		})
		return
	}

	result, err := h.decision.Decide(r.Context(), mux.Vars(r)["id"], claims.UserID, decision)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleApprovalLog returns the decision audit trail for a request.
func (h *RegistrationHandler) HandleApprovalLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.decision.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

// HandleListCompanies returns the companies available for company approvals.
func (h *RegistrationHandler) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.decision.ListCompanies(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"companies": companies})
}

func parseInt32(s string, fallback int32) int32 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil || n < 1 {
		return fallback
	}
	return int32(n)
}
