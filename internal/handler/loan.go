package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/ukombozini/lending-engine/internal/domain"
	"github.com/ukombozini/lending-engine/internal/service"
	"github.com/ukombozini/lending-engine/pkg/response"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: newValidator(),
	}
}

// Apply handles POST /api/v1/loans
func (h *LoanHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req domain.ApplyLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Apply(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, result)
}

// Get handles GET /api/v1/loans/{loanNumber}
func (h *LoanHandler) Get(w http.ResponseWriter, r *http.Request) {
	loan, err := h.service.Get(r.Context(), loanNumber(r))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// Update handles PUT /api/v1/loans/{loanNumber}
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.Update(r.Context(), loanNumber(r), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// Approve handles POST /api/v1/loans/{loanNumber}/approve
func (h *LoanHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var req domain.ApproveLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.Approve(r.Context(), loanNumber(r), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// Disburse handles POST /api/v1/loans/{loanNumber}/disburse
func (h *LoanHandler) Disburse(w http.ResponseWriter, r *http.Request) {
	var req domain.DisburseLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.Disburse(r.Context(), loanNumber(r), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// RecordRepayment handles POST /api/v1/loans/{loanNumber}/repayments
func (h *LoanHandler) RecordRepayment(w http.ResponseWriter, r *http.Request) {
	var req domain.RepaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.RecordRepayment(r.Context(), loanNumber(r), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// Cancel handles POST /api/v1/loans/{loanNumber}/cancel
func (h *LoanHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var req domain.CancelLoanRequest
	if !h.decode(w, r, &req) {
		return
	}

	loan, err := h.service.Cancel(r.Context(), loanNumber(r), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, loan)
}

// GetSchedule handles GET /api/v1/loans/{loanNumber}/schedule
func (h *LoanHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	schedule, err := h.service.GetSchedule(r.Context(), loanNumber(r))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, schedule)
}

// GetOutstanding handles GET /api/v1/loans/{loanNumber}/outstanding
func (h *LoanHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	ln := loanNumber(r)
	outstanding, err := h.service.GetOutstanding(r.Context(), ln)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"loan_number": ln,
		"outstanding": outstanding,
	})
}

// GetAuditTrail handles GET /api/v1/loans/{loanNumber}/audit
func (h *LoanHandler) GetAuditTrail(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.GetAuditTrail(r.Context(), loanNumber(r))
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, entries)
}

func (h *LoanHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		response.BadRequest(w, "invalid request body", err)
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, "validation failed", err)
		return false
	}
	return true
}

func loanNumber(r *http.Request) string {
	return mux.Vars(r)["loanNumber"]
}
