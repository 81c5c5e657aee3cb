package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/ukombozini/lending-engine/internal/domain"
	"github.com/ukombozini/lending-engine/internal/service"
	"github.com/ukombozini/lending-engine/pkg/response"
	"github.com/ukombozini/lending-engine/pkg/utils"
)

type TransactionHandler struct {
	service   *service.TransactionService
	validator *validator.Validate
}

func NewTransactionHandler(service *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		service:   service,
		validator: newValidator(),
	}
}

// RecordCashIn handles POST /api/v1/transactions/cash-in
func (h *TransactionHandler) RecordCashIn(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	txn, err := h.service.RecordCashIn(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, txn)
}

// RecordCashOut handles POST /api/v1/transactions/cash-out
func (h *TransactionHandler) RecordCashOut(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTransactionRequest
	if !h.decode(w, r, &req) {
		return
	}

	txn, err := h.service.RecordCashOut(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, txn)
}

// List handles GET /api/v1/transactions
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseTransactionFilter(r)
	if err != nil {
		response.BadRequest(w, "invalid filter", err)
		return
	}

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *TransactionHandler) decode(w http.ResponseWriter, r *http.Request, req *domain.CreateTransactionRequest) bool {
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

func parseTransactionFilter(r *http.Request) (domain.TransactionFilter, error) {
	query := r.URL.Query()
	filter := domain.TransactionFilter{
		Type:     query.Get("type"),
		Category: query.Get("category"),
	}

	uuidParams := []struct {
		name   string
		target **uuid.UUID
	}{
		{"group_id", &filter.GroupID},
		{"loan_id", &filter.LoanID},
		{"member_id", &filter.MemberID},
	}
	for _, p := range uuidParams {
		if raw := query.Get(p.name); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				return filter, err
			}
			*p.target = &id
		}
	}

	if raw := query.Get("from"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.From = &date
	}
	if raw := query.Get("to"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			return filter, err
		}
		filter.To = &date
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return filter, err
		}
		filter.Offset = offset
	}

	return filter, nil
}
