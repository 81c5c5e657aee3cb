package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/ukombozini/lending-engine/internal/domain"
	"github.com/ukombozini/lending-engine/internal/service"
	"github.com/ukombozini/lending-engine/pkg/response"
)

type DividendHandler struct {
	service   *service.DividendService
	validator *validator.Validate
}

func NewDividendHandler(service *service.DividendService) *DividendHandler {
	return &DividendHandler{
		service:   service,
		validator: newValidator(),
	}
}

// ListPeriods handles GET /api/v1/dividends/periods
func (h *DividendHandler) ListPeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.service.ListPeriods(r.Context())
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, periods)
}

// OpenPeriod handles POST /api/v1/dividends/periods
func (h *DividendHandler) OpenPeriod(w http.ResponseWriter, r *http.Request) {
	var req domain.OpenPeriodRequest
	if !h.decode(w, r, &req) {
		return
	}

	period, err := h.service.OpenPeriod(r.Context(), &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Created(w, period)
}

// Calculate handles POST /api/v1/dividends/periods/{id}/calculate
func (h *DividendHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	periodID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.CalculatePeriodRequest
	if !h.decode(w, r, &req) {
		return
	}

	result, err := h.service.Calculate(r.Context(), periodID, req.Actor)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, result)
}

// ListMembers handles GET /api/v1/dividends/periods/{id}/members. Without an
// audience query parameter it returns the full records; with one it returns
// the audience-filtered views, withholding undisclosed amounts.
func (h *DividendHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	periodID, ok := pathID(w, r)
	if !ok {
		return
	}

	dividends, err := h.service.ListMemberDividends(r.Context(), periodID)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	audience := r.URL.Query().Get("audience")
	if audience == "" {
		response.Success(w, dividends)
		return
	}
	if audience != domain.AudienceFieldOfficer && audience != domain.AudienceMember {
		response.BadRequest(w, "unknown audience", nil)
		return
	}

	views := make([]*domain.MemberDividendView, 0, len(dividends))
	for _, d := range dividends {
		views = append(views, d.ViewFor(audience))
	}
	response.Success(w, views)
}

// ToggleVisibility handles POST /api/v1/dividends/{id}/visibility
func (h *DividendHandler) ToggleVisibility(w http.ResponseWriter, r *http.Request) {
	dividendID, ok := pathID(w, r)
	if !ok {
		return
	}

	var req domain.ToggleVisibilityRequest
	if !h.decode(w, r, &req) {
		return
	}

	dividend, err := h.service.ToggleVisibility(r.Context(), dividendID, &req)
	if err != nil {
		response.BusinessError(w, err)
		return
	}

	response.Success(w, dividend)
}

func (h *DividendHandler) decode(w http.ResponseWriter, r *http.Request, req interface{}) bool {
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

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.BadRequest(w, "invalid id", err)
		return uuid.UUID{}, false
	}
	return id, true
}
