package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Visibility audiences for member dividends.
const (
	AudienceFieldOfficer = "field_officer"
	AudienceMember       = "member"
)

// DividendPeriod is a fiscal year over which surplus is pooled and
// distributed. Calculation is one-shot: once CalculationDate is set,
// CanCalculate stays false forever.
type DividendPeriod struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	Year              int        `json:"year" db:"year"`
	IsCurrentDecember bool       `json:"is_current_december" db:"is_current_december"`
	NetProfit         Money      `json:"net_profit" db:"net_profit"`
	ReserveAmount     Money      `json:"reserve_amount" db:"reserve_amount"`
	DevelopmentAmount Money      `json:"development_amount" db:"development_amount"`
	TotalDividendPool Money      `json:"total_dividend_pool" db:"total_dividend_pool"`
	CalculationDate   *time.Time `json:"calculation_date,omitempty" db:"calculation_date"`
	CanCalculate      bool       `json:"can_calculate" db:"can_calculate"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// Pool returns net profit less the period-level reserve and development
// deductions.
func (p *DividendPeriod) Pool() Money {
	return p.NetProfit.Sub(p.ReserveAmount).Sub(p.DevelopmentAmount)
}

// MemberDividend is one member's share of a calculated period. The amount is
// hidden from both audiences until explicitly disclosed.
type MemberDividend struct {
	ID                       uuid.UUID `json:"id" db:"id"`
	MemberID                 uuid.UUID `json:"member_id" db:"member_id"`
	DividendPeriodID         uuid.UUID `json:"dividend_period_id" db:"dividend_period_id"`
	Amount                   Money     `json:"amount" db:"amount"`
	IsVisibleToFieldOfficer  bool      `json:"is_visible_to_field_officer" db:"is_visible_to_field_officer"`
	IsVisibleToMember        bool      `json:"is_visible_to_member" db:"is_visible_to_member"`
	CreatedAt                time.Time `json:"created_at" db:"created_at"`
	UpdatedAt                time.Time `json:"updated_at" db:"updated_at"`
}

// VisibleTo reports whether the amount is disclosed to the given audience.
func (d *MemberDividend) VisibleTo(audience string) bool {
	switch audience {
	case AudienceFieldOfficer:
		return d.IsVisibleToFieldOfficer
	case AudienceMember:
		return d.IsVisibleToMember
	}
	return false
}

// DTOs

type OpenPeriodRequest struct {
	Year              int             `json:"year" validate:"required,gte=2000"`
	NetProfit         decimal.Decimal `json:"net_profit" validate:"decimal_gte=0"`
	ReserveAmount     decimal.Decimal `json:"reserve_amount" validate:"decimal_gte=0"`
	DevelopmentAmount decimal.Decimal `json:"development_amount" validate:"decimal_gte=0"`
	CreatedBy         string          `json:"created_by" validate:"required"`
}

type CalculatePeriodRequest struct {
	Actor string `json:"actor" validate:"required"`
}

type ToggleVisibilityRequest struct {
	Audience string `json:"audience" validate:"required,oneof=field_officer member"`
	Visible  bool   `json:"visible"`
	Actor    string `json:"actor" validate:"required"`
}

type CalculatePeriodResponse struct {
	Period    *DividendPeriod   `json:"period"`
	Dividends []*MemberDividend `json:"dividends"`
}

// MemberDividendView is the audience-filtered projection of a dividend:
// the amount is zeroed out unless it is visible to the requesting audience.
type MemberDividendView struct {
	ID               uuid.UUID `json:"id"`
	MemberID         uuid.UUID `json:"member_id"`
	DividendPeriodID uuid.UUID `json:"dividend_period_id"`
	Amount           *Money    `json:"amount,omitempty"`
	Disclosed        bool      `json:"disclosed"`
}

// ViewFor projects the dividend for one audience, withholding the amount
// when it has not been disclosed.
func (d *MemberDividend) ViewFor(audience string) *MemberDividendView {
	view := &MemberDividendView{
		ID:               d.ID,
		MemberID:         d.MemberID,
		DividendPeriodID: d.DividendPeriodID,
		Disclosed:        d.VisibleTo(audience),
	}
	if view.Disclosed {
		amount := d.Amount
		view.Amount = &amount
	}
	return view
}
