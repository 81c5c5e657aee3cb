package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Loan statuses. Transitions are monotonic except for cancellation:
// pending -> approved -> disbursed -> active -> completed | defaulted,
// with cancelled reachable from any non-terminal status.
const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusDisbursed = "disbursed"
	LoanStatusActive    = "active"
	LoanStatusCompleted = "completed"
	LoanStatusDefaulted = "defaulted"
	LoanStatusCancelled = "cancelled"
)

const (
	LoanTypeShortTerm = "short_term"
	LoanTypeLongTerm  = "long_term"
	LoanTypeTopUp     = "top_up"
	LoanTypeProject   = "project"
)

// LoanNumberPrefix is prepended to the generated human-facing loan number.
const LoanNumberPrefix = "LN"

// Loan represents a member loan
type Loan struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	LoanNumber         string     `json:"loan_number" db:"loan_number"`
	MemberID           uuid.UUID  `json:"member_id" db:"member_id"`
	GroupID            *uuid.UUID `json:"group_id,omitempty" db:"group_id"`
	LoanType           string     `json:"loan_type" db:"loan_type"`
	Principal          Money      `json:"principal" db:"principal"`
	InterestRate       Rate       `json:"annual_rate_percent" db:"annual_rate_percent"`
	TermMonths         int        `json:"term_months" db:"term_months"`
	ApplicationDate    time.Time  `json:"application_date" db:"application_date"`
	ApprovalDate       *time.Time `json:"approval_date,omitempty" db:"approval_date"`
	DisbursementDate   *time.Time `json:"disbursement_date,omitempty" db:"disbursement_date"`
	DueDate            *time.Time `json:"due_date,omitempty" db:"due_date"`
	Status             string     `json:"status" db:"status"`
	TotalRepayable     Money      `json:"total_repayable" db:"total_repayable"`
	MonthlyInstallment Money      `json:"monthly_installment" db:"monthly_installment"`
	TotalPaid          Money      `json:"total_paid" db:"total_paid"`
	DisbursedAmount    Money      `json:"disbursed_amount" db:"disbursed_amount"`
	Notes              string     `json:"notes,omitempty" db:"notes"`
	CreatedBy          string     `json:"created_by" db:"created_by"`
	Version            int        `json:"version" db:"version"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// CurrentBalance is always derived, never stored: total repayable minus
// total paid.
func (l *Loan) CurrentBalance() Money {
	return l.TotalRepayable.Sub(l.TotalPaid)
}

// IsTerminal reports whether the loan is in a state that can never change.
func (l *Loan) IsTerminal() bool {
	switch l.Status {
	case LoanStatusCompleted, LoanStatusDefaulted, LoanStatusCancelled:
		return true
	}
	return false
}

// NewLoanNumber generates a human-facing loan number like "LN3F2A91CC".
func NewLoanNumber() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return LoanNumberPrefix + strings.ToUpper(hex[:8])
}

// ValidLoanType reports whether t is one of the known loan types.
func ValidLoanType(t string) bool {
	switch t {
	case LoanTypeShortTerm, LoanTypeLongTerm, LoanTypeTopUp, LoanTypeProject:
		return true
	}
	return false
}

// DTOs for requests and responses

type ApplyLoanRequest struct {
	MemberID     uuid.UUID        `json:"member_id" validate:"required"`
	GroupID      *uuid.UUID       `json:"group_id,omitempty"`
	LoanType     string           `json:"loan_type" validate:"required,oneof=short_term long_term top_up project"`
	Principal    decimal.Decimal  `json:"principal" validate:"required,decimal_gt=0"`
	InterestRate *decimal.Decimal `json:"annual_rate_percent,omitempty" validate:"omitempty,decimal_gte=0"`
	TermMonths   int              `json:"term_months" validate:"omitempty,gt=0"`
	Notes        string           `json:"notes,omitempty"`
	CreatedBy    string           `json:"created_by" validate:"required"`
}

type UpdateLoanRequest struct {
	Principal    *decimal.Decimal `json:"principal,omitempty" validate:"omitempty,decimal_gt=0"`
	InterestRate *decimal.Decimal `json:"annual_rate_percent,omitempty" validate:"omitempty,decimal_gte=0"`
	TermMonths   *int             `json:"term_months,omitempty" validate:"omitempty,gt=0"`
	Notes        *string          `json:"notes,omitempty"`
	Actor        string           `json:"actor" validate:"required"`
}

type ApproveLoanRequest struct {
	ApprovalDate string `json:"approval_date" validate:"required,datetime=2006-01-02"`
	Notes        string `json:"notes,omitempty"`
	Actor        string `json:"actor" validate:"required"`
}

type DisburseLoanRequest struct {
	DisbursementDate string          `json:"disbursement_date" validate:"required,datetime=2006-01-02"`
	Amount           decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	Notes            string          `json:"notes,omitempty"`
	Actor            string          `json:"actor" validate:"required"`
}

type RepaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	Actor         string          `json:"actor" validate:"required"`
}

type CancelLoanRequest struct {
	Reason string `json:"reason" validate:"required"`
	Actor  string `json:"actor" validate:"required"`
}

type ApplyLoanResponse struct {
	Loan     *Loan          `json:"loan"`
	Schedule []*Installment `json:"schedule"`
}

type ScheduleResponse struct {
	LoanNumber string         `json:"loan_number"`
	Schedule   []*Installment `json:"schedule"`
}

// Installment is one row of a computed repayment schedule. Schedules are
// derived from the loan terms on demand and never persisted.
type Installment struct {
	Number           int       `json:"installment_number"`
	DueDate          time.Time `json:"due_date"`
	Amount           Money     `json:"amount"`
	RemainingBalance Money     `json:"remaining_balance"`
}
