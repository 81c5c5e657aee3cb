package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeCashIn  = "cash_in"
	TransactionTypeCashOut = "cash_out"
)

// Cash-in categories
const (
	CategorySavings       = "savings"
	CategoryLoanRepayment = "loan_repayment"
	CategoryWelfare       = "welfare"
	CategoryFine          = "fine"
	CategoryMembershipFee = "membership_fee"
	CategoryOtherIncome   = "other_income"
)

// Cash-out categories
const (
	CategoryLoanDisbursement   = "loan_disbursement"
	CategoryMemberWithdrawal   = "member_withdrawal"
	CategoryOperationalExpense = "operational_expense"
	CategoryWelfarePayout      = "welfare_payout"
	CategoryOtherExpense       = "other_expense"
)

// Transaction is an append-only cash movement against a group. Entries are
// never mutated or deleted; a mistake is corrected by posting a compensating
// entry of the opposite type.
type Transaction struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	GroupID       uuid.UUID  `json:"group_id" db:"group_id"`
	MemberID      *uuid.UUID `json:"member_id,omitempty" db:"member_id"`
	LoanID        *uuid.UUID `json:"loan_id,omitempty" db:"loan_id"`
	Type          string     `json:"type" db:"type"`
	Category      string     `json:"category" db:"category"`
	Amount        Money      `json:"amount" db:"amount"`
	Description   string     `json:"description" db:"description"`
	Date          time.Time  `json:"date" db:"transaction_date"`
	ReceiptNumber string     `json:"receipt_number" db:"receipt_number"`
	CreatedBy     string     `json:"created_by" db:"created_by"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// ValidCashInCategory reports whether c is a known cash-in category.
func ValidCashInCategory(c string) bool {
	switch c {
	case CategorySavings, CategoryLoanRepayment, CategoryWelfare,
		CategoryFine, CategoryMembershipFee, CategoryOtherIncome:
		return true
	}
	return false
}

// ValidCashOutCategory reports whether c is a known cash-out category.
func ValidCashOutCategory(c string) bool {
	switch c {
	case CategoryLoanDisbursement, CategoryMemberWithdrawal,
		CategoryOperationalExpense, CategoryWelfarePayout, CategoryOtherExpense:
		return true
	}
	return false
}

// DTOs

type CreateTransactionRequest struct {
	GroupID       uuid.UUID       `json:"group_id" validate:"required"`
	MemberID      *uuid.UUID      `json:"member_id,omitempty"`
	LoanID        *uuid.UUID      `json:"loan_id,omitempty"`
	Category      string          `json:"category" validate:"required"`
	Amount        decimal.Decimal `json:"amount" validate:"required,decimal_gt=0"`
	Description   string          `json:"description,omitempty"`
	Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
	ReceiptNumber string          `json:"receipt_number" validate:"required"`
	CreatedBy     string          `json:"created_by" validate:"required"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	GroupID  *uuid.UUID
	LoanID   *uuid.UUID
	MemberID *uuid.UUID
	Type     string
	Category string
	From     *time.Time
	To       *time.Time
	Limit    int
	Offset   int
}

type TransactionListResponse struct {
	Transactions []*Transaction `json:"transactions"`
	Total        int            `json:"total"`
	Limit        int            `json:"limit"`
	Offset       int            `json:"offset"`
}
