package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ukombozini/lending-engine/internal/domain"
)

// LoanRepository defines the interface for loan data operations
type LoanRepository interface {
	// Create creates a new loan
	Create(ctx context.Context, loan *domain.Loan) error

	// GetByLoanNumber retrieves a loan by its human-facing loan number
	GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error)

	// Update writes the loan back with an optimistic version check and
	// returns errors.ErrConcurrentModification on a stale write
	Update(ctx context.Context, loan *domain.Loan) error

	// UpdateWithLedgerEntry writes the loan and appends a cash ledger
	// entry in one database transaction, adjusting the owning group's
	// running balance. txn may be nil for loans without a group.
	UpdateWithLedgerEntry(ctx context.Context, loan *domain.Loan, txn *domain.Transaction) error

	// ListDueBefore lists loans in the given status with a due date
	// strictly before the cutoff
	ListDueBefore(ctx context.Context, status string, cutoff time.Time) ([]*domain.Loan, error)

	// CreateAuditEntry appends a status-transition audit record
	CreateAuditEntry(ctx context.Context, entry *domain.LoanAuditEntry) error

	// ListAuditEntries returns the audit trail for a loan, oldest first
	ListAuditEntries(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanAuditEntry, error)
}

// TransactionRepository defines the interface for the append-only cash ledger
type TransactionRepository interface {
	// CreateWithBalance appends a transaction and adjusts the owning
	// group's running balance in one database transaction
	CreateWithBalance(ctx context.Context, txn *domain.Transaction) error

	// List returns transactions matching the filter plus the unfiltered
	// match count for pagination
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error)
}

// DividendRepository defines the interface for dividend period data
type DividendRepository interface {
	CreatePeriod(ctx context.Context, period *domain.DividendPeriod) error
	GetPeriod(ctx context.Context, id uuid.UUID) (*domain.DividendPeriod, error)
	ListPeriods(ctx context.Context) ([]*domain.DividendPeriod, error)

	// LockAndCreateDividends atomically locks the period (clearing
	// can_calculate, stamping calculation_date and the pool) and inserts
	// the member dividend rows. Returns errors.ErrAlreadyCalculated when
	// the period is no longer calculable. All-or-nothing.
	LockAndCreateDividends(ctx context.Context, period *domain.DividendPeriod, dividends []*domain.MemberDividend) error

	ListMemberDividends(ctx context.Context, periodID uuid.UUID) ([]*domain.MemberDividend, error)
	GetMemberDividend(ctx context.Context, id uuid.UUID) (*domain.MemberDividend, error)

	// SetVisibility flips exactly one audience flag on a dividend
	SetVisibility(ctx context.Context, id uuid.UUID, audience string, visible bool) error

	// MarkCurrentDecember flags the period for the given year and clears
	// the flag everywhere else
	MarkCurrentDecember(ctx context.Context, year int) error
}

// GroupRepository defines the interface for group/member reads used by the
// engine
type GroupRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error)
	ListActiveMembers(ctx context.Context) ([]*domain.Member, error)

	// MemberSavings aggregates each member's cash-in savings recorded in
	// the given collection periods
	MemberSavings(ctx context.Context, periods []domain.Period) ([]domain.MemberSavings, error)
}
