package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ukombozini/lending-engine/internal/domain"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
)

type loanRepository struct {
	db *sqlx.DB
}

func NewLoanRepository(db *sqlx.DB) LoanRepository {
	return &loanRepository{db: db}
}

const loanColumns = `
	id, loan_number, member_id, group_id, loan_type, principal,
	annual_rate_percent, term_months, application_date, approval_date,
	disbursement_date, due_date, status, total_repayable,
	monthly_installment, total_paid, disbursed_amount, notes, created_by,
	version, created_at, updated_at
`

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	query := `
		INSERT INTO loans (` + loanColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
	`

	_, err := r.db.ExecContext(ctx, query,
		loan.ID,
		loan.LoanNumber,
		loan.MemberID,
		loan.GroupID,
		loan.LoanType,
		loan.Principal,
		loan.InterestRate,
		loan.TermMonths,
		loan.ApplicationDate,
		loan.ApprovalDate,
		loan.DisbursementDate,
		loan.DueDate,
		loan.Status,
		loan.TotalRepayable,
		loan.MonthlyInstallment,
		loan.TotalPaid,
		loan.DisbursedAmount,
		loan.Notes,
		loan.CreatedBy,
		loan.Version,
		loan.CreatedAt,
		loan.UpdatedAt,
	)

	return err
}

func (r *loanRepository) GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE loan_number = $1
	`

	var loan domain.Loan
	err := r.db.GetContext(ctx, &loan, query, loanNumber)
	if err != nil {
		return nil, err
	}

	return &loan, nil
}

// Update writes the loan back guarded by the version it was read at. The
// version column is bumped by the statement itself; zero rows affected means
// another writer got there first.
func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	if err := updateLoanTx(ctx, r.db, loan); err != nil {
		return err
	}

	loan.Version++
	return nil
}

// UpdateWithLedgerEntry writes the loan and appends its ledger entry in one
// database transaction, so a duplicate receipt or a stale version rolls both
// back. txn may be nil when the loan has no owning group.
func (r *loanRepository) UpdateWithLedgerEntry(ctx context.Context, loan *domain.Loan, txn *domain.Transaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := updateLoanTx(ctx, tx, loan); err != nil {
		return err
	}
	if txn != nil {
		if err := appendTransactionTx(ctx, tx, txn); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	loan.Version++
	return nil
}

func updateLoanTx(ctx context.Context, ext sqlx.ExtContext, loan *domain.Loan) error {
	query := `
		UPDATE loans
		SET principal = $3, annual_rate_percent = $4, term_months = $5,
		    approval_date = $6, disbursement_date = $7, due_date = $8,
		    status = $9, total_repayable = $10, monthly_installment = $11,
		    total_paid = $12, disbursed_amount = $13, notes = $14,
		    version = version + 1, updated_at = $15
		WHERE id = $1 AND version = $2
	`

	result, err := ext.ExecContext(ctx, query,
		loan.ID,
		loan.Version,
		loan.Principal,
		loan.InterestRate,
		loan.TermMonths,
		loan.ApprovalDate,
		loan.DisbursementDate,
		loan.DueDate,
		loan.Status,
		loan.TotalRepayable,
		loan.MonthlyInstallment,
		loan.TotalPaid,
		loan.DisbursedAmount,
		loan.Notes,
		time.Now(),
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrConcurrentModification
	}

	return nil
}

func (r *loanRepository) ListDueBefore(ctx context.Context, status string, cutoff time.Time) ([]*domain.Loan, error) {
	query := `
		SELECT ` + loanColumns + `
		FROM loans
		WHERE status = $1 AND due_date IS NOT NULL AND due_date < $2
		ORDER BY due_date
	`

	var loans []*domain.Loan
	err := r.db.SelectContext(ctx, &loans, query, status, cutoff)
	if err != nil {
		return nil, err
	}

	return loans, nil
}

func (r *loanRepository) CreateAuditEntry(ctx context.Context, entry *domain.LoanAuditEntry) error {
	query := `
		INSERT INTO loan_audit (id, loan_id, old_status, new_status, actor, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.LoanID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Actor,
		entry.Notes,
		entry.CreatedAt,
	)

	return err
}

func (r *loanRepository) ListAuditEntries(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanAuditEntry, error) {
	query := `
		SELECT id, loan_id, old_status, new_status, actor, notes, created_at
		FROM loan_audit
		WHERE loan_id = $1
		ORDER BY created_at
	`

	var entries []*domain.LoanAuditEntry
	err := r.db.SelectContext(ctx, &entries, query, loanID)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
