package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ukombozini/lending-engine/internal/config"
	"github.com/ukombozini/lending-engine/internal/dividend"
	"github.com/ukombozini/lending-engine/internal/domain"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
	"github.com/ukombozini/lending-engine/tests/mocks"
)

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Business: config.BusinessConfig{
			Currency:            "KES",
			DefaultInterestRate: "10",
			ShortTermMonths:     3,
			LongTermMonths:      24,
			RepaymentPolicy:     config.RepaymentPolicyStrict,
			DefaultGraceDays:    90,
			Allocator:           dividend.AllocatorSavingsWeighted,
			CollectionMonths:    "1,3,5,7,9",
		},
	}
}

func newTestLoanService(loanRepo *mocks.MockLoanRepository, cfg *config.Config) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		config:   cfg,
		now:      func() time.Time { return testNow },
	}
}

// activeLoan is a disbursed 100,000 KES loan at 12% over 12 months.
func activeLoan() *domain.Loan {
	disbursed := testNow.AddDate(0, -2, 0)
	due := disbursed.AddDate(0, 12, 0)
	return &domain.Loan{
		ID:                 uuid.New(),
		LoanNumber:         "LN12345678",
		MemberID:           uuid.New(),
		LoanType:           domain.LoanTypeLongTerm,
		Principal:          domain.NewMoneyFromCents(10000000, "KES"),
		InterestRate:       domain.NewRate(decimal.NewFromInt(12)),
		TermMonths:         12,
		ApplicationDate:    testNow.AddDate(0, -3, 0),
		DisbursementDate:   &disbursed,
		DueDate:            &due,
		Status:             domain.LoanStatusActive,
		TotalRepayable:     domain.NewMoneyFromCents(11200000, "KES"),
		MonthlyInstallment: domain.NewMoneyFromCents(933333, "KES"),
		TotalPaid:          domain.NewMoneyFromCents(0, "KES"),
		DisbursedAmount:    domain.NewMoneyFromCents(10000000, "KES"),
		Version:            3,
	}
}

func TestApply_Success(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loanRepo.On("Create", mock.Anything, mock.MatchedBy(func(loan *domain.Loan) bool {
		return loan.Status == domain.LoanStatusPending && loan.LoanNumber != ""
	})).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.Anything).Return(nil)

	result, err := service.Apply(context.Background(), &domain.ApplyLoanRequest{
		MemberID:  uuid.New(),
		LoanType:  domain.LoanTypeShortTerm,
		Principal: decimal.NewFromInt(100000),
		CreatedBy: "clerk",
	})
	require.NoError(t, err)

	loan := result.Loan
	// Short-term default is 3 months at the default 10% rate:
	// interest = 100,000 * 0.10 * 3/12 = 2,500.
	assert.Equal(t, 3, loan.TermMonths)
	assert.Equal(t, int64(10250000), loan.TotalRepayable.Cents)
	assert.Equal(t, domain.LoanStatusPending, loan.Status)
	assert.Equal(t, 1, loan.Version)
	assert.Len(t, result.Schedule, 3)

	loanRepo.AssertExpectations(t)
}

func TestApply_ExplicitRateAndTerm(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loanRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.Anything).Return(nil)

	rate := decimal.NewFromInt(12)
	result, err := service.Apply(context.Background(), &domain.ApplyLoanRequest{
		MemberID:     uuid.New(),
		LoanType:     domain.LoanTypeLongTerm,
		Principal:    decimal.NewFromInt(100000),
		InterestRate: &rate,
		TermMonths:   12,
		CreatedBy:    "clerk",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(11200000), result.Loan.TotalRepayable.Cents)
	assert.Equal(t, int64(933333), result.Loan.MonthlyInstallment.Cents)
}

func TestApply_UnknownLoanType(t *testing.T) {
	service := newTestLoanService(&mocks.MockLoanRepository{}, testConfig())

	_, err := service.Apply(context.Background(), &domain.ApplyLoanRequest{
		MemberID:  uuid.New(),
		LoanType:  "payday",
		Principal: decimal.NewFromInt(1000),
		CreatedBy: "clerk",
	})
	assert.ErrorIs(t, err, customError.ErrValidation)
}

func TestApprove_Success(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loan.Status = domain.LoanStatusPending
	loan.DisbursementDate = nil
	loan.DueDate = nil

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e *domain.LoanAuditEntry) bool {
		return e.OldStatus == domain.LoanStatusPending && e.NewStatus == domain.LoanStatusApproved
	})).Return(nil)

	updated, err := service.Approve(context.Background(), loan.LoanNumber, &domain.ApproveLoanRequest{
		ApprovalDate: "2025-06-15",
		Actor:        "manager",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusApproved, updated.Status)
	require.NotNil(t, updated.ApprovalDate)
	assert.Equal(t, "2025-06-15", updated.ApprovalDate.Format("2006-01-02"))

	loanRepo.AssertExpectations(t)
}

func TestApprove_RequiresPending(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)

	_, err := service.Approve(context.Background(), loan.LoanNumber, &domain.ApproveLoanRequest{
		ApprovalDate: "2025-06-15",
		Actor:        "manager",
	})
	assert.ErrorIs(t, err, customError.ErrInvalidTransition)
	loanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDisburse_Success(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loan.Status = domain.LoanStatusApproved
	loan.DisbursementDate = nil
	loan.DueDate = nil
	loan.DisbursedAmount = domain.NewMoneyFromCents(0, "KES")

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("UpdateWithLedgerEntry", mock.Anything, loan, mock.Anything).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.Anything).Return(nil)

	updated, err := service.Disburse(context.Background(), loan.LoanNumber, &domain.DisburseLoanRequest{
		DisbursementDate: "2025-06-15",
		Amount:           decimal.NewFromInt(100000),
		Actor:            "manager",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusActive, updated.Status)
	assert.Equal(t, int64(10000000), updated.DisbursedAmount.Cents)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2026-06-15", updated.DueDate.Format("2006-01-02"))
}

func TestDisburse_ExceedsPrincipal(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loan.Status = domain.LoanStatusApproved

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)

	_, err := service.Disburse(context.Background(), loan.LoanNumber, &domain.DisburseLoanRequest{
		DisbursementDate: "2025-06-15",
		Amount:           decimal.NewFromInt(100001),
		Actor:            "manager",
	})
	assert.ErrorIs(t, err, customError.ErrDisbursementExceedsPrincipal)
	loanRepo.AssertNotCalled(t, "UpdateWithLedgerEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestDisburse_PostsLedgerEntry(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	groupID := uuid.New()
	loan := activeLoan()
	loan.Status = domain.LoanStatusApproved
	loan.GroupID = &groupID

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("UpdateWithLedgerEntry", mock.Anything, loan, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.Type == domain.TransactionTypeCashOut &&
			txn.Category == domain.CategoryLoanDisbursement &&
			txn.GroupID == groupID &&
			txn.ReceiptNumber == loan.LoanNumber+"-DISB"
	})).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.Anything).Return(nil)

	_, err := service.Disburse(context.Background(), loan.LoanNumber, &domain.DisburseLoanRequest{
		DisbursementDate: "2025-06-15",
		Amount:           decimal.NewFromInt(100000),
		Actor:            "manager",
	})
	require.NoError(t, err)

	loanRepo.AssertExpectations(t)
}

func TestRecordRepayment_StrictRejectsOverpayment(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loan.TotalPaid = domain.NewMoneyFromCents(11000000, "KES") // 2,000 left

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)

	_, err := service.RecordRepayment(context.Background(), loan.LoanNumber, &domain.RepaymentRequest{
		Amount: decimal.NewFromInt(5000),
		Date:   "2025-06-15",
		Actor:  "clerk",
	})
	assert.ErrorIs(t, err, customError.ErrInvalidAmount)

	// A rejected payment never touches the loan.
	assert.Equal(t, int64(11000000), loan.TotalPaid.Cents)
	assert.Equal(t, domain.LoanStatusActive, loan.Status)
	loanRepo.AssertNotCalled(t, "UpdateWithLedgerEntry", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordRepayment_LenientCapsAtBalance(t *testing.T) {
	cfg := testConfig()
	cfg.Business.RepaymentPolicy = config.RepaymentPolicyLenient

	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, cfg)

	loan := activeLoan()
	loan.TotalPaid = domain.NewMoneyFromCents(11000000, "KES")

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("UpdateWithLedgerEntry", mock.Anything, loan, mock.Anything).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.Anything).Return(nil)

	updated, err := service.RecordRepayment(context.Background(), loan.LoanNumber, &domain.RepaymentRequest{
		Amount: decimal.NewFromInt(5000),
		Date:   "2025-06-15",
		Actor:  "clerk",
	})
	require.NoError(t, err)

	assert.Equal(t, updated.TotalRepayable.Cents, updated.TotalPaid.Cents)
	assert.Equal(t, domain.LoanStatusCompleted, updated.Status)
}

func TestRecordRepayment_ExactFinalPaymentCompletes(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loan.TotalPaid = domain.NewMoneyFromCents(11190000, "KES") // exactly 100 left

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("UpdateWithLedgerEntry", mock.Anything, loan, mock.Anything).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e *domain.LoanAuditEntry) bool {
		return e.NewStatus == domain.LoanStatusCompleted
	})).Return(nil)

	updated, err := service.RecordRepayment(context.Background(), loan.LoanNumber, &domain.RepaymentRequest{
		Amount: decimal.NewFromInt(100),
		Date:   "2025-06-15",
		Actor:  "clerk",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanStatusCompleted, updated.Status)
	assert.True(t, updated.CurrentBalance().IsZero())
	loanRepo.AssertExpectations(t)
}

func TestRecordRepayment_RequiresActiveLoan(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	for _, status := range []string{
		domain.LoanStatusPending,
		domain.LoanStatusApproved,
		domain.LoanStatusCompleted,
		domain.LoanStatusCancelled,
	} {
		loan := activeLoan()
		loan.Status = status
		loanRepo.ExpectedCalls = nil
		loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)

		_, err := service.RecordRepayment(context.Background(), loan.LoanNumber, &domain.RepaymentRequest{
			Amount: decimal.NewFromInt(100),
			Date:   "2025-06-15",
			Actor:  "clerk",
		})
		assert.ErrorIs(t, err, customError.ErrInvalidTransition, "status %s", status)
	}
}

func TestRecordRepayment_ConcurrentModification(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("UpdateWithLedgerEntry", mock.Anything, loan, mock.Anything).
		Return(customError.ErrConcurrentModification)

	_, err := service.RecordRepayment(context.Background(), loan.LoanNumber, &domain.RepaymentRequest{
		Amount: decimal.NewFromInt(100),
		Date:   "2025-06-15",
		Actor:  "clerk",
	})
	assert.ErrorIs(t, err, customError.ErrConcurrentModification)
	assert.Equal(t, customError.ErrCodeConcurrentModification, customError.CodeOf(err))
}

func TestRecordRepayment_PostsLedgerEntryAtomically(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	groupID := uuid.New()
	loan := activeLoan()
	loan.GroupID = &groupID

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("UpdateWithLedgerEntry", mock.Anything, loan, mock.MatchedBy(func(txn *domain.Transaction) bool {
		return txn.Type == domain.TransactionTypeCashIn &&
			txn.Category == domain.CategoryLoanRepayment &&
			txn.GroupID == groupID &&
			txn.Amount.Cents == 933300 &&
			txn.ReceiptNumber == "RCT-0042"
	})).Return(nil)

	_, err := service.RecordRepayment(context.Background(), loan.LoanNumber, &domain.RepaymentRequest{
		Amount:        decimal.NewFromInt(9333),
		Date:          "2025-06-15",
		ReceiptNumber: "RCT-0042",
		Actor:         "clerk",
	})
	require.NoError(t, err)

	loanRepo.AssertExpectations(t)
	loanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecordRepayment_DuplicateReceiptRejectsPayment(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	groupID := uuid.New()
	loan := activeLoan()
	loan.GroupID = &groupID

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("UpdateWithLedgerEntry", mock.Anything, loan, mock.Anything).
		Return(customError.ErrDuplicateReceipt)

	_, err := service.RecordRepayment(context.Background(), loan.LoanNumber, &domain.RepaymentRequest{
		Amount:        decimal.NewFromInt(100),
		Date:          "2025-06-15",
		ReceiptNumber: "RCT-0042",
		Actor:         "clerk",
	})
	assert.ErrorIs(t, err, customError.ErrDuplicateReceipt)
	assert.Equal(t, customError.ErrCodeDuplicateReceipt, customError.CodeOf(err))

	// The rejected payment never reaches the loan row on its own: the
	// only write path offered to the repository carried both the loan and
	// the ledger entry.
	loanRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	loanRepo.AssertNotCalled(t, "CreateAuditEntry", mock.Anything, mock.Anything)
}

func TestCancel_FromNonTerminalStates(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	for _, status := range []string{
		domain.LoanStatusPending,
		domain.LoanStatusApproved,
		domain.LoanStatusActive,
	} {
		loan := activeLoan()
		loan.Status = status
		loanRepo.ExpectedCalls = nil
		loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
		loanRepo.On("Update", mock.Anything, loan).Return(nil)
		loanRepo.On("CreateAuditEntry", mock.Anything, mock.Anything).Return(nil)

		updated, err := service.Cancel(context.Background(), loan.LoanNumber, &domain.CancelLoanRequest{
			Reason: "member request",
			Actor:  "manager",
		})
		require.NoError(t, err, "status %s", status)
		assert.Equal(t, domain.LoanStatusCancelled, updated.Status)
	}
}

func TestCancel_TerminalRejected(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	for _, status := range []string{
		domain.LoanStatusCompleted,
		domain.LoanStatusDefaulted,
		domain.LoanStatusCancelled,
	} {
		loan := activeLoan()
		loan.Status = status
		loanRepo.ExpectedCalls = nil
		loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)

		_, err := service.Cancel(context.Background(), loan.LoanNumber, &domain.CancelLoanRequest{
			Reason: "member request",
			Actor:  "manager",
		})
		assert.ErrorIs(t, err, customError.ErrInvalidTransition, "status %s", status)
	}
}

func TestMarkDefaulted_NotPastDue(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan() // due date is 10 months out
	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)

	_, err := service.MarkDefaulted(context.Background(), loan.LoanNumber, testNow, "scheduler")
	assert.ErrorIs(t, err, customError.ErrValidation)
}

func TestMarkDefaulted_PastDue(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	pastDue := testNow.AddDate(0, -4, 0)
	loan.DueDate = &pastDue

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.MatchedBy(func(e *domain.LoanAuditEntry) bool {
		return e.NewStatus == domain.LoanStatusDefaulted
	})).Return(nil)

	updated, err := service.MarkDefaulted(context.Background(), loan.LoanNumber, testNow, "scheduler")
	require.NoError(t, err)
	assert.Equal(t, domain.LoanStatusDefaulted, updated.Status)
	loanRepo.AssertExpectations(t)
}

func TestSweepDefaults(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	pastDue := testNow.AddDate(0, -6, 0)
	first := activeLoan()
	first.LoanNumber = "LNAAAA0001"
	first.DueDate = &pastDue
	second := activeLoan()
	second.LoanNumber = "LNBBBB0002"
	second.DueDate = &pastDue
	// Completed between the listing and the transition, so the sweep
	// skips it.
	second.Status = domain.LoanStatusCompleted

	cutoff := testNow.AddDate(0, 0, -90)
	loanRepo.On("ListDueBefore", mock.Anything, domain.LoanStatusActive, cutoff).
		Return([]*domain.Loan{first, second}, nil)
	loanRepo.On("GetByLoanNumber", mock.Anything, first.LoanNumber).Return(first, nil)
	loanRepo.On("GetByLoanNumber", mock.Anything, second.LoanNumber).Return(second, nil)
	loanRepo.On("Update", mock.Anything, first).Return(nil)
	loanRepo.On("CreateAuditEntry", mock.Anything, mock.Anything).Return(nil)

	defaulted, err := service.SweepDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, defaulted)
	assert.Equal(t, domain.LoanStatusDefaulted, first.Status)
}

func TestGetOutstanding_WithoutCache(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loan.TotalPaid = domain.NewMoneyFromCents(933333, "KES")
	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)

	outstanding, err := service.GetOutstanding(context.Background(), loan.LoanNumber)
	require.NoError(t, err)
	assert.Equal(t, int64(10266667), outstanding.Cents)
}

func TestUpdate_PendingRecomputesFigures(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loan.Status = domain.LoanStatusPending

	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)

	principal := decimal.NewFromInt(50000)
	updated, err := service.Update(context.Background(), loan.LoanNumber, &domain.UpdateLoanRequest{
		Principal: &principal,
		Actor:     "clerk",
	})
	require.NoError(t, err)

	// 50,000 at 12% over 12 months repays 56,000.
	assert.Equal(t, int64(5600000), updated.TotalRepayable.Cents)
}

func TestUpdate_ActiveAllowsNotesOnly(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loan := activeLoan()
	loanRepo.On("GetByLoanNumber", mock.Anything, loan.LoanNumber).Return(loan, nil)
	loanRepo.On("Update", mock.Anything, loan).Return(nil)

	principal := decimal.NewFromInt(1)
	_, err := service.Update(context.Background(), loan.LoanNumber, &domain.UpdateLoanRequest{
		Principal: &principal,
		Actor:     "clerk",
	})
	assert.ErrorIs(t, err, customError.ErrValidation)

	notes := "restructure discussed"
	updated, err := service.Update(context.Background(), loan.LoanNumber, &domain.UpdateLoanRequest{
		Notes: &notes,
		Actor: "clerk",
	})
	require.NoError(t, err)
	assert.Equal(t, notes, updated.Notes)
}

func TestGet_NotFound(t *testing.T) {
	loanRepo := &mocks.MockLoanRepository{}
	service := newTestLoanService(loanRepo, testConfig())

	loanRepo.On("GetByLoanNumber", mock.Anything, "LNMISSING1").Return(nil, sql.ErrNoRows)

	_, err := service.Get(context.Background(), "LNMISSING1")
	assert.ErrorIs(t, err, customError.ErrLoanNotFound)
}
