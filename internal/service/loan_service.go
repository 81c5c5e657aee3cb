package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ukombozini/lending-engine/internal/calculator"
	"github.com/ukombozini/lending-engine/internal/config"
	"github.com/ukombozini/lending-engine/internal/domain"
	"github.com/ukombozini/lending-engine/internal/repository"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
	"github.com/ukombozini/lending-engine/pkg/utils"
)

const outstandingCacheTTL = 24 * time.Hour

// LoanService owns the loan state machine. Every mutating operation
// re-reads the loan and writes back under an optimistic version check, so
// two concurrent writers can never both succeed on the same loan.
type LoanService struct {
	loanRepo  repository.LoanRepository
	groupRepo repository.GroupRepository
	redis     *redis.Client
	config    *config.Config
	now       func() time.Time
}

func NewLoanService(
	loanRepo repository.LoanRepository,
	groupRepo repository.GroupRepository,
	redisClient *redis.Client,
	cfg *config.Config,
) *LoanService {
	return &LoanService{
		loanRepo:  loanRepo,
		groupRepo: groupRepo,
		redis:     redisClient,
		config:    cfg,
		now:       time.Now,
	}
}

// Apply creates a loan in pending status and computes its repayment figures.
// The figures stay recomputable until approval freezes them.
func (s *LoanService) Apply(ctx context.Context, request *domain.ApplyLoanRequest) (*domain.ApplyLoanResponse, error) {
	if !domain.ValidLoanType(request.LoanType) {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown loan type %q", request.LoanType))
	}

	termMonths := request.TermMonths
	if termMonths == 0 {
		termMonths = s.config.DefaultTermMonths(request.LoanType)
	}

	rate := domain.NewRate(s.config.GetDefaultInterestRate())
	if request.InterestRate != nil {
		rate = domain.NewRate(*request.InterestRate)
	}

	currency := s.config.Business.Currency
	terms, err := calculator.Repayment(request.Principal, rate, termMonths, currency)
	if err != nil {
		return nil, err
	}

	now := s.now()
	loan := &domain.Loan{
		ID:                 uuid.New(),
		LoanNumber:         domain.NewLoanNumber(),
		MemberID:           request.MemberID,
		GroupID:            request.GroupID,
		LoanType:           request.LoanType,
		Principal:          domain.NewMoney(request.Principal, currency),
		InterestRate:       rate,
		TermMonths:         termMonths,
		ApplicationDate:    now,
		Status:             domain.LoanStatusPending,
		TotalRepayable:     terms.TotalRepayable,
		MonthlyInstallment: terms.MonthlyInstallment,
		TotalPaid:          domain.NewMoneyFromCents(0, currency),
		DisbursedAmount:    domain.NewMoneyFromCents(0, currency),
		Notes:              request.Notes,
		CreatedBy:          request.CreatedBy,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.audit(ctx, loan, "", domain.LoanStatusPending, request.CreatedBy, "loan application received")

	schedule, err := calculator.Schedule(request.Principal, rate, termMonths, now, currency)
	if err != nil {
		return nil, err
	}

	return &domain.ApplyLoanResponse{Loan: loan, Schedule: schedule}, nil
}

// Get retrieves a loan by loan number.
func (s *LoanService) Get(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	return s.getLoan(ctx, loanNumber)
}

// Update edits loan fields. Full edits are allowed while pending, with the
// repayment figures recomputed; an active loan accepts notes only.
func (s *LoanService) Update(ctx context.Context, loanNumber string, request *domain.UpdateLoanRequest) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}

	hasTermEdits := request.Principal != nil || request.InterestRate != nil || request.TermMonths != nil

	switch loan.Status {
	case domain.LoanStatusPending:
		if request.Principal != nil {
			loan.Principal = domain.NewMoney(*request.Principal, s.config.Business.Currency)
		}
		if request.InterestRate != nil {
			loan.InterestRate = domain.NewRate(*request.InterestRate)
		}
		if request.TermMonths != nil {
			loan.TermMonths = *request.TermMonths
		}
		terms, err := calculator.Repayment(loan.Principal.Decimal(), loan.InterestRate, loan.TermMonths, s.config.Business.Currency)
		if err != nil {
			return nil, err
		}
		loan.TotalRepayable = terms.TotalRepayable
		loan.MonthlyInstallment = terms.MonthlyInstallment
	case domain.LoanStatusActive:
		if hasTermEdits {
			return nil, customError.WrapValidation("only notes can be edited on an active loan")
		}
	default:
		return nil, customError.WrapInvalidTransition(loan.LoanNumber, loan.Status, loan.Status)
	}

	if request.Notes != nil {
		loan.Notes = *request.Notes
	}

	if err := s.update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// Approve moves a pending loan to approved and freezes its repayment
// figures.
func (s *LoanService) Approve(ctx context.Context, loanNumber string, request *domain.ApproveLoanRequest) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusPending {
		return nil, customError.WrapInvalidTransition(loan.LoanNumber, loan.Status, domain.LoanStatusApproved)
	}

	approvalDate, err := utils.ParseDate(request.ApprovalDate)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}

	oldStatus := loan.Status
	loan.ApprovalDate = &approvalDate
	loan.Status = domain.LoanStatusApproved

	if err := s.update(ctx, loan); err != nil {
		return nil, err
	}

	s.audit(ctx, loan, oldStatus, loan.Status, request.Actor, request.Notes)
	return loan, nil
}

// Disburse pays out an approved loan. The loan passes through disbursed and
// lands on active in the same operation; the due date is the disbursement
// date plus the term.
func (s *LoanService) Disburse(ctx context.Context, loanNumber string, request *domain.DisburseLoanRequest) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusApproved {
		return nil, customError.WrapInvalidTransition(loan.LoanNumber, loan.Status, domain.LoanStatusDisbursed)
	}

	disbursementDate, err := utils.ParseDate(request.DisbursementDate)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}

	amount := domain.NewMoney(request.Amount, s.config.Business.Currency)
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount("disbursement amount must be greater than zero")
	}
	if amount.Cmp(loan.Principal) > 0 {
		return nil, customError.WrapDisbursementExceedsPrincipal(amount.String(), loan.Principal.String())
	}

	oldStatus := loan.Status
	dueDate := utils.AddMonths(disbursementDate, loan.TermMonths)
	loan.DisbursementDate = &disbursementDate
	loan.DueDate = &dueDate
	loan.DisbursedAmount = amount
	loan.Status = domain.LoanStatusActive

	// The payout itself is a cash-out ledger entry against the owning
	// group, committed in the same database transaction as the loan
	// update. Group-less loans skip the ledger.
	var txn *domain.Transaction
	if loan.GroupID != nil {
		txn = &domain.Transaction{
			ID:            uuid.New(),
			GroupID:       *loan.GroupID,
			MemberID:      &loan.MemberID,
			LoanID:        &loan.ID,
			Type:          domain.TransactionTypeCashOut,
			Category:      domain.CategoryLoanDisbursement,
			Amount:        amount,
			Description:   fmt.Sprintf("Disbursement of loan %s", loan.LoanNumber),
			Date:          disbursementDate,
			ReceiptNumber: loan.LoanNumber + "-DISB",
			CreatedBy:     request.Actor,
			CreatedAt:     s.now(),
		}
	}

	if err := s.updateWithLedger(ctx, loan, txn); err != nil {
		return nil, err
	}

	s.audit(ctx, loan, oldStatus, domain.LoanStatusDisbursed, request.Actor, request.Notes)
	s.audit(ctx, loan, domain.LoanStatusDisbursed, domain.LoanStatusActive, request.Actor, "")

	s.invalidateOutstanding(ctx, loan.LoanNumber)
	return loan, nil
}

// RecordRepayment posts a payment against an active loan. Overpayment
// handling follows the configured policy: strict rejects, lenient caps at
// the outstanding balance. Paying the balance down to zero completes the
// loan.
func (s *LoanService) RecordRepayment(ctx context.Context, loanNumber string, request *domain.RepaymentRequest) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, customError.WrapInvalidTransition(loan.LoanNumber, loan.Status, loan.Status)
	}

	paymentDate, err := utils.ParseDate(request.Date)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}

	amount := domain.NewMoney(request.Amount, s.config.Business.Currency)
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount("repayment amount must be greater than zero")
	}

	balance := loan.CurrentBalance()
	if amount.Cmp(balance) > 0 {
		if s.config.Business.RepaymentPolicy == config.RepaymentPolicyStrict {
			return nil, customError.WrapInvalidAmount(fmt.Sprintf(
				"repayment %s exceeds outstanding balance %s", amount.String(), balance.String()))
		}
		amount = balance
	}

	oldStatus := loan.Status
	loan.TotalPaid = loan.TotalPaid.Add(amount)
	if loan.TotalPaid.Cmp(loan.TotalRepayable) >= 0 {
		loan.Status = domain.LoanStatusCompleted
	}

	// The payment and its ledger entry commit together; a duplicate
	// receipt rolls the whole repayment back.
	var txn *domain.Transaction
	if loan.GroupID != nil {
		receipt := request.ReceiptNumber
		if receipt == "" {
			receipt = fmt.Sprintf("%s-RPT-%d", loan.LoanNumber, loan.Version)
		}
		txn = &domain.Transaction{
			ID:            uuid.New(),
			GroupID:       *loan.GroupID,
			MemberID:      &loan.MemberID,
			LoanID:        &loan.ID,
			Type:          domain.TransactionTypeCashIn,
			Category:      domain.CategoryLoanRepayment,
			Amount:        amount,
			Description:   fmt.Sprintf("Repayment on loan %s", loan.LoanNumber),
			Date:          paymentDate,
			ReceiptNumber: receipt,
			CreatedBy:     request.Actor,
			CreatedAt:     s.now(),
		}
	}

	if err := s.updateWithLedger(ctx, loan, txn); err != nil {
		return nil, err
	}

	if loan.Status == domain.LoanStatusCompleted {
		s.audit(ctx, loan, oldStatus, loan.Status, request.Actor, "loan fully repaid")
	}

	s.invalidateOutstanding(ctx, loan.LoanNumber)
	return loan, nil
}

// MarkDefaulted moves an active loan past its due date to defaulted.
func (s *LoanService) MarkDefaulted(ctx context.Context, loanNumber string, asOf time.Time, actor string) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanStatusActive {
		return nil, customError.WrapInvalidTransition(loan.LoanNumber, loan.Status, domain.LoanStatusDefaulted)
	}
	if loan.DueDate == nil || !utils.IsDateOverdue(*loan.DueDate, asOf) {
		return nil, customError.WrapValidation("loan is not past its due date")
	}

	oldStatus := loan.Status
	loan.Status = domain.LoanStatusDefaulted

	if err := s.update(ctx, loan); err != nil {
		return nil, err
	}

	s.audit(ctx, loan, oldStatus, loan.Status, actor,
		fmt.Sprintf("defaulted as of %s", utils.FormatDate(asOf)))
	return loan, nil
}

// Cancel voids a loan from any non-terminal state. Already-posted ledger
// entries stay as they are.
func (s *LoanService) Cancel(ctx context.Context, loanNumber string, request *domain.CancelLoanRequest) (*domain.Loan, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}
	if loan.IsTerminal() {
		return nil, customError.WrapInvalidTransition(loan.LoanNumber, loan.Status, domain.LoanStatusCancelled)
	}

	oldStatus := loan.Status
	loan.Status = domain.LoanStatusCancelled

	if err := s.update(ctx, loan); err != nil {
		return nil, err
	}

	s.audit(ctx, loan, oldStatus, loan.Status, request.Actor, request.Reason)
	return loan, nil
}

// GetSchedule derives the installment plan from the loan terms, based at
// the disbursement date once one exists.
func (s *LoanService) GetSchedule(ctx context.Context, loanNumber string) (*domain.ScheduleResponse, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}

	start := loan.ApplicationDate
	if loan.DisbursementDate != nil {
		start = *loan.DisbursementDate
	}

	schedule, err := calculator.Schedule(loan.Principal.Decimal(), loan.InterestRate, loan.TermMonths, start, s.config.Business.Currency)
	if err != nil {
		return nil, err
	}

	return &domain.ScheduleResponse{LoanNumber: loan.LoanNumber, Schedule: schedule}, nil
}

// GetOutstanding returns the outstanding balance, cached for a day.
func (s *LoanService) GetOutstanding(ctx context.Context, loanNumber string) (domain.Money, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, outstandingKey(loanNumber)).Int64()
		if err == nil {
			return domain.NewMoneyFromCents(cached, s.config.Business.Currency), nil
		}
	}

	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return domain.Money{}, err
	}

	outstanding := calculator.Outstanding(loan.TotalRepayable, loan.TotalPaid)
	if s.redis != nil {
		if err := s.redis.Set(ctx, outstandingKey(loanNumber), outstanding.Cents, outstandingCacheTTL).Err(); err != nil {
			slog.Warn("outstanding cache write failed", "loan", loanNumber, "error", err)
		}
	}
	return outstanding, nil
}

// GetAuditTrail returns the status transition history for a loan.
func (s *LoanService) GetAuditTrail(ctx context.Context, loanNumber string) ([]*domain.LoanAuditEntry, error) {
	loan, err := s.getLoan(ctx, loanNumber)
	if err != nil {
		return nil, err
	}
	entries, err := s.loanRepo.ListAuditEntries(ctx, loan.ID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return entries, nil
}

// SweepDefaults marks every active loan whose due date plus the configured
// grace period has passed. Returns the number of loans defaulted.
func (s *LoanService) SweepDefaults(ctx context.Context) (int, error) {
	asOf := s.now()
	cutoff := asOf.AddDate(0, 0, -s.config.Business.DefaultGraceDays)

	loans, err := s.loanRepo.ListDueBefore(ctx, domain.LoanStatusActive, cutoff)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	defaulted := 0
	for _, loan := range loans {
		if _, err := s.MarkDefaulted(ctx, loan.LoanNumber, asOf, "scheduler"); err != nil {
			// A competing writer may have completed or cancelled the
			// loan between the listing and the transition.
			slog.Warn("default sweep skipped loan", "loan", loan.LoanNumber, "error", err)
			continue
		}
		defaulted++
	}

	return defaulted, nil
}

func (s *LoanService) getLoan(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	loan, err := s.loanRepo.GetByLoanNumber(ctx, loanNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapLoanNotFound(loanNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return loan, nil
}

func (s *LoanService) update(ctx context.Context, loan *domain.Loan) error {
	loan.UpdatedAt = s.now()
	if err := s.loanRepo.Update(ctx, loan); err != nil {
		if errors.Is(err, customError.ErrConcurrentModification) {
			return customError.WrapConcurrentModification(loan.LoanNumber)
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// updateWithLedger persists the loan and its ledger entry in one database
// transaction. txn may be nil for group-less loans.
func (s *LoanService) updateWithLedger(ctx context.Context, loan *domain.Loan, txn *domain.Transaction) error {
	loan.UpdatedAt = s.now()
	if err := s.loanRepo.UpdateWithLedgerEntry(ctx, loan, txn); err != nil {
		switch {
		case errors.Is(err, customError.ErrConcurrentModification):
			return customError.WrapConcurrentModification(loan.LoanNumber)
		case errors.Is(err, customError.ErrDuplicateReceipt):
			return customError.WrapDuplicateReceipt(txn.ReceiptNumber)
		}
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// audit is best-effort: a failed write is logged, never propagated, so a
// degraded audit trail cannot roll back a committed transition.
func (s *LoanService) audit(ctx context.Context, loan *domain.Loan, oldStatus, newStatus, actor, notes string) {
	entry := &domain.LoanAuditEntry{
		ID:        uuid.New(),
		LoanID:    loan.ID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		Actor:     actor,
		Notes:     notes,
		CreatedAt: s.now(),
	}
	if err := s.loanRepo.CreateAuditEntry(ctx, entry); err != nil {
		slog.Warn("audit write failed",
			"loan", loan.LoanNumber, "from", oldStatus, "to", newStatus, "error", err)
	}
}

func (s *LoanService) invalidateOutstanding(ctx context.Context, loanNumber string) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, outstandingKey(loanNumber)).Err(); err != nil {
		slog.Warn("outstanding cache invalidation failed", "loan", loanNumber, "error", err)
	}
}

func outstandingKey(loanNumber string) string {
	return "loan:outstanding:" + loanNumber
}
