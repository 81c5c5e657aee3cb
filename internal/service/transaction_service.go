package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ukombozini/lending-engine/internal/config"
	"github.com/ukombozini/lending-engine/internal/domain"
	"github.com/ukombozini/lending-engine/internal/repository"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
	"github.com/ukombozini/lending-engine/pkg/utils"
)

// TransactionService posts entries to the append-only cash ledger.
type TransactionService struct {
	txnRepo   repository.TransactionRepository
	groupRepo repository.GroupRepository
	config    *config.Config
	now       func() time.Time
}

func NewTransactionService(
	txnRepo repository.TransactionRepository,
	groupRepo repository.GroupRepository,
	cfg *config.Config,
) *TransactionService {
	return &TransactionService{
		txnRepo:   txnRepo,
		groupRepo: groupRepo,
		config:    cfg,
		now:       time.Now,
	}
}

// RecordCashIn appends a cash-in entry and credits the group balance.
func (s *TransactionService) RecordCashIn(ctx context.Context, request *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	if !domain.ValidCashInCategory(request.Category) {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown cash-in category %q", request.Category))
	}
	return s.record(ctx, domain.TransactionTypeCashIn, request)
}

// RecordCashOut appends a cash-out entry and debits the group balance.
func (s *TransactionService) RecordCashOut(ctx context.Context, request *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	if !domain.ValidCashOutCategory(request.Category) {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown cash-out category %q", request.Category))
	}
	return s.record(ctx, domain.TransactionTypeCashOut, request)
}

// List returns ledger entries matching the filter.
func (s *TransactionService) List(ctx context.Context, filter domain.TransactionFilter) (*domain.TransactionListResponse, error) {
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}

	transactions, total, err := s.txnRepo.List(ctx, filter)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.TransactionListResponse{
		Transactions: transactions,
		Total:        total,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	}, nil
}

func (s *TransactionService) record(ctx context.Context, txnType string, request *domain.CreateTransactionRequest) (*domain.Transaction, error) {
	amount := domain.NewMoney(request.Amount, s.config.Business.Currency)
	if !amount.IsPositive() {
		return nil, customError.WrapInvalidAmount("transaction amount must be greater than zero")
	}

	date, err := utils.ParseDate(request.Date)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}
	if date.After(s.now()) {
		return nil, customError.WrapValidation("transaction date cannot be in the future")
	}

	if _, err := s.groupRepo.GetByID(ctx, request.GroupID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapGroupNotFound(request.GroupID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	txn := &domain.Transaction{
		ID:            uuid.New(),
		GroupID:       request.GroupID,
		MemberID:      request.MemberID,
		LoanID:        request.LoanID,
		Type:          txnType,
		Category:      request.Category,
		Amount:        amount,
		Description:   request.Description,
		Date:          date,
		ReceiptNumber: request.ReceiptNumber,
		CreatedBy:     request.CreatedBy,
		CreatedAt:     s.now(),
	}

	if err := s.txnRepo.CreateWithBalance(ctx, txn); err != nil {
		if errors.Is(err, customError.ErrDuplicateReceipt) {
			return nil, customError.WrapDuplicateReceipt(request.ReceiptNumber)
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return txn, nil
}
