package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ukombozini/lending-engine/internal/domain"
)

type MockLoanRepository struct {
	mock.Mock
}

func (m *MockLoanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) GetByLoanNumber(ctx context.Context, loanNumber string) (*domain.Loan, error) {
	args := m.Called(ctx, loanNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	args := m.Called(ctx, loan)
	return args.Error(0)
}

func (m *MockLoanRepository) UpdateWithLedgerEntry(ctx context.Context, loan *domain.Loan, txn *domain.Transaction) error {
	args := m.Called(ctx, loan, txn)
	return args.Error(0)
}

func (m *MockLoanRepository) ListDueBefore(ctx context.Context, status string, cutoff time.Time) ([]*domain.Loan, error) {
	args := m.Called(ctx, status, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Loan), args.Error(1)
}

func (m *MockLoanRepository) CreateAuditEntry(ctx context.Context, entry *domain.LoanAuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoanRepository) ListAuditEntries(ctx context.Context, loanID uuid.UUID) ([]*domain.LoanAuditEntry, error) {
	args := m.Called(ctx, loanID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LoanAuditEntry), args.Error(1)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) CreateWithBalance(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Transaction), args.Int(1), args.Error(2)
}

type MockDividendRepository struct {
	mock.Mock
}

func (m *MockDividendRepository) CreatePeriod(ctx context.Context, period *domain.DividendPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockDividendRepository) GetPeriod(ctx context.Context, id uuid.UUID) (*domain.DividendPeriod, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DividendPeriod), args.Error(1)
}

func (m *MockDividendRepository) ListPeriods(ctx context.Context) ([]*domain.DividendPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DividendPeriod), args.Error(1)
}

func (m *MockDividendRepository) LockAndCreateDividends(ctx context.Context, period *domain.DividendPeriod, dividends []*domain.MemberDividend) error {
	args := m.Called(ctx, period, dividends)
	return args.Error(0)
}

func (m *MockDividendRepository) ListMemberDividends(ctx context.Context, periodID uuid.UUID) ([]*domain.MemberDividend, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MemberDividend), args.Error(1)
}

func (m *MockDividendRepository) GetMemberDividend(ctx context.Context, id uuid.UUID) (*domain.MemberDividend, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberDividend), args.Error(1)
}

func (m *MockDividendRepository) SetVisibility(ctx context.Context, id uuid.UUID, audience string, visible bool) error {
	args := m.Called(ctx, id, audience, visible)
	return args.Error(0)
}

func (m *MockDividendRepository) MarkCurrentDecember(ctx context.Context, year int) error {
	args := m.Called(ctx, year)
	return args.Error(0)
}

type MockGroupRepository struct {
	mock.Mock
}

func (m *MockGroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Group), args.Error(1)
}

func (m *MockGroupRepository) ListActiveMembers(ctx context.Context) ([]*domain.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Member), args.Error(1)
}

func (m *MockGroupRepository) MemberSavings(ctx context.Context, periods []domain.Period) ([]domain.MemberSavings, error) {
	args := m.Called(ctx, periods)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MemberSavings), args.Error(1)
}
