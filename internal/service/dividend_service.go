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

	"github.com/ukombozini/lending-engine/internal/config"
	"github.com/ukombozini/lending-engine/internal/dividend"
	"github.com/ukombozini/lending-engine/internal/domain"
	"github.com/ukombozini/lending-engine/internal/repository"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
)

const calculationLockTTL = 30 * time.Second

// DividendService computes and gates member dividends. Calculation is
// strictly one-shot per period: the database row is the gate, the Redis lock
// only keeps concurrent callers from doing the allocation work twice.
type DividendService struct {
	dividendRepo repository.DividendRepository
	groupRepo    repository.GroupRepository
	allocator    dividend.Allocator
	redis        *redis.Client
	config       *config.Config
	now          func() time.Time
}

func NewDividendService(
	dividendRepo repository.DividendRepository,
	groupRepo repository.GroupRepository,
	allocator dividend.Allocator,
	redisClient *redis.Client,
	cfg *config.Config,
) *DividendService {
	return &DividendService{
		dividendRepo: dividendRepo,
		groupRepo:    groupRepo,
		allocator:    allocator,
		redis:        redisClient,
		config:       cfg,
		now:          time.Now,
	}
}

// OpenPeriod creates a fiscal period ready for calculation.
func (s *DividendService) OpenPeriod(ctx context.Context, request *domain.OpenPeriodRequest) (*domain.DividendPeriod, error) {
	currency := s.config.Business.Currency
	netProfit := domain.NewMoney(request.NetProfit, currency)
	reserve := domain.NewMoney(request.ReserveAmount, currency)
	development := domain.NewMoney(request.DevelopmentAmount, currency)

	pool := netProfit.Sub(reserve).Sub(development)
	if pool.IsNegative() {
		return nil, customError.WrapValidation("reserve and development deductions exceed net profit")
	}

	now := s.now()
	period := &domain.DividendPeriod{
		ID:                uuid.New(),
		Year:              request.Year,
		NetProfit:         netProfit,
		ReserveAmount:     reserve,
		DevelopmentAmount: development,
		TotalDividendPool: pool,
		CanCalculate:      true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.dividendRepo.CreatePeriod(ctx, period); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return period, nil
}

// ListPeriods returns all fiscal periods, newest first.
func (s *DividendService) ListPeriods(ctx context.Context) ([]*domain.DividendPeriod, error) {
	periods, err := s.dividendRepo.ListPeriods(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return periods, nil
}

// Calculate allocates the period pool across all active members, exactly
// once. Either every MemberDividend row is created and the period locked, or
// nothing is; a second call always fails with ALREADY_CALCULATED.
func (s *DividendService) Calculate(ctx context.Context, periodID uuid.UUID, actor string) (*domain.CalculatePeriodResponse, error) {
	if s.redis != nil {
		key := calculationLockKey(periodID)
		acquired, err := s.redis.SetNX(ctx, key, actor, calculationLockTTL).Result()
		if err != nil {
			slog.Warn("calculation lock unavailable, relying on database gate", "period", periodID, "error", err)
		} else if !acquired {
			return nil, customError.WrapAlreadyCalculated(periodID.String())
		} else {
			defer s.redis.Del(ctx, key)
		}
	}

	period, err := s.getPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if !period.CanCalculate {
		return nil, customError.WrapAlreadyCalculated(periodID.String())
	}

	pool := period.Pool()
	if pool.IsNegative() {
		return nil, customError.WrapValidation("dividend pool is negative")
	}

	inputs, err := s.allocationInputs(ctx, period.Year)
	if err != nil {
		return nil, err
	}

	allocations, err := s.allocator.Allocate(pool, inputs)
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}
	if allocated := dividend.Sum(allocations, pool.Currency); allocated.Cmp(pool) > 0 {
		return nil, fmt.Errorf("allocator %s distributed %s from a pool of %s",
			s.allocator.Name(), allocated.String(), pool.String())
	}

	now := s.now()
	dividends := make([]*domain.MemberDividend, 0, len(inputs))
	for _, input := range inputs {
		dividends = append(dividends, &domain.MemberDividend{
			ID:               uuid.New(),
			MemberID:         input.MemberID,
			DividendPeriodID: period.ID,
			Amount:           allocations[input.MemberID],
			// Hidden from both audiences until explicitly disclosed.
			IsVisibleToFieldOfficer: false,
			IsVisibleToMember:       false,
			CreatedAt:               now,
			UpdatedAt:               now,
		})
	}

	period.CalculationDate = &now
	period.CanCalculate = false
	period.TotalDividendPool = pool

	if err := s.dividendRepo.LockAndCreateDividends(ctx, period, dividends); err != nil {
		if errors.Is(err, customError.ErrAlreadyCalculated) {
			return nil, customError.WrapAlreadyCalculated(periodID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	return &domain.CalculatePeriodResponse{Period: period, Dividends: dividends}, nil
}

// ListMemberDividends returns every dividend row for a period.
func (s *DividendService) ListMemberDividends(ctx context.Context, periodID uuid.UUID) ([]*domain.MemberDividend, error) {
	if _, err := s.getPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	dividends, err := s.dividendRepo.ListMemberDividends(ctx, periodID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return dividends, nil
}

// ToggleVisibility flips one audience flag on a dividend. The amount and the
// other audience's flag are never touched.
func (s *DividendService) ToggleVisibility(ctx context.Context, dividendID uuid.UUID, request *domain.ToggleVisibilityRequest) (*domain.MemberDividend, error) {
	if request.Audience != domain.AudienceFieldOfficer && request.Audience != domain.AudienceMember {
		return nil, customError.WrapValidation(fmt.Sprintf("unknown audience %q", request.Audience))
	}

	if err := s.dividendRepo.SetVisibility(ctx, dividendID, request.Audience, request.Visible); err != nil {
		if errors.Is(err, customError.ErrDividendNotFound) {
			return nil, customError.WrapDividendNotFound(dividendID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}

	updated, err := s.dividendRepo.GetMemberDividend(ctx, dividendID)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	return updated, nil
}

// FlagCurrentDecember marks this year's period as the current December
// period. Called by the scheduler on December mornings.
func (s *DividendService) FlagCurrentDecember(ctx context.Context) error {
	now := s.now()
	if now.Month() != time.December {
		return nil
	}
	if err := s.dividendRepo.MarkCurrentDecember(ctx, now.Year()); err != nil {
		return customError.WrapDatabaseError(err)
	}
	return nil
}

// allocationInputs gathers per-member savings over the configured collection
// months. Every active member gets an input row; members with no savings in
// those months carry a zero total.
func (s *DividendService) allocationInputs(ctx context.Context, year int) ([]domain.MemberSavings, error) {
	members, err := s.groupRepo.ListActiveMembers(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	months, err := s.config.GetCollectionMonths()
	if err != nil {
		return nil, customError.WrapValidation(err.Error())
	}
	periods := make([]domain.Period, 0, len(months))
	for _, month := range months {
		periods = append(periods, domain.NewPeriod(year, month))
	}

	savings, err := s.groupRepo.MemberSavings(ctx, periods)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	totals := make(map[uuid.UUID]domain.Money, len(savings))
	for _, row := range savings {
		totals[row.MemberID] = row.Total
	}

	currency := s.config.Business.Currency
	inputs := make([]domain.MemberSavings, 0, len(members))
	for _, member := range members {
		total, ok := totals[member.ID]
		if !ok {
			total = domain.NewMoneyFromCents(0, currency)
		}
		inputs = append(inputs, domain.MemberSavings{MemberID: member.ID, Total: total})
	}

	return inputs, nil
}

func (s *DividendService) getPeriod(ctx context.Context, periodID uuid.UUID) (*domain.DividendPeriod, error) {
	period, err := s.dividendRepo.GetPeriod(ctx, periodID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, customError.WrapPeriodNotFound(periodID.String())
		}
		return nil, customError.WrapDatabaseError(err)
	}
	return period, nil
}

func calculationLockKey(periodID uuid.UUID) string {
	return "dividend:calc:" + periodID.String()
}
