// Package dividend holds the pluggable allocation strategies used by the
// dividend period engine. The exact production weighting is an external
// input, so the engine only depends on the Allocator interface; strategies
// are selected by name from configuration.
package dividend

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ukombozini/lending-engine/internal/domain"
)

// Allocator splits a dividend pool across members. Implementations must
// guarantee sum(allocations) <= pool; any rounding residual is retained in
// the pool, never distributed.
type Allocator interface {
	Name() string
	Allocate(pool domain.Money, members []domain.MemberSavings) (map[uuid.UUID]domain.Money, error)
}

const (
	AllocatorSavingsWeighted = "savings_weighted"
	AllocatorEqualShare      = "equal_share"
)

// New returns the allocator registered under the given name.
func New(name string) (Allocator, error) {
	switch name {
	case AllocatorSavingsWeighted:
		return &SavingsWeightedAllocator{}, nil
	case AllocatorEqualShare:
		return &EqualShareAllocator{}, nil
	default:
		return nil, fmt.Errorf("unknown allocator %q", name)
	}
}

// SavingsWeightedAllocator distributes the pool pro-rata by each member's
// savings over the collection months. Per-member shares are truncated to the
// minor unit, which keeps the sum invariant without a correction pass. When
// no member has any savings it degrades to an equal split.
type SavingsWeightedAllocator struct{}

func (a *SavingsWeightedAllocator) Name() string { return AllocatorSavingsWeighted }

func (a *SavingsWeightedAllocator) Allocate(pool domain.Money, members []domain.MemberSavings) (map[uuid.UUID]domain.Money, error) {
	allocations := make(map[uuid.UUID]domain.Money, len(members))
	if len(members) == 0 || !pool.IsPositive() {
		return allocations, nil
	}

	var totalSavings int64
	for _, m := range members {
		if m.Total.IsNegative() {
			return nil, fmt.Errorf("member %s has negative savings", m.MemberID)
		}
		totalSavings += m.Total.Cents
	}
	if totalSavings == 0 {
		return (&EqualShareAllocator{}).Allocate(pool, members)
	}

	poolCents := decimal.NewFromInt(pool.Cents)
	total := decimal.NewFromInt(totalSavings)
	for _, m := range members {
		share := poolCents.Mul(decimal.NewFromInt(m.Total.Cents)).Div(total)
		allocations[m.MemberID] = domain.NewMoneyFromCents(share.Floor().IntPart(), pool.Currency)
	}

	return allocations, nil
}

// EqualShareAllocator gives every member the same share, truncated to the
// minor unit; the division remainder stays in the pool.
type EqualShareAllocator struct{}

func (a *EqualShareAllocator) Name() string { return AllocatorEqualShare }

func (a *EqualShareAllocator) Allocate(pool domain.Money, members []domain.MemberSavings) (map[uuid.UUID]domain.Money, error) {
	allocations := make(map[uuid.UUID]domain.Money, len(members))
	if len(members) == 0 || !pool.IsPositive() {
		return allocations, nil
	}

	share := pool.Cents / int64(len(members))
	for _, m := range members {
		allocations[m.MemberID] = domain.NewMoneyFromCents(share, pool.Currency)
	}

	return allocations, nil
}

// Sum adds up a set of allocations, for checking the pool invariant.
func Sum(allocations map[uuid.UUID]domain.Money, currency string) domain.Money {
	total := domain.NewMoneyFromCents(0, currency)
	for _, a := range allocations {
		total = total.Add(a)
	}
	return total
}
