package dividend

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukombozini/lending-engine/internal/domain"
)

func savings(cents ...int64) []domain.MemberSavings {
	members := make([]domain.MemberSavings, 0, len(cents))
	for _, c := range cents {
		members = append(members, domain.MemberSavings{
			MemberID: uuid.New(),
			Total:    domain.NewMoneyFromCents(c, "KES"),
		})
	}
	return members
}

func TestNew(t *testing.T) {
	for _, name := range []string{AllocatorSavingsWeighted, AllocatorEqualShare} {
		a, err := New(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}

	_, err := New("lottery")
	assert.Error(t, err)
}

func TestSavingsWeighted_ProRata(t *testing.T) {
	a := &SavingsWeightedAllocator{}
	members := savings(300000, 100000) // 75% / 25%
	pool := domain.NewMoneyFromCents(100000, "KES")

	allocations, err := a.Allocate(pool, members)
	require.NoError(t, err)

	assert.Equal(t, int64(75000), allocations[members[0].MemberID].Cents)
	assert.Equal(t, int64(25000), allocations[members[1].MemberID].Cents)
}

func TestSavingsWeighted_SumNeverExceedsPool(t *testing.T) {
	a := &SavingsWeightedAllocator{}
	// 1.00 split across three equal savers cannot divide evenly.
	members := savings(100, 100, 100)
	pool := domain.NewMoneyFromCents(100, "KES")

	allocations, err := a.Allocate(pool, members)
	require.NoError(t, err)

	total := Sum(allocations, "KES")
	assert.LessOrEqual(t, total.Cents, pool.Cents)
	for _, share := range allocations {
		assert.Equal(t, int64(33), share.Cents)
	}
	// The leftover cent stays in the pool.
	assert.Equal(t, int64(99), total.Cents)
}

func TestSavingsWeighted_ZeroSavingsFallsBackToEqualSplit(t *testing.T) {
	a := &SavingsWeightedAllocator{}
	members := savings(0, 0, 0, 0)
	pool := domain.NewMoneyFromCents(40000, "KES")

	allocations, err := a.Allocate(pool, members)
	require.NoError(t, err)

	for _, share := range allocations {
		assert.Equal(t, int64(10000), share.Cents)
	}
}

func TestSavingsWeighted_NegativeSavingsRejected(t *testing.T) {
	a := &SavingsWeightedAllocator{}
	members := savings(100, -50)

	_, err := a.Allocate(domain.NewMoneyFromCents(1000, "KES"), members)
	assert.Error(t, err)
}

func TestSavingsWeighted_EmptyOrZeroPool(t *testing.T) {
	a := &SavingsWeightedAllocator{}

	allocations, err := a.Allocate(domain.NewMoneyFromCents(1000, "KES"), nil)
	require.NoError(t, err)
	assert.Empty(t, allocations)

	allocations, err = a.Allocate(domain.NewMoneyFromCents(0, "KES"), savings(100))
	require.NoError(t, err)
	assert.Empty(t, allocations)
}

func TestEqualShare(t *testing.T) {
	a := &EqualShareAllocator{}
	members := savings(500, 0, 12345)
	pool := domain.NewMoneyFromCents(1000, "KES")

	allocations, err := a.Allocate(pool, members)
	require.NoError(t, err)

	for _, m := range members {
		assert.Equal(t, int64(333), allocations[m.MemberID].Cents)
	}
	assert.LessOrEqual(t, Sum(allocations, "KES").Cents, pool.Cents)
}
