package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ukombozini/lending-engine/internal/domain"
)

type groupRepository struct {
	db *sqlx.DB
}

func NewGroupRepository(db *sqlx.DB) GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Group, error) {
	query := `
		SELECT id, name, registration_number, status, current_balance, created_at, updated_at
		FROM groups
		WHERE id = $1
	`

	var group domain.Group
	if err := r.db.GetContext(ctx, &group, query, id); err != nil {
		return nil, err
	}

	return &group, nil
}

func (r *groupRepository) ListActiveMembers(ctx context.Context) ([]*domain.Member, error) {
	query := `
		SELECT id, group_id, member_number, full_name, status, created_at
		FROM members
		WHERE status = $1
		ORDER BY member_number
	`

	var members []*domain.Member
	if err := r.db.SelectContext(ctx, &members, query, domain.MemberStatusActive); err != nil {
		return nil, err
	}

	return members, nil
}

// MemberSavings sums verified cash-in savings per member over the given
// collection periods. Members with no savings in those periods simply do not
// appear; the caller decides how to treat them.
func (r *groupRepository) MemberSavings(ctx context.Context, periods []domain.Period) ([]domain.MemberSavings, error) {
	years := make([]int64, len(periods))
	months := make([]int64, len(periods))
	for i, p := range periods {
		years[i] = int64(p.Year)
		months[i] = int64(p.Month)
	}

	query := `
		SELECT member_id, SUM(amount) AS total
		FROM transactions
		WHERE type = $1
		  AND category = $2
		  AND member_id IS NOT NULL
		  AND (EXTRACT(YEAR FROM transaction_date), EXTRACT(MONTH FROM transaction_date))
		      IN (SELECT * FROM unnest($3::int[], $4::int[]))
		GROUP BY member_id
	`

	var savings []domain.MemberSavings
	err := r.db.SelectContext(ctx, &savings, query,
		domain.TransactionTypeCashIn,
		domain.CategorySavings,
		pq.Array(years),
		pq.Array(months),
	)
	if err != nil {
		return nil, err
	}

	return savings, nil
}
