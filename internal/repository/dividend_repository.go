package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ukombozini/lending-engine/internal/domain"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
)

type dividendRepository struct {
	db *sqlx.DB
}

func NewDividendRepository(db *sqlx.DB) DividendRepository {
	return &dividendRepository{db: db}
}

const periodColumns = `
	id, year, is_current_december, net_profit, reserve_amount,
	development_amount, total_dividend_pool, calculation_date,
	can_calculate, created_at, updated_at
`

const dividendColumns = `
	id, member_id, dividend_period_id, amount, is_visible_to_field_officer,
	is_visible_to_member, created_at, updated_at
`

func (r *dividendRepository) CreatePeriod(ctx context.Context, period *domain.DividendPeriod) error {
	query := `
		INSERT INTO dividend_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(ctx, query,
		period.ID,
		period.Year,
		period.IsCurrentDecember,
		period.NetProfit,
		period.ReserveAmount,
		period.DevelopmentAmount,
		period.TotalDividendPool,
		period.CalculationDate,
		period.CanCalculate,
		period.CreatedAt,
		period.UpdatedAt,
	)

	return err
}

func (r *dividendRepository) GetPeriod(ctx context.Context, id uuid.UUID) (*domain.DividendPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM dividend_periods WHERE id = $1`

	var period domain.DividendPeriod
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}

	return &period, nil
}

func (r *dividendRepository) ListPeriods(ctx context.Context) ([]*domain.DividendPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM dividend_periods ORDER BY year DESC`

	var periods []*domain.DividendPeriod
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, err
	}

	return periods, nil
}

// LockAndCreateDividends is the one-shot gate. The UPDATE only matches while
// can_calculate is still true; zero rows means a previous calculation won
// and the whole transaction rolls back, leaving no partial rows behind.
func (r *dividendRepository) LockAndCreateDividends(ctx context.Context, period *domain.DividendPeriod, dividends []*domain.MemberDividend) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	lock := `
		UPDATE dividend_periods
		SET calculation_date = $2, can_calculate = FALSE,
		    total_dividend_pool = $3, updated_at = now()
		WHERE id = $1 AND can_calculate = TRUE
	`
	result, err := tx.ExecContext(ctx, lock,
		period.ID, period.CalculationDate, period.TotalDividendPool)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrAlreadyCalculated
	}

	insert := `
		INSERT INTO member_dividends (` + dividendColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, d := range dividends {
		_, err = tx.ExecContext(ctx, insert,
			d.ID,
			d.MemberID,
			d.DividendPeriodID,
			d.Amount,
			d.IsVisibleToFieldOfficer,
			d.IsVisibleToMember,
			d.CreatedAt,
			d.UpdatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *dividendRepository) ListMemberDividends(ctx context.Context, periodID uuid.UUID) ([]*domain.MemberDividend, error) {
	query := `
		SELECT ` + dividendColumns + `
		FROM member_dividends
		WHERE dividend_period_id = $1
		ORDER BY created_at
	`

	var dividends []*domain.MemberDividend
	if err := r.db.SelectContext(ctx, &dividends, query, periodID); err != nil {
		return nil, err
	}

	return dividends, nil
}

func (r *dividendRepository) GetMemberDividend(ctx context.Context, id uuid.UUID) (*domain.MemberDividend, error) {
	query := `SELECT ` + dividendColumns + ` FROM member_dividends WHERE id = $1`

	var dividend domain.MemberDividend
	if err := r.db.GetContext(ctx, &dividend, query, id); err != nil {
		return nil, err
	}

	return &dividend, nil
}

func (r *dividendRepository) SetVisibility(ctx context.Context, id uuid.UUID, audience string, visible bool) error {
	column := "is_visible_to_member"
	if audience == domain.AudienceFieldOfficer {
		column = "is_visible_to_field_officer"
	}

	query := `UPDATE member_dividends SET ` + column + ` = $2, updated_at = now() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, visible)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return customError.ErrDividendNotFound
	}
	return nil
}

func (r *dividendRepository) MarkCurrentDecember(ctx context.Context, year int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx,
		`UPDATE dividend_periods SET is_current_december = FALSE WHERE is_current_december = TRUE`); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`UPDATE dividend_periods SET is_current_december = TRUE, updated_at = now() WHERE year = $1`, year); err != nil {
		return err
	}

	return tx.Commit()
}
