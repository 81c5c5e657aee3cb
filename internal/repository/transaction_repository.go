package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ukombozini/lending-engine/internal/domain"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
)

type transactionRepository struct {
	db *sqlx.DB
}

func NewTransactionRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `
	id, group_id, member_id, loan_id, type, category, amount, description,
	transaction_date, receipt_number, created_by, created_at
`

// CreateWithBalance appends the entry and moves the group's running balance
// in one database transaction. The group row is locked first, so appends to
// the same group serialise; appends to different groups proceed in parallel.
func (r *transactionRepository) CreateWithBalance(ctx context.Context, txn *domain.Transaction) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := appendTransactionTx(ctx, tx, txn); err != nil {
		return err
	}

	return tx.Commit()
}

// appendTransactionTx inserts a ledger entry and adjusts the group balance
// inside the caller's transaction. The loan repository shares it so a loan
// update and its ledger entry commit together.
func appendTransactionTx(ctx context.Context, tx *sqlx.Tx, txn *domain.Transaction) error {
	var balance domain.Money
	err := tx.GetContext(ctx, &balance,
		`SELECT current_balance FROM groups WHERE id = $1 FOR UPDATE`, txn.GroupID)
	if err != nil {
		return err
	}

	insert := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = tx.ExecContext(ctx, insert,
		txn.ID,
		txn.GroupID,
		txn.MemberID,
		txn.LoanID,
		txn.Type,
		txn.Category,
		txn.Amount,
		txn.Description,
		txn.Date,
		txn.ReceiptNumber,
		txn.CreatedBy,
		txn.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		// 23505 unique_violation: (group_id, receipt_number)
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return customError.ErrDuplicateReceipt
		}
		return err
	}

	delta := txn.Amount.Cents
	if txn.Type == domain.TransactionTypeCashOut {
		delta = -delta
	}
	newBalance := domain.NewMoneyFromCents(balance.Cents+delta, txn.Amount.Currency)

	_, err = tx.ExecContext(ctx,
		`UPDATE groups SET current_balance = $2, updated_at = now() WHERE id = $1`,
		txn.GroupID, newBalance)
	return err
}

func (r *transactionRepository) List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, int, error) {
	where, args := buildTransactionFilter(filter)

	countQuery := `SELECT COUNT(*) FROM transactions` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions` + where +
		` ORDER BY transaction_date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	var transactions []*domain.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, 0, err
	}

	return transactions, total, nil
}

func buildTransactionFilter(filter domain.TransactionFilter) (string, []interface{}) {
	var clauses []string
	var args []interface{}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.GroupID != nil {
		add("group_id = $%d", *filter.GroupID)
	}
	if filter.LoanID != nil {
		add("loan_id = $%d", *filter.LoanID)
	}
	if filter.MemberID != nil {
		add("member_id = $%d", *filter.MemberID)
	}
	if filter.Type != "" {
		add("type = $%d", filter.Type)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.From != nil {
		add("transaction_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("transaction_date <= $%d", *filter.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
