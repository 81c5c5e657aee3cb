// Package calculator holds the pure repayment arithmetic. Nothing in here
// touches storage or clocks; every function is deterministic in its inputs.
package calculator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ukombozini/lending-engine/internal/domain"
	customError "github.com/ukombozini/lending-engine/pkg/errors"
)

var twelveMonths = decimal.NewFromInt(12)

// RepaymentTerms is the computed cost of a loan.
type RepaymentTerms struct {
	TotalInterest      domain.Money
	TotalRepayable     domain.Money
	MonthlyInstallment domain.Money
	// FinalInstallment absorbs the rounding residual so that the schedule
	// sums exactly to TotalRepayable.
	FinalInstallment domain.Money
}

// Repayment computes simple (non-compounding) interest pro-rated by term:
//
//	interest = principal * (rate/100) * (term/12)
//
// Rounding to the minor unit happens once, on the final figures, using
// round-half-up. The monthly installment is total/term rounded half-up; the
// difference against the exact total is carried by the final installment.
func Repayment(principal decimal.Decimal, rate domain.Rate, termMonths int, currency string) (*RepaymentTerms, error) {
	if termMonths <= 0 {
		return nil, customError.WrapInvalidTerm(termMonths)
	}
	if !principal.IsPositive() {
		return nil, customError.WrapInvalidLoanTerms("principal must be greater than zero")
	}
	if rate.IsNegative() {
		return nil, customError.WrapInvalidLoanTerms("interest rate must not be negative")
	}

	termFraction := decimal.NewFromInt(int64(termMonths)).Div(twelveMonths)
	interest := principal.Mul(rate.Fraction()).Mul(termFraction)
	total := principal.Add(interest)

	totalRepayable := domain.NewMoney(total, currency)
	totalInterest := totalRepayable.Sub(domain.NewMoney(principal, currency))

	installment := domain.NewMoney(total.Div(decimal.NewFromInt(int64(termMonths))), currency)
	priorInstallments := domain.NewMoneyFromCents(installment.Cents*int64(termMonths-1), currency)
	finalInstallment := totalRepayable.Sub(priorInstallments)

	return &RepaymentTerms{
		TotalInterest:      totalInterest,
		TotalRepayable:     totalRepayable,
		MonthlyInstallment: installment,
		FinalInstallment:   finalInstallment,
	}, nil
}

// Schedule expands the repayment terms into a month-by-month installment
// plan starting one month after the given date.
func Schedule(principal decimal.Decimal, rate domain.Rate, termMonths int, start time.Time, currency string) ([]*domain.Installment, error) {
	terms, err := Repayment(principal, rate, termMonths, currency)
	if err != nil {
		return nil, err
	}

	installments := make([]*domain.Installment, 0, termMonths)
	balance := terms.TotalRepayable

	for n := 1; n <= termMonths; n++ {
		amount := terms.MonthlyInstallment
		if n == termMonths {
			amount = terms.FinalInstallment
		}
		balance = balance.Sub(amount)

		installments = append(installments, &domain.Installment{
			Number:           n,
			DueDate:          start.AddDate(0, n, 0),
			Amount:           amount,
			RemainingBalance: balance,
		})
	}

	return installments, nil
}

// Outstanding returns the balance left after the given total has been paid.
func Outstanding(totalRepayable, totalPaid domain.Money) domain.Money {
	return totalRepayable.Sub(totalPaid)
}
