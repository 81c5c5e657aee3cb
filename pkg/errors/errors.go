package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrLoanNotFound                 = errors.New("loan not found")
	ErrPeriodNotFound               = errors.New("dividend period not found")
	ErrDividendNotFound             = errors.New("member dividend not found")
	ErrGroupNotFound                = errors.New("group not found")
	ErrValidation                   = errors.New("validation failed")
	ErrInvalidTransition            = errors.New("invalid loan status transition")
	ErrInvalidAmount                = errors.New("invalid amount")
	ErrInvalidTerm                  = errors.New("invalid loan term")
	ErrInvalidLoanTerms             = errors.New("invalid loan terms")
	ErrDisbursementExceedsPrincipal = errors.New("disbursement exceeds principal")
	ErrAlreadyCalculated            = errors.New("dividend period already calculated")
	ErrConcurrentModification       = errors.New("record was modified concurrently")
	ErrDuplicateReceipt             = errors.New("receipt number already used in group")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeLoanNotFound                 = "LOAN_NOT_FOUND"
	ErrCodePeriodNotFound               = "PERIOD_NOT_FOUND"
	ErrCodeDividendNotFound             = "DIVIDEND_NOT_FOUND"
	ErrCodeGroupNotFound                = "GROUP_NOT_FOUND"
	ErrCodeValidation                   = "VALIDATION_ERROR"
	ErrCodeInvalidTransition            = "INVALID_TRANSITION"
	ErrCodeInvalidAmount                = "INVALID_AMOUNT"
	ErrCodeInvalidTerm                  = "INVALID_TERM"
	ErrCodeInvalidLoanTerms             = "INVALID_LOAN_TERMS"
	ErrCodeDisbursementExceedsPrincipal = "DISBURSEMENT_EXCEEDS_PRINCIPAL"
	ErrCodeAlreadyCalculated            = "ALREADY_CALCULATED"
	ErrCodeConcurrentModification       = "CONCURRENT_MODIFICATION"
	ErrCodeDuplicateReceipt             = "DUPLICATE_RECEIPT"
	ErrCodeDatabaseError                = "DATABASE_ERROR"
	ErrCodeCacheError                   = "CACHE_ERROR"
)

// Wrap common errors with business context

func WrapLoanNotFound(loanNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeLoanNotFound,
		fmt.Sprintf("Loan %s not found", loanNumber),
		ErrLoanNotFound,
	)
}

func WrapPeriodNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodePeriodNotFound,
		fmt.Sprintf("Dividend period %s not found", id),
		ErrPeriodNotFound,
	)
}

func WrapDividendNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeDividendNotFound,
		fmt.Sprintf("Member dividend %s not found", id),
		ErrDividendNotFound,
	)
}

func WrapGroupNotFound(id string) *BusinessError {
	return NewBusinessError(
		ErrCodeGroupNotFound,
		fmt.Sprintf("Group %s not found", id),
		ErrGroupNotFound,
	)
}

func WrapValidation(message string) *BusinessError {
	return NewBusinessError(ErrCodeValidation, message, ErrValidation)
}

func WrapInvalidTransition(loanNumber, from, to string) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTransition,
		fmt.Sprintf("Loan %s cannot move from %s to %s", loanNumber, from, to),
		ErrInvalidTransition,
	)
}

func WrapInvalidAmount(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidAmount, message, ErrInvalidAmount)
}

func WrapInvalidTerm(termMonths int) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidTerm,
		fmt.Sprintf("Term must be a positive number of months, got %d", termMonths),
		ErrInvalidTerm,
	)
}

func WrapInvalidLoanTerms(message string) *BusinessError {
	return NewBusinessError(ErrCodeInvalidLoanTerms, message, ErrInvalidLoanTerms)
}

func WrapDisbursementExceedsPrincipal(amount, principal string) *BusinessError {
	return NewBusinessError(
		ErrCodeDisbursementExceedsPrincipal,
		fmt.Sprintf("Disbursement %s exceeds principal %s", amount, principal),
		ErrDisbursementExceedsPrincipal,
	)
}

func WrapAlreadyCalculated(periodID string) *BusinessError {
	return NewBusinessError(
		ErrCodeAlreadyCalculated,
		fmt.Sprintf("Dividend period %s has already been calculated", periodID),
		ErrAlreadyCalculated,
	)
}

func WrapConcurrentModification(loanNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeConcurrentModification,
		fmt.Sprintf("Loan %s was modified by another writer, retry", loanNumber),
		ErrConcurrentModification,
	)
}

func WrapDuplicateReceipt(receiptNumber string) *BusinessError {
	return NewBusinessError(
		ErrCodeDuplicateReceipt,
		fmt.Sprintf("Receipt number %s already recorded for this group", receiptNumber),
		ErrDuplicateReceipt,
	)
}

func WrapDatabaseError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeDatabaseError,
		"database operation failed",
		err,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		err,
	)
}

// CodeOf extracts the business error code from err, or DATABASE_ERROR when
// err carries no code.
func CodeOf(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodeDatabaseError
}
