package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an amount is read from storage, which keeps
// only the numeric value.
const DefaultCurrency = "KES"

var centsFactor = decimal.NewFromInt(100)

// Money is an exact amount in minor units (cents) tagged with a currency.
// All arithmetic on Money is integer arithmetic; rounding happens once, when
// a Money is constructed from a decimal.
type Money struct {
	Cents    int64
	Currency string
}

// NewMoney builds a Money from a decimal amount in major units, rounding
// half-up to the minor unit.
func NewMoney(amount decimal.Decimal, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	// decimal.Round is half-away-from-zero, which is half-up for the
	// non-negative amounts this engine deals in.
	return Money{
		Cents:    amount.Mul(centsFactor).Round(0).IntPart(),
		Currency: currency,
	}
}

// NewMoneyFromCents builds a Money directly from minor units.
func NewMoneyFromCents(cents int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{Cents: cents, Currency: currency}
}

// ParseMoney parses a decimal string ("112000.00") into a Money.
func ParseMoney(s, currency string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return NewMoney(d, currency), nil
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Cents).Div(centsFactor)
}

func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents, Currency: m.currencyOr(other)}
}

func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents, Currency: m.currencyOr(other)}
}

func (m Money) Cmp(other Money) int {
	switch {
	case m.Cents < other.Cents:
		return -1
	case m.Cents > other.Cents:
		return 1
	default:
		return 0
	}
}

func (m Money) IsPositive() bool { return m.Cents > 0 }
func (m Money) IsNegative() bool { return m.Cents < 0 }
func (m Money) IsZero() bool     { return m.Cents == 0 }

func (m Money) currencyOr(other Money) string {
	if m.Currency != "" {
		return m.Currency
	}
	return other.Currency
}

// String renders the amount in major units, e.g. "112000.00 KES".
func (m Money) String() string {
	return m.Decimal().StringFixed(2) + " " + m.Currency
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
}

// MarshalJSON encodes the amount as a decimal string plus minor units, never
// a float.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{
		Amount:   m.Decimal().StringFixed(2),
		Cents:    m.Cents,
		Currency: m.Currency,
	})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var v moneyJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Amount != "" {
		parsed, err := ParseMoney(v.Amount, v.Currency)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	}
	*m = NewMoneyFromCents(v.Cents, v.Currency)
	return nil
}

// Value stores the amount as a decimal string, matching NUMERIC(12,2)
// columns.
func (m Money) Value() (driver.Value, error) {
	return m.Decimal().StringFixed(2), nil
}

// Scan reads a NUMERIC column back into minor units. The currency tag is not
// stored per-row; scanned amounts carry the default currency.
func (m *Money) Scan(src interface{}) error {
	if src == nil {
		*m = Money{Currency: DefaultCurrency}
		return nil
	}

	var d decimal.Decimal
	var err error
	switch v := src.(type) {
	case []byte:
		d, err = decimal.NewFromString(string(v))
	case string:
		d, err = decimal.NewFromString(v)
	case int64:
		d = decimal.NewFromInt(v)
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("cannot scan %T into Money", src)
	}
	if err != nil {
		return err
	}

	*m = NewMoney(d, DefaultCurrency)
	return nil
}
