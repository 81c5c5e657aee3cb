package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney_RoundsHalfUp(t *testing.T) {
	cases := []struct {
		amount string
		cents  int64
	}{
		{"2.344", 234},
		{"2.345", 235},
		{"2.346", 235},
		{"9333.333", 933333},
		{"9333.335", 933334},
		{"0.005", 1},
		{"100000", 10000000},
	}

	for _, tc := range cases {
		d, err := decimal.NewFromString(tc.amount)
		require.NoError(t, err)
		assert.Equal(t, tc.cents, NewMoney(d, "KES").Cents, "amount %s", tc.amount)
	}
}

func TestNewMoney_DefaultsCurrency(t *testing.T) {
	m := NewMoney(decimal.NewFromInt(10), "")
	assert.Equal(t, DefaultCurrency, m.Currency)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyFromCents(1500, "KES")
	b := NewMoneyFromCents(700, "KES")

	assert.Equal(t, int64(2200), a.Add(b).Cents)
	assert.Equal(t, int64(800), a.Sub(b).Cents)
	assert.Equal(t, int64(-800), b.Sub(a).Cents)

	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, -1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(a))

	assert.True(t, a.IsPositive())
	assert.True(t, b.Sub(a).IsNegative())
	assert.True(t, a.Sub(a).IsZero())
}

func TestMoney_String(t *testing.T) {
	m := NewMoneyFromCents(11200000, "KES")
	assert.Equal(t, "112000.00 KES", m.String())
}

func TestMoney_JSONRoundTrip(t *testing.T) {
	m := NewMoneyFromCents(933337, "KES")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"9333.37","cents":933337,"currency":"KES"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, m, back)
}

func TestMoney_ScanAndValue(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan([]byte("112000.00")))
	assert.Equal(t, int64(11200000), m.Cents)
	assert.Equal(t, DefaultCurrency, m.Currency)

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "112000.00", v)

	require.NoError(t, m.Scan(nil))
	assert.True(t, m.IsZero())
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("9333.33", "KES")
	require.NoError(t, err)
	assert.Equal(t, int64(933333), m.Cents)

	_, err = ParseMoney("not-a-number", "KES")
	assert.Error(t, err)
}
