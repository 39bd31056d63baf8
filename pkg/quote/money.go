package quote

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a decimal amount tagged with a currency code.
type Money struct {
	Amount   decimal.Decimal
	Currency string
}

// NewMoney returns a Money of amount in currency.
func NewMoney(amount decimal.Decimal, currency string) Money {
	return Money{Amount: amount, Currency: currency}
}

// Add returns a new Money holding m + amount in m's currency.
func (m Money) Add(amount decimal.Decimal) Money {
	return Money{Amount: m.Amount.Add(amount), Currency: m.Currency}
}

// WithAmount returns a copy of m carrying amount instead.
func (m Money) WithAmount(amount decimal.Decimal) Money {
	return Money{Amount: amount, Currency: m.Currency}
}

// Equal reports whether m and o hold the same amount and currency.
func (m Money) Equal(o Money) bool {
	return m.Currency == o.Currency && m.Amount.Equal(o.Amount)
}

// String implements fmt.Stringer.
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency)
}
