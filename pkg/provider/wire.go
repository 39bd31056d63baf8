package provider

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tournevent/shipcallback/pkg/quote"
)

// Amount is the {value, currency_code} pair both dialects use for money.
// Values are written as JSON strings and read from strings or numbers.
type Amount struct {
	Value        *decimal.Decimal `json:"value" validate:"required"`
	CurrencyCode string           `json:"currency_code" validate:"required"`
}

// AmountOf converts a neutral Money into its wire form.
func AmountOf(m quote.Money) *Amount {
	v := m.Amount
	return &Amount{Value: &v, CurrencyCode: m.Currency}
}

// Money converts the wire form into a neutral Money. A nil amount is zero.
func (a *Amount) Money() quote.Money {
	if a == nil {
		return quote.Money{}
	}
	var v decimal.Decimal
	if a.Value != nil {
		v = *a.Value
	}
	return quote.NewMoney(v, a.CurrencyCode)
}

// Decimal returns the amount's value, or zero if unset.
func (a *Amount) Decimal() decimal.Decimal {
	if a == nil || a.Value == nil {
		return decimal.Zero
	}
	return *a.Value
}

// Quantity is an integer that reads from JSON numbers or strings and is
// written as a string, like every other number on these wires.
type Quantity int

// MarshalJSON implements json.Marshaler.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.Itoa(int(q)))
}

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("quantity %s: %w", b, err)
	}
	*q = Quantity(n)
	return nil
}

// ErrorDetail is one entry of the error envelope.
type ErrorDetail struct {
	Issue quote.IssueCode `json:"issue" validate:"required"`
}

// ErrorEnvelope is the {name, details[]} body returned with an address rejection.
type ErrorEnvelope struct {
	Name    string        `json:"name" validate:"required"`
	Details []ErrorDetail `json:"details" validate:"required,dive"`
}

// EncodeRejection renders rej as an error envelope.
func EncodeRejection(op string, rej *quote.Rejection) ([]byte, error) {
	env := ErrorEnvelope{
		Name:    rej.Name,
		Details: make([]ErrorDetail, len(rej.Issues)),
	}
	if env.Name == "" {
		env.Name = quote.RejectionName
	}
	for i, is := range rej.Issues {
		env.Details[i] = ErrorDetail{Issue: is.Code}
	}
	return EncodeJSON(op, env)
}

// DecodeRejection parses an error envelope back into a rejection.
func DecodeRejection(op string, body []byte) (*quote.Rejection, error) {
	var env ErrorEnvelope
	if err := DecodeJSON(op, body, &env); err != nil {
		return nil, err
	}
	codes := make([]quote.IssueCode, len(env.Details))
	for i, d := range env.Details {
		if !d.Issue.Valid() {
			return nil, malformed(op, fmt.Sprintf("unknown issue %q", d.Issue), nil)
		}
		codes[i] = d.Issue
	}
	rej := quote.NewRejection(codes...)
	rej.Name = env.Name
	return rej, nil
}
