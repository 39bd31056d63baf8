package quote

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Calculator turns a callback snapshot into a quote.
// It holds no per-request state and is safe for concurrent use.
type Calculator struct {
	validator       *Validator
	validateAddress bool
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithValidator replaces the default address rule chain.
func WithValidator(v *Validator) Option {
	return func(c *Calculator) {
		c.validator = v
	}
}

// WithoutAddressValidation skips address checks on the initial phase.
func WithoutAddressValidation() Option {
	return func(c *Calculator) {
		c.validateAddress = false
	}
}

// WithAddressValidation toggles address checks on the initial phase.
func WithAddressValidation(enabled bool) Option {
	return func(c *Calculator) {
		c.validateAddress = enabled
	}
}

// NewCalculator creates a calculator. Address validation is on by default.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		validator:       NewValidator(),
		validateAddress: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns the quote for s. Address failures are returned as a
// *Rejection; malformed selections as an *Error.
func (c *Calculator) Compute(s *Snapshot) (*Result, error) {
	if s.ChosenTier == nil {
		return c.initial(s)
	}
	return c.confirm(s)
}

// initial answers the first callback for an address: validate, then offer the
// catalog with the free tier pre-selected.
func (c *Calculator) initial(s *Snapshot) (*Result, error) {
	if c.validateAddress {
		if s.ShippingAddress == nil {
			return nil, NewError("quote.initial", KindDecode, "shipping address required").WithCause(ErrMissingAddress)
		}
		if err := c.validator.Validate(*s.ShippingAddress); err != nil {
			return nil, err
		}
	}

	total := s.Total
	itemTotal := s.ItemTotal
	if itemTotal.IsZero() {
		// Some upstream payloads omit the item total; the order total stands in.
		itemTotal = s.Total.Amount
	} else {
		total = s.Total.WithAmount(s.ItemTotal)
	}

	tiers, err := GenerateTiers(s.Total.Currency, 0)
	if err != nil {
		return nil, err
	}

	return newResult(s, total, itemTotal, decimal.Zero, tiers), nil
}

// confirm recomputes totals for the tier the buyer chose.
func (c *Calculator) confirm(s *Snapshot) (*Result, error) {
	selected, err := TierPosition(s.ChosenTier.ID)
	if err != nil {
		return nil, err
	}

	tiers, err := GenerateTiers(s.Total.Currency, selected)
	if err != nil {
		return nil, err
	}

	shipping := s.ChosenTier.Price
	total := NewMoney(s.ItemTotal.Add(shipping), s.Total.Currency)

	return newResult(s, total, s.ItemTotal, shipping, tiers), nil
}

// TierPosition converts a 1-based tier id into a catalog position.
func TierPosition(id string) (int, error) {
	n, err := strconv.Atoi(id)
	if err != nil {
		return 0, NewError("quote.confirm", KindInvalidArgument,
			fmt.Sprintf("tier id %q is not an integer", id)).WithCause(ErrInvalidTierID)
	}
	pos := n - 1
	if pos < 0 || pos >= TierCount {
		return 0, NewError("quote.confirm", KindIndex,
			fmt.Sprintf("tier id %q not in catalog", id)).WithCause(ErrTierOutOfRange)
	}
	return pos, nil
}

func newResult(s *Snapshot, total Money, itemTotal, shipping decimal.Decimal, tiers []Tier) *Result {
	return &Result{
		ID:               s.ID,
		Reference:        s.Reference,
		Total:            total,
		ItemTotal:        itemTotal,
		ShippingCost:     shipping,
		Handling:         decimal.Zero,
		Tax:              decimal.Zero,
		Insurance:        decimal.Zero,
		ShippingDiscount: decimal.Zero,
		Discount:         decimal.Zero,
		Tiers:            tiers,
		LineItems:        s.LineItems,
		Passthrough:      s.Passthrough,
	}
}
