package quote_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipcallback/pkg/quote"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func initialSnapshot(postal string, total, itemTotal string) *quote.Snapshot {
	return &quote.Snapshot{
		ID:        "ORDER-1",
		Total:     quote.NewMoney(dec(total), "GBP"),
		ItemTotal: dec(itemTotal),
		ShippingAddress: &quote.Address{
			AdminArea2:  "London",
			PostalCode:  postal,
			CountryCode: "GB",
		},
	}
}

func TestCalculator_Initial_ZeroItemTotalUsesOrderTotal(t *testing.T) {
	calc := quote.NewCalculator()

	res, err := calc.Compute(initialSnapshot("AB1 2CD", "42.50", "0"))

	require.NoError(t, err)
	assert.True(t, res.ItemTotal.Equal(dec("42.50")))
	assert.True(t, res.Total.Amount.Equal(dec("42.50")))
	assert.Equal(t, "GBP", res.Total.Currency)
	assert.True(t, res.ShippingCost.IsZero())
}

func TestCalculator_Initial_ItemTotalOverwritesOrderTotal(t *testing.T) {
	calc := quote.NewCalculator()

	res, err := calc.Compute(initialSnapshot("AB1 2CD", "42.50", "30"))

	require.NoError(t, err)
	assert.True(t, res.Total.Amount.Equal(dec("30")))
	assert.True(t, res.ItemTotal.Equal(dec("30")))
}

func TestCalculator_Initial_FreeTierSelected(t *testing.T) {
	calc := quote.NewCalculator()

	res, err := calc.Compute(initialSnapshot("AB1 2CD", "10", "0"))

	require.NoError(t, err)
	require.Len(t, res.Tiers, 3)

	selected := 0
	for _, tier := range res.Tiers {
		if tier.IsSelected() {
			selected++
		}
	}
	assert.Equal(t, 1, selected)
	assert.True(t, res.Tiers[0].IsSelected())
	assert.Equal(t, "Free Shipping", res.Tiers[0].Description)
}

func TestCalculator_Initial_ZeroPlaceholders(t *testing.T) {
	calc := quote.NewCalculator()

	res, err := calc.Compute(initialSnapshot("AB1 2CD", "10", "0"))

	require.NoError(t, err)
	for _, d := range []decimal.Decimal{res.Handling, res.Tax, res.Insurance, res.ShippingDiscount, res.Discount} {
		assert.True(t, d.IsZero())
	}
}

func TestCalculator_Initial_RejectsPostalCodeWithX(t *testing.T) {
	calc := quote.NewCalculator()

	for _, postal := range []string{"AB1X 2CD", "ab1x 2cd", "X"} {
		t.Run(postal, func(t *testing.T) {
			res, err := calc.Compute(initialSnapshot(postal, "10", "0"))

			assert.Nil(t, res)
			rej, ok := quote.AsRejection(err)
			require.True(t, ok, "expected a rejection, got %v", err)
			assert.Equal(t, quote.RejectionName, rej.Name)
			require.Len(t, rej.Issues, 1)
			assert.Equal(t, quote.IssueZip, rej.Issues[0].Code)
			assert.False(t, quote.IsClientError(err))
		})
	}
}

func TestCalculator_Initial_MissingAddress(t *testing.T) {
	calc := quote.NewCalculator()
	snap := initialSnapshot("AB1 2CD", "10", "0")
	snap.ShippingAddress = nil

	_, err := calc.Compute(snap)

	require.Error(t, err)
	assert.True(t, errors.Is(err, quote.ErrMissingAddress))
	assert.True(t, quote.IsClientError(err))
}

func TestCalculator_Initial_WithoutValidation(t *testing.T) {
	calc := quote.NewCalculator(quote.WithoutAddressValidation())

	res, err := calc.Compute(initialSnapshot("XXX", "10", "0"))
	require.NoError(t, err)
	assert.Len(t, res.Tiers, 3)

	snap := initialSnapshot("AB1 2CD", "10", "0")
	snap.ShippingAddress = nil
	_, err = calc.Compute(snap)
	assert.NoError(t, err)
}

func TestCalculator_Initial_CustomValidator(t *testing.T) {
	noCountry := func(addr quote.Address) quote.IssueCode {
		if addr.CountryCode == "" {
			return quote.IssueCountry
		}
		return ""
	}
	calc := quote.NewCalculator(quote.WithValidator(quote.NewValidator(noCountry)))

	snap := initialSnapshot("X1", "10", "0")
	snap.ShippingAddress.CountryCode = ""

	_, err := calc.Compute(snap)
	rej, ok := quote.AsRejection(err)
	require.True(t, ok)
	assert.Equal(t, quote.IssueCountry, rej.Issues[0].Code)
}

func TestCalculator_Confirm_RecomputesTotal(t *testing.T) {
	calc := quote.NewCalculator()
	snap := &quote.Snapshot{
		ID:         "ORDER-2",
		Total:      quote.NewMoney(dec("20"), "GBP"),
		ItemTotal:  dec("20"),
		ChosenTier: &quote.ChosenTier{ID: "2", Price: dec("5")},
	}

	res, err := calc.Compute(snap)

	require.NoError(t, err)
	assert.True(t, res.ShippingCost.Equal(dec("5")))
	assert.True(t, res.Total.Amount.Equal(dec("25")))
	assert.Equal(t, "GBP", res.Total.Currency)
	assert.True(t, res.ItemTotal.Equal(dec("20")))

	tier, ok := res.SelectedTier()
	require.True(t, ok)
	assert.Equal(t, "2", tier.ID)
	assert.False(t, res.Tiers[0].IsSelected())
	assert.False(t, res.Tiers[2].IsSelected())
}

func TestCalculator_Confirm_SkipsAddressValidation(t *testing.T) {
	calc := quote.NewCalculator()
	snap := initialSnapshot("AB1X 2CD", "20", "20")
	snap.ChosenTier = &quote.ChosenTier{ID: "3", Price: dec("10")}

	res, err := calc.Compute(snap)

	require.NoError(t, err)
	assert.True(t, res.Total.Amount.Equal(dec("30")))
}

func TestCalculator_Confirm_InvalidSelection(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{"out of range high", "5", quote.ErrTierOutOfRange},
		{"zero", "0", quote.ErrTierOutOfRange},
		{"negative", "-1", quote.ErrTierOutOfRange},
		{"not a number", "express", quote.ErrInvalidTierID},
		{"empty", "", quote.ErrInvalidTierID},
	}

	calc := quote.NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &quote.Snapshot{
				ID:         "ORDER-3",
				Total:      quote.NewMoney(dec("20"), "GBP"),
				ItemTotal:  dec("20"),
				ChosenTier: &quote.ChosenTier{ID: tt.id, Price: dec("5")},
			}

			res, err := calc.Compute(snap)

			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.True(t, quote.IsClientError(err))
			_, rejected := quote.AsRejection(err)
			assert.False(t, rejected)
		})
	}
}

func TestCalculator_DoesNotMutateSnapshot(t *testing.T) {
	calc := quote.NewCalculator()
	snap := initialSnapshot("AB1 2CD", "42.50", "30")

	_, err := calc.Compute(snap)

	require.NoError(t, err)
	assert.True(t, snap.Total.Amount.Equal(dec("42.50")))
}
