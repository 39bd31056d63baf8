package braintree_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tournevent/shipcallback/pkg/provider"
	"github.com/tournevent/shipcallback/pkg/provider/braintree"
	"github.com/tournevent/shipcallback/pkg/quote"
)

const initialBody = `{
	"id": "BT-ORDER-1",
	"amount": {"value": "42.50", "currency_code": "GBP"},
	"item_total": "0",
	"shipping_address": {
		"admin_area_2": "London",
		"admin_area_1": "Greater London",
		"postal_code": "AB1 2CD",
		"country_code": "GB"
	}
}`

const confirmBody = `{
	"id": "BT-ORDER-2",
	"amount": {"value": 20, "currency_code": "GBP"},
	"item_total": 20,
	"shipping_address": {"postal_code": "AB1 2CD", "country_code": "GB"},
	"shipping_option": {
		"id": "2",
		"amount": {"value": "5.00", "currency_code": "GBP"},
		"type": "SHIPPING",
		"description": "Medium Shipping",
		"selected": true
	}
}`

func TestAdapter_Profile(t *testing.T) {
	a := braintree.New(braintree.Config{})
	assert.Equal(t, "braintree", a.Name())
	assert.True(t, a.Profile().ValidateAddress)
	assert.Equal(t, 422, a.Profile().Status())

	legacy := braintree.New(braintree.Config{RejectionStatus: 400})
	assert.Equal(t, 400, legacy.Profile().Status())
}

func TestAdapter_Decode_Initial(t *testing.T) {
	a := braintree.New(braintree.Config{})

	snap, err := a.Decode([]byte(initialBody))

	require.NoError(t, err)
	assert.Equal(t, "BT-ORDER-1", snap.ID)
	assert.True(t, snap.Total.Amount.Equal(decimal.RequireFromString("42.5")))
	assert.Equal(t, "GBP", snap.Total.Currency)
	assert.True(t, snap.ItemTotal.IsZero())
	require.NotNil(t, snap.ShippingAddress)
	assert.Equal(t, "AB1 2CD", snap.ShippingAddress.PostalCode)
	assert.Equal(t, "London", snap.ShippingAddress.AdminArea2)
	assert.Nil(t, snap.ChosenTier)
	assert.Equal(t, quote.PhaseInitial, snap.Phase())
}

func TestAdapter_Decode_Confirm(t *testing.T) {
	a := braintree.New(braintree.Config{})

	snap, err := a.Decode([]byte(confirmBody))

	require.NoError(t, err)
	require.NotNil(t, snap.ChosenTier)
	assert.Equal(t, "2", snap.ChosenTier.ID)
	assert.True(t, snap.ChosenTier.Price.Equal(decimal.NewFromInt(5)))
	assert.True(t, snap.ItemTotal.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, quote.PhaseConfirm, snap.Phase())
}

func TestAdapter_Decode_CamelCase(t *testing.T) {
	a := braintree.New(braintree.Config{})
	body := `{
		"Id": "BT-ORDER-3",
		"Amount": {"Value": "12", "CurrencyCode": "USD"},
		"ItemTotal": "10",
		"ShippingAddress": {"AdminArea_2": "Austin", "PostalCode": "78701", "CountryCode": "US"},
		"shippingOption": {"id": "3", "amount": {"value": "10", "currencyCode": "USD"}}
	}`

	snap, err := a.Decode([]byte(body))

	require.NoError(t, err)
	assert.Equal(t, "BT-ORDER-3", snap.ID)
	assert.Equal(t, "USD", snap.Total.Currency)
	assert.True(t, snap.ItemTotal.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "Austin", snap.ShippingAddress.AdminArea2)
	assert.Equal(t, "78701", snap.ShippingAddress.PostalCode)
	require.NotNil(t, snap.ChosenTier)
	assert.Equal(t, "3", snap.ChosenTier.ID)
}

func TestAdapter_Decode_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `{"id": `},
		{"array", `[1,2,3]`},
		{"null", `null`},
		{"trailing data", `{"id":"a"} {"id":"b"}`},
		{"missing id", `{"amount":{"value":"1","currency_code":"GBP"},"shipping_address":{"postal_code":"A","country_code":"GB"}}`},
		{"missing amount", `{"id":"a","shipping_address":{"postal_code":"A","country_code":"GB"}}`},
		{"missing currency", `{"id":"a","amount":{"value":"1"},"shipping_address":{"postal_code":"A","country_code":"GB"}}`},
		{"missing address", `{"id":"a","amount":{"value":"1","currency_code":"GBP"}}`},
		{"missing postal code", `{"id":"a","amount":{"value":"1","currency_code":"GBP"},"shipping_address":{"country_code":"GB"}}`},
		{"bad amount", `{"id":"a","amount":{"value":"lots","currency_code":"GBP"},"shipping_address":{"postal_code":"A","country_code":"GB"}}`},
		{"option without amount", `{"id":"a","amount":{"value":"1","currency_code":"GBP"},"shipping_address":{"postal_code":"A","country_code":"GB"},"shipping_option":{"id":"1"}}`},
	}

	a := braintree.New(braintree.Config{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Decode([]byte(tt.body))

			require.Error(t, err)
			assert.True(t, errors.Is(err, quote.ErrMalformedPayload))
			assert.True(t, quote.IsClientError(err))
		})
	}
}

func TestAdapter_Encode(t *testing.T) {
	a := braintree.New(braintree.Config{})
	snap, err := a.Decode([]byte(confirmBody))
	require.NoError(t, err)
	res, err := quote.NewCalculator().Compute(snap)
	require.NoError(t, err)

	body, err := a.Encode(res)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))

	assert.Equal(t, "BT-ORDER-2", got["id"])
	assert.Equal(t, map[string]any{"value": "25", "currency_code": "GBP"}, got["amount"])
	assert.Equal(t, "20", got["item_total"])
	assert.Equal(t, "5", got["shipping"])
	for _, k := range []string{"handling", "tax_total", "insurance", "shipping_discount", "discount"} {
		assert.Equal(t, "0", got[k], k)
	}
	assert.NotContains(t, got, "line_items")

	options, ok := got["shipping_options"].([]any)
	require.True(t, ok)
	require.Len(t, options, 3)
	second := options[1].(map[string]any)
	assert.Equal(t, "2", second["id"])
	assert.Equal(t, "SHIPPING", second["type"])
	assert.Equal(t, "Medium Shipping", second["description"])
	assert.Equal(t, true, second["selected"])
	assert.Equal(t, false, options[0].(map[string]any)["selected"])
}

func TestAdapter_RoundTrip(t *testing.T) {
	a := braintree.New(braintree.Config{})
	snap, err := a.Decode([]byte(initialBody))
	require.NoError(t, err)
	res, err := quote.NewCalculator().Compute(snap)
	require.NoError(t, err)

	body, err := a.Encode(res)
	require.NoError(t, err)
	back, err := a.DecodeQuote(body)
	require.NoError(t, err)

	assert.Equal(t, res.ID, back.ID)
	assert.True(t, res.Total.Equal(back.Total))
	assert.True(t, res.ItemTotal.Equal(back.ItemTotal))
	assert.True(t, res.ShippingCost.Equal(back.ShippingCost))
	require.Len(t, back.Tiers, len(res.Tiers))
	for i := range res.Tiers {
		assert.Equal(t, res.Tiers[i].ID, back.Tiers[i].ID)
		assert.True(t, res.Tiers[i].Price.Equal(back.Tiers[i].Price))
		assert.Equal(t, res.Tiers[i].Description, back.Tiers[i].Description)
		assert.Equal(t, res.Tiers[i].Kind, back.Tiers[i].Kind)
		assert.Equal(t, res.Tiers[i].IsSelected(), back.Tiers[i].IsSelected())
	}
}

func TestAdapter_LineItemsEchoed(t *testing.T) {
	a := braintree.New(braintree.Config{})
	body := `{
		"id": "BT-ORDER-4",
		"amount": {"value": "30", "currency_code": "GBP"},
		"item_total": "30",
		"shipping_address": {"postal_code": "AB1 2CD", "country_code": "GB"},
		"line_items": [
			{"name": "Mug", "quantity": 2, "unit_amount": {"value": "15", "currency_code": "GBP"}, "product_code": "MUG-1"}
		]
	}`

	snap, err := a.Decode([]byte(body))
	require.NoError(t, err)
	require.Len(t, snap.LineItems, 1)
	assert.Equal(t, 2, snap.LineItems[0].Quantity)

	res, err := quote.NewCalculator().Compute(snap)
	require.NoError(t, err)
	out, err := a.Encode(res)
	require.NoError(t, err)

	var got struct {
		LineItems []map[string]any `json:"line_items"`
	}
	require.NoError(t, json.Unmarshal(out, &got))
	require.Len(t, got.LineItems, 1)
	assert.Equal(t, "Mug", got.LineItems[0]["name"])
	assert.Equal(t, "2", got.LineItems[0]["quantity"])
	assert.Equal(t, "MUG-1", got.LineItems[0]["product_code"])
	assert.NotContains(t, got.LineItems[0], "unit_tax_amount")
}

func TestAdapter_EncodeRejection(t *testing.T) {
	a := braintree.New(braintree.Config{})

	body, err := a.EncodeRejection(quote.NewRejection(quote.IssueZip))

	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"UNPROCESSABLE_ENTITY","details":[{"issue":"ZIP_ERROR"}]}`, string(body))

	rej, err := provider.DecodeRejection("test", body)
	require.NoError(t, err)
	assert.Equal(t, quote.IssueZip, rej.Issues[0].Code)
}
