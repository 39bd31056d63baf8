// Package braintree adapts Braintree shipping callbacks to the quote model.
package braintree

import (
	"github.com/tournevent/shipcallback/pkg/provider"
	"github.com/tournevent/shipcallback/pkg/quote"
)

const providerName = "braintree"

// Config holds Braintree adapter configuration.
type Config struct {
	// RejectionStatus is the status sent with an address rejection.
	// Zero means provider.DefaultRejectionStatus. Older deployments used 400.
	RejectionStatus int
}

// Adapter implements provider.Adapter for Braintree.
type Adapter struct {
	config Config
}

// New creates a new Braintree adapter.
func New(cfg Config) *Adapter {
	return &Adapter{config: cfg}
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return providerName
}

// Profile returns the Braintree behaviour: addresses are validated.
func (a *Adapter) Profile() provider.Profile {
	return provider.Profile{
		ValidateAddress: true,
		RejectionStatus: a.config.RejectionStatus,
	}
}

// Decode parses a Braintree callback body.
func (a *Adapter) Decode(body []byte) (*quote.Snapshot, error) {
	var req CallbackRequest
	if err := provider.DecodeJSON("braintree.decode", body, &req); err != nil {
		return nil, err
	}
	return requestToSnapshot(&req), nil
}

// Encode renders a quote as a Braintree callback response.
func (a *Adapter) Encode(res *quote.Result) ([]byte, error) {
	return provider.EncodeJSON("braintree.encode", resultToResponse(res))
}

// EncodeRejection renders an address rejection.
func (a *Adapter) EncodeRejection(rej *quote.Rejection) ([]byte, error) {
	return provider.EncodeRejection("braintree.encode", rej)
}

// DecodeQuote parses a Braintree callback response.
func (a *Adapter) DecodeQuote(body []byte) (*quote.Result, error) {
	var resp CallbackResponse
	if err := provider.DecodeJSON("braintree.decode_quote", body, &resp); err != nil {
		return nil, err
	}
	return responseToResult(&resp), nil
}

// ============================================================================
// Conversion helpers: API models -> quote models
// ============================================================================

func requestToSnapshot(req *CallbackRequest) *quote.Snapshot {
	snap := &quote.Snapshot{
		ID:        req.ID,
		Total:     req.Amount.Money(),
		ItemTotal: req.ItemTotal,
		LineItems: lineItemsToQuote(req.LineItems),
	}
	if addr := req.ShippingAddress; addr != nil {
		snap.ShippingAddress = &quote.Address{
			AdminArea2:  addr.AdminArea2,
			AdminArea1:  addr.AdminArea1,
			PostalCode:  addr.PostalCode,
			CountryCode: addr.CountryCode,
		}
	}
	if opt := req.ShippingOption; opt != nil {
		snap.ChosenTier = &quote.ChosenTier{
			ID:    opt.ID,
			Price: opt.Amount.Decimal(),
		}
	}
	return snap
}

func responseToResult(resp *CallbackResponse) *quote.Result {
	tiers := make([]quote.Tier, len(resp.ShippingOptions))
	for i, opt := range resp.ShippingOptions {
		tiers[i] = quote.Tier{
			ID:          opt.ID,
			Price:       opt.Amount.Money(),
			Kind:        opt.Type,
			Description: opt.Description,
			Selected:    opt.Selected,
		}
	}
	return &quote.Result{
		ID:               resp.ID,
		Total:            resp.Amount.Money(),
		ItemTotal:        resp.ItemTotal,
		ShippingCost:     resp.Shipping,
		Handling:         resp.Handling,
		Tax:              resp.TaxTotal,
		Insurance:        resp.Insurance,
		ShippingDiscount: resp.ShippingDiscount,
		Discount:         resp.Discount,
		Tiers:            tiers,
		LineItems:        lineItemsToQuote(resp.LineItems),
	}
}

func lineItemsToQuote(items []LineItem) []quote.LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]quote.LineItem, len(items))
	for i, it := range items {
		li := quote.LineItem{
			Name:        it.Name,
			Quantity:    int(it.Quantity),
			UnitAmount:  it.UnitAmount.Money(),
			Type:        it.Type,
			Description: it.Description,
			ProductCode: it.ProductCode,
			URL:         it.URL,
			ImageURL:    it.ImageURL,
		}
		if it.UnitTaxAmount != nil {
			tax := it.UnitTaxAmount.Money()
			li.UnitTaxAmount = &tax
		}
		out[i] = li
	}
	return out
}

// ============================================================================
// Conversion helpers: quote models -> API models
// ============================================================================

func resultToResponse(res *quote.Result) *CallbackResponse {
	options := make([]ShippingOption, len(res.Tiers))
	for i, t := range res.Tiers {
		options[i] = ShippingOption{
			ID:          t.ID,
			Amount:      provider.AmountOf(t.Price),
			Type:        t.Kind,
			Description: t.Description,
			Selected:    t.Selected,
		}
	}
	return &CallbackResponse{
		ID:               res.ID,
		Amount:           provider.AmountOf(res.Total),
		ItemTotal:        res.ItemTotal,
		Shipping:         res.ShippingCost,
		Handling:         res.Handling,
		TaxTotal:         res.Tax,
		Insurance:        res.Insurance,
		ShippingDiscount: res.ShippingDiscount,
		Discount:         res.Discount,
		ShippingOptions:  options,
		LineItems:        lineItemsToAPI(res.LineItems),
	}
}

func lineItemsToAPI(items []quote.LineItem) []LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, it := range items {
		li := LineItem{
			Name:        it.Name,
			Quantity:    provider.Quantity(it.Quantity),
			UnitAmount:  provider.AmountOf(it.UnitAmount),
			Type:        it.Type,
			Description: it.Description,
			ProductCode: it.ProductCode,
			URL:         it.URL,
			ImageURL:    it.ImageURL,
		}
		if it.UnitTaxAmount != nil {
			li.UnitTaxAmount = provider.AmountOf(*it.UnitTaxAmount)
		}
		out[i] = li
	}
	return out
}
