// Package mock provides a mock provider adapter for testing.
package mock

import (
	"errors"

	"github.com/tournevent/shipcallback/pkg/provider"
	"github.com/tournevent/shipcallback/pkg/quote"
)

// ErrSimulated is returned by every method when SimulateErrors is set.
var ErrSimulated = errors.New("simulated adapter error")

// Adapter is a mock provider adapter. By default it decodes and encodes the
// plain JSON form of the quote model; hooks override individual methods.
type Adapter struct {
	name    string
	profile provider.Profile

	SimulateErrors bool

	OnDecode          func(body []byte) (*quote.Snapshot, error)
	OnEncode          func(res *quote.Result) ([]byte, error)
	OnEncodeRejection func(rej *quote.Rejection) ([]byte, error)
}

// New creates a new mock adapter with the given profile.
func New(name string, profile provider.Profile) *Adapter {
	return &Adapter{name: name, profile: profile}
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return a.name
}

// Profile returns the configured profile.
func (a *Adapter) Profile() provider.Profile {
	return a.profile
}

// Decode returns the snapshot produced by OnDecode, or a fixed initial-phase snapshot.
func (a *Adapter) Decode(body []byte) (*quote.Snapshot, error) {
	if a.SimulateErrors {
		return nil, quote.NewError("mock.decode", quote.KindDecode, "simulated").WithCause(quote.ErrMalformedPayload)
	}
	if a.OnDecode != nil {
		return a.OnDecode(body)
	}
	var req request
	if err := provider.DecodeJSON("mock.decode", body, &req); err != nil {
		return nil, err
	}
	snap := &quote.Snapshot{
		ID:    req.ID,
		Total: req.Amount.Money(),
	}
	if req.PostalCode != "" {
		snap.ShippingAddress = &quote.Address{PostalCode: req.PostalCode}
	}
	if req.TierID != "" {
		snap.ChosenTier = &quote.ChosenTier{ID: req.TierID}
	}
	return snap, nil
}

// Encode renders the result with OnEncode, or as a minimal JSON document.
func (a *Adapter) Encode(res *quote.Result) ([]byte, error) {
	if a.SimulateErrors {
		return nil, ErrSimulated
	}
	if a.OnEncode != nil {
		return a.OnEncode(res)
	}
	out := response{ID: res.ID, Amount: provider.AmountOf(res.Total)}
	for _, t := range res.Tiers {
		out.Tiers = append(out.Tiers, tier{ID: t.ID, Selected: t.IsSelected()})
	}
	return provider.EncodeJSON("mock.encode", out)
}

// EncodeRejection renders the rejection with OnEncodeRejection, or as an error envelope.
func (a *Adapter) EncodeRejection(rej *quote.Rejection) ([]byte, error) {
	if a.SimulateErrors {
		return nil, ErrSimulated
	}
	if a.OnEncodeRejection != nil {
		return a.OnEncodeRejection(rej)
	}
	return provider.EncodeRejection("mock.encode", rej)
}

// DecodeQuote parses the minimal JSON document Encode produces.
func (a *Adapter) DecodeQuote(body []byte) (*quote.Result, error) {
	var resp response
	if err := provider.DecodeJSON("mock.decode_quote", body, &resp); err != nil {
		return nil, err
	}
	res := &quote.Result{ID: resp.ID, Total: resp.Amount.Money()}
	for _, t := range resp.Tiers {
		sel := t.Selected
		res.Tiers = append(res.Tiers, quote.Tier{ID: t.ID, Selected: &sel})
	}
	return res, nil
}

type request struct {
	ID         string           `json:"id" validate:"required"`
	Amount     *provider.Amount `json:"amount" validate:"required"`
	PostalCode string           `json:"postal_code"`
	TierID     string           `json:"tier_id"`
}

type tier struct {
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
}

type response struct {
	ID     string           `json:"id" validate:"required"`
	Amount *provider.Amount `json:"amount" validate:"required"`
	Tiers  []tier           `json:"tiers"`
}
