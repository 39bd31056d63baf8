// Package provider defines the contract payment-gateway dialects implement to
// translate shipping callbacks to and from the neutral quote model.
package provider

import (
	"net/http"

	"github.com/tournevent/shipcallback/pkg/quote"
)

// Adapter translates one provider's wire format.
type Adapter interface {
	// Name returns the provider identifier (e.g., "braintree", "paypal").
	Name() string

	// Profile returns the behaviour switches for this provider.
	Profile() Profile

	// Decode parses an inbound callback body into a neutral snapshot.
	Decode(body []byte) (*quote.Snapshot, error)

	// Encode renders a successful quote in the provider's response shape.
	Encode(res *quote.Result) ([]byte, error)

	// EncodeRejection renders an address rejection in the provider's error envelope.
	EncodeRejection(rej *quote.Rejection) ([]byte, error)

	// DecodeQuote parses a response body produced by Encode back into a result.
	DecodeQuote(body []byte) (*quote.Result, error)
}

// Profile is the data-only configuration that distinguishes providers.
type Profile struct {
	// ValidateAddress runs the address rules on the initial phase.
	ValidateAddress bool

	// RejectionStatus is the HTTP status sent with an address rejection.
	RejectionStatus int
}

// DefaultRejectionStatus is used when a profile leaves RejectionStatus unset.
const DefaultRejectionStatus = http.StatusUnprocessableEntity

// Status returns the rejection status, falling back to DefaultRejectionStatus.
func (p Profile) Status() int {
	if p.RejectionStatus == 0 {
		return DefaultRejectionStatus
	}
	return p.RejectionStatus
}

// CalculatorOptions returns the quote options implied by the profile.
func (p Profile) CalculatorOptions() []quote.Option {
	return []quote.Option{quote.WithAddressValidation(p.ValidateAddress)}
}
