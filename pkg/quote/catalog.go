package quote

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TierKind is the type label every catalog tier carries.
const TierKind = "SHIPPING"

// Tier is one purchasable shipping option.
type Tier struct {
	ID          string
	Price       Money
	Kind        string
	Description string
	Selected    *bool
}

// IsSelected reports whether the tier is marked selected.
func (t Tier) IsSelected() bool {
	return t.Selected != nil && *t.Selected
}

type tierDef struct {
	id          string
	price       int64
	description string
}

// catalog is the fixed tier table in ascending price order.
var catalog = [...]tierDef{
	{id: "1", price: 0, description: "Free Shipping"},
	{id: "2", price: 5, description: "Medium Shipping"},
	{id: "3", price: 10, description: "Expensive Shipping"},
}

// TierCount is the number of tiers the catalog offers.
const TierCount = len(catalog)

// GenerateTiers returns the catalog priced in currency with the tier at
// position selected (zero-based) marked selected.
func GenerateTiers(currency string, selected int) ([]Tier, error) {
	if selected < 0 || selected >= TierCount {
		return nil, NewError("catalog.generate", KindIndex,
			fmt.Sprintf("position %d outside [0,%d]", selected, TierCount-1)).WithCause(ErrTierOutOfRange)
	}

	tiers := make([]Tier, TierCount)
	for i, def := range catalog {
		sel := i == selected
		tiers[i] = Tier{
			ID:          def.id,
			Price:       NewMoney(decimal.NewFromInt(def.price), currency),
			Kind:        TierKind,
			Description: def.description,
			Selected:    &sel,
		}
	}
	return tiers, nil
}
