package quote

import (
	"strings"
)

// Rule inspects an address and returns the issue it finds, or "" to accept.
type Rule func(addr Address) IssueCode

// PostalCodeRule rejects postal codes containing the letter X in any case.
func PostalCodeRule(addr Address) IssueCode {
	if strings.Contains(strings.ToUpper(addr.PostalCode), "X") {
		return IssueZip
	}
	return ""
}

// Validator runs a chain of address rules. The first failing rule wins.
type Validator struct {
	rules []Rule
}

// NewValidator creates a validator from rules. With no rules it uses DefaultRules.
func NewValidator(rules ...Rule) *Validator {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Validator{rules: rules}
}

// DefaultRules returns the rule chain applied to every initial quote.
func DefaultRules() []Rule {
	return []Rule{PostalCodeRule}
}

// Validate returns nil if the address is acceptable, or a *Rejection.
func (v *Validator) Validate(addr Address) error {
	for _, rule := range v.rules {
		if code := rule(addr); code != "" {
			return NewRejection(code)
		}
	}
	return nil
}
