package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

const (
	PlanBasic      = "Basic"
	PlanPro        = "Pro"
	PlanEnterprise = "Enterprise"

	// DefaultValidityDays applies to any plan name missing from the catalogue.
	DefaultValidityDays = 30
)

// Plan is a purchasable subscription tier. Prices are in minor units
// (kobo for NGN).
type Plan struct {
	Name         string
	PriceMinor   int64
	ValidityDays int
}

// Price returns the plan price in major units.
func (p Plan) Price() decimal.Decimal { return MinorToMajor(p.PriceMinor) }

var catalogue = map[string]Plan{
	PlanBasic:      {Name: PlanBasic, PriceMinor: 4900, ValidityDays: 30},
	PlanPro:        {Name: PlanPro, PriceMinor: 14900, ValidityDays: 30},
	PlanEnterprise: {Name: PlanEnterprise, PriceMinor: 49900, ValidityDays: 30},
}

// LookupPlan is a case-sensitive catalogue lookup.
func LookupPlan(name string) (Plan, bool) {
	p, ok := catalogue[name]
	return p, ok
}

// ResolvePlan maps a client-supplied plan value to a catalogue entry.
// Anything that is not a known plan name string resolves to Basic.
func ResolvePlan(v any) Plan {
	if name, ok := v.(string); ok {
		if p, ok := LookupPlan(name); ok {
			return p
		}
	}
	return catalogue[PlanBasic]
}

// ValidityDays returns how long a subscription to the named plan lasts.
func ValidityDays(name string) int {
	if p, ok := LookupPlan(name); ok {
		return p.ValidityDays
	}
	return DefaultValidityDays
}

// Plans lists the catalogue ordered by price.
func Plans() []Plan {
	out := make([]Plan, 0, len(catalogue))
	for _, p := range catalogue {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PriceMinor < out[j].PriceMinor })
	return out
}

// MinorToMajor converts an amount in minor currency units to major units.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}
