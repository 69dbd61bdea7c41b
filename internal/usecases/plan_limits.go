package usecases

import (
	"nature-widget.backend/internal/domain/entities"
)

// tierSpec is the static part of a plan tier. DomainsAllowed is the total
// ceiling including the base domain.
type tierSpec struct {
	DomainsAllowed    int
	PricePerExtra     float64
	ExtrasPurchasable bool
	SubdomainMatching bool
}

var planTiers = map[entities.PlanTier]tierSpec{
	entities.PlanStarter: {
		DomainsAllowed:    1,
		PricePerExtra:     0,
		ExtrasPurchasable: false,
		SubdomainMatching: false,
	},
	entities.PlanBusiness: {
		DomainsAllowed:    3,
		PricePerExtra:     9.99,
		ExtrasPurchasable: true,
		SubdomainMatching: true,
	},
	entities.PlanEnterprise: {
		DomainsAllowed:    10,
		PricePerExtra:     19.99,
		ExtrasPurchasable: true,
		SubdomainMatching: true,
	},
}

// EvaluatePlanLimits derives an account's limits from its tier and current
// active domain count. It has no side effects and must be called fresh on
// every add/generate decision: concurrent purchases and cancellations change
// domainsUsed, so a cached result is immediately stale.
func EvaluatePlanLimits(tier entities.PlanTier, domainsUsed int) entities.PlanLimits {
	spec, ok := planTiers[tier]
	if !ok {
		// Unknown tiers get starter semantics: the safest floor.
		spec = planTiers[entities.PlanStarter]
		tier = entities.PlanStarter
	}

	return entities.PlanLimits{
		Tier:              tier,
		DomainsAllowed:    spec.DomainsAllowed,
		DomainsUsed:       domainsUsed,
		PricePerExtra:     spec.PricePerExtra,
		ExtrasPurchasable: spec.ExtrasPurchasable,
		SubdomainMatching: spec.SubdomainMatching,
		CanAddDomain:      spec.ExtrasPurchasable && domainsUsed < spec.DomainsAllowed,
	}
}

// SubdomainMatchingEnabled reports whether a tier authorizes subdomain
// origin matching on the widget path.
func SubdomainMatchingEnabled(tier entities.PlanTier) bool {
	spec, ok := planTiers[tier]
	if !ok {
		return false
	}
	return spec.SubdomainMatching
}
