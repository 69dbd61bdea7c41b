package entities

// PlanLimits is derived from an account's tier and current usage. It is never
// persisted and never cached across a request boundary: concurrent purchases
// and cancellations change DomainsUsed, so callers evaluate it fresh inside
// the deciding transaction.
type PlanLimits struct {
	Tier              PlanTier `json:"tier"`
	DomainsAllowed    int      `json:"domainsAllowed"`
	DomainsUsed       int      `json:"domainsUsed"`
	PricePerExtra     float64  `json:"pricePerExtraDomain"`
	ExtrasPurchasable bool     `json:"extrasPurchasable"`
	SubdomainMatching bool     `json:"subdomainMatching"`
	CanAddDomain      bool     `json:"canAddDomain"`
}
