package quote

// Source names for reconciled quotes.
const (
	sourceEstimate = "estimate"
	sourceOfficial = "official"
)

// ReconcileEquities converts raw equity quotes into reconciled quotes.
// Equities have a single source per fetch, so beyond the normalization the
// adapters already applied this is a straight mapping.
func ReconcileEquities(raw map[string]EquityQuote, source string) map[string]Quote {
	quotes := make(map[string]Quote, len(raw))
	for code, q := range raw {
		quotes[code] = Quote{
			Name:          q.Name,
			Price:         q.Price,
			ChangePercent: q.ChangePercent,
			Source:        source,
		}
	}
	return quotes
}

// ReconcileFunds merges the intraday estimate feed and the official NAV
// feed into one quote per fund code. today is the current calendar day in
// YYYY-MM-DD form; dates in that form compare correctly as strings.
//
// The official NAV is authoritative but posts once a day with latency,
// while the estimate is intraday but can diverge or be missing for some
// share classes. Per code:
//
//   - only the estimate: use it (falling back to its lagged NAV when the
//     estimated price is zero, which happens for funds the estimator does
//     not model);
//   - only the official NAV: use it with a flat change, there is no
//     intraday reference to compute one against;
//   - both, and the official NAV is fresher than the estimate's reference
//     NAV or already settled today: the official figure wins, with the
//     change recomputed against yesterday's close reconstructed from the
//     estimate (see officialChange);
//   - both, but the official NAV is stale: the estimate wins;
//   - neither: no quote is emitted for that code.
func ReconcileFunds(estimates map[string]FundEstimate, officials map[string]FundNAV, today string) map[string]Quote {
	quotes := make(map[string]Quote)

	for code, est := range estimates {
		official, ok := officials[code]
		if ok && (official.NAVDate > est.NAVDate || official.NAVDate == today) {
			quotes[code] = Quote{
				Name:          pickName(official.Name, est.Name),
				Price:         official.NetValue,
				ChangePercent: officialChange(official.NetValue, est.Price, est.ChangePercent),
				NetValue:      official.NetValue,
				NAVDate:       official.NAVDate,
				EstChange:     est.ChangePercent,
				Source:        sourceOfficial,
			}
			continue
		}

		price := est.Price
		if price <= 0 {
			price = est.NetValue
		}
		quotes[code] = Quote{
			Name:          est.Name,
			Price:         price,
			ChangePercent: est.ChangePercent,
			NetValue:      est.NetValue,
			NAVDate:       est.NAVDate,
			EstChange:     est.ChangePercent,
			Source:        sourceEstimate,
		}
	}

	for code, official := range officials {
		if _, seen := estimates[code]; seen {
			continue
		}
		quotes[code] = Quote{
			Name:          official.Name,
			Price:         official.NetValue,
			ChangePercent: 0,
			NetValue:      official.NetValue,
			NAVDate:       official.NAVDate,
			Source:        sourceOfficial,
		}
	}

	return quotes
}

// officialChange recomputes a fund's day change once the official NAV has
// superseded the intraday estimate. Yesterday's close is reconstructed by
// backing the estimated change out of the estimated price; if that math is
// degenerate (zero estimate, or an estimated change of -100%) the change
// is reported flat rather than guessed.
func officialChange(officialNAV, estPrice, estChangePct float64) float64 {
	denom := 1 + estChangePct/100
	if estPrice <= 0 || denom == 0 {
		return 0
	}
	yesterday := estPrice / denom
	if yesterday <= 0 {
		return 0
	}
	return round2((officialNAV - yesterday) / yesterday * 100)
}

func pickName(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
