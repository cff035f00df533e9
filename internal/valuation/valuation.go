// Package valuation turns holdings plus reconciled quotes into market
// values, day profit and principal figures. Everything here is pure; the
// snapshot job owns all side effects.
package valuation

import (
	"caishen/internal/models"
	"caishen/internal/quote"
)

// Line is the computed valuation of a single holding for one cycle.
type Line struct {
	Code          string  `json:"code"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change"`
	MarketValue   float64 `json:"market_value"`
	DayProfit     float64 `json:"day_profit"`
	Principal     float64 `json:"principal"`
	NAVDate       string  `json:"nav_date,omitempty"`
	Quoted        bool    `json:"quoted"` // false when valued at cost for lack of a quote
}

// Summary aggregates a full portfolio valuation.
type Summary struct {
	Date           string  `json:"date"`
	TotalAsset     float64 `json:"total_asset"`
	TotalProfit    float64 `json:"total_profit"`
	TotalPrincipal float64 `json:"total_principal"`
	StockProfit    float64 `json:"stock_profit"`
	FundProfit     float64 `json:"fund_profit"`
	FixedProfit    float64 `json:"fixed_profit"`
	Stocks         []Line  `json:"stocks"`
	Funds          []Line  `json:"funds"`
	Fixed          []Line  `json:"fixed_income"`
}

// Aggregate values every holding against the reconciled quotes for the
// given calendar day. Holdings without a quote are valued at cost with a
// flat change, never dropped.
func Aggregate(date string, holdings []models.Holding, quotes *quote.Result) *Summary {
	s := &Summary{Date: date}
	for _, h := range holdings {
		switch h.Type {
		case models.AssetTypeStock:
			line := equityLine(h, quotes.Stocks)
			s.Stocks = append(s.Stocks, line)
			s.StockProfit += line.DayProfit
			s.add(line)
		case models.AssetTypeFund:
			line := fundLine(h, quotes.Funds)
			s.Funds = append(s.Funds, line)
			s.FundProfit += line.DayProfit
			s.add(line)
		case models.AssetTypeFixed:
			line := fixedLine(h)
			s.Fixed = append(s.Fixed, line)
			s.FixedProfit += line.DayProfit
			s.add(line)
		}
	}
	return s
}

func (s *Summary) add(line Line) {
	s.TotalAsset += line.MarketValue
	s.TotalProfit += line.DayProfit
	s.TotalPrincipal += line.Principal
}

func equityLine(h models.Holding, quotes map[string]quote.Quote) Line {
	q, quoted := quotes[h.Code]
	if !quoted {
		q = quote.Quote{Name: h.Name, Price: h.CostPrice}
	}
	mv := q.Price * h.Quantity
	return Line{
		Code:          h.Code,
		Name:          pickName(q.Name, h.Name),
		Price:         q.Price,
		ChangePercent: q.ChangePercent,
		MarketValue:   mv,
		DayProfit:     EquityDayProfit(mv, q.ChangePercent),
		Principal:     h.CostPrice * h.Quantity,
		Quoted:        quoted,
	}
}

func fundLine(h models.Holding, quotes map[string]quote.Quote) Line {
	q, quoted := quotes[h.Code]
	if !quoted {
		q = quote.Quote{Name: h.Name, Price: h.CostPrice}
	}
	mv := q.Price * h.Quantity
	return Line{
		Code:          h.Code,
		Name:          pickName(q.Name, h.Name),
		Price:         q.Price,
		ChangePercent: q.ChangePercent,
		MarketValue:   mv,
		DayProfit:     FundDayProfit(mv, q.ChangePercent),
		Principal:     h.CostPrice * h.Quantity,
		NAVDate:       q.NAVDate,
		Quoted:        quoted,
	}
}

func fixedLine(h models.Holding) Line {
	// Fixed income has no market price: Quantity carries the principal and
	// CostPrice, when set, the current valuation.
	value := h.CostPrice
	if value <= 0 {
		value = h.Quantity
	}
	return Line{
		Code:        h.Code,
		Name:        h.Name,
		MarketValue: value,
		DayProfit:   FixedDailyAccrual(value, h.APY),
		Principal:   h.Quantity,
	}
}

// EquityDayProfit derives the portion of today's market value attributable
// to today's move. The change percentage is computed against yesterday's
// close, so today's gain is mv*c/(100+c) rather than mv*c/100; the latter
// would discount against today's value twice.
func EquityDayProfit(marketValue, changePercent float64) float64 {
	denom := 100 + changePercent
	if denom == 0 {
		return 0
	}
	return marketValue * changePercent / denom
}

// FundDayProfit computes a fund's day profit as a simple percentage of the
// current value. Fund change percentages are already relative to the prior
// NAV in the reconciled output, so no reversal applies.
func FundDayProfit(marketValue, changePercent float64) float64 {
	return marketValue * changePercent / 100
}

// FixedDailyAccrual computes one day of simple, non-compounding interest.
func FixedDailyAccrual(valuation, apy float64) float64 {
	return valuation * apy / 100 / 365
}

// WeightedCost merges an addition into an existing position, returning the
// new quantity and weighted-average cost price. A non-positive resulting
// quantity clamps to zero with the cost left unchanged, guarding against
// over-selling input.
func WeightedCost(oldQty, oldCost, addQty, addCost float64) (qty, cost float64) {
	qty = oldQty + addQty
	if qty <= 0 {
		return 0, oldCost
	}
	cost = (oldQty*oldCost + addQty*addCost) / qty
	return qty, cost
}

func pickName(primary, fallback string) string {
	if primary != "" {
		return primary
	}
	return fallback
}
