package models

// AssetType classifies a holding.
type AssetType string

const (
	AssetTypeStock AssetType = "stock" // exchange-traded equity or ETF
	AssetTypeFund  AssetType = "fund"  // off-exchange open-end fund
	AssetTypeFixed AssetType = "fixed" // fixed-income product, no market price
)

// Holding represents one position in the portfolio.
//
// For stock and fund holdings, Quantity is the number of shares and
// CostPrice the weighted-average purchase price. For fixed income,
// Quantity carries the invested principal and APY the simple annual
// yield used for daily accrual.
type Holding struct {
	Base
	UserID    uint      `gorm:"not null;index:idx_holdings_user_type" json:"user_id"`
	Type      AssetType `gorm:"not null;index:idx_holdings_user_type" json:"asset_type"`
	Name      string    `json:"name"`
	Code      string    `gorm:"not null;index" json:"code"`
	CostPrice float64   `gorm:"default:0" json:"cost_price"`
	Quantity  float64   `gorm:"default:0" json:"quantity"`
	Tag       string    `json:"tag"`
	StartDate string    `json:"start_date,omitempty"` // fixed income value date, YYYY-MM-DD
	APY       float64   `gorm:"default:0" json:"apy,omitempty"`
}
