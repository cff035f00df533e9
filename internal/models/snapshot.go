package models

import "time"

// DateLayout is the calendar-day format used for snapshot keys and NAV dates.
const DateLayout = "2006-01-02"

// Snapshot is the end-of-day valuation record for one user. Exactly one
// row exists per user per calendar day; re-running the daily job on the
// same day overwrites the row in place (last write wins).
type Snapshot struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:uq_snapshots_user_date" json:"user_id"`
	// Stored as TEXT in DateLayout form so the value round-trips as the
	// plain calendar day on every driver. A DATE column would come back
	// from the scanner as a timestamp.
	Date           string    `gorm:"not null;uniqueIndex:uq_snapshots_user_date" json:"date"`
	TotalAsset     float64   `gorm:"not null" json:"total_asset"`
	TotalProfit    float64   `gorm:"not null" json:"total_profit"`
	TotalPrincipal float64   `gorm:"not null" json:"total_principal"`
	StockProfit    float64   `json:"stock_profit"`
	FundProfit     float64   `json:"fund_profit"`
	FixedProfit    float64   `json:"fixed_profit"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
