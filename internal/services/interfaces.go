package services

import (
	"context"

	"caishen/internal/models"
	"caishen/internal/pagination"
	"caishen/internal/quote"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, password string) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
	EnsureUser(username, password string) (*models.User, error)
}

// HoldingInput carries the fields accepted when creating or updating a holding.
type HoldingInput struct {
	Type      models.AssetType
	Name      string
	Code      string
	CostPrice float64
	Quantity  float64
	Tag       string
	StartDate string
	APY       float64
}

// HoldingGroups is the holdings listing, grouped by asset type.
type HoldingGroups struct {
	Stocks      []models.Holding `json:"stocks"`
	Funds       []models.Holding `json:"funds"`
	FixedIncome []models.Holding `json:"fixed_income"`
}

// HoldingServicer defines the contract for holding-related business logic.
type HoldingServicer interface {
	// CreateOrAdd creates a holding, or merges the quantity into an existing
	// position of the same code and type using weighted-average cost.
	CreateOrAdd(userID uint, input HoldingInput) (*models.Holding, error)
	Update(userID, holdingID uint, input HoldingInput) (*models.Holding, error)
	Delete(userID, holdingID uint) error
	List(userID uint) (*HoldingGroups, error)
	ListByType(userID uint, assetType models.AssetType) ([]models.Holding, error)
}

// SettingServicer defines the contract for runtime settings.
type SettingServicer interface {
	GetWebhookURL() (string, error)
	SetWebhookURL(url string) error
}

// QuoteProvider abstracts the market data client so the snapshot job and
// handlers can run against a stub in tests.
type QuoteProvider interface {
	FetchReconciled(ctx context.Context, equityCodes, fundCodes []string, source quote.Source) *quote.Result
	Check(ctx context.Context, code string, fund bool) (name string, price float64, ok bool)
}

// WebhookSender delivers a plain-text report to a webhook destination.
// Delivery is fire-and-forget from the job's perspective; errors are
// surfaced for logging only.
type WebhookSender interface {
	SendText(ctx context.Context, url, content string) error
}

// SnapshotServicer defines the contract for the daily snapshot job and
// snapshot history.
type SnapshotServicer interface {
	// RunDaily values the user's portfolio against live quotes, upserts
	// today's snapshot, and pushes the report if a webhook is configured.
	// Running it twice on the same day overwrites rather than duplicates.
	RunDaily(ctx context.Context, userID uint) (*models.Snapshot, error)
	History(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Snapshot], error)
}
