package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "caishen/internal/errors"
	"caishen/internal/logger"
	"caishen/internal/models"
	"caishen/internal/pagination"
	"caishen/internal/quote"
	"caishen/internal/valuation"
)

// snapshotService runs the daily valuation cycle and serves its history.
type snapshotService struct {
	db       *gorm.DB
	holdings HoldingServicer
	settings SettingServicer
	quotes   QuoteProvider
	webhook  WebhookSender
	now      func() time.Time
}

// NewSnapshotService creates a new SnapshotServicer.
func NewSnapshotService(db *gorm.DB, holdings HoldingServicer, settings SettingServicer, quotes QuoteProvider, webhook WebhookSender) SnapshotServicer {
	return &snapshotService{
		db:       db,
		holdings: holdings,
		settings: settings,
		quotes:   quotes,
		webhook:  webhook,
		now:      time.Now,
	}
}

// RunDaily executes one fetch → aggregate → persist → notify cycle for a
// user. Quote failures degrade to cost-basis valuation and never fail the
// run; a persistence failure does, leaving no partial snapshot. The
// webhook push happens after the snapshot is committed and its failure is
// only logged.
func (s *snapshotService) RunDaily(ctx context.Context, userID uint) (*models.Snapshot, error) {
	groups, err := s.holdings.List(userID)
	if err != nil {
		return nil, err
	}

	equityCodes := codesOf(groups.Stocks)
	fundCodes := codesOf(groups.Funds)
	result := s.quotes.FetchReconciled(ctx, equityCodes, fundCodes, quote.SourceSina)
	if result == nil {
		return nil, apperrors.ErrQuoteUnavailable
	}

	today := s.now().Format(models.DateLayout)
	all := make([]models.Holding, 0, len(groups.Stocks)+len(groups.Funds)+len(groups.FixedIncome))
	all = append(all, groups.Stocks...)
	all = append(all, groups.Funds...)
	all = append(all, groups.FixedIncome...)
	summary := valuation.Aggregate(today, all, result)

	snapshot, err := s.upsert(userID, today, summary)
	if err != nil {
		return nil, err
	}

	s.push(ctx, summary)

	logger.Get().Infow("daily snapshot recorded",
		"user_id", userID,
		"date", today,
		"total_asset", summary.TotalAsset,
		"total_profit", summary.TotalProfit,
	)
	return snapshot, nil
}

// upsert writes today's snapshot row, overwriting any existing row for the
// same user and day. Last write wins; concurrent same-day runs are not
// serialized beyond the row-level uniqueness constraint.
func (s *snapshotService) upsert(userID uint, date string, summary *valuation.Summary) (*models.Snapshot, error) {
	var existing models.Snapshot
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&existing).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err == nil {
		updates := map[string]interface{}{
			"total_asset":     summary.TotalAsset,
			"total_profit":    summary.TotalProfit,
			"total_principal": summary.TotalPrincipal,
			"stock_profit":    summary.StockProfit,
			"fund_profit":     summary.FundProfit,
			"fixed_profit":    summary.FixedProfit,
		}
		if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &existing, nil
	}

	snapshot := &models.Snapshot{
		UserID:         userID,
		Date:           date,
		TotalAsset:     summary.TotalAsset,
		TotalProfit:    summary.TotalProfit,
		TotalPrincipal: summary.TotalPrincipal,
		StockProfit:    summary.StockProfit,
		FundProfit:     summary.FundProfit,
		FixedProfit:    summary.FixedProfit,
	}
	if err := s.db.Create(snapshot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshot, nil
}

// push sends the daily report when a well-formed webhook URL is configured.
func (s *snapshotService) push(ctx context.Context, summary *valuation.Summary) {
	url, err := s.settings.GetWebhookURL()
	if err != nil {
		logger.Get().Warnw("webhook config lookup failed", "error", err)
		return
	}
	if url == "" || !strings.HasPrefix(url, "http") {
		return
	}

	if err := s.webhook.SendText(ctx, url, valuation.FormatReport(summary)); err != nil {
		logger.Get().Warnw("webhook push failed", "error", err)
		return
	}
	logger.Get().Info("webhook push succeeded")
}

// History returns a user's snapshots, oldest first.
func (s *snapshotService) History(userID uint, page pagination.PageRequest) (*pagination.PageResponse[models.Snapshot], error) {
	page.Defaults()

	var totalItems int64
	if err := s.db.Model(&models.Snapshot{}).Where("user_id = ?", userID).Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var snapshots []models.Snapshot
	if err := s.db.Where("user_id = ?", userID).Order("date").
		Scopes(pagination.Paginate(page)).Find(&snapshots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(snapshots, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func codesOf(holdings []models.Holding) []string {
	codes := make([]string, 0, len(holdings))
	for _, h := range holdings {
		codes = append(codes, h.Code)
	}
	return codes
}
