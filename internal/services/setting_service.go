package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "caishen/internal/errors"
	"caishen/internal/models"
)

// settingService handles runtime key/value settings.
type settingService struct {
	db *gorm.DB
}

// NewSettingService creates a new SettingServicer.
func NewSettingService(db *gorm.DB) SettingServicer {
	return &settingService{db: db}
}

// GetWebhookURL returns the configured webhook URL, or "" when unset.
func (s *settingService) GetWebhookURL() (string, error) {
	var setting models.Setting
	if err := s.db.First(&setting, "key = ?", models.SettingWebhookURL).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return setting.Value, nil
}

// SetWebhookURL stores the webhook URL. An empty value clears the setting;
// anything else must be scheme-prefixed.
func (s *settingService) SetWebhookURL(url string) error {
	if url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return apperrors.ErrInvalidWebhookURL
	}

	setting := models.Setting{Key: models.SettingWebhookURL, Value: url}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
