package models

import "time"

// Setting keys.
const (
	SettingWebhookURL = "webhook_url"
)

// Setting is a simple key/value row for runtime configuration that is
// editable through the API, such as the report webhook destination.
type Setting struct {
	Key       string    `gorm:"primaryKey" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}
