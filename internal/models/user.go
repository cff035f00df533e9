package models

import "time"

// User represents an account owner. This is a single-operator system;
// the admin user is bootstrapped at startup, but every row is still
// scoped by user ID so holdings and snapshots stay isolated.
type User struct {
	Base
	Username         string     `gorm:"uniqueIndex;not null" json:"username"`
	Password         string     `gorm:"not null" json:"-"`
	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`
	Holdings         []Holding  `gorm:"foreignKey:UserID" json:"holdings,omitempty"`
	Snapshots        []Snapshot `gorm:"foreignKey:UserID" json:"snapshots,omitempty"`
}
