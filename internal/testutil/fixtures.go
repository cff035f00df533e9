package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"caishen/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique username.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Username: fmt.Sprintf("user%d", nextID()),
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestHolding creates a holding of the given type.
func CreateTestHolding(t *testing.T, db *gorm.DB, userID uint, assetType models.AssetType, code string, costPrice, quantity float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:    userID,
		Type:      assetType,
		Name:      fmt.Sprintf("Test Holding %d", nextID()),
		Code:      code,
		CostPrice: costPrice,
		Quantity:  quantity,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestFixedHolding creates a fixed income holding with the given principal and APY.
func CreateTestFixedHolding(t *testing.T, db *gorm.DB, userID uint, principal, apy float64) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		UserID:   userID,
		Type:     models.AssetTypeFixed,
		Name:     fmt.Sprintf("Test Deposit %d", nextID()),
		Code:     fmt.Sprintf("FX%04d", nextID()),
		Quantity: principal,
		APY:      apy,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test fixed holding: %v", err)
	}
	return holding
}

// CreateTestSnapshot creates a snapshot row for the given user and date.
func CreateTestSnapshot(t *testing.T, db *gorm.DB, userID uint, date string, totalAsset float64) *models.Snapshot {
	t.Helper()

	snapshot := &models.Snapshot{
		UserID:         userID,
		Date:           date,
		TotalAsset:     totalAsset,
		TotalProfit:    0,
		TotalPrincipal: totalAsset,
	}
	if err := db.Create(snapshot).Error; err != nil {
		t.Fatalf("failed to create test snapshot: %v", err)
	}
	return snapshot
}
