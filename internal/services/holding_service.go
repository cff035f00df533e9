package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "caishen/internal/errors"
	"caishen/internal/models"
	"caishen/internal/valuation"
)

// holdingService handles holding-related business logic.
type holdingService struct {
	db *gorm.DB
}

// NewHoldingService creates a new HoldingServicer.
func NewHoldingService(db *gorm.DB) HoldingServicer {
	return &holdingService{db: db}
}

func validateInput(input HoldingInput) error {
	switch input.Type {
	case models.AssetTypeStock, models.AssetTypeFund, models.AssetTypeFixed:
	default:
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Unknown asset type")
	}
	if input.Code == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Code is required")
	}
	if input.Quantity < 0 && input.Type == models.AssetTypeFixed {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "Principal cannot be negative")
	}
	if input.APY != 0 && input.Type != models.AssetTypeFixed {
		return apperrors.ErrInvalidAPY
	}
	return nil
}

// CreateOrAdd creates a new holding, or folds the addition into an existing
// position of the same user/code/type. Additions update the cost price to
// the weighted average of old and new lots; a sell that takes the position
// to or below zero clamps the quantity at zero.
func (s *holdingService) CreateOrAdd(userID uint, input HoldingInput) (*models.Holding, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var existing models.Holding
	err := s.db.Where("user_id = ? AND code = ? AND type = ?", userID, input.Code, input.Type).
		First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		holding := &models.Holding{
			UserID:    userID,
			Type:      input.Type,
			Name:      input.Name,
			Code:      input.Code,
			CostPrice: input.CostPrice,
			Quantity:  input.Quantity,
			Tag:       input.Tag,
			StartDate: input.StartDate,
			APY:       input.APY,
		}
		if err := s.db.Create(holding).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return holding, nil
	}

	qty, cost := valuation.WeightedCost(existing.Quantity, existing.CostPrice, input.Quantity, input.CostPrice)
	existing.Quantity = qty
	if qty > 0 {
		existing.CostPrice = cost
		if input.Name != "" {
			existing.Name = input.Name
		}
	}
	if err := s.db.Save(&existing).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &existing, nil
}

// Update overwrites a holding's fields directly, without cost averaging.
func (s *holdingService) Update(userID, holdingID uint, input HoldingInput) (*models.Holding, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	holding, err := s.getOwned(userID, holdingID)
	if err != nil {
		return nil, err
	}

	holding.Name = input.Name
	holding.Code = input.Code
	holding.CostPrice = input.CostPrice
	holding.Quantity = input.Quantity
	holding.Tag = input.Tag
	if input.StartDate != "" {
		holding.StartDate = input.StartDate
	}
	if input.APY != 0 {
		holding.APY = input.APY
	}

	if err := s.db.Save(holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holding, nil
}

// Delete removes a holding by ID, scoped to the owner.
func (s *holdingService) Delete(userID, holdingID uint) error {
	result := s.db.Where("user_id = ? AND id = ?", userID, holdingID).Delete(&models.Holding{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrHoldingNotFound
	}
	return nil
}

// List returns all holdings for a user, grouped by asset type.
func (s *holdingService) List(userID uint) (*HoldingGroups, error) {
	var holdings []models.Holding
	if err := s.db.Where("user_id = ?", userID).Order("id").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	groups := &HoldingGroups{
		Stocks:      []models.Holding{},
		Funds:       []models.Holding{},
		FixedIncome: []models.Holding{},
	}
	for _, h := range holdings {
		switch h.Type {
		case models.AssetTypeStock:
			groups.Stocks = append(groups.Stocks, h)
		case models.AssetTypeFund:
			groups.Funds = append(groups.Funds, h)
		case models.AssetTypeFixed:
			groups.FixedIncome = append(groups.FixedIncome, h)
		}
	}
	return groups, nil
}

// ListByType returns a user's holdings of one asset type.
func (s *holdingService) ListByType(userID uint, assetType models.AssetType) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.db.Where("user_id = ? AND type = ?", userID, assetType).
		Order("id").Find(&holdings).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return holdings, nil
}

func (s *holdingService) getOwned(userID, holdingID uint) (*models.Holding, error) {
	var holding models.Holding
	if err := s.db.Where("user_id = ? AND id = ?", userID, holdingID).First(&holding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &holding, nil
}
