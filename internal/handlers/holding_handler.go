package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "caishen/internal/errors"
	"caishen/internal/models"
	"caishen/internal/services"
)

// HoldingHandler handles holding-related requests.
type HoldingHandler struct {
	holdingService services.HoldingServicer
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService services.HoldingServicer) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService}
}

// HoldingRequest represents the payload for creating or updating a holding.
type HoldingRequest struct {
	AssetType models.AssetType `json:"asset_type" binding:"required,asset_type"`
	Name      string           `json:"name" binding:"max=200"`
	Code      string           `json:"code" binding:"required,max=20"`
	CostPrice float64          `json:"cost_price" binding:"gte=0"`
	Quantity  float64          `json:"quantity"`
	Tag       string           `json:"tag" binding:"max=50"`
	StartDate string           `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	APY       float64          `json:"apy" binding:"gte=0,lte=100"`
}

func (r HoldingRequest) toInput() services.HoldingInput {
	return services.HoldingInput{
		Type:      r.AssetType,
		Name:      r.Name,
		Code:      r.Code,
		CostPrice: r.CostPrice,
		Quantity:  r.Quantity,
		Tag:       r.Tag,
		StartDate: r.StartDate,
		APY:       r.APY,
	}
}

// CreateOrAdd handles adding a holding, or increasing an existing position.
// @Summary     Add holding
// @Description Create a holding, or merge into an existing position of the same code using weighted-average cost
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body HoldingRequest true "Holding details"
// @Success     200 {object} models.Holding "Holding created or updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /holdings [post]
func (h *HoldingHandler) CreateOrAdd(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.holdingService.CreateOrAdd(userID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// Update handles overwriting a holding directly.
// @Summary     Update holding
// @Description Overwrite a holding's fields by ID, without cost averaging
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int            true "Holding ID"
// @Param       request body HoldingRequest true "New field values"
// @Success     200 {object} models.Holding "Updated holding"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [put]
func (h *HoldingHandler) Update(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req HoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	holding, err := h.holdingService.Update(userID, holdingID, req.toInput())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// Delete handles removing a holding.
// @Summary     Delete holding
// @Description Delete a holding by ID
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Holding ID"
// @Success     200 {object} map[string]string "Deleted"
// @Failure     404 {object} ErrorResponse "Holding not found"
// @Router      /holdings/{id} [delete]
func (h *HoldingHandler) Delete(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.holdingService.Delete(userID, holdingID); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// List handles listing all holdings, grouped by asset type.
// @Summary     List holdings
// @Description List all holdings for the authenticated user, grouped by asset type
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.HoldingGroups "Grouped holdings"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /holdings [get]
func (h *HoldingHandler) List(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.holdingService.List(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}
