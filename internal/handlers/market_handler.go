package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "caishen/internal/errors"
	"caishen/internal/models"
	"caishen/internal/quote"
	"caishen/internal/services"
)

// MarketHandler handles live market data requests.
type MarketHandler struct {
	holdingService services.HoldingServicer
	quotes         services.QuoteProvider
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(holdingService services.HoldingServicer, quotes services.QuoteProvider) *MarketHandler {
	return &MarketHandler{holdingService: holdingService, quotes: quotes}
}

// RefreshQuery represents the refresh query parameters.
type RefreshQuery struct {
	Source string `form:"source" binding:"equity_source"`
}

// CheckQuery represents the instrument check query parameters.
type CheckQuery struct {
	Code string           `form:"code" binding:"required,instrument_code"`
	Type models.AssetType `form:"type" binding:"omitempty,asset_type"`
}

// Refresh handles fetching reconciled live quotes for the caller's holdings.
// @Summary     Refresh market data
// @Description Fetch reconciled live quotes for all of the user's stock and fund holdings
// @Tags        market
// @Produce     json
// @Security    BearerAuth
// @Param       source query string false "Equity feed: sina (default) or tencent"
// @Success     200 {object} quote.Result "Reconciled quotes keyed by code"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /market/refresh [get]
func (h *MarketHandler) Refresh(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query RefreshQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	source := quote.SourceSina
	if query.Source == string(quote.SourceTencent) {
		source = quote.SourceTencent
	}

	stocks, err := h.holdingService.ListByType(userID, models.AssetTypeStock)
	if err != nil {
		respondWithError(c, err)
		return
	}
	funds, err := h.holdingService.ListByType(userID, models.AssetTypeFund)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result := h.quotes.FetchReconciled(c.Request.Context(), holdingCodes(stocks), holdingCodes(funds), source)
	c.JSON(http.StatusOK, result)
}

// Check handles probing whether an instrument code resolves to a live quote.
// Failure detail is deliberately collapsed into a valid/invalid boolean.
// @Summary     Check instrument code
// @Description Probe an instrument code against the live feeds, returning valid/invalid plus name and price
// @Tags        market
// @Produce     json
// @Param       code query string true  "Instrument code"
// @Param       type query string false "Asset type: stock (default) or fund"
// @Success     200 {object} map[string]interface{} "Validity, name, price"
// @Router      /market/check [get]
func (h *MarketHandler) Check(c *gin.Context) {
	var query CheckQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	name, price, ok := h.quotes.Check(c.Request.Context(), query.Code, query.Type == models.AssetTypeFund)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true, "name": name, "price": price})
}

func holdingCodes(holdings []models.Holding) []string {
	codes := make([]string, 0, len(holdings))
	for _, h := range holdings {
		codes = append(codes, h.Code)
	}
	return codes
}
