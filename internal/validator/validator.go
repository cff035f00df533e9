// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Instrument codes are all-digit: 6 digits for equities and funds, but the
// check stays loose enough for ETF and bond codes.
var instrumentCodeRegex = regexp.MustCompile(`^[0-9]{5,6}$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("asset_type", validateAssetType)
		_ = v.RegisterValidation("instrument_code", validateInstrumentCode)
		_ = v.RegisterValidation("equity_source", validateEquitySource)
	}
}

func validateAssetType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "stock", "fund", "fixed":
		return true
	}
	return false
}

func validateInstrumentCode(fl validator.FieldLevel) bool {
	return instrumentCodeRegex.MatchString(fl.Field().String())
}

func validateEquitySource(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", "sina", "tencent":
		return true
	}
	return false
}
