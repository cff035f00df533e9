package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestHoldingFlow(t *testing.T) {
	app := setupApp(t)
	token := app.bootstrapAdmin(t)

	var holdingID float64

	t.Run("create a stock holding", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/holdings",
			`{"asset_type":"stock","name":"贵州茅台","code":"600519","cost_price":1600,"quantity":10}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		holding := parseJSON(t, rec)["holding"].(map[string]interface{})
		holdingID = holding["id"].(float64)
		if holdingID == 0 {
			t.Fatal("missing holding id")
		}
	})

	t.Run("adding the same code merges the position", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/holdings",
			`{"asset_type":"stock","code":"600519","cost_price":1700,"quantity":10}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		holding := parseJSON(t, rec)["holding"].(map[string]interface{})
		if holding["id"].(float64) != holdingID {
			t.Errorf("merge created a new row: %v vs %v", holding["id"], holdingID)
		}
		if holding["quantity"].(float64) != 20 {
			t.Errorf("quantity = %v, want 20", holding["quantity"])
		}
		if holding["cost_price"].(float64) != 1650 {
			t.Errorf("cost_price = %v, want the weighted average 1650", holding["cost_price"])
		}
	})

	t.Run("list groups by asset type", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/holdings",
			`{"asset_type":"fund","name":"招商白酒","code":"161039","cost_price":1.2,"quantity":10000}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("create fund failed: %d %s", rec.Code, rec.Body.String())
		}
		rec = app.request("POST", "/api/v1/holdings",
			`{"asset_type":"fixed","name":"存单","code":"cd-1","quantity":10000,"apy":3.65,"start_date":"2024-01-01"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("create fixed failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/holdings", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if len(result["stocks"].([]interface{})) != 1 {
			t.Errorf("stocks = %v", result["stocks"])
		}
		if len(result["funds"].([]interface{})) != 1 {
			t.Errorf("funds = %v", result["funds"])
		}
		if len(result["fixed_income"].([]interface{})) != 1 {
			t.Errorf("fixed_income = %v", result["fixed_income"])
		}
	})

	t.Run("update overwrites fields", func(t *testing.T) {
		rec := app.request("PUT", fmt.Sprintf("/api/v1/holdings/%.0f", holdingID),
			`{"asset_type":"stock","name":"贵州茅台","code":"600519","cost_price":1500,"quantity":5}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		holding := parseJSON(t, rec)["holding"].(map[string]interface{})
		if holding["quantity"].(float64) != 5 || holding["cost_price"].(float64) != 1500 {
			t.Errorf("holding = %v", holding)
		}
	})

	t.Run("apy on a stock is rejected", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/holdings",
			`{"asset_type":"stock","code":"000001","apy":3}`, token)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("delete removes the holding", func(t *testing.T) {
		rec := app.request("DELETE", fmt.Sprintf("/api/v1/holdings/%.0f", holdingID), "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		rec = app.request("DELETE", fmt.Sprintf("/api/v1/holdings/%.0f", holdingID), "", token)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 on the second delete, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("holdings require auth", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/holdings", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
		}
	})
}
