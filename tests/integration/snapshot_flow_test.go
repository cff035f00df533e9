package integration

import (
	"net/http"
	"testing"
)

func TestSnapshotFlow(t *testing.T) {
	app := setupApp(t)
	token := app.bootstrapAdmin(t)

	rec := app.request("POST", "/api/v1/holdings",
		`{"asset_type":"stock","name":"贵州茅台","code":"600519","cost_price":1600,"quantity":10}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("create stock failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/holdings",
		`{"asset_type":"fixed","name":"存单","code":"cd-1","quantity":10000,"apy":3.65}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("create fixed failed: %d %s", rec.Code, rec.Body.String())
	}

	t.Run("manual trigger records a snapshot", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/push/test", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["status"] != "ok" {
			t.Errorf("status = %v", result["status"])
		}
		snap := result["snapshot"].(map[string]interface{})
		// 10 shares at the quoted 1700 plus the fixed income principal.
		if snap["total_asset"].(float64) != 27000 {
			t.Errorf("total_asset = %v, want 27000", snap["total_asset"])
		}
		if snap["fixed_profit"].(float64) != 1 {
			t.Errorf("fixed_profit = %v, want 1", snap["fixed_profit"])
		}
	})

	t.Run("rerun on the same day overwrites", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/push/test", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}

		rec = app.request("GET", "/api/v1/snapshots", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("history failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["total_items"].(float64) != 1 {
			t.Errorf("total_items = %v, want a single overwritten row", result["total_items"])
		}
	})

	t.Run("configured webhook receives the report", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/settings/webhook",
			`{"webhook_url":"`+app.Feeds.URL()+`/webhook"}`, token)
		if rec.Code != http.StatusOK {
			t.Fatalf("set webhook failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("POST", "/api/v1/push/test", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("trigger failed: %d %s", rec.Code, rec.Body.String())
		}
		if hits := app.Feeds.WebhookHits.Load(); hits != 1 {
			t.Errorf("webhook hits = %d, want 1", hits)
		}
	})

	t.Run("webhook round trip through settings", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/settings/webhook", "", token)
		if rec.Code != http.StatusOK {
			t.Fatalf("get webhook failed: %d %s", rec.Code, rec.Body.String())
		}
		if parseJSON(t, rec)["webhook_url"] != app.Feeds.URL()+"/webhook" {
			t.Errorf("body = %s", rec.Body.String())
		}
	})

	t.Run("snapshots require auth", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/snapshots", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}
