package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// stubFeeds serves all four upstream endpoints from one test server,
// routed by path, and counts requests per endpoint.
type stubFeeds struct {
	server *httptest.Server

	equityBody string
	navBody    string
	fundgzBody string
	equityCode int

	equityHits atomic.Int64
}

func newStubFeeds(t *testing.T) *stubFeeds {
	t.Helper()
	s := &stubFeeds{
		equityBody: "var hq_str_sh600519=\"MOUTAI,1690.00,1690.00,1700.00\";\n",
		navBody:    "var hq_str_f_161039=\"BAIJIU,1.2340,2.1,1.21,2024-01-03\";\n",
		fundgzBody: `jsonpgz({"fundcode":"161039","name":"BAIJIU","jzrq":"2024-01-02","dwjz":"1.2100","gsz":"1.2500","gszzl":"3.31"});`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/equity", func(w http.ResponseWriter, r *http.Request) {
		s.equityHits.Add(1)
		if s.equityCode != 0 {
			w.WriteHeader(s.equityCode)
			return
		}
		_, _ = w.Write([]byte(s.equityBody))
	})
	mux.HandleFunc("/nav", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.navBody))
	})
	mux.HandleFunc("/js/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(s.fundgzBody))
	})
	s.server = httptest.NewServer(mux)
	t.Cleanup(s.server.Close)
	return s
}

func (s *stubFeeds) client(ttl time.Duration) *Client {
	return NewClient(Options{
		Timeout:         2 * time.Second,
		CacheTTL:        ttl,
		SinaURL:         s.server.URL + "/equity?list=",
		TencentURL:      s.server.URL + "/equity?q=",
		FundEstimateURL: s.server.URL + "/js/%s.js?rt=%d",
		FundNAVURL:      s.server.URL + "/nav?list=",
	})
}

func TestFetchReconciled(t *testing.T) {
	feeds := newStubFeeds(t)
	c := feeds.client(time.Minute)

	result := c.FetchReconciled(context.Background(), []string{"600519"}, []string{"161039"}, SourceSina)

	q, ok := result.Stocks["600519"]
	if !ok {
		t.Fatalf("600519 missing from %+v", result.Stocks)
	}
	if q.Name != "MOUTAI" || q.Price != 1700 || q.ChangePercent != 0.59 {
		t.Errorf("equity quote = %+v", q)
	}

	f, ok := result.Funds["161039"]
	if !ok {
		t.Fatalf("161039 missing from %+v", result.Funds)
	}
	// The official NAV is dated 2024-01-03, fresher than the estimate's
	// reference NAV of 2024-01-02, so it wins.
	if f.Source != "official" || f.Price != 1.234 {
		t.Errorf("fund quote = %+v", f)
	}
}

func TestFetchReconciledCaches(t *testing.T) {
	feeds := newStubFeeds(t)
	c := feeds.client(time.Minute)

	first := c.FetchReconciled(context.Background(), []string{"600519"}, nil, SourceSina)
	feeds.equityBody = "var hq_str_sh600519=\"MOUTAI,1690.00,1690.00,1800.00\";\n"
	second := c.FetchReconciled(context.Background(), []string{"600519"}, nil, SourceSina)

	if first.Stocks["600519"].Price != second.Stocks["600519"].Price {
		t.Error("expected the second fetch to be served from cache")
	}
	if hits := feeds.equityHits.Load(); hits != 1 {
		t.Errorf("equity endpoint hit %d times, want 1", hits)
	}

	// A different source is a different cache key.
	c.FetchReconciled(context.Background(), []string{"600519"}, nil, SourceTencent)
	if hits := feeds.equityHits.Load(); hits != 2 {
		t.Errorf("equity endpoint hit %d times after source switch, want 2", hits)
	}

	t.Run("flush forces a refetch within the TTL", func(t *testing.T) {
		c.FlushCache()
		fresh := c.FetchReconciled(context.Background(), []string{"600519"}, nil, SourceSina)
		if fresh.Stocks["600519"].Price != 1800 {
			t.Errorf("price after flush = %v, want the updated feed value", fresh.Stocks["600519"].Price)
		}
		if hits := feeds.equityHits.Load(); hits != 3 {
			t.Errorf("equity endpoint hit %d times after flush, want 3", hits)
		}
	})
}

func TestFetchReconciledToleratesUpstreamFailure(t *testing.T) {
	feeds := newStubFeeds(t)
	feeds.equityCode = http.StatusInternalServerError
	c := feeds.client(time.Minute)

	result := c.FetchReconciled(context.Background(), []string{"600519"}, []string{"161039"}, SourceSina)
	if result == nil {
		t.Fatal("expected a usable result despite the equity failure")
	}
	if len(result.Stocks) != 0 {
		t.Errorf("expected no equity quotes, got %+v", result.Stocks)
	}
	if _, ok := result.Funds["161039"]; !ok {
		t.Errorf("fund quotes should survive an equity outage, got %+v", result.Funds)
	}
}

func TestCheck(t *testing.T) {
	feeds := newStubFeeds(t)
	c := feeds.client(time.Millisecond)

	t.Run("valid equity", func(t *testing.T) {
		name, price, ok := c.Check(context.Background(), "600519", false)
		if !ok || name != "MOUTAI" || price != 1700 {
			t.Errorf("Check = %q, %v, %v", name, price, ok)
		}
	})

	t.Run("valid fund", func(t *testing.T) {
		name, _, ok := c.Check(context.Background(), "161039", true)
		if !ok || name != "BAIJIU" {
			t.Errorf("Check = %q, ok=%v", name, ok)
		}
	})

	t.Run("empty code", func(t *testing.T) {
		if _, _, ok := c.Check(context.Background(), "", false); ok {
			t.Error("empty code should be invalid")
		}
	})

	t.Run("upstream failure is invalid, not an error", func(t *testing.T) {
		feeds.equityCode = http.StatusBadGateway
		defer func() { feeds.equityCode = 0 }()
		if _, _, ok := c.Check(context.Background(), "600519", false); ok {
			t.Error("expected ok=false on upstream failure")
		}
	})
}

func TestNewFetchErrorClassification(t *testing.T) {
	err := newFetchError("sina", context.DeadlineExceeded)
	if err.Kind != ErrKindTimeout {
		t.Errorf("kind = %v, want timeout", err.Kind)
	}
	err = newFetchError("sina", context.Canceled)
	if err.Kind != ErrKindUnreachable {
		t.Errorf("kind = %v, want unreachable", err.Kind)
	}
}
