package quote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"caishen/internal/logger"
)

// Source selects the equity feed for a fetch.
type Source string

const (
	SourceSina    Source = "sina"
	SourceTencent Source = "tencent"
)

// Options configures a Client. Zero values fall back to the real upstream
// endpoints and conservative timeouts; tests point the URLs at stubs.
type Options struct {
	Timeout         time.Duration
	CacheTTL        time.Duration
	SinaURL         string
	TencentURL      string
	FundEstimateURL string
	FundNAVURL      string
}

// Client fetches and reconciles market data. A short-TTL cache in front of
// the upstream feeds keeps refresh bursts from hammering them; entries are
// keyed by source and code batch.
type Client struct {
	httpClient *http.Client
	cache      *gocache.Cache
	opts       Options
}

// NewClient creates a quote client with the given options.
func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 3 * time.Second
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = 20 * time.Second
	}
	if opts.SinaURL == "" {
		opts.SinaURL = defaultSinaURL
	}
	if opts.TencentURL == "" {
		opts.TencentURL = defaultTencentURL
	}
	if opts.FundEstimateURL == "" {
		opts.FundEstimateURL = defaultFundEstimateURL
	}
	if opts.FundNAVURL == "" {
		opts.FundNAVURL = defaultFundNAVURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		cache:      gocache.New(opts.CacheTTL, 2*opts.CacheTTL),
		opts:       opts,
	}
}

// FetchReconciled fetches and reconciles quotes for the given equity and
// fund codes. Adapter failures are logged and never propagated: affected
// codes are simply absent from the result, so the method always returns a
// usable Result.
func (c *Client) FetchReconciled(ctx context.Context, equityCodes, fundCodes []string, source Source) *Result {
	key := string(source) + "|" + strings.Join(equityCodes, ",") + "|" + strings.Join(fundCodes, ",")
	if cached, found := c.cache.Get(key); found {
		return cached.(*Result)
	}

	var (
		wg        sync.WaitGroup
		equities  map[string]EquityQuote
		estimates map[string]FundEstimate
		officials map[string]FundNAV
	)

	// The three upstream calls have no ordering dependency.
	wg.Add(3)
	go func() {
		defer wg.Done()
		var err error
		if source == SourceTencent {
			equities, err = c.fetchTencentEquities(ctx, equityCodes)
		} else {
			equities, err = c.fetchSinaEquities(ctx, equityCodes)
		}
		logFetchError(err)
	}()
	go func() {
		defer wg.Done()
		var err error
		estimates, err = c.fetchFundEstimates(ctx, fundCodes)
		logFetchError(err)
	}()
	go func() {
		defer wg.Done()
		var err error
		officials, err = c.fetchFundNAVs(ctx, fundCodes)
		logFetchError(err)
	}()
	wg.Wait()

	now := time.Now()
	result := &Result{
		Timestamp: now.Format("15:04:05"),
		Stocks:    ReconcileEquities(equities, string(source)),
		Funds:     ReconcileFunds(estimates, officials, now.Format("2006-01-02")),
	}

	c.cache.Set(key, result, gocache.DefaultExpiration)
	return result
}

// FlushCache drops every cached result so the next fetch goes back to the
// upstream feeds regardless of TTL.
func (c *Client) FlushCache() {
	c.cache.Flush()
}

// Check probes a single instrument code and reports whether it resolves to
// a live quote. All failure detail is collapsed into ok=false; callers
// surface a plain valid/invalid answer.
func (c *Client) Check(ctx context.Context, code string, fund bool) (name string, price float64, ok bool) {
	if code == "" {
		return "", 0, false
	}

	if fund {
		result := c.FetchReconciled(ctx, nil, []string{code}, SourceSina)
		q, found := result.Funds[code]
		if !found || q.Price <= 0 {
			return "", 0, false
		}
		return q.Name, q.Price, true
	}

	quotes, err := c.fetchSinaEquities(ctx, []string{code})
	if err != nil {
		return "", 0, false
	}
	q, found := quotes[code]
	if !found || q.Price <= 0 {
		return "", 0, false
	}
	return q.Name, q.Price, true
}

// getText performs a GET with the client timeout and decodes the GBK body.
func (c *Client) getText(ctx context.Context, url, referer string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; caishen/1.0)")
	if referer != "" {
		req.Header.Set("Referer", referer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return decodeGBK(resp.Body)
}

func logFetchError(err error) {
	if err == nil {
		return
	}
	if fe, ok := err.(*FetchError); ok {
		logger.Get().Warnw("quote fetch failed", "provider", fe.Provider, "kind", string(fe.Kind), "error", fe.Err)
		return
	}
	logger.Get().Warnw("quote fetch failed", "error", err)
}
