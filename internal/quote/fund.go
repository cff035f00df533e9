package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	defaultFundEstimateURL = "http://fundgz.1234567.com.cn/js/%s.js?rt=%d"
	defaultFundNAVURL      = "http://hq.sinajs.cn/list="
)

var jsonpRE = regexp.MustCompile(`jsonpgz\((.*)\);?`)

// fundgzPayload mirrors the estimate feed's JSONP body. All numeric fields
// arrive as strings.
type fundgzPayload struct {
	Code      string `json:"fundcode"`
	Name      string `json:"name"`
	NAVDate   string `json:"jzrq"`   // date of the last official NAV
	NetValue  string `json:"dwjz"`   // that NAV
	EstPrice  string `json:"gsz"`    // intraday estimated price
	EstChange string `json:"gszzl"`  // estimated change percent
	EstTime   string `json:"gztime"` // estimate timestamp, unused
}

// fetchFundEstimates queries the intraday estimate feed, one request per
// fund code (the feed has no batch form). A failed or unparseable code is
// skipped; the call only fails as a whole when every code failed.
func (c *Client) fetchFundEstimates(ctx context.Context, codes []string) (map[string]FundEstimate, error) {
	estimates := make(map[string]FundEstimate, len(codes))
	var lastErr error
	for _, code := range codes {
		url := fmt.Sprintf(c.opts.FundEstimateURL, code, time.Now().UnixMilli())
		body, err := c.getText(ctx, url, "")
		if err != nil {
			lastErr = newFetchError("fundgz", err)
			continue
		}
		est, err := parseFundEstimate(body)
		if err != nil {
			lastErr = err
			continue
		}
		if est.Code == "" {
			est.Code = code
		}
		estimates[est.Code] = est
	}
	if len(estimates) == 0 && len(codes) > 0 {
		return nil, lastErr
	}
	return estimates, nil
}

// parseFundEstimate unwraps the jsonpgz(...) callback and decodes the row.
func parseFundEstimate(body string) (FundEstimate, error) {
	m := jsonpRE.FindStringSubmatch(body)
	if m == nil {
		return FundEstimate{}, malformed("fundgz", errors.New("missing jsonpgz callback"))
	}
	var payload fundgzPayload
	if err := json.Unmarshal([]byte(m[1]), &payload); err != nil {
		return FundEstimate{}, malformed("fundgz", err)
	}
	return FundEstimate{
		Code:          payload.Code,
		Name:          payload.Name,
		Price:         parseFloatOrZero(payload.EstPrice),
		ChangePercent: parseFloatOrZero(payload.EstChange),
		NetValue:      parseFloatOrZero(payload.NetValue),
		NAVDate:       payload.NAVDate,
	}, nil
}

// fetchFundNAVs queries the official end-of-day NAV feed in one batch
// using f_-prefixed symbols.
func (c *Client) fetchFundNAVs(ctx context.Context, codes []string) (map[string]FundNAV, error) {
	if len(codes) == 0 {
		return map[string]FundNAV{}, nil
	}

	symbols := make([]string, len(codes))
	for i, code := range codes {
		symbols[i] = "f_" + code
	}

	body, err := c.getText(ctx, c.opts.FundNAVURL+strings.Join(symbols, ","), sinaReferer)
	if err != nil {
		return nil, newFetchError("fund-nav", err)
	}

	navs := parseFundNAVs(body)
	if len(navs) == 0 {
		return nil, malformed("fund-nav", errors.New("no parseable NAV lines"))
	}
	return navs, nil
}

// parseFundNAVs parses the official NAV payload. Fields per line:
// 0 name, 1 unit NAV, 2 accumulated NAV, 3 previous NAV, 4 settlement date.
func parseFundNAVs(body string) map[string]FundNAV {
	navs := make(map[string]FundNAV)
	for _, line := range splitFeedLines(body) {
		fields := strings.Split(line.payload, ",")
		if len(fields) < 5 {
			continue
		}
		nav, err := strconv.ParseFloat(fields[1], 64)
		if err != nil || nav <= 0 {
			continue
		}
		// splitFeedLines already strips everything up to the last underscore,
		// so the f_ prefix is gone and the symbol is the bare code.
		code := line.symbol
		navs[code] = FundNAV{
			Code:     code,
			Name:     fields[0],
			NetValue: nav,
			NAVDate:  strings.TrimSpace(fields[4]),
		}
	}
	return navs
}

func parseFloatOrZero(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
