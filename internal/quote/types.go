// Package quote fetches market data from upstream providers and reconciles
// the possibly conflicting answers into one trustworthy quote per instrument.
//
// Equities come from a single text feed (Sina or Tencent, selectable).
// Off-exchange funds have two feeds with different trust properties: an
// intraday estimate that can lag or be wrong for some share classes, and an
// authoritative end-of-day NAV that posts with latency. Reconcile picks
// between them per fund based on settlement-date freshness.
package quote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
)

// EquityQuote is a raw quote parsed from one line of an equity feed.
type EquityQuote struct {
	Code          string
	Name          string
	Price         float64
	PrevClose     float64
	ChangePercent float64
}

// FundEstimate is a row from the intraday fund estimate feed.
type FundEstimate struct {
	Code          string
	Name          string
	Price         float64 // estimated intraday price (gsz)
	ChangePercent float64 // estimated change vs last NAV (gszzl)
	NetValue      float64 // last published official NAV (dwjz)
	NAVDate       string  // date of that NAV (jzrq), YYYY-MM-DD
}

// FundNAV is a row from the authoritative end-of-day NAV feed.
type FundNAV struct {
	Code     string
	Name     string
	NetValue float64
	NAVDate  string // settlement date, YYYY-MM-DD
}

// Quote is a reconciled, provider-independent quote for one instrument.
type Quote struct {
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	ChangePercent float64 `json:"change"`
	NetValue      float64 `json:"net_value,omitempty"`  // funds: official NAV backing the price
	NAVDate       string  `json:"nav_date,omitempty"`   // funds: date of that NAV
	EstChange     float64 `json:"est_change,omitempty"` // funds: estimate feed change, kept for diagnostics
	Source        string  `json:"source"`
}

// Result is one reconciled fetch across a batch of instrument codes.
// Codes for which no adapter returned usable data are simply absent.
type Result struct {
	Timestamp string           `json:"timestamp"`
	Stocks    map[string]Quote `json:"stocks"`
	Funds     map[string]Quote `json:"funds"`
}

// ErrKind classifies an adapter failure.
type ErrKind string

const (
	ErrKindTimeout     ErrKind = "timeout"
	ErrKindUnreachable ErrKind = "unreachable"
	ErrKindMalformed   ErrKind = "malformed"
)

// FetchError is a typed, per-adapter-call failure. Adapter failures are
// never fatal to a refresh cycle; callers log them and treat the affected
// codes as absent.
type FetchError struct {
	Provider string
	Kind     ErrKind
	Err      error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error { return e.Err }

// newFetchError classifies err into a FetchError for the given provider.
func newFetchError(provider string, err error) *FetchError {
	kind := ErrKindUnreachable
	var netErr net.Error
	switch {
	case errors.As(err, &netErr) && netErr.Timeout(), os.IsTimeout(err), errors.Is(err, context.DeadlineExceeded):
		kind = ErrKindTimeout
	}
	return &FetchError{Provider: provider, Kind: kind, Err: err}
}

// malformed builds a FetchError for an unparseable payload.
func malformed(provider string, err error) *FetchError {
	return &FetchError{Provider: provider, Kind: ErrKindMalformed, Err: err}
}
