package quote

import "strings"

// ExchangeSymbol maps a bare instrument code to its exchange-qualified
// feed symbol. The mapping is a pure function of the leading digits,
// first matching prefix wins:
//
//	5, 6, 9, 11 -> Shanghai (main board, SSE ETFs, B shares, SSE bonds)
//	0, 1, 3     -> Shenzhen (main board, SZSE ETFs, ChiNext)
//	4, 8        -> Beijing
//
// Anything else falls back to Shanghai so the result is always qualified.
func ExchangeSymbol(code string) string {
	switch {
	case hasAnyPrefix(code, "11", "5", "6", "9"):
		return "sh" + code
	case hasAnyPrefix(code, "0", "1", "3"):
		return "sz" + code
	case hasAnyPrefix(code, "4", "8"):
		return "bj" + code
	default:
		return "sh" + code
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// stripExchange drops a two-letter exchange prefix from a feed symbol,
// returning the bare instrument code.
func stripExchange(symbol string) string {
	if len(symbol) > 2 {
		return symbol[2:]
	}
	return symbol
}
