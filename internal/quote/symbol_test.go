package quote

import "testing"

func TestExchangeSymbol(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"600519", "sh600519"}, // SSE main board
		{"510300", "sh510300"}, // SSE ETF
		{"900948", "sh900948"}, // SSE B share
		{"113050", "sh113050"}, // SSE convertible bond: "11" wins over "1"
		{"000001", "sz000001"}, // SZSE main board
		{"159915", "sz159915"}, // SZSE ETF
		{"300750", "sz300750"}, // ChiNext
		{"430047", "bj430047"}, // Beijing
		{"830799", "bj830799"},
		{"20001", "sh20001"}, // "2" matches no rule, default Shanghai
		{"ABCDEF", "shABCDEF"}, // no digit match falls back to Shanghai
		{"", "sh"},
	}
	for _, tc := range cases {
		if got := ExchangeSymbol(tc.code); got != tc.want {
			t.Errorf("ExchangeSymbol(%q) = %q, want %q", tc.code, got, tc.want)
		}
	}
}

func TestExchangeSymbolAlwaysQualified(t *testing.T) {
	for _, code := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9"} {
		got := ExchangeSymbol(code)
		if len(got) != len(code)+2 {
			t.Errorf("ExchangeSymbol(%q) = %q, expected a two-letter prefix", code, got)
		}
	}
}
