package quote

import (
	"errors"
	"testing"
)

func TestParseFundEstimate(t *testing.T) {
	body := `jsonpgz({"fundcode":"005827","name":"易方达蓝筹精选混合","jzrq":"2024-01-02","dwjz":"1.5000","gsz":"1.5500","gszzl":"2.50","gztime":"2024-01-03 14:30"});`

	est, err := parseFundEstimate(body)
	if err != nil {
		t.Fatalf("parseFundEstimate: %v", err)
	}
	if est.Code != "005827" {
		t.Errorf("code = %q", est.Code)
	}
	if est.Price != 1.55 || est.ChangePercent != 2.5 {
		t.Errorf("price/change = %v/%v, want 1.55/2.5", est.Price, est.ChangePercent)
	}
	if est.NetValue != 1.5 || est.NAVDate != "2024-01-02" {
		t.Errorf("nav/date = %v/%q", est.NetValue, est.NAVDate)
	}
}

func TestParseFundEstimateMalformed(t *testing.T) {
	for name, body := range map[string]string{
		"no callback": `{"fundcode":"005827"}`,
		"bad json":    `jsonpgz(not json);`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := parseFundEstimate(body)
			if err == nil {
				t.Fatal("expected an error")
			}
			var fe *FetchError
			if !errors.As(err, &fe) || fe.Kind != ErrKindMalformed {
				t.Errorf("expected a malformed FetchError, got %v", err)
			}
		})
	}
}

func TestParseFundNAVs(t *testing.T) {
	body := "var hq_str_f_161039=\"招商中证白酒,1.2340,2.1000,1.2100,2024-01-03\";\n" +
		"var hq_str_f_000000=\"未知基金,0.0000,0,0,2024-01-03\";\n" +
		"var hq_str_f_161725=\"短,1.10\";\n"

	navs := parseFundNAVs(body)
	if len(navs) != 1 {
		t.Fatalf("expected 1 NAV, got %d: %+v", len(navs), navs)
	}
	nav := navs["161039"]
	if nav.Name != "招商中证白酒" || nav.NetValue != 1.234 || nav.NAVDate != "2024-01-03" {
		t.Errorf("nav = %+v", nav)
	}
}

func TestParseFloatOrZero(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"1.55", 1.55},
		{" 2.5 ", 2.5},
		{"", 0},
		{"--", 0},
	}
	for _, tc := range cases {
		if got := parseFloatOrZero(tc.in); got != tc.want {
			t.Errorf("parseFloatOrZero(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
