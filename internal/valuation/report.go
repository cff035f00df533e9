package valuation

import (
	"fmt"
	"strings"
)

// reportThreshold hides instruments whose absolute day change is at or
// below this percentage, to keep the pushed report readable.
const reportThreshold = 0.1

// FormatReport renders the daily text report pushed to the webhook:
// date header, totals, then per-type sections listing only the movers.
func FormatReport(s *Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📅 资产日报 %s\n", s.Date)
	b.WriteString("----------------\n")
	fmt.Fprintf(&b, "💰 总资产: ¥%.2f\n", s.TotalAsset)
	sign := ""
	if s.TotalProfit >= 0 {
		sign = "+"
	}
	fmt.Fprintf(&b, "📊 今日盈亏: %s¥%.2f\n", sign, s.TotalProfit)
	b.WriteString("----------------")

	writeSection(&b, "【股票/ETF】", s.Stocks)
	writeSection(&b, "【场外基金】", s.Funds)

	return b.String()
}

func writeSection(b *strings.Builder, heading string, lines []Line) {
	var movers []Line
	for _, line := range lines {
		if line.ChangePercent > reportThreshold || line.ChangePercent < -reportThreshold {
			movers = append(movers, line)
		}
	}
	if len(movers) == 0 {
		return
	}

	b.WriteString("\n" + heading)
	for _, line := range movers {
		icon := "📈"
		if line.ChangePercent < 0 {
			icon = "📉"
		}
		fmt.Fprintf(b, "\n%s %s: %.2f%%", icon, line.Name, line.ChangePercent)
		if line.NAVDate != "" {
			fmt.Fprintf(b, " (%s)", line.NAVDate)
		}
	}
}
