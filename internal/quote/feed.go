package quote

import (
	"io"
	"math"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// feedLine is one `var hq_str_X="payload";` entry of an hq-style text feed.
type feedLine struct {
	symbol  string
	payload string
}

// splitFeedLines parses the semi-structured assignment lines the hq-style
// feeds return, one instrument per line. Lines that do not look like an
// assignment are skipped rather than treated as a failure; partial batches
// are normal (unknown codes simply produce empty payloads).
func splitFeedLines(body string) []feedLine {
	var lines []feedLine
	for _, raw := range strings.Split(body, "\n") {
		idx := strings.Index(raw, `="`)
		if idx < 0 {
			continue
		}
		head := raw[:idx]
		symbol := head[strings.LastIndex(head, "_")+1:]
		payload := strings.TrimSuffix(strings.TrimSpace(raw[idx+2:]), `;`)
		payload = strings.TrimSuffix(payload, `"`)
		if symbol == "" || payload == "" {
			continue
		}
		lines = append(lines, feedLine{symbol: symbol, payload: payload})
	}
	return lines
}

// decodeGBK converts a GBK-encoded feed body to UTF-8. Both Sina and
// Tencent serve instrument names in GBK.
func decodeGBK(r io.Reader) (string, error) {
	decoded, err := io.ReadAll(transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()))
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// round2 rounds to two decimals, matching the precision the feeds publish
// change percentages with.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
