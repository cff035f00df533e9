package quote

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

const defaultTencentURL = "http://qt.gtimg.cn/q="

// Tencent payload field positions (separator '~').
const (
	tencentFieldName      = 1
	tencentFieldPrice     = 3
	tencentFieldPrevClose = 4
	tencentFieldChangePct = 32
)

// fetchTencentEquities queries the Tencent quote feed, the alternate
// equity source. Same contract as fetchSinaEquities.
func (c *Client) fetchTencentEquities(ctx context.Context, codes []string) (map[string]EquityQuote, error) {
	if len(codes) == 0 {
		return map[string]EquityQuote{}, nil
	}

	symbols := make([]string, len(codes))
	for i, code := range codes {
		symbols[i] = ExchangeSymbol(code)
	}

	body, err := c.getText(ctx, c.opts.TencentURL+strings.Join(symbols, ","), "")
	if err != nil {
		return nil, newFetchError("tencent", err)
	}

	quotes := parseTencentEquities(body)
	if len(quotes) == 0 {
		return nil, malformed("tencent", errors.New("no parseable quote lines"))
	}
	return quotes, nil
}

// parseTencentEquities parses the Tencent equity payload. Unlike Sina the
// feed carries its own change percentage, but it is only trusted when the
// previous close is unusable; see normalizeEquity.
func parseTencentEquities(body string) map[string]EquityQuote {
	quotes := make(map[string]EquityQuote)
	for _, line := range splitFeedLines(body) {
		fields := strings.Split(line.payload, "~")
		if len(fields) <= tencentFieldChangePct {
			continue
		}
		price, err := strconv.ParseFloat(fields[tencentFieldPrice], 64)
		if err != nil {
			continue
		}
		// Previous close and change percent are secondary; a parse failure
		// leaves them zero rather than dropping the whole line.
		prevClose, _ := strconv.ParseFloat(fields[tencentFieldPrevClose], 64)
		changePct, _ := strconv.ParseFloat(fields[tencentFieldChangePct], 64)

		code := stripExchange(line.symbol)
		quotes[code] = normalizeEquity(EquityQuote{
			Code:          code,
			Name:          fields[tencentFieldName],
			Price:         price,
			PrevClose:     prevClose,
			ChangePercent: changePct,
		})
	}
	return quotes
}
