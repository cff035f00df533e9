package quote

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

const (
	defaultSinaURL = "http://hq.sinajs.cn/list="

	// The feed returns an empty body without a finance.sina.com.cn referer.
	sinaReferer = "https://finance.sina.com.cn/"
)

// fetchSinaEquities queries the Sina quote feed for a batch of bare
// instrument codes and returns a map keyed by bare code. Best effort:
// unparseable lines are skipped, a failed request returns a FetchError.
func (c *Client) fetchSinaEquities(ctx context.Context, codes []string) (map[string]EquityQuote, error) {
	if len(codes) == 0 {
		return map[string]EquityQuote{}, nil
	}

	symbols := make([]string, len(codes))
	for i, code := range codes {
		symbols[i] = ExchangeSymbol(code)
	}

	body, err := c.getText(ctx, c.opts.SinaURL+strings.Join(symbols, ","), sinaReferer)
	if err != nil {
		return nil, newFetchError("sina", err)
	}

	quotes := parseSinaEquities(body)
	if len(quotes) == 0 {
		return nil, malformed("sina", errors.New("no parseable quote lines"))
	}
	return quotes, nil
}

// parseSinaEquities parses the Sina equity payload. Relevant fields per
// line: 0 name, 2 previous close, 3 last price. The change percentage is
// always recomputed from the previous close; the feed does not publish one.
func parseSinaEquities(body string) map[string]EquityQuote {
	quotes := make(map[string]EquityQuote)
	for _, line := range splitFeedLines(body) {
		fields := strings.Split(line.payload, ",")
		if len(fields) <= 3 {
			continue
		}
		prevClose, err1 := strconv.ParseFloat(fields[2], 64)
		price, err2 := strconv.ParseFloat(fields[3], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		code := stripExchange(line.symbol)
		quotes[code] = normalizeEquity(EquityQuote{
			Code:      code,
			Name:      fields[0],
			Price:     price,
			PrevClose: prevClose,
		})
	}
	return quotes
}

// normalizeEquity applies the shared equity fixups: a zero price with a
// positive previous close means a halted or pre-auction instrument, so the
// previous close stands in and the day is flat. When the previous close is
// usable, the change percentage is recomputed from it in preference to any
// provider-supplied figure, which can be stale or over-rounded.
func normalizeEquity(q EquityQuote) EquityQuote {
	if q.Price == 0 && q.PrevClose > 0 {
		q.Price = q.PrevClose
		q.ChangePercent = 0
		return q
	}
	if q.PrevClose > 0 {
		q.ChangePercent = round2((q.Price - q.PrevClose) / q.PrevClose * 100)
	} else {
		q.ChangePercent = round2(q.ChangePercent)
	}
	return q
}
