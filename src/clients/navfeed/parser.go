package navfeed

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	fieldCount = 6
	dateLayout = "02-Jan-2006"
	navPlaces  = 4
)

// Parse reads a semicolon separated NAV file:
//
//	Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date
//
// Blank lines, section titles and the header are ignored. Data lines with a
// missing, non-positive or over-precise NAV are counted as skipped.
func Parse(r io.Reader) (*Feed, error) {
	feed := &Feed{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ";")
		if len(fields) != fieldCount {
			continue
		}
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if strings.EqualFold(fields[0], "Scheme Code") {
			continue
		}

		quote, ok := parseQuote(fields)
		if !ok {
			feed.Skipped++
			continue
		}
		feed.Quotes = append(feed.Quotes, quote)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return feed, nil
}

func parseQuote(fields []string) (Quote, bool) {
	if fields[0] == "" {
		return Quote{}, false
	}
	nav, err := decimal.NewFromString(fields[4])
	if err != nil || !nav.IsPositive() || !nav.Equal(nav.Truncate(navPlaces)) {
		return Quote{}, false
	}
	date, err := time.Parse(dateLayout, fields[5])
	if err != nil {
		return Quote{}, false
	}
	return Quote{
		SchemeCode:   fields[0],
		ISINGrowth:   emptyDash(fields[1]),
		ISINReinvest: emptyDash(fields[2]),
		SchemeName:   fields[3],
		NAV:          nav,
		Date:         date,
	}, true
}

func emptyDash(s string) string {
	if s == "-" {
		return ""
	}
	return s
}
