package navfeed

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one line of the NAV feed.
type Quote struct {
	SchemeCode   string
	ISINGrowth   string
	ISINReinvest string
	SchemeName   string
	NAV          decimal.Decimal
	Date         time.Time
}

// Feed is a parsed NAV file. Skipped counts data lines that could not be used.
type Feed struct {
	Quotes  []Quote
	Skipped int
}

// ByCode indexes quotes by scheme code. A later line for the same code wins.
func (f *Feed) ByCode() map[string]Quote {
	quotes := make(map[string]Quote, len(f.Quotes))
	for _, q := range f.Quotes {
		quotes[q.SchemeCode] = q
	}
	return quotes
}
