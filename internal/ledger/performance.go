package ledger

import "errors"

// ErrZeroBasis is returned when the oldest record in the window values the
// account at zero: the percent-return formula is undefined there and must not
// be silently coerced.
var ErrZeroBasis = errors.New("performance basis is zero")

// Performance computes the realized percent return over the record window.
// Records arrive most recent first, the way RecentTrades returns them.
//
// Policy, explicit because it is easy to get wrong: an empty window means
// "no history", which is 0% drift, not an error; a single record has
// initial == final and is likewise exactly 0.
func Performance(records []TradeRecord) (float64, error) {
	if len(records) <= 1 {
		return 0, nil
	}
	initial := records[len(records)-1]
	final := records[0]
	initialTotal := initial.KRWBalance + initial.BTCBalance*initial.ReferencePrice
	finalTotal := final.KRWBalance + final.BTCBalance*final.ReferencePrice
	if initialTotal == 0 {
		return 0, ErrZeroBasis
	}
	return (finalTotal - initialTotal) / initialTotal * 100, nil
}
