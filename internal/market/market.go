// Package market holds the fixed catalog of tradable markets, their grouping
// into the three tier-markets, and the per-market voting close times.
package market

import (
	"time"

	"votingman/internal/season"
)

// Market is one underlying tradable venue with a daily poll.
type Market string

const (
	BTC    Market = "btc"
	NDQ    Market = "ndq"
	SP500  Market = "sp500"
	KOSPI  Market = "kospi"
	KOSDAQ Market = "kosdaq"
)

// TierMarket is one of the three top-level groupings ranking is computed
// under.
type TierMarket string

const (
	TierBTC TierMarket = "btc"
	TierUS  TierMarket = "us"
	TierKR  TierMarket = "kr"
)

// All lists every underlying market, in display order.
var All = []Market{BTC, NDQ, SP500, KOSPI, KOSDAQ}

// TierMarkets lists the three groupings in their canonical order.
var TierMarkets = []TierMarket{TierBTC, TierUS, TierKR}

var tierByMarket = map[Market]TierMarket{
	BTC:    TierBTC,
	NDQ:    TierUS,
	SP500:  TierUS,
	KOSPI:  TierKR,
	KOSDAQ: TierKR,
}

var labels = map[Market]string{
	BTC:    "Bitcoin",
	NDQ:    "Nasdaq",
	SP500:  "S&P 500",
	KOSPI:  "KOSPI",
	KOSDAQ: "KOSDAQ",
}

// closeKST is the daily voting close per market, as minutes since KST
// midnight. BTC closes 20:30, US markets 03:30, KR markets 13:00.
var closeKST = map[Market]int{
	BTC:    20*60 + 30,
	NDQ:    3*60 + 30,
	SP500:  3*60 + 30,
	KOSPI:  13 * 60,
	KOSDAQ: 13 * 60,
}

// Tier returns the tier-market grouping for an underlying market.
func Tier(m Market) (TierMarket, bool) {
	tm, ok := tierByMarket[m]
	return tm, ok
}

// ParseTierMarket validates a tier-market name.
func ParseTierMarket(s string) (TierMarket, bool) {
	switch TierMarket(s) {
	case TierBTC, TierUS, TierKR:
		return TierMarket(s), true
	}
	return "", false
}

// Underlying returns the markets grouped under a tier-market.
func Underlying(tm TierMarket) []Market {
	out := make([]Market, 0, 2)
	for _, m := range All {
		if tierByMarket[m] == tm {
			out = append(out, m)
		}
	}
	return out
}

func Label(m Market) string {
	return labels[m]
}

// CloseClock returns the daily voting close for a market as a KST wall-clock
// hour and minute.
func CloseClock(m Market) (hour, minute int) {
	mins := closeKST[m]
	return mins / 60, mins % 60
}

// VotingOpen reports whether voting is still open for the market's daily
// poll: open from KST midnight until the market's close time.
func VotingOpen(m Market, asOf time.Time) bool {
	mins, ok := closeKST[m]
	if !ok {
		return false
	}
	t := asOf.In(season.KST)
	return t.Hour()*60+t.Minute() < mins
}
