package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestListMarkets_GroupedByTierMarket(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	(&MarketHandler{}).Register(r)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/markets", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}

	var resp struct {
		Data []marketView `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 5 {
		t.Fatalf("markets=%d want 5", len(resp.Data))
	}

	wantGroups := map[string]string{
		"btc": "btc", "ndq": "us", "sp500": "us", "kospi": "kr", "kosdaq": "kr",
	}
	wantClose := map[string]string{
		"btc": "20:30", "ndq": "03:30", "sp500": "03:30", "kospi": "13:00", "kosdaq": "13:00",
	}
	prevTier := ""
	seenTiers := map[string]bool{}
	for _, m := range resp.Data {
		if m.TierMarket != wantGroups[m.Market] {
			t.Fatalf("%s grouped under %s want %s", m.Market, m.TierMarket, wantGroups[m.Market])
		}
		if m.CloseTimeKST != wantClose[m.Market] {
			t.Fatalf("%s close=%s want %s", m.Market, m.CloseTimeKST, wantClose[m.Market])
		}
		// Entries for one tier-market are contiguous.
		if m.TierMarket != prevTier && seenTiers[m.TierMarket] {
			t.Fatalf("tier-market %s split across the listing", m.TierMarket)
		}
		seenTiers[m.TierMarket] = true
		prevTier = m.TierMarket
	}
}
