package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"votingman/internal/market"
)

type MarketHandler struct{}

func (h *MarketHandler) Register(r *gin.Engine) {
	r.GET("/api/markets", h.listMarkets)
}

type marketView struct {
	Market       string `json:"market"`
	Label        string `json:"label"`
	TierMarket   string `json:"tier_market"`
	CloseTimeKST string `json:"close_time_kst"`
	VotingOpen   bool   `json:"voting_open"`
}

// @Summary Market catalog with tier grouping and daily close times
// @Tags markets
// @Success 200 {object} apiResponse
// @Router /api/markets [get]
func (h *MarketHandler) listMarkets(c *gin.Context) {
	now := time.Now()
	out := make([]marketView, 0, len(market.All))
	for _, tm := range market.TierMarkets {
		for _, m := range market.Underlying(tm) {
			hour, minute := market.CloseClock(m)
			out = append(out, marketView{
				Market:       string(m),
				Label:        market.Label(m),
				TierMarket:   string(tm),
				CloseTimeKST: fmt.Sprintf("%02d:%02d", hour, minute),
				VotingOpen:   market.VotingOpen(m, now),
			})
		}
	}
	Ok(c, out, nil)
}
