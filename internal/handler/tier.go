package handler

import (
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"votingman/internal/market"
	"votingman/internal/season"
	"votingman/internal/tier"
)

type TierHandler struct {
	Service *tier.Service
	Logger  *zap.Logger
}

func (h *TierHandler) Register(r *gin.Engine) {
	group := r.Group("/api/tier")
	group.GET("/me", h.myStats)
	group.POST("/refresh", h.refresh)
}

// marketStatsView is the wire shape of one tier-market standing. Rates are
// percentages rounded to two decimals; the raw fraction stays internal.
type marketStatsView struct {
	Market                 string   `json:"market"`
	SeasonID               string   `json:"season_id"`
	PlacementMatchesPlayed int      `json:"placement_matches_played"`
	PlacementDone          bool     `json:"placement_done"`
	SeasonWinCount         int      `json:"season_win_count"`
	SeasonTotalCount       int      `json:"season_total_count"`
	WinRate                float64  `json:"win_rate"`
	MMR                    float64  `json:"mmr"`
	Tier                   *string  `json:"tier"`
	PercentilePct          *float64 `json:"percentile_pct"`
}

type myStatsView struct {
	SeasonID string            `json:"season_id"`
	Markets  []marketStatsView `json:"markets"`
}

// @Summary Current-season tier standing for the calling user
// @Tags tier
// @Param X-User-ID header string true "user id"
// @Success 200 {object} apiResponse
// @Router /api/tier/me [get]
func (h *TierHandler) myStats(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
	if userID == "" {
		Error(c, http.StatusUnauthorized, "missing X-User-ID header", nil)
		return
	}

	stats, err := h.Service.GetMyStats(c.Request.Context(), userID, time.Now())
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("get my stats failed", zap.String("user_id", userID), zap.Error(err))
		}
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}

	view := myStatsView{SeasonID: stats.SeasonID, Markets: make([]marketStatsView, 0, len(stats.Markets))}
	for _, m := range stats.Markets {
		entry := marketStatsView{
			Market:                 string(m.Market),
			SeasonID:               m.SeasonID,
			PlacementMatchesPlayed: m.PlacementMatchesPlayed,
			PlacementDone:          m.PlacementDone,
			SeasonWinCount:         m.SeasonWinCount,
			SeasonTotalCount:       m.SeasonTotalCount,
			WinRate:                roundPct(m.WinRate * 100),
			MMR:                    m.MMR.Round(2).InexactFloat64(),
			PercentilePct:          m.PercentilePct,
		}
		if m.Tier != nil {
			value := string(*m.Tier)
			entry.Tier = &value
		}
		view.Markets = append(view.Markets, entry)
	}
	Ok(c, view, nil)
}

// @Summary Recompute ratings and tiers
// @Tags tier
// @Param market query string false "tier-market (btc|us|kr); all when omitted"
// @Param season query string false "season id (e.g. 2026-1); current when omitted"
// @Success 200 {object} apiResponse
// @Router /api/tier/refresh [post]
func (h *TierHandler) refresh(c *gin.Context) {
	if h.Service == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}

	var markets []market.TierMarket
	if raw := strings.TrimSpace(c.Query("market")); raw != "" {
		tm, ok := market.ParseTierMarket(raw)
		if !ok {
			Error(c, http.StatusBadRequest, "unknown tier-market: "+raw, nil)
			return
		}
		markets = []market.TierMarket{tm}
	}

	seas := season.At(time.Now())
	if raw := strings.TrimSpace(c.Query("season")); raw != "" {
		parsed, err := season.Parse(raw)
		if err != nil {
			if errors.Is(err, season.ErrInvalidSeasonID) {
				Error(c, http.StatusBadRequest, err.Error(), nil)
				return
			}
			Error(c, http.StatusInternalServerError, err.Error(), nil)
			return
		}
		seas = parsed
	}

	result, err := h.Service.RefreshSeason(c.Request.Context(), markets, seas, tier.TriggerAPI)
	if err != nil {
		if h.Logger != nil {
			h.Logger.Warn("tier refresh failed",
				zap.String("season_id", seas.ID()),
				zap.Error(err),
			)
		}
		Error(c, http.StatusBadGateway, err.Error(), map[string]any{
			"rows_updated": result.RowsUpdated,
		})
		return
	}
	Ok(c, result, nil)
}

func roundPct(v float64) float64 {
	return math.Round(v*100) / 100
}
