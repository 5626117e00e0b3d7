package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Votingman Tier Service

Seasonal ranking and tier engine over daily sentiment polls.

## Auth

/api/tier/me identifies the caller from the X-User-ID header (set by the
gateway after session validation). Health endpoints are public.

## Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- GET /api/markets
- GET /api/tier/me
- POST /api/tier/refresh?market=btc|us|kr&season=YYYY-Q

## Seasons

A season is one third of the calendar year in KST: 1 (Jan-Apr), 2 (May-Aug),
3 (Sep-Dec). Season ids look like 2026-1.
`)
	})
}
