package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/YCLstock/nasdaq100/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// allowed chart windows, in days
var chartWindows = map[int]bool{7: true, 30: true, 100: true}

// DashboardController serves the core's outputs to the dashboard front end.
type DashboardController struct {
	session *session.Session
	symbol  string
	started time.Time
}

// NewDashboardController creates a controller bound to one session.
func NewDashboardController(sess *session.Session, symbol string) *DashboardController {
	return &DashboardController{
		session: sess,
		symbol:  symbol,
		started: time.Now(),
	}
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(dc *DashboardController) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/metrics", dc.GetMetrics)
		api.GET("/series", dc.GetSeries)
		api.GET("/status", dc.GetStatus)
	}

	router.GET("/healthz", dc.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// GetMetrics returns the current aggregation snapshot.
// GET /api/v1/metrics
func (dc *DashboardController) GetMetrics(c *gin.Context) {
	if !dc.session.HasData() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no data yet"})
		return
	}
	c.JSON(http.StatusOK, dc.session.Metrics())
}

// GetSeries returns the trailing slice of observations for a chart window.
// GET /api/v1/series?window=7|30|100
func (dc *DashboardController) GetSeries(c *gin.Context) {
	window, err := strconv.Atoi(c.DefaultQuery("window", "100"))
	if err != nil || !chartWindows[window] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "window must be 7, 30 or 100"})
		return
	}

	data := dc.session.Window(window)
	c.JSON(http.StatusOK, gin.H{
		"window": window,
		"count":  len(data),
		"data":   data,
	})
}

// GetStatus returns the refresh timestamps for display.
// GET /api/v1/status
func (dc *DashboardController) GetStatus(c *gin.Context) {
	state := dc.session.RefreshState()
	c.JSON(http.StatusOK, gin.H{
		"symbol":       dc.symbol,
		"observations": dc.session.Len(),
		"last_update":  state.LastUpdate,
		"next_update":  state.NextUpdate,
	})
}

// GetHealth is the liveness endpoint.
// GET /healthz
func (dc *DashboardController) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"has_data": dc.session.HasData(),
		"uptime":   time.Since(dc.started).String(),
	})
}
