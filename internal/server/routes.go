package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jyotish-labs/dashactl/internal/observability"
	"github.com/jyotish-labs/dashactl/internal/vimshottari"
)

type periodView struct {
	Lord     string    `json:"lord"`
	Depth    uint8     `json:"depth"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration string    `json:"duration"`
}

func viewOf(n vimshottari.PeriodNode) periodView {
	return periodView{
		Lord:     n.Lord.String(),
		Depth:    n.Depth,
		Start:    n.Start.UTC(),
		End:      n.End.UTC(),
		Duration: n.Duration().String(),
	}
}

func viewsOf(nodes []vimshottari.PeriodNode) []periodView {
	out := make([]periodView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, viewOf(n))
	}
	return out
}

type createChartRequest struct {
	Longitude *float64 `json:"longitude"`
	Birth     string   `json:"birth"`
	Depth     int      `json:"depth"`
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"uptime":    time.Since(s.appeared).String(),
			"component": "dashad-api",
			"version":   "0.1.0",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":     true,
			"uptime":    time.Since(s.appeared).String(),
			"component": "dashad-api",
			"version":   "0.1.0",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.POST("/charts", s.handleCreateChart)
	s.router.GET("/charts/:id", s.handleChartSummary)
	s.router.GET("/charts/:id/active", s.handleActive)
	s.router.GET("/charts/:id/upcoming", s.handleUpcoming)
}

func (s *Server) handleCreateChart(c *gin.Context) {
	var req createChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Longitude == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "longitude is required"})
		return
	}
	if strings.TrimSpace(req.Birth) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "birth is required"})
		return
	}
	birth, err := dateparse.ParseAny(req.Birth)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable birth instant: " + err.Error()})
		return
	}
	depth := req.Depth
	if depth == 0 {
		depth = s.cfg.DefaultDepth
	}
	if depth < 1 || depth > s.cfg.MaxDepth {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth out of range"})
		return
	}

	id := chartID(*req.Longitude, birth.UTC(), uint8(depth))
	chart, err := s.chart(id)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vimshottari.ErrInvalidLongitude) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.summaryOf(id, chart))
}

func (s *Server) handleChartSummary(c *gin.Context) {
	id := c.Param("id")
	chart, err := s.chart(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.summaryOf(id, chart))
}

func (s *Server) summaryOf(id string, chart *vimshottari.Chart) gin.H {
	return gin.H{
		"chart_id":   id,
		"longitude":  chart.Longitude,
		"birth":      chart.Birth.UTC(),
		"nakshatra":  int(chart.Position.Nakshatra),
		"progress":   chart.Position.Progress,
		"start_lord": chart.Balance.Lord.String(),
		"anchor":     chart.Balance.Anchor.UTC(),
		"balance": gin.H{
			"elapsed":   chart.Balance.Elapsed.String(),
			"remaining": chart.Balance.Remaining.String(),
		},
		"mahadashas": viewsOf(chart.Tree().Mahadashas()),
	}
}

func (s *Server) handleActive(c *gin.Context) {
	chart, ok := s.chartParam(c)
	if !ok {
		return
	}
	at, ok := s.instantParam(c, "at", time.Now().UTC())
	if !ok {
		return
	}

	path, err := chart.ActivePath(at)
	if err != nil {
		observability.RecordPeriodQuery(s.cfg.Name, "active", false)
		status := http.StatusInternalServerError
		if errors.Is(err, vimshottari.ErrOutOfRange) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	observability.RecordPeriodQuery(s.cfg.Name, "active", true)
	c.JSON(http.StatusOK, gin.H{
		"at":   at.UTC(),
		"path": viewsOf(path),
	})
}

func (s *Server) handleUpcoming(c *gin.Context) {
	chart, ok := s.chartParam(c)
	if !ok {
		return
	}
	from, ok := s.instantParam(c, "from", time.Now().UTC())
	if !ok {
		return
	}

	count := 9
	if raw := c.Query("count"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count must be a positive integer"})
			return
		}
		count = v
	}
	if count > s.cfg.MaxCount {
		count = s.cfg.MaxCount
	}

	depth := 1
	if raw := c.Query("depth"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "depth must be a positive integer"})
			return
		}
		depth = v
	}
	if depth > s.cfg.MaxDepth {
		c.JSON(http.StatusBadRequest, gin.H{"error": "depth out of range"})
		return
	}

	periods, err := chart.Upcoming(from, count, uint8(depth))
	if err != nil {
		observability.RecordPeriodQuery(s.cfg.Name, "upcoming", false)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	observability.RecordPeriodQuery(s.cfg.Name, "upcoming", true)
	c.JSON(http.StatusOK, gin.H{
		"from":    from.UTC(),
		"depth":   depth,
		"periods": viewsOf(periods),
	})
}

func (s *Server) chartParam(c *gin.Context) (*vimshottari.Chart, bool) {
	chart, err := s.chart(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return chart, true
}

func (s *Server) instantParam(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	at, err := dateparse.ParseAny(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable " + name + " instant: " + err.Error()})
		return time.Time{}, false
	}
	return at, true
}
