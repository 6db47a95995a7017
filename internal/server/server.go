package server

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/jyotish-labs/dashactl/internal/config"
	"github.com/jyotish-labs/dashactl/internal/observability"
	"github.com/jyotish-labs/dashactl/internal/vimshottari"
)

// Server exposes dasha period queries to a presentation layer over HTTP.
// It holds no state beyond an LRU of built charts: every chart is a pure
// value rebuilt deterministically from its id on a miss, so eviction is
// only a memory concern.
type Server struct {
	cfg      config.ServerConfig
	router   *gin.Engine
	charts   *lru.Cache[string, *vimshottari.Chart]
	appeared time.Time
}

func New(cfg config.ServerConfig) (*Server, error) {
	if err := config.ValidateServerConfig(cfg); err != nil {
		return nil, err
	}
	observability.RegisterMetrics()

	charts, err := lru.New[string, *vimshottari.Chart](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("chart cache: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	s := &Server{
		cfg:      cfg,
		router:   r,
		charts:   charts,
		appeared: time.Now(),
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) Run() error {
	log.Info().
		Str("addr", s.cfg.Addr).
		Str("name", s.cfg.Name).
		Msg("dashad_listening")
	return s.router.Run(s.cfg.Addr)
}

// Router exposes the gin engine for in-process testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// chartID encodes the chart parameters losslessly: longitude bits, birth
// nanoseconds and depth. Handing the id back is enough to rebuild the
// identical chart after eviction.
func chartID(longitude float64, birth time.Time, depth uint8) string {
	return fmt.Sprintf("%016x.%016x.%d", math.Float64bits(longitude), uint64(birth.UnixNano()), depth)
}

func parseChartID(id string) (longitude float64, birth time.Time, depth uint8, err error) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return 0, time.Time{}, 0, fmt.Errorf("malformed chart id")
	}
	lonBits, err := strconv.ParseUint(parts[0], 16, 64)
	if err != nil {
		return 0, time.Time{}, 0, fmt.Errorf("malformed chart id: %w", err)
	}
	birthNanos, err := strconv.ParseUint(parts[1], 16, 64)
	if err != nil {
		return 0, time.Time{}, 0, fmt.Errorf("malformed chart id: %w", err)
	}
	d, err := strconv.ParseUint(parts[2], 10, 8)
	if err != nil {
		return 0, time.Time{}, 0, fmt.Errorf("malformed chart id: %w", err)
	}
	longitude = math.Float64frombits(lonBits)
	birth = time.Unix(0, int64(birthNanos)).UTC()
	return longitude, birth, uint8(d), nil
}

// chart returns the cached chart for the id, rebuilding it on a miss.
func (s *Server) chart(id string) (*vimshottari.Chart, error) {
	if c, ok := s.charts.Get(id); ok {
		observability.RecordChartBuild(s.cfg.Name, "cache_hit", 0)
		return c, nil
	}

	longitude, birth, depth, err := parseChartID(id)
	if err != nil {
		return nil, err
	}
	if depth < 1 || int(depth) > s.cfg.MaxDepth {
		return nil, fmt.Errorf("chart depth %d not in [1, %d]", depth, s.cfg.MaxDepth)
	}

	start := time.Now()
	c, err := vimshottari.NewChart(longitude, birth, depth)
	if err != nil {
		return nil, err
	}
	observability.RecordChartBuild(s.cfg.Name, "built", time.Since(start))
	s.charts.Add(id, c)
	return c, nil
}

func normalizeOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
