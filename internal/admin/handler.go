// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/alwaysdemon/storefront/internal/core"
)

type Counter interface {
	Count(ctx context.Context) (int, error)
}

type InquiryCounter interface {
	Count(ctx context.Context) (int, error)
	CountByPlatform(ctx context.Context) (map[string]int, error)
}

type Handler struct {
	products   Counter
	users      Counter
	inquiries  InquiryCounter
	storeName  string
	storePing  func(ctx context.Context) error
	redisPing  func(ctx context.Context) error
	dbStats    func() sql.DBStats
	redisStats func() *redis.PoolStats
}

// HandlerConfig wires the dashboard. DBStats, RedisStats and RedisPing are
// optional and left nil when that backend is not in use.
type HandlerConfig struct {
	Products   Counter
	Users      Counter
	Inquiries  InquiryCounter
	StoreName  string
	StorePing  func(ctx context.Context) error
	RedisPing  func(ctx context.Context) error
	DBStats    func() sql.DBStats
	RedisStats func() *redis.PoolStats
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		products:   cfg.Products,
		users:      cfg.Users,
		inquiries:  cfg.Inquiries,
		storeName:  cfg.StoreName,
		storePing:  cfg.StorePing,
		redisPing:  cfg.RedisPing,
		dbStats:    cfg.DBStats,
		redisStats: cfg.RedisStats,
	}
}

// RegisterRoutes mounts under a group rather than r.Route("/admin") since
// other packages also register /admin paths on the same router.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/admin/stats", h.GetDashboard)
		r.Get("/admin/stats/runtime", h.GetRuntimeStats)
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := h.catalogStats(ctx)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	response := DashboardResponse{
		Catalog: *catalog,
		Store: BackendStatus{
			Driver:  h.storeName,
			Healthy: ping(ctx, h.storePing),
			Pool:    h.getDBStats(),
		},
		Runtime: readRuntimeStats(),
	}

	if h.redisPing != nil {
		response.Redis = &RedisStatus{
			Healthy: ping(ctx, h.redisPing),
			Pool:    h.getRedisStats(),
		}
	}

	core.OK(w, response)
}

func (h *Handler) GetRuntimeStats(w http.ResponseWriter, r *http.Request) {
	core.OK(w, readRuntimeStats())
}

func (h *Handler) catalogStats(ctx context.Context) (*CatalogStats, error) {
	products, err := h.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	users, err := h.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	inquiries, err := h.inquiries.Count(ctx)
	if err != nil {
		return nil, err
	}

	byPlatform, err := h.inquiries.CountByPlatform(ctx)
	if err != nil {
		return nil, err
	}

	return &CatalogStats{
		Products:            products,
		Users:               users,
		Inquiries:           inquiries,
		InquiriesByPlatform: byPlatform,
	}, nil
}

func ping(ctx context.Context, fn func(ctx context.Context) error) bool {
	if fn == nil {
		return true
	}
	return fn(ctx) == nil
}

func readRuntimeStats() RuntimeStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     memStats.Alloc,
		MemSys:       memStats.Sys,
		NumGC:        memStats.NumGC,
	}
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	if stats == nil {
		return nil
	}

	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}

type DashboardResponse struct {
	Catalog CatalogStats  `json:"catalog"`
	Store   BackendStatus `json:"store"`
	Redis   *RedisStatus  `json:"redis,omitempty"`
	Runtime RuntimeStats  `json:"runtime"`
}

type CatalogStats struct {
	Products            int            `json:"products"`
	Users               int            `json:"users"`
	Inquiries           int            `json:"inquiries"`
	InquiriesByPlatform map[string]int `json:"inquiriesByPlatform"`
}

type BackendStatus struct {
	Driver  string       `json:"driver"`
	Healthy bool         `json:"healthy"`
	Pool    *DBPoolStats `json:"pool,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Pool    *RedisPoolStats `json:"pool,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	NumCPU       int    `json:"num_cpu"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	MemSys       uint64 `json:"mem_sys_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
