package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/loykin/vigil/internal/watchdog"
)

// Router provides embeddable HTTP handlers for driving a watchdog.
// Endpoints:
//
//	POST {basePath}/feed         body: {"timeout_ms": 5000, "info": "..."} (both optional)
//	POST {basePath}/stop         body: {"info": "..."} (optional)
//	GET  {basePath}/status       current watchdog state
//	POST {basePath}/debug/check  run one poll(+notify) cycle immediately
//
// basePath may be empty or start with '/'; no trailing slash.
type Router struct {
	wd       *watchdog.Watchdog
	basePath string
}

// NewRouter constructs a new Router with configurable basePath.
// Example basePath: "/api" results in /api/feed, /api/stop, /api/status.
func NewRouter(wd *watchdog.Watchdog, basePath string) *Router {
	return &Router{wd: wd, basePath: sanitizeBase(basePath)}
}

// Handler returns an http.Handler powered by gin that can be mounted in any server/mux.
func (r *Router) Handler() http.Handler {
	g := gin.New()
	g.Use(gin.Recovery())
	group := g.Group(r.basePath)
	group.POST("/feed", r.handleFeed)
	group.POST("/stop", r.handleStop)
	group.GET("/status", r.handleStatus)
	group.POST("/debug/check", r.handleDebugCheck)
	return g
}

// NewServer starts a standalone HTTP server on addr using this router.
// Call Close on the returned server to shut it down.
func NewServer(addr, basePath string, wd *watchdog.Watchdog) (*http.Server, error) {
	r := NewRouter(wd, basePath)
	server := &http.Server{
		Addr:              addr,
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("watchdog api server failed", "addr", addr, "error", err)
		}
	}()
	return server, nil
}

// --- Handlers ---

type errorResp struct {
	Error string `json:"error"`
}

type okResp struct {
	OK bool `json:"ok"`
}

type feedReq struct {
	TimeoutMs *int64 `json:"timeout_ms"`
	Info      string `json:"info"`
}

type feedResp struct {
	OK      bool `json:"ok"`
	Running bool `json:"running"`
}

type stopReq struct {
	Info string `json:"info"`
}

type statusResp struct {
	Running         bool  `json:"running"`
	TimeoutOccurred bool  `json:"timeout_occurred"`
	TimeoutMs       int64 `json:"timeout_ms"`
}

type checkResp struct {
	Timeout  bool `json:"timeout"`
	Notified bool `json:"notified"`
}

func (r *Router) handleFeed(c *gin.Context) {
	var req feedReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
			return
		}
	}
	if req.TimeoutMs != nil && *req.TimeoutMs < 0 {
		writeJSON(c, http.StatusBadRequest, errorResp{Error: "timeout_ms must be >= 0"})
		return
	}
	ok := r.wd.Feed(req.TimeoutMs, req.Info)
	writeJSON(c, http.StatusOK, feedResp{OK: ok, Running: r.wd.IsRunning()})
}

func (r *Router) handleStop(c *gin.Context) {
	var req stopReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeJSON(c, http.StatusBadRequest, errorResp{Error: "invalid JSON: " + err.Error()})
			return
		}
	}
	// stopping an idle watchdog is a no-op, not an error
	writeJSON(c, http.StatusOK, okResp{OK: r.wd.ManualStop(req.Info)})
}

func (r *Router) handleStatus(c *gin.Context) {
	writeJSON(c, http.StatusOK, statusResp{
		Running:         r.wd.IsRunning(),
		TimeoutOccurred: r.wd.TimeoutOccurred(),
		TimeoutMs:       r.wd.CurrentTimeoutMs(),
	})
}

func (r *Router) handleDebugCheck(c *gin.Context) {
	resp := checkResp{}
	if r.wd.Poll() {
		resp.Timeout = true
		resp.Notified = r.wd.Notify()
	}
	writeJSON(c, http.StatusOK, resp)
}
