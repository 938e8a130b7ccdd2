package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intconfig "fleetmove/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "fleetmove is running"})
}

func DBCheck(c *gin.Context) {
	db := intconfig.DB
	if db == nil {
		RespondError(c, http.StatusInternalServerError, "database not connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM move_transport_requests").Scan(&count); err != nil {
		RespondError(c, http.StatusInternalServerError, "database query failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "database OK", "transport_requests": count})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		RespondError(c, http.StatusServiceUnavailable, "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
