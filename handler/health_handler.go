package handler

import (
	"context"
	"net/http"
	"time"

	"main/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type HealthHandler struct {
	Mongo   *mongo.Client
	started time.Time
}

func NewHealthHandler(client *mongo.Client) *HealthHandler {
	return &HealthHandler{Mongo: client, started: time.Now()}
}

// Health reports service liveness plus database reachability and host load.
// A failed database ping degrades the status but still answers 200 so load
// balancers can tell "slow dependency" from "dead process".
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	dbStatus := "connected"

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.Mongo.Ping(ctx, readpref.Primary()); err != nil {
		status = "degraded"
		dbStatus = "unreachable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         status,
		"database":       dbStatus,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
		"cpu_percent":    utils.GetCPUUsage(),
		"memory_percent": utils.GetMemoryUsage(),
	})
}
