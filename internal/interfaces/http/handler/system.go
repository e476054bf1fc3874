package handler

import (
	"context"
	"errors"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/legumemart/backend/internal/infrastructure/scheduler"
	"github.com/legumemart/backend/internal/interfaces/http/dto"
)

// healthPingTimeout bounds the database ping of a health probe
const healthPingTimeout = 2 * time.Second

// Pinger checks database reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// JobRunner exposes the background scheduler
type JobRunner interface {
	Jobs() []scheduler.JobState
	Trigger(ctx context.Context, name string) error
}

// SystemHandler handles health and operational endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	startTime time.Time
	db        Pinger
	jobs      JobRunner
}

// NewSystemHandler creates a new SystemHandler. jobs may be nil when the
// scheduler is disabled.
func NewSystemHandler(name, version string, db Pinger, jobs JobRunner) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		startTime: time.Now(),
		db:        db,
		jobs:      jobs,
	}
}

// HealthResponse represents the health probe response
type HealthResponse struct {
	Status    string `json:"status"`
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Database  string `json:"database"`
}

// Health reports liveness and database reachability. An unreachable
// database answers 503.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:    "ok",
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Database:  "ok",
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()
	if err := h.db.PingContext(ctx); err != nil {
		resp.Status = "degraded"
		resp.Database = err.Error()
		c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
		return
	}
	h.Success(c, resp)
}

// ListJobs returns the scheduler's jobs with their last and next runs
func (h *SystemHandler) ListJobs(c *gin.Context) {
	if h.jobs == nil {
		h.Success(c, []scheduler.JobState{})
		return
	}
	h.Success(c, h.jobs.Jobs())
}

// TriggerJob runs a scheduler job now and answers once it finishes
func (h *SystemHandler) TriggerJob(c *gin.Context) {
	if h.jobs == nil {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Scheduler is disabled")
		return
	}
	name := c.Param("name")
	if err := h.jobs.Trigger(c.Request.Context(), name); err != nil {
		if errors.Is(err, scheduler.ErrUnknownJob) {
			h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "Unknown job "+name)
			return
		}
		h.HandleError(c, err)
		return
	}
	for _, state := range h.jobs.Jobs() {
		if state.Name == name {
			h.Success(c, state)
			return
		}
	}
	h.Success(c, nil)
}
