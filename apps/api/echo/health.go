package echoapi

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/college/core"
)

const readinessTimeout = 3 * time.Second

type (
	healthApi struct {
		db    Pinger
		redis Pinger
		build string
	}

	dependencyStatus struct {
		Status string `json:"status"`
		Error  string `json:"error,omitempty"`
	}

	readinessResponse struct {
		Status       string                      `json:"status"`
		Build        string                      `json:"build"`
		Dependencies map[string]dependencyStatus `json:"dependencies"`
	}
)

func registerHealthAPI(e *echo.Echo, db, redis Pinger, conf *core.Config) {
	api := healthApi{db: db, redis: redis, build: conf.Build}
	e.GET("/health", api.liveness)
	e.GET("/health/ready", api.readiness)
}

func (api *healthApi) liveness(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (api *healthApi) readiness(ctx echo.Context) error {
	c, cancel := context.WithTimeout(ctx.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, 2)
	healthy := true
	check := func(name string, p Pinger) {
		if p == nil {
			return
		}
		if err := p.PingContext(c); err != nil {
			deps[name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			return
		}
		deps[name] = dependencyStatus{Status: "ok"}
	}
	check("database", api.db)
	check("redis", api.redis)

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	return ctx.JSON(code, readinessResponse{Status: status, Build: api.build, Dependencies: deps})
}
