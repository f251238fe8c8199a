package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

type DefaultUtilRoute struct {
	DB Pinger
}

func NewUtilRoute(db Pinger) *DefaultUtilRoute {
	return &DefaultUtilRoute{DB: db}
}

// Health is used by the container healthcheck.
func (u *DefaultUtilRoute) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := u.DB.PingContext(ctx); err != nil {
		log.Errorf("health check failed: %v", err)
		return c.String(http.StatusServiceUnavailable, "DOWN")
	}
	return c.String(http.StatusOK, "OK")
}
