package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	apierr "github.com/opst/todofab/pkg/api/types/errors"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	Ok bool `json:"ok"`
}

// HealthHandler responds {"ok": true} when the database is reachable.
func HealthHandler(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := db.Ping(c.Request().Context()); err != nil {
			return apierr.ServiceUnavailable("database is not reachable", err)
		}
		return c.JSON(http.StatusOK, Health{Ok: true})
	}
}

func BannerHandler(banner string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, banner)
	}
}
