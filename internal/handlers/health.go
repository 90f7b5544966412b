package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthCheck reports liveness and whether the relational store answers a ping
func HealthCheck(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		status := http.StatusOK
		dbStatus := "up"

		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "down"
		}

		return c.JSON(status, map[string]string{
			"status":   http.StatusText(status),
			"service":  "neighborly-api",
			"database": dbStatus,
		})
	}
}
