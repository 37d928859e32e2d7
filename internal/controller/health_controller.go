package controller

import (
	"context"
	"time"

	"okada-agent-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewHealthController accepts a nil rdb when the service runs without Redis.
func NewHealthController(db *gorm.DB, rdb *redis.Client) IHealthController {
	return &healthController{db: db, rdb: rdb}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

func (c *healthController) Health(ctx *fiber.Ctx) error {
	pingCtx, cancel := context.WithTimeout(ctx.UserContext(), 2*time.Second)
	defer cancel()

	res := dto.HealthResponse{Status: "ok", Services: map[string]string{}}

	res.Services["database"] = "up"
	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(pingCtx) != nil {
		res.Services["database"] = "down"
		res.Status = "degraded"
	}

	switch {
	case c.rdb == nil:
		res.Services["redis"] = "disabled"
	case c.rdb.Ping(pingCtx).Err() != nil:
		res.Services["redis"] = "down"
		res.Status = "degraded"
	default:
		res.Services["redis"] = "up"
	}

	status := fiber.StatusOK
	if res.Status != "ok" {
		status = fiber.StatusServiceUnavailable
	}
	return ctx.Status(status).JSON(res)
}
