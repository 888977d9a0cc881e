package httpapi

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/abdulachik/dashboard/internal/dashboard"
	"github.com/abdulachik/dashboard/internal/health"
)

var validate = validator.New()

//go:embed index.html
var indexHTML []byte

// Snapshots serves dashboard snapshots.
type Snapshots interface {
	GetOrRefresh(ctx context.Context, useCache bool, category string) dashboard.Snapshot
	Refresh(ctx context.Context, category string) dashboard.Snapshot
}

// Deps holds what the handlers need.
type Deps struct {
	Snapshots       Snapshots
	Health          *health.Health
	Metrics         http.Handler
	DefaultCategory string
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	defaultCategory := deps.DefaultCategory
	if defaultCategory == "" {
		defaultCategory = "technology"
	}

	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(indexHTML)
	})

	api := app.Group("/api")

	api.Get("/data", func(c *fiber.Ctx) error {
		category, err := parseCategory(c, defaultCategory)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(deps.Snapshots.GetOrRefresh(c.UserContext(), true, category))
	})

	api.Get("/refresh", func(c *fiber.Ctx) error {
		category, err := parseCategory(c, defaultCategory)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(deps.Snapshots.Refresh(c.UserContext(), category))
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health == nil {
			return c.JSON(fiber.Map{"status": "ok", "components": fiber.Map{}})
		}

		status := "ok"
		if !deps.Health.IsOverallHealthy() {
			status = "degraded"
		}
		return c.JSON(fiber.Map{
			"status":     status,
			"components": deps.Health.All(),
			"unhealthy":  deps.Health.Unhealthy(),
		})
	})

	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}
}

// categoryQuery holds the query parameters of the data endpoints.
type categoryQuery struct {
	Category string `validate:"omitempty,printascii,max=64"`
}

func parseCategory(c *fiber.Ctx, def string) (string, error) {
	q := categoryQuery{Category: c.Query("category")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	if q.Category == "" {
		return def, nil
	}
	return q.Category, nil
}
