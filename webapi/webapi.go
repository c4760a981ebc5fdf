// Package webapi exposes the onboarding service over HTTP.
// Sub-packages:
// - common: response envelope, problem details and request binding
// - onboard: onboarding, quote, redirect and signing endpoints
package webapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amirasaad/onramp/pkg/app"
	"github.com/amirasaad/onramp/webapi/common"
	onboardweb "github.com/amirasaad/onramp/webapi/onboard"
)

// SetupApp Initialize Fiber with custom configuration
func SetupApp(a *app.App) *fiber.App {
	cfg := fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return common.ProblemDetailsJSON(c, "Internal Server Error", err)
		},
	}
	// c.IP() reads the proxy header only when the peer is a trusted proxy.
	if srv := a.Config.Server; srv != nil && srv.ProxyHeader != "" {
		cfg.ProxyHeader = srv.ProxyHeader
		cfg.EnableTrustedProxyCheck = true
		cfg.TrustedProxies = srv.TrustedProxies
		cfg.EnableIPValidation = true
	}
	fiberApp := fiber.New(cfg)

	fiberApp.Use(limiter.New(limiter.Config{
		Max:        a.Config.RateLimit.MaxRequests,
		Expiration: a.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ProblemDetailsJSON(
				c,
				"Too Many Requests",
				errors.New("rate limit exceeded"),
				fiber.StatusTooManyRequests,
			)
		},
	}))
	fiberApp.Use(recover.New())
	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New())

	fiberApp.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Onramp API is running! 🚀")
	})
	if a.Deps.Gatherer != nil {
		fiberApp.Get("/metrics", adaptor.HTTPHandler(
			promhttp.HandlerFor(a.Deps.Gatherer, promhttp.HandlerOpts{}),
		))
	}

	onboardweb.Routes(fiberApp, a.OnboardService)
	return fiberApp
}
