package onboard

import (
	"github.com/gofiber/fiber/v2"

	onboardsvc "github.com/amirasaad/onramp/pkg/service/onboard"
	"github.com/amirasaad/onramp/webapi/common"
)

// Routes registers the onboarding endpoints.
func Routes(app *fiber.App, svc *onboardsvc.Service) {
	group := app.Group("/onboard")

	group.Get("/", Onboard(svc))
	group.Get("/providers", Providers(svc))
	group.Post("/quote", Quote(svc))
	group.Post("/init", Init(svc))
	group.Post("/sign", Sign(svc))
}

// Onboard returns the catalogs usable from the caller's country.
// @Summary Onboard a user
// @Description Detects the caller country and lists what every eligible provider offers there
// @Tags onboard
// @Produce json
// @Success 200 {object} common.Response
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /onboard [get]
func Onboard(svc *onboardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp, err := svc.Onboard(c.UserContext(), c.IP())
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to onboard", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Onboarding data fetched successfully", resp)
	}
}

// Providers reports the catalog load state of every provider.
// @Summary Provider readiness
// @Tags onboard
// @Produce json
// @Success 200 {object} common.Response
// @Router /onboard/providers [get]
func Providers(svc *onboardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Providers fetched successfully", svc.Providers())
	}
}

// Quote prices a trade with the requested providers.
// @Summary Get quotes
// @Description Returns every priced payment option per provider. Providers that cannot serve the request map to an empty list.
// @Tags onboard
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Quote request"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /onboard/quote [post]
func Quote(svc *onboardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[QuoteRequest](c)
		if input == nil {
			return err // problem already written
		}
		req, err := input.ToDomain()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid quote request", err)
		}
		quotes, err := svc.Quote(c.UserContext(), c.IP(), req)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid quote request", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Quotes fetched successfully", quotes)
	}
}

// Init builds the deep link into a provider's hosted flow.
// @Summary Start a purchase
// @Tags onboard
// @Accept json
// @Produce json
// @Param request body InitRequest true "Redirect request"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Router /onboard/init [post]
func Init(svc *onboardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[InitRequest](c)
		if input == nil {
			return err // problem already written
		}
		req, err := input.ToDomain()
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid redirect request", err)
		}
		url, err := svc.Redirect(c.UserContext(), req)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Invalid redirect request", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Redirect created", InitResponse{URL: url})
	}
}

// Sign signs an arbitrary string with the merchant key.
// @Summary Sign a string
// @Tags onboard
// @Accept json
// @Produce json
// @Param request body SignRequest true "String to sign"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /onboard/sign [post]
func Sign(svc *onboardsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[SignRequest](c)
		if input == nil {
			return err // problem already written
		}
		sig, err := svc.Sign(input.StringToSign)
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to sign", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Signed", SignResponse{Signature: sig})
	}
}
