package api

import (
	"financehub/docs"
	"financehub/internal/api/handlers"
	"financehub/pkg/auth"
	"financehub/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type Handlers struct {
	Auth          *handlers.AuthHandler
	Transaction   *handlers.TransactionHandler
	Category      *handlers.CategoryHandler
	PaymentMethod *handlers.PaymentMethodHandler
	SavingGoal    *handlers.SavingGoalHandler
	Dashboard     *handlers.DashboardHandler
}

func SetupRouter(h Handlers, jwtManager *auth.JWTManager, appLogger *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // ensure docs package is imported and init() is called
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Auth routes (public)
	user := app.Group("/user")
	authGroup := user.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	// Protected routes
	protected := app.Group("/api/v1", middleware.AuthMiddleware(jwtManager, appLogger))

	transactions := protected.Group("/transactions")
	transactions.Post("", h.Transaction.Create)
	transactions.Get("", h.Transaction.List)
	transactions.Get("/:id", h.Transaction.Get)
	transactions.Put("/:id", h.Transaction.Update)
	transactions.Delete("/:id", h.Transaction.Delete)

	categories := protected.Group("/categories")
	categories.Post("", h.Category.Create)
	categories.Get("", h.Category.List)
	categories.Put("/:id", h.Category.Update)
	categories.Delete("/:id", h.Category.Delete)

	methods := protected.Group("/payment-methods")
	methods.Post("", h.PaymentMethod.Create)
	methods.Get("", h.PaymentMethod.List)
	methods.Put("/:id", h.PaymentMethod.Update)
	methods.Delete("/:id", h.PaymentMethod.Delete)

	goals := protected.Group("/saving-goals")
	goals.Post("", h.SavingGoal.Create)
	goals.Get("", h.SavingGoal.List)
	goals.Put("/:id", h.SavingGoal.Update)
	goals.Delete("/:id", h.SavingGoal.Delete)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("", h.Dashboard.General)
	// "savings" must be registered before the kind wildcard
	dashboard.Get("/savings", h.Dashboard.Savings)
	dashboard.Get("/:kind", h.Dashboard.Module)

	return app
}
