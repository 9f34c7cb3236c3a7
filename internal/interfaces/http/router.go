package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/blockbyjamez/stockroom-api/internal/application/analytics"
	"github.com/blockbyjamez/stockroom-api/internal/application/audit"
	"github.com/blockbyjamez/stockroom-api/internal/application/auth"
	"github.com/blockbyjamez/stockroom-api/internal/application/inventory"
	"github.com/blockbyjamez/stockroom-api/internal/application/usecase"
	"github.com/blockbyjamez/stockroom-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	ProductUC   *usecase.ProductUseCase
	LedgerUC    *inventory.LedgerUseCase
	UserUC      *usecase.UserUseCase
	DashboardUC *analytics.DashboardUseCase
	Trail       *audit.Trail
	JWTSecret   string
}

// Router registra las rutas de la API.
//
// Tres niveles de acceso: público (login y flujo de códigos), autenticado
// (lecturas y cambio de contraseña propio) y admin (escrituras de catálogo,
// movimientos de stock, cuentas y bitácora).
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})

	api := app.Group("/api")

	// Público
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/login", authHandler.Login)
	api.Post("/send-code", authHandler.SendCode)
	api.Post("/register", authHandler.Register)
	api.Post("/forgot-password", authHandler.ForgotPassword)
	api.Post("/verify-code", authHandler.VerifyCode)
	api.Post("/reset-password", authHandler.ResetPassword)

	// Autenticado (cualquier rol)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/change-password", authHandler.ChangePassword)

	productHandler := NewProductHandler(deps.ProductUC)
	protected.Get("/products", productHandler.List)
	protected.Get("/products/:id", productHandler.GetByID)

	transactionHandler := NewTransactionHandler(deps.LedgerUC)
	protected.Get("/transactions", transactionHandler.List)

	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.Summary)

	// Solo admin
	adminOnly := RequireRole(entity.RoleAdmin)
	protected.Post("/products", adminOnly, productHandler.Create)
	protected.Put("/products/:id", adminOnly, productHandler.Update)
	protected.Delete("/products/:id", adminOnly, productHandler.Delete)
	protected.Post("/transactions", adminOnly, transactionHandler.Create)

	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users", adminOnly, userHandler.List)
	protected.Put("/users/:id/role", adminOnly, userHandler.UpdateRole)

	logHandler := NewLogHandler(deps.Trail)
	protected.Get("/logs", adminOnly, logHandler.List)
}
