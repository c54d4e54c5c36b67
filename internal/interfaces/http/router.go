package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/planning"
	"github.com/jhoicas/Produccion-api/internal/application/usecase"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	RawMaterialUC *usecase.RawMaterialUseCase
	ProductUC     *usecase.ProductUseCase
	SuggestionUC  *planning.SuggestionUseCase
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	requireAuth := AuthMiddleware(deps.JWTSecret)
	canWrite := RequireRole(entity.RoleAdmin, entity.RolePlanificador)

	// Usuarios: /me para cualquier rol, administración solo admin
	users := api.Group("/users", requireAuth)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/me", userHandler.Me)
	onlyAdmin := RequireRole(entity.RoleAdmin)
	users.Get("/", onlyAdmin, userHandler.List)
	users.Get("/:id", onlyAdmin, userHandler.GetByID)
	users.Patch("/:id", onlyAdmin, userHandler.Update)

	// Materias primas (protegido; escritura solo admin y planificador)
	materials := api.Group("/raw-materials", requireAuth)
	materialHandler := NewRawMaterialHandler(deps.RawMaterialUC)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)
	materials.Post("/", canWrite, materialHandler.Create)
	materials.Put("/:id", canWrite, materialHandler.Update)
	materials.Delete("/:id", canWrite, materialHandler.Delete)

	// Productos y lista de materiales
	products := api.Group("/products", requireAuth)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", canWrite, productHandler.Create)
	products.Put("/:id", canWrite, productHandler.Update)
	products.Delete("/:id", canWrite, productHandler.Delete)
	products.Get("/:id/raw-materials", productHandler.ListBom)
	products.Post("/:id/raw-materials", canWrite, productHandler.AddBomItem)
	products.Put("/:id/raw-materials/:rmId", canWrite, productHandler.UpdateBomItem)
	products.Delete("/:id/raw-materials/:rmId", canWrite, productHandler.DeleteBomItem)

	// Planificación (cualquier rol autenticado)
	plan := api.Group("/production-planning", requireAuth)
	planningHandler := NewPlanningHandler(deps.SuggestionUC)
	plan.Get("/suggestions", planningHandler.Suggestions)
	plan.Get("/suggestions/pdf", planningHandler.SuggestionsPDF)
}
