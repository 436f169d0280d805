package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cafetrace-api/internal/application/auth"
	"github.com/jhoicas/Cafetrace-api/internal/application/ledger"
	"github.com/jhoicas/Cafetrace-api/internal/application/supplychain"
	"github.com/jhoicas/Cafetrace-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC                *auth.AuthUseCase
	CenterUC              *usecase.CenterUseCase
	LedgerQueryUC         *ledger.QueryUseCase
	PrimaryArrivalUC      *supplychain.PrimaryArrivalUseCase
	PrimaryProcessingUC   *supplychain.PrimaryProcessingUseCase
	PrimaryDispatchUC     *supplychain.PrimaryDispatchUseCase
	DispatchNoteUC        *supplychain.DispatchNoteUseCase
	SecondaryArrivalUC    *supplychain.SecondaryArrivalUseCase
	SecondaryProcessingUC *supplychain.SecondaryProcessingUseCase
	JWTSecret             string
}

// docRoutes registra el ciclo de vida estándar de un documento de etapa:
// crear, guardar, enviar, cancelar, eliminar borrador, consultar y listar.
type docHandler interface {
	Create(c *fiber.Ctx) error
	Save(c *fiber.Ctx) error
	Submit(c *fiber.Ctx) error
	Cancel(c *fiber.Ctx) error
	Trash(c *fiber.Ctx) error
	GetByID(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
}

func docRoutes(g fiber.Router, h docHandler) {
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Save)
	g.Post("/:id/submit", h.Submit)
	g.Post("/:id/cancel", h.Cancel)
	g.Delete("/:id", h.Trash)
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Centers (protegido)
	centers := protected.Group("/centers")
	centerHandler := NewCenterHandler(deps.CenterUC)
	centers.Post("/", centerHandler.Create)
	centers.Get("/", centerHandler.List)
	centers.Get("/:id", centerHandler.GetByID)
	centers.Put("/:id", RequireRole("admin"), centerHandler.Update)
	centers.Delete("/:id", RequireRole("admin"), centerHandler.Delete)

	// Ledger (protegido, solo lectura)
	ledgerHandler := NewLedgerHandler(deps.LedgerQueryUC)
	ledgerGroup := protected.Group("/ledger")
	ledgerGroup.Get("/balance", ledgerHandler.Balance)
	ledgerGroup.Get("/entries", ledgerHandler.EntriesByReference)
	centers.Get("/:id/stock", ledgerHandler.CenterStock)

	// Documentos de etapa (protegido)
	docRoutes(protected.Group("/primary-arrivals"), NewPrimaryArrivalHandler(deps.PrimaryArrivalUC))
	docRoutes(protected.Group("/primary-processings"), NewPrimaryProcessingHandler(deps.PrimaryProcessingUC))

	dispatchHandler := NewPrimaryDispatchHandler(deps.PrimaryDispatchUC, deps.DispatchNoteUC)
	dispatches := protected.Group("/primary-dispatches")
	docRoutes(dispatches, dispatchHandler)
	dispatches.Get("/:id/note.pdf", dispatchHandler.DownloadNote)

	docRoutes(protected.Group("/secondary-arrivals"), NewSecondaryArrivalHandler(deps.SecondaryArrivalUC))
	docRoutes(protected.Group("/secondary-processings"), NewSecondaryProcessingHandler(deps.SecondaryProcessingUC))
}
