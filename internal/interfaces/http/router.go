package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Recaudo-api/internal/application/analytics"
	"github.com/jhoicas/Recaudo-api/internal/application/settlement"
	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/pkg/jwt"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Settlement  *settlement.UseCase
	Statements  *statement.UseCase
	DashboardUC *appanalytics.DashboardUseCase // nil: sin vistas de reporte (almacén SQLite)
	JWTSecret   string
	Log         zerolog.Logger
}

// Router registra las rutas de la API.
// Las consultas son públicas; pagos y envíos requieren Bearer Token con rol cajero o admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	validate := NewValidationHelper()
	cashier := []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(jwt.RoleCajero, jwt.RoleAdmin)}

	for prefix, category := range map[string]entity.Category{
		"/fines":       entity.CategoryFine,
		"/assessments": entity.CategoryAssessment,
	} {
		h := NewObligationHandler(category, deps.Settlement, deps.Statements, validate, deps.Log)
		g := api.Group(prefix)

		// Escrituras antes que /:account para que "pay" no se tome como cuenta.
		g.Post("/pay", append(cashier, h.Pay)...)
		g.Post("/pay-all", append(cashier, h.PayAll)...)
		g.Post("/send-statement", append(cashier, h.SendStatement)...)

		g.Get("/:account/total", h.Total)
		g.Get("/:account/statement", h.Statement)
		g.Get("/:account", h.List)
	}

	if deps.DashboardUC != nil {
		dh := NewDashboardHandler(deps.DashboardUC, deps.Log)
		dash := api.Group("/dashboard")
		dash.Get("/summary", dh.Summary)
		dash.Get("/revenue", dh.Revenue)
		dash.Get("/delinquency/monthly", dh.MonthlyDelinquency)
		dash.Get("/delinquency/global", dh.GlobalDelinquency)
		dash.Get("/assessments/zones", dh.AssessmentZones)
		dash.Get("/fines/speeding-zones", dh.SpeedingZones)
		dash.Get("/balance/:category", dh.Balance)
	}
}
