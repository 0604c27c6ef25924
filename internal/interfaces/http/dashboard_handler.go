package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/Recaudo-api/internal/application/analytics"
	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

// DashboardHandler endpoints de reportes (solo lectura).
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	log zerolog.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// Summary godoc
// @Summary      Índice global de morosidad y saldos por categoría
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Revenue ingresos expedidos vs pagados de los últimos seis meses.
// GET /api/dashboard/revenue
func (h *DashboardHandler) Revenue(c *fiber.Ctx) error {
	out, err := h.uc.RevenueLastSixMonths(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MonthlyDelinquency índice de morosidad por mes.
// GET /api/dashboard/delinquency/monthly
func (h *DashboardHandler) MonthlyDelinquency(c *fiber.Ctx) error {
	out, err := h.uc.MonthlyDelinquency(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GlobalDelinquency índice global de morosidad.
// GET /api/dashboard/delinquency/global
func (h *DashboardHandler) GlobalDelinquency(c *fiber.Ctx) error {
	out, err := h.uc.GlobalDelinquency(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AssessmentZones morosidad de prediales por zona de 5 km.
// GET /api/dashboard/assessments/zones
func (h *DashboardHandler) AssessmentZones(c *fiber.Ctx) error {
	out, err := h.uc.AssessmentDelinquencyZones(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SpeedingZones multas por exceso de velocidad por zona de 5 km.
// GET /api/dashboard/fines/speeding-zones
func (h *DashboardHandler) SpeedingZones(c *fiber.Ctx) error {
	out, err := h.uc.SpeedingZones(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Balance saldo por pagar (12 meses) de multas o prediales.
// GET /api/dashboard/balance/:category  (fines | assessments)
func (h *DashboardHandler) Balance(c *fiber.Ctx) error {
	var category entity.Category
	switch c.Params("category") {
	case "fines":
		category = entity.CategoryFine
	case "assessments":
		category = entity.CategoryAssessment
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "categoría: fines | assessments"})
	}
	out, err := h.uc.OutstandingBalance(c.UserContext(), category)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
