package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/application/settlement"
	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/rs/zerolog"
)

// ObligationHandler endpoints de una categoría (multas o prediales). Se monta una vez por categoría.
type ObligationHandler struct {
	category   entity.Category
	settle     *settlement.UseCase
	statements *statement.UseCase
	validate   *ValidationHelper
	log        zerolog.Logger
}

// NewObligationHandler construye el handler para category.
func NewObligationHandler(
	category entity.Category,
	settle *settlement.UseCase,
	statements *statement.UseCase,
	validate *ValidationHelper,
	log zerolog.Logger,
) *ObligationHandler {
	return &ObligationHandler{
		category:   category,
		settle:     settle,
		statements: statements,
		validate:   validate,
		log:        log.With().Str("category", string(category)).Logger(),
	}
}

func (h *ObligationHandler) account(c *fiber.Ctx) entity.AccountRef {
	return entity.AccountRef{Category: h.category, Key: c.Params("account")}
}

// List godoc
// @Summary      Obligaciones de una cuenta (más recientes primero)
// @Tags         obligations
// @Produce      json
// @Param        account  path  string  true  "Placa o número de domicilio"
// @Success      200  {array}   dto.ObligationSummary
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/fines/{account} [get]
// @Router       /api/assessments/{account} [get]
func (h *ObligationHandler) List(c *fiber.Ctx) error {
	list, err := h.settle.GetObligations(c.UserContext(), h.account(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(list)
}

// Total godoc
// @Summary      Saldo pendiente de una cuenta
// @Tags         obligations
// @Produce      json
// @Param        account  path  string  true  "Placa o número de domicilio"
// @Success      200  {object}  dto.OutstandingTotalResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/fines/{account}/total [get]
// @Router       /api/assessments/{account}/total [get]
func (h *ObligationHandler) Total(c *fiber.Ctx) error {
	total, err := h.settle.GetOutstandingTotal(c.UserContext(), h.account(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(total)
}

// Pay godoc
// @Summary      Pagar una obligación por su monto exacto
// @Tags         settlement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleOneRequest  true  "obligation_id y amount (exacto)"
// @Success      200  {object}  dto.ReceiptResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.SettlementErrorResponse
// @Failure      422  {object}  dto.SettlementErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/fines/pay [post]
// @Router       /api/assessments/pay [post]
func (h *ObligationHandler) Pay(c *fiber.Ctx) error {
	var in dto.SettleOneRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.ValidateStruct(in); err != nil {
		return invalid(c, err)
	}
	receipt, err := h.settle.SettleOne(c.UserContext(), h.category, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().
		Str("operator", GetUserID(c)).
		Int64("obligation_id", receipt.ObligationID).
		Msg("pago registrado en caja")
	return c.JSON(receipt)
}

// PayAll godoc
// @Summary      Pagar todas las obligaciones pendientes de una cuenta
// @Description  amount debe ser exactamente el saldo pendiente. Si otra petición pagó parte de la
// @Description  cuenta entre la validación y la escritura, el comprobante refleja solo lo pagado aquí.
// @Tags         settlement
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SettleAllRequest  true  "account y amount (saldo exacto)"
// @Success      200  {object}  dto.BatchReceiptResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.SettlementErrorResponse
// @Failure      422  {object}  dto.SettlementErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/fines/pay-all [post]
// @Router       /api/assessments/pay-all [post]
func (h *ObligationHandler) PayAll(c *fiber.Ctx) error {
	var in dto.SettleAllRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.ValidateStruct(in); err != nil {
		return invalid(c, err)
	}
	receipt, err := h.settle.SettleAll(c.UserContext(), h.category, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().
		Str("operator", GetUserID(c)).
		Str("account", receipt.Account).
		Int("count", receipt.CountSettled).
		Msg("pago total registrado en caja")
	return c.JSON(receipt)
}

// Statement godoc
// @Summary      Estado de cuenta en PDF (obligaciones pendientes)
// @Tags         statements
// @Produce      application/pdf
// @Param        account  path  string  true  "Placa o número de domicilio"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/fines/{account}/statement [get]
// @Router       /api/assessments/{account}/statement [get]
func (h *ObligationHandler) Statement(c *fiber.Ctx) error {
	pdf, filename, err := h.statements.Download(c.UserContext(), h.account(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(filename))
	return c.Send(pdf)
}

// SendStatement godoc
// @Summary      Enviar el estado de cuenta por correo
// @Tags         statements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SendStatementRequest  true  "account y email"
// @Success      200  {object}  dto.StatementSentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/fines/send-statement [post]
// @Router       /api/assessments/send-statement [post]
func (h *ObligationHandler) SendStatement(c *fiber.Ctx) error {
	var in dto.SendStatementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.validate.ValidateStruct(in); err != nil {
		return invalid(c, err)
	}
	resp, err := h.statements.Send(c.UserContext(), entity.AccountRef{Category: h.category, Key: in.Account}, in.Email)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(resp)
}
