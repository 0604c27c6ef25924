package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/rs/zerolog"
)

// retryAfterSeconds sugerido al cliente ante fallas transitorias del almacén.
const retryAfterSeconds = "2"

// writeError traduce errores de dominio a la respuesta HTTP.
//   - NotFound 404, AlreadySettled 409, AmountMismatch/EmptyAccount 422
//   - Transient 503 con Retry-After; entrada inválida 400; el resto 500.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var mismatch *domain.AmountMismatchError
	var already *domain.AlreadySettledError
	var empty *domain.EmptyAccountError

	switch {
	case errors.As(err, &mismatch):
		expected, submitted := mismatch.Expected, mismatch.Submitted
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.SettlementErrorResponse{
			Code:      "AMOUNT_MISMATCH",
			Message:   "el monto no coincide con el adeudo",
			Expected:  &expected,
			Submitted: &submitted,
		})
	case errors.As(err, &already):
		return c.Status(fiber.StatusConflict).JSON(dto.SettlementErrorResponse{
			Code:         "ALREADY_SETTLED",
			Message:      "la obligación ya fue pagada",
			ObligationID: already.ObligationID,
			Account:      already.Account,
			SettledAt:    already.SettledAt,
		})
	case errors.As(err, &empty):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.SettlementErrorResponse{
			Code:    "EMPTY_ACCOUNT",
			Message: "la cuenta no tiene obligaciones pendientes",
			Account: empty.Account,
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrTransient):
		log.Warn().Err(err).Str("path", c.Path()).Msg("almacén no disponible")
		c.Set(fiber.HeaderRetryAfter, retryAfterSeconds)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "TRANSIENT", Message: "servicio no disponible, reintente"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, statement.ErrNotifierDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "MAIL_DISABLED", Message: err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func invalid(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Details: validationDetails(err),
	})
}
