// Package statement genera y envía estados de cuenta "por pagar". Solo lee obligaciones;
// nunca modifica su estado, y un fallo de envío no afecta ningún pago.
package statement

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Recaudo-api/internal/application/dto"
	"github.com/jhoicas/Recaudo-api/internal/domain"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrNotifierDisabled no hay servidor de correo configurado.
var ErrNotifierDisabled = errors.New("envío de correo no configurado")

// UseCase estados de cuenta en PDF y su envío por correo.
type UseCase struct {
	repo     repository.ObligationRepository
	renderer Renderer
	notifier Notifier
	now      func() time.Time
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. notifier nil deshabilita Send; now nil usa time.Now.
func NewUseCase(repo repository.ObligationRepository, renderer Renderer, notifier Notifier, now func() time.Time, log zerolog.Logger) *UseCase {
	if now == nil {
		now = time.Now
	}
	return &UseCase{repo: repo, renderer: renderer, notifier: notifier, now: now, log: log}
}

// Download PDF con las obligaciones pendientes de la cuenta y su nombre de archivo.
func (uc *UseCase) Download(ctx context.Context, account entity.AccountRef) ([]byte, string, error) {
	doc, err := uc.snapshot(ctx, account)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.renderer.RenderStatement(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("render statement %s: %w", doc.Account, err)
	}
	return pdf, Filename(doc.Account, doc.GeneratedAt), nil
}

// Send genera el PDF y lo envía a email.
func (uc *UseCase) Send(ctx context.Context, account entity.AccountRef, email string) (*dto.StatementSentResponse, error) {
	if uc.notifier == nil {
		return nil, ErrNotifierDisabled
	}
	doc, err := uc.snapshot(ctx, account)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.renderer.RenderStatement(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("render statement %s: %w", doc.Account, err)
	}
	filename := Filename(doc.Account, doc.GeneratedAt)
	err = uc.notifier.SendStatement(ctx, Mail{
		To:       email,
		Account:  doc.Account,
		Total:    doc.Total,
		Filename: filename,
		PDF:      pdf,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("account", doc.Account.String()).Msg("envío de estado de cuenta falló")
		return nil, fmt.Errorf("send statement %s: %w", doc.Account, err)
	}
	uc.log.Info().
		Str("account", doc.Account.String()).
		Int("count", len(doc.Obligations)).
		Str("total", doc.Total.StringFixed(2)).
		Msg("estado de cuenta enviado")

	return &dto.StatementSentResponse{
		Message:  "Estado de cuenta enviado",
		Category: string(doc.Account.Category),
		Account:  doc.Account.Key,
		Email:    email,
		Total:    doc.Total,
		Count:    len(doc.Obligations),
		Filename: filename,
		SentAt:   uc.now().UTC(),
	}, nil
}

func (uc *UseCase) snapshot(ctx context.Context, account entity.AccountRef) (Document, error) {
	account.Key = strings.TrimSpace(account.Key)
	if !account.Category.Valid() || account.Key == "" {
		return Document{}, domain.ErrInvalidInput
	}
	pending := entity.StatusPending
	list, err := uc.repo.ListByAccount(ctx, account, &pending)
	if err != nil {
		return Document{}, err
	}
	if len(list) == 0 {
		return Document{}, fmt.Errorf("%w: sin obligaciones pendientes para %s", domain.ErrNotFound, account.Key)
	}
	total := decimal.Zero
	for _, o := range list {
		total = total.Add(o.Amount)
	}
	return Document{
		Account:     account,
		Obligations: list,
		Total:       total,
		GeneratedAt: uc.now(),
	}, nil
}

// Filename <CATEGORY>_<key>_<yyyymmdd>.pdf, con la clave saneada para cabeceras HTTP.
func Filename(account entity.AccountRef, at time.Time) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, account.Key)
	return fmt.Sprintf("%s_%s_%s.pdf", account.Category, key, at.Format("20060102"))
}
