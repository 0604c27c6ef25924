// Package mail entrega estados de cuenta por SMTP.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/jhoicas/Recaudo-api/pkg/config"
	"github.com/jhoicas/Recaudo-api/pkg/money"
	"gopkg.in/gomail.v2"
)

var _ statement.Notifier = (*SMTPNotifier)(nil)

// Sender abstrae el envío (gomail.Dialer en producción).
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPNotifier implementa statement.Notifier con gomail.
type SMTPNotifier struct {
	sender   Sender
	from     string
	fromName string
}

// NewSMTPNotifier construye el notificador con un gomail.Dialer sobre la configuración SMTP.
func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return NewNotifier(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From, cfg.FromName)
}

// NewNotifier construye el notificador con un Sender arbitrario.
func NewNotifier(sender Sender, from, fromName string) *SMTPNotifier {
	return &SMTPNotifier{sender: sender, from: from, fromName: fromName}
}

// SendStatement envía el correo HTML con el PDF adjunto. El envío SMTP no es cancelable;
// ctx solo se consulta antes de conectar.
func (n *SMTPNotifier) SendStatement(ctx context.Context, msg statement.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := renderBody(msg)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", n.from, n.fromName)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", subject(msg.Account))
	m.SetBody("text/html", body)
	pdf := msg.PDF
	m.Attach(msg.Filename,
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

func subject(account entity.AccountRef) string {
	if account.Category == entity.CategoryAssessment {
		return "Predial - Domicilio " + account.Key
	}
	return "Infracciones de Tránsito - Placa " + account.Key
}

var bodyTmpl = template.Must(template.New("statement").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
  <h2>{{.Title}}</h2>
  <p>Estimado ciudadano:</p>
  <p>Adjuntamos el estado de cuenta de obligaciones pendientes de <strong>{{.Key}}</strong>.</p>
  <p><strong>Monto total a pagar: {{.Total}}</strong></p>
  <p>Para realizar el pago puede utilizar cualquiera de los métodos indicados en el documento adjunto.</p>
  <hr>
  <p style="font-size: 12px; color: #666;">Este es un correo automático, por favor no responda a este mensaje.</p>
</body>
</html>`))

func renderBody(msg statement.Mail) (string, error) {
	var buf bytes.Buffer
	err := bodyTmpl.Execute(&buf, struct {
		Title, Key, Total string
	}{
		Title: subject(msg.Account),
		Key:   msg.Account.Key,
		Total: money.Format(msg.Total),
	})
	if err != nil {
		return "", fmt.Errorf("plantilla de correo: %w", err)
	}
	return buf.String(), nil
}
