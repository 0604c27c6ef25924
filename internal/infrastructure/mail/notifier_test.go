package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type captureSender struct {
	sent []*gomail.Message
	err  error
}

func (s *captureSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func testMail() statement.Mail {
	return statement.Mail{
		To:       "ciudadano@example.com",
		Account:  entity.AccountRef{Category: entity.CategoryAssessment, Key: "1024"},
		Total:    decimal.RequireFromString("12500.5"),
		Filename: "ASSESSMENT_1024_20240301.pdf",
		PDF:      []byte("%PDF-1.3 fake"),
	}
}

func TestSendStatement_BuildsMessage(t *testing.T) {
	sender := &captureSender{}
	n := NewNotifier(sender, "tesoreria@example.com", "Tesorería")

	require.NoError(t, n.SendStatement(context.Background(), testMail()))
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"ciudadano@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{"Predial - Domicilio 1024"}, m.GetHeader("Subject"))

	var raw bytes.Buffer
	_, err := m.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "ASSESSMENT_1024_20240301.pdf")
	assert.Contains(t, raw.String(), "$12,500.50")
}

func TestSendStatement_PropagatesSMTPError(t *testing.T) {
	boom := errors.New("connection refused")
	n := NewNotifier(&captureSender{err: boom}, "tesoreria@example.com", "Tesorería")

	err := n.SendStatement(context.Background(), testMail())
	assert.ErrorIs(t, err, boom)
}

func TestSendStatement_CanceledContext(t *testing.T) {
	sender := &captureSender{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewNotifier(sender, "a@b.c", "").SendStatement(ctx, testMail())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sender.sent)
}
