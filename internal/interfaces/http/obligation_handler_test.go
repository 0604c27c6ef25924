package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Recaudo-api/internal/application/settlement"
	"github.com/jhoicas/Recaudo-api/internal/application/statement"
	"github.com/jhoicas/Recaudo-api/internal/domain/entity"
	domainsettlement "github.com/jhoicas/Recaudo-api/internal/domain/settlement"
	infrapdf "github.com/jhoicas/Recaudo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Recaudo-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/Recaudo-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Recaudo-api/pkg/jwt"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba: router completo sobre SQLite en memoria
// ──────────────────────────────────────────────────────────────────────────────

type sentMails struct {
	mails []statement.Mail
}

func (s *sentMails) SendStatement(_ context.Context, m statement.Mail) error {
	s.mails = append(s.mails, m)
	return nil
}

type testServer struct {
	app   *fiber.App
	repo  *sqlite.ObligationRepo
	mails *sentMails
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zerolog.Nop()
	repo := sqlite.NewObligationRepository(db)
	executor := settlement.NewExecutor(repo, sqlite.NewTxRunner(db), domainsettlement.NewTimelinessEvaluator(time.UTC), nil, log)
	settleUC := settlement.NewUseCase(repo, settlement.NewValidator(repo), executor, settlement.NewBalanceAggregator(repo), nil, log)
	mails := &sentMails{}
	statementUC := statement.NewUseCase(repo, infrapdf.NewStatementRenderer("Tesorería Municipal", nil), mails, nil, log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Settlement: settleUC,
		Statements: statementUC,
		JWTSecret:  testJWTSecret,
		Log:        log,
	})
	return &testServer{app: app, repo: repo, mails: mails}
}

func (s *testServer) seed(t *testing.T, cat entity.Category, account, amount string) *entity.Obligation {
	t.Helper()
	now := time.Now().UTC()
	o := &entity.Obligation{
		Account:  account,
		Category: cat,
		Concept:  "Estacionarse en lugar prohibido",
		Amount:   decimal.RequireFromString(amount),
		IssuedAt: now.AddDate(0, -1, 0),
		DueAt:    now.AddDate(0, 1, 0).Truncate(24 * time.Hour),
	}
	require.NoError(t, s.repo.Insert(context.Background(), o))
	return o
}

func (s *testServer) do(t *testing.T, method, path, auth string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestObligations_ListAndTotal(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, entity.CategoryFine, "ABC123", "200.50")
	s.seed(t, entity.CategoryFine, "ABC123", "99.50")
	s.seed(t, entity.CategoryAssessment, "ABC123", "1000")

	resp := s.do(t, http.MethodGet, "/api/fines/ABC123", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	var list []map[string]any
	decode(t, resp, &list)
	assert.Len(t, list, 2)

	resp = s.do(t, http.MethodGet, "/api/fines/ABC123/total", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var total map[string]string
	decode(t, resp, &total)
	assert.Equal(t, "300", total["total"])
	assert.Equal(t, "FINE", total["category"])

	resp = s.do(t, http.MethodGet, "/api/assessments/NADA", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, "[]", string(body))
}

// ──────────────────────────────────────────────────────────────────────────────
// Pagos
// ──────────────────────────────────────────────────────────────────────────────

func TestPay_RequiresCashierRole(t *testing.T) {
	s := newTestServer(t)
	o := s.seed(t, entity.CategoryFine, "ABC123", "500")
	body := map[string]any{"obligation_id": o.ID, "amount": "500"}

	resp := s.do(t, http.MethodPost, "/api/fines/pay", "", body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/fines/pay", tokenForRole(t, "consulta"), body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestPay_SuccessThenConflict(t *testing.T) {
	s := newTestServer(t)
	o := s.seed(t, entity.CategoryFine, "ABC123", "500.00")
	auth := tokenForRole(t, pkgjwt.RoleCajero)
	body := map[string]any{"obligation_id": o.ID, "amount": 500}

	resp := s.do(t, http.MethodPost, "/api/fines/pay", auth, body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var receipt map[string]any
	decode(t, resp, &receipt)
	assert.EqualValues(t, o.ID, receipt["obligation_id"])
	assert.Equal(t, true, receipt["settled_on_time"])

	resp = s.do(t, http.MethodPost, "/api/fines/pay", auth, body)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	var conflict map[string]any
	decode(t, resp, &conflict)
	assert.Equal(t, "ALREADY_SETTLED", conflict["code"])
	assert.EqualValues(t, o.ID, conflict["obligation_id"])
}

func TestPay_AmountMismatchCarriesDetail(t *testing.T) {
	s := newTestServer(t)
	o := s.seed(t, entity.CategoryFine, "ABC123", "500.00")

	resp := s.do(t, http.MethodPost, "/api/fines/pay", tokenForRole(t, pkgjwt.RoleAdmin),
		map[string]any{"obligation_id": o.ID, "amount": "499.99"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "AMOUNT_MISMATCH", body["code"])
	assert.Equal(t, "500", body["expected"])
	assert.Equal(t, "499.99", body["submitted"])
}

func TestPay_OtherCategoryIsNotFound(t *testing.T) {
	s := newTestServer(t)
	o := s.seed(t, entity.CategoryAssessment, "1024", "800")

	resp := s.do(t, http.MethodPost, "/api/fines/pay", tokenForRole(t, pkgjwt.RoleCajero),
		map[string]any{"obligation_id": o.ID, "amount": "800"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPay_ValidationErrors(t *testing.T) {
	s := newTestServer(t)
	auth := tokenForRole(t, pkgjwt.RoleCajero)

	resp := s.do(t, http.MethodPost, "/api/fines/pay", auth, map[string]any{"amount": "10"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "VALIDATION", body["code"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, details, "obligation_id")

	req := httptest.NewRequest(http.MethodPost, "/api/fines/pay", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	raw, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestPayAll_FlowAndEmptyAccount(t *testing.T) {
	s := newTestServer(t)
	auth := tokenForRole(t, pkgjwt.RoleCajero)
	s.seed(t, entity.CategoryAssessment, "1024", "200.00")
	s.seed(t, entity.CategoryAssessment, "1024", "300.00")

	resp := s.do(t, http.MethodPost, "/api/assessments/pay-all", auth, map[string]any{"account": "1024", "amount": "500"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var receipt map[string]any
	decode(t, resp, &receipt)
	assert.EqualValues(t, 2, receipt["count_settled"])
	assert.Equal(t, "500", receipt["total_paid"])

	resp = s.do(t, http.MethodGet, "/api/assessments/1024/total", "", nil)
	var total map[string]string
	decode(t, resp, &total)
	assert.Equal(t, "0", total["total"])

	resp = s.do(t, http.MethodPost, "/api/assessments/pay-all", auth, map[string]any{"account": "1024", "amount": "500"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var empty map[string]any
	decode(t, resp, &empty)
	assert.Equal(t, "EMPTY_ACCOUNT", empty["code"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados de cuenta
// ──────────────────────────────────────────────────────────────────────────────

func TestStatement_DownloadPDF(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, entity.CategoryFine, "XYZ987", "1500")

	resp := s.do(t, http.MethodGet, "/api/fines/XYZ987/statement", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "FINE_XYZ987_")
	pdf, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	resp = s.do(t, http.MethodGet, "/api/fines/SIN-ADEUDO/statement", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestStatement_Send(t *testing.T) {
	s := newTestServer(t)
	s.seed(t, entity.CategoryAssessment, "1024", "99.90")
	auth := tokenForRole(t, pkgjwt.RoleCajero)

	resp := s.do(t, http.MethodPost, "/api/assessments/send-statement", auth, map[string]any{"account": "1024", "email": "no-es-correo"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/assessments/send-statement", auth, map[string]any{"account": "1024", "email": "vecino@example.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	decode(t, resp, &body)
	assert.Equal(t, "vecino@example.com", body["email"])
	require.Len(t, s.mails.mails, 1)
	assert.Equal(t, "vecino@example.com", s.mails.mails[0].To)
	assert.EqualValues(t, 1, body["count"])
}
