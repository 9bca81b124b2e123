package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/shipdash-api/internal/application/billing"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/application/export"
	"github.com/jhoicas/shipdash-api/internal/domain"
	apphttp "github.com/jhoicas/shipdash-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/shipdash-api/pkg/jwt"
	"github.com/jhoicas/shipdash-api/pkg/logger"
)

// ── Fakes de los casos de uso ─────────────────────────────────────────────────

type fakeAuth struct{}

func (fakeAuth) Login(_ context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Email != "ana@example.com" || in.Password != "secret-123" {
		return nil, domain.ErrUnauthorized
	}
	return &dto.LoginResponse{Token: "tok", User: dto.UserResponse{ID: testUserID, Email: in.Email, Role: "client"}}, nil
}

func (fakeAuth) Me(_ context.Context, userID string) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID}, nil
}

func (fakeAuth) ListClients(_ context.Context, id pkgjwt.Identity) ([]dto.ClientDTO, error) {
	return []dto.ClientDTO{{ID: "c-" + id.Role}}, nil
}

type fakeListing struct {
	clientID  string
	shipReq   dto.ShipmentListRequest
	undeliv   bool
	family    string
	failShips error
}

func (f *fakeListing) ListShipments(_ context.Context, clientID string, req dto.ShipmentListRequest, undelivered bool) (*dto.ListResponse[dto.ShipmentDTO], error) {
	if f.failShips != nil {
		return nil, f.failShips
	}
	f.clientID, f.shipReq, f.undeliv = clientID, req, undelivered
	return &dto.ListResponse[dto.ShipmentDTO]{
		Data:       []dto.ShipmentDTO{{ID: "s1", Carrier: "UPS"}},
		TotalCount: 1,
		Carriers:   []string{"UPS"},
	}, nil
}

func (f *fakeListing) ListTransactions(_ context.Context, clientID, family string, _ dto.TransactionListRequest) (*dto.ListResponse[dto.TransactionDTO], error) {
	if family == "nope" {
		return nil, fmt.Errorf("familia %q desconocida: %w", family, domain.ErrInvalidInput)
	}
	f.clientID, f.family = clientID, family
	return &dto.ListResponse[dto.TransactionDTO]{Data: []dto.TransactionDTO{}}, nil
}

func (f *fakeListing) ListInvoices(_ context.Context, clientID string, _ dto.InvoiceListRequest) (*dto.ListResponse[dto.InvoiceDTO], error) {
	f.clientID = clientID
	return &dto.ListResponse[dto.InvoiceDTO]{Data: []dto.InvoiceDTO{}}, nil
}

type fakeAnalytics struct{}

func (fakeAnalytics) ShipmentOverview(_ context.Context, _ string, req dto.AnalyticsRequest) (*dto.ShipmentOverviewDTO, error) {
	return &dto.ShipmentOverviewDTO{Period: dto.PeriodDTO{StartDate: req.StartDate, EndDate: req.EndDate}}, nil
}

func (fakeAnalytics) ShipmentDimension(_ context.Context, _, dimension string, _ dto.AnalyticsRequest) (*dto.DimensionDTO, error) {
	if dimension != "carrier" {
		return nil, fmt.Errorf("dimensión %q desconocida: %w", dimension, domain.ErrInvalidInput)
	}
	return &dto.DimensionDTO{Dimension: dimension}, nil
}

func (fakeAnalytics) BillingBreakdown(context.Context, string, dto.AnalyticsRequest) (*dto.BillingBreakdownDTO, error) {
	return &dto.BillingBreakdownDTO{GrandTotal: decimal.RequireFromString("10.5")}, nil
}

type fakeGenerator struct{}

func (fakeGenerator) Generate(_ context.Context, in dto.GenerateInvoiceRequest) (*dto.InvoiceDTO, error) {
	if in.WeekStart == "2024-01-01" {
		return nil, domain.ErrNoUninvoicedShipments
	}
	return &dto.InvoiceDTO{Number: "INV-000001", ClientID: in.ClientID, PeriodStart: in.WeekStart}, nil
}

type fakeFiles struct{}

func (fakeFiles) Files(_ context.Context, who pkgjwt.Identity, number string) (*dto.InvoiceFilesDTO, error) {
	if number != "INV-000001" {
		return nil, domain.ErrNotFound
	}
	if who.Role == "client" && who.ClientID != testClientID {
		return nil, domain.ErrForbidden
	}
	return &dto.InvoiceFilesDTO{Number: number, PDFURL: "http://x/api/files/good", ExpiresAt: time.Now().Add(time.Minute)}, nil
}

func (fakeFiles) Open(_ context.Context, token string) (billing.Artifact, string, error) {
	if token != "good" {
		return billing.Artifact{}, "", fmt.Errorf("token vencido: %w", domain.ErrUnauthorized)
	}
	return billing.Artifact{Data: []byte("%PDF-1.7"), ContentType: "application/pdf"}, "INV-000001.pdf", nil
}

type fakeExporter struct {
	clientID string
	req      export.Request
}

func (f *fakeExporter) Export(_ context.Context, clientID string, req export.Request, out io.Writer, _ export.Progress) (export.Result, error) {
	if req.Entity == "widgets" {
		return export.Result{}, fmt.Errorf("entidad no exportable: %w", domain.ErrInvalidInput)
	}
	f.clientID, f.req = clientID, req
	_, _ = io.WriteString(out, "Order ID\nORD-1\n")
	return export.Result{Filename: req.Entity + "-20240301-120000.csv", ContentType: "text/csv; charset=utf-8", Rows: 1}, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

type testServer struct {
	app      *fiber.App
	listing  *fakeListing
	exporter *fakeExporter
}

func newTestServer() *testServer {
	s := &testServer{listing: &fakeListing{}, exporter: &fakeExporter{}}
	s.app = apphttp.NewApp("shipdash-test", logger.Nop())
	apphttp.Router(s.app, apphttp.RouterDeps{
		Auth:      fakeAuth{},
		Listing:   s.listing,
		Analytics: fakeAnalytics{},
		Invoices:  fakeGenerator{},
		Files:     fakeFiles{},
		Export:    s.exporter,
		JWTSecret: testJWTSecret,
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path, auth, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestRouter_HealthYMetricas(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"ok"`)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, _ = s.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Login(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"secret-123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var out dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "tok", out.Token)

	resp, body = s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ana@example.com","password":"otra"}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))

	resp, body = s.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"no-es-email","password":"x"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PARAMS", errorCode(t, body))
}

func TestRouter_MeYClientes(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodGet, "/api/auth/me", tokenForRole(t, "client"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), testUserID)

	resp, body = s.do(t, http.MethodGet, "/api/clients", tokenForRole(t, "care"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":"c-care","name":""}]`, string(body))

	resp, _ = s.do(t, http.MethodGet, "/api/clients", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_ListadoDeEnvios(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodGet, "/api/shipments?limit=25&offset=50&carrier=UPS,FedEx&sortField=cost&sortDirection=asc", tokenForRole(t, "client"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var out dto.ListResponse[dto.ShipmentDTO]
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, 1, out.TotalCount)
	assert.Equal(t, []string{"UPS"}, out.Carriers)

	assert.Equal(t, testClientID, s.listing.clientID, "el cliente sale del token")
	assert.Equal(t, "UPS,FedEx", s.listing.shipReq.Carrier)
	assert.Equal(t, 25, s.listing.shipReq.Limit)
	assert.Equal(t, 50, s.listing.shipReq.Offset)
	assert.False(t, s.listing.undeliv)

	resp, _ = s.do(t, http.MethodGet, "/api/shipments/undelivered?clientId=c-7&age=0-2,11%2B", tokenForRole(t, "admin"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, s.listing.undeliv)
	assert.Equal(t, "c-7", s.listing.clientID)
	assert.Equal(t, "0-2,11+", s.listing.shipReq.Age)
}

func TestRouter_ValidacionDeParametros(t *testing.T) {
	s := newTestServer()
	tok := tokenForRole(t, "client")

	for _, path := range []string{
		"/api/shipments?limit=1000",
		"/api/shipments?offset=-1",
		"/api/shipments?sortDirection=up",
		"/api/shipments?startDate=01/02/2024",
		"/api/shipments?limit=abc",
		"/api/transactions/nope",
		"/api/analytics/shipments/colour",
	} {
		resp, body := s.do(t, http.MethodGet, path, tok, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "INVALID_PARAMS", errorCode(t, body), path)
	}

	resp, body := s.do(t, http.MethodGet, "/api/shipments", tokenForRole(t, "admin"), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "el personal interno debe indicar clientId")
	assert.Equal(t, "INVALID_PARAMS", errorCode(t, body))
}

func TestRouter_ErrorInternoNoExponeDetalle(t *testing.T) {
	s := newTestServer()
	s.listing.failShips = fmt.Errorf("postgres: conexión rechazada 10.0.0.5")

	resp, body := s.do(t, http.MethodGet, "/api/shipments", tokenForRole(t, "client"), "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL", errorCode(t, body))
	assert.NotContains(t, string(body), "10.0.0.5")
}

func TestRouter_TransaccionesYAnalitica(t *testing.T) {
	s := newTestServer()
	tok := tokenForRole(t, "client")

	resp, _ := s.do(t, http.MethodGet, "/api/transactions/storage", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "storage", s.listing.family)

	resp, body := s.do(t, http.MethodGet, "/api/analytics/shipments?startDate=2024-03-01&endDate=2024-03-31", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"startDate":"2024-03-01"`)

	resp, _ = s.do(t, http.MethodGet, "/api/analytics/shipments/carrier", tok, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/analytics/billing", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"10.5"`)

	resp, _ = s.do(t, http.MethodGet, "/api/invoices", tok, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_GenerarFactura(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodPost, "/api/invoices/generate", tokenForRole(t, "client"), `{"weekStart":"2024-03-04","clientId":"c1"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, _ = s.do(t, http.MethodPost, "/api/invoices/generate", tokenForRole(t, "care"), `{"weekStart":"2024-03-04","clientId":"c1"}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "care no factura")

	admin := tokenForRole(t, "admin")
	resp, body = s.do(t, http.MethodPost, "/api/invoices/generate", admin, `{"weekStart":"2024-01-01","clientId":"c1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "NO_UNINVOICED_SHIPMENTS", errorCode(t, body))

	resp, body = s.do(t, http.MethodPost, "/api/invoices/generate", admin, `{"weekStart":"04/03/2024","clientId":"c1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PARAMS", errorCode(t, body))

	resp, body = s.do(t, http.MethodPost, "/api/invoices/generate", admin, `{"weekStart":"2024-03-04","clientId":"c1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var inv dto.InvoiceDTO
	require.NoError(t, json.Unmarshal(body, &inv))
	assert.Equal(t, "INV-000001", inv.Number)
}

func TestRouter_ArchivosDeFactura(t *testing.T) {
	s := newTestServer()

	resp, body := s.do(t, http.MethodGet, "/api/invoices/INV-000001/files", tokenForRole(t, "client"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "pdfUrl")

	resp, _ = s.do(t, http.MethodGet, "/api/invoices/INV-000001/files", tokenFor(t, "client", "otro"), "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/api/invoices/INV-999999/files", tokenForRole(t, "admin"), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))

	// la descarga no lleva Bearer: la autoriza el token firmado
	resp, body = s.do(t, http.MethodGet, "/api/files/good", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="INV-000001.pdf"`)
	assert.Equal(t, "%PDF-1.7", string(body))

	resp, body = s.do(t, http.MethodGet, "/api/files/expired", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestRouter_Exportacion(t *testing.T) {
	s := newTestServer()
	admin := tokenForRole(t, "admin")

	resp, body := s.do(t, http.MethodGet, "/api/exports/shipments?clientId=c-9&format=csv&scope=all&columns=orderId&carrier=UPS", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "shipments-20240301-120000.csv")
	assert.Equal(t, "1", resp.Header.Get("X-Export-Rows"))
	assert.Equal(t, "Order ID\nORD-1\n", string(body))

	assert.Equal(t, "c-9", s.exporter.clientID)
	assert.Equal(t, export.ScopeAll, s.exporter.req.Scope)
	assert.Equal(t, "orderId", s.exporter.req.Columns)
	assert.Equal(t, "UPS", s.exporter.req.Shipments.Carrier, "los filtros del listado llegan a la exportación")

	resp, _ = s.do(t, http.MethodGet, "/api/exports/returns?clientId=c-9&type=Restock", admin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Restock", s.exporter.req.Transactions.Type)

	resp, body = s.do(t, http.MethodGet, "/api/exports/shipments?clientId=c-9&format=pdf", admin, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_PARAMS", errorCode(t, body))

	resp, _ = s.do(t, http.MethodGet, "/api/exports/widgets?clientId=c-9", admin, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRouter_ConfiguracionDeTabla(t *testing.T) {
	s := newTestServer()
	tok := tokenForRole(t, "client")

	resp, body := s.do(t, http.MethodGet, "/api/tables/shipments", tok, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var cfg dto.TableConfigDTO
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, export.EntityShipments, cfg.Entity)
	assert.NotEmpty(t, cfg.Columns)
	assert.Contains(t, cfg.PageSizes, cfg.DefaultPageSize)

	resp, _ = s.do(t, http.MethodGet, "/api/tables/widgets", tok, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
