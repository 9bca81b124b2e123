package billing

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/pkg/jwt"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/jhoicas/shipdash-api/pkg/signedurl"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fakes ─────────────────────────────────────────────────────────────────────

type memShipments struct {
	repository.ShipmentRepository
	rows []*entity.Shipment
}

func (m *memShipments) ListUninvoicedInRange(_ context.Context, clientID string, from, to time.Time) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	for _, s := range m.rows {
		day := s.OrderReceivedAt
		if s.ClientID == clientID && s.InvoiceID == "" && !day.Before(from) && day.Before(to.AddDate(0, 0, 1)) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memShipments) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	for _, s := range m.rows {
		if s.InvoiceID == invoiceID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memShipments) AssignInvoice(_ context.Context, invoiceID string, ids []string) (int64, error) {
	var n int64
	for _, s := range m.rows {
		for _, id := range ids {
			if s.ID == id {
				s.InvoiceID = invoiceID
				n++
			}
		}
	}
	return n, nil
}

type memInvoices struct {
	repository.InvoiceRepository
	seq   int64
	rows  map[string]*entity.Invoice
	lines map[string][]*entity.InvoiceLineItem
}

func newMemInvoices() *memInvoices {
	return &memInvoices{rows: map[string]*entity.Invoice{}, lines: map[string][]*entity.InvoiceLineItem{}}
}

func (m *memInvoices) NextNumber(context.Context) (int64, error) { m.seq++; return m.seq, nil }
func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.rows[inv.Number] = inv
	return nil
}
func (m *memInvoices) CreateLineItem(_ context.Context, li *entity.InvoiceLineItem) error {
	m.lines[li.InvoiceID] = append(m.lines[li.InvoiceID], li)
	return nil
}
func (m *memInvoices) GetByNumber(_ context.Context, n string) (*entity.Invoice, error) {
	return m.rows[n], nil
}
func (m *memInvoices) GetLineItems(_ context.Context, id string) ([]*entity.InvoiceLineItem, error) {
	return m.lines[id], nil
}
func (m *memInvoices) ExistsForPeriod(context.Context, string, time.Time, time.Time) (bool, error) {
	return false, nil
}
func (m *memInvoices) SetArtifacts(_ context.Context, id, pdfKey, xlsxKey string) error {
	for _, inv := range m.rows {
		if inv.ID == id {
			inv.PDFKey, inv.XLSXKey = pdfKey, xlsxKey
		}
	}
	return nil
}

type memClients struct{ repository.ClientRepository }

func (memClients) GetByID(_ context.Context, id string) (*entity.Client, error) {
	if id == "c1" || id == "c2" {
		return &entity.Client{ID: id, Name: strings.ToUpper(id)}, nil
	}
	return nil, nil
}

// txRunner sin base de datos.
type txRunner struct {
	ships    *memShipments
	invoices *memInvoices
}

func (r txRunner) RunInvoice(_ context.Context, fn func(repository.ShipmentRepository, repository.InvoiceRepository) error) error {
	return fn(r.ships, r.invoices)
}

type memStore struct {
	mu   sync.Mutex
	data map[string]Artifact
}

func (s *memStore) Put(_ context.Context, key string, a Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = a
	return nil
}
func (s *memStore) Get(_ context.Context, key string) (Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.data[key]
	if !ok {
		return Artifact{}, domain.ErrNotFound
	}
	return a, nil
}

type stubPDF struct{ calls int }

func (p *stubPDF) GenerateInvoicePDF(_ context.Context, doc InvoiceDocument) ([]byte, error) {
	p.calls++
	return []byte("%PDF " + doc.Invoice.Number), nil
}

type stubXLSX struct{ rows int }

func (x *stubXLSX) GenerateInvoiceXLSX(_ context.Context, doc InvoiceDocument) ([]byte, error) {
	x.rows = len(doc.Shipments)
	return []byte("PK"), nil
}

// ── Fixture ───────────────────────────────────────────────────────────────────

type fixture struct {
	ships    *memShipments
	invoices *memInvoices
	store    *memStore
	pdf      *stubPDF
	xlsx     *stubXLSX
	gen      *GenerateInvoiceUseCase
	files    *InvoiceFilesUseCase
}

func money(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	day := func(d int) time.Time { return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC) }
	f := &fixture{
		ships: &memShipments{rows: []*entity.Shipment{
			{ID: "s1", ClientID: "c1", Cost: money("10.00"), OrderReceivedAt: day(4)},
			{ID: "s2", ClientID: "c1", Cost: money("20.55"), OrderReceivedAt: day(10)},
			{ID: "s3", ClientID: "c1", OrderReceivedAt: day(6)},
			{ID: "s4", ClientID: "c1", Cost: money("99"), OrderReceivedAt: day(11)},
			{ID: "s5", ClientID: "c2", Cost: money("5"), OrderReceivedAt: day(5)},
			{ID: "s6", ClientID: "c1", Cost: money("7"), OrderReceivedAt: day(5), InvoiceID: "old"},
		}},
		invoices: newMemInvoices(),
		store:    &memStore{data: map[string]Artifact{}},
		pdf:      &stubPDF{},
		xlsx:     &stubXLSX{},
	}
	signer, err := signedurl.NewSigner("s3cret", time.Minute, "http://api.test")
	require.NoError(t, err)

	renderer := NewArtifactRenderer(f.invoices, f.ships, f.pdf, f.xlsx, f.store, "USD")
	f.gen = NewGenerateInvoiceUseCase(txRunner{f.ships, f.invoices}, f.invoices, memClients{}, renderer,
		Config{TaxRate: decimal.RequireFromString("0.0825"), InvoicePrefix: "INV"}, logger.Nop())
	f.gen.now = func() time.Time { return time.Date(2024, 3, 18, 9, 0, 0, 0, time.UTC) }
	f.files = NewInvoiceFilesUseCase(f.invoices, memClients{}, renderer, f.store, signer)
	return f
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestGenerate(t *testing.T) {
	f := newFixture(t)

	inv, err := f.gen.Generate(context.Background(), dto.GenerateInvoiceRequest{WeekStart: "2024-03-04", ClientID: "c1"})
	require.NoError(t, err)

	assert.Equal(t, "INV-000001", inv.Number)
	assert.Equal(t, "2024-03-04", inv.PeriodStart)
	assert.Equal(t, "2024-03-10", inv.PeriodEnd)
	assert.Equal(t, 3, inv.ShipmentCount, "s1, s2 y s3; s6 ya estaba facturado")
	assert.Equal(t, "30.55", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "2.52", inv.Tax.StringFixed(2)) // 30.55 * 0.0825 = 2.520375
	assert.Equal(t, "33.07", inv.Total.StringFixed(2))
	assert.True(t, inv.HasFiles)

	for _, id := range []string{"s1", "s2", "s3"} {
		assert.NotEmpty(t, findShipment(f.ships, id).InvoiceID, id)
	}
	assert.Empty(t, findShipment(f.ships, "s4").InvoiceID)
	assert.Equal(t, 3, f.xlsx.rows)

	lines := f.invoices.lines[inv.ID]
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)

	next, err := f.gen.Generate(context.Background(), dto.GenerateInvoiceRequest{WeekStart: "2024-03-11", ClientID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "INV-000002", next.Number, "numeración secuencial")
}

func TestGenerate_SinEnviosPendientes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gen.Generate(ctx, dto.GenerateInvoiceRequest{WeekStart: "2024-03-04", ClientID: "c1"})
	require.NoError(t, err)

	_, err = f.gen.Generate(ctx, dto.GenerateInvoiceRequest{WeekStart: "2024-03-04", ClientID: "c1"})
	require.ErrorIs(t, err, domain.ErrNoUninvoicedShipments)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Len(t, f.invoices.rows, 1, "no se crea factura")

	_, err = f.gen.Generate(ctx, dto.GenerateInvoiceRequest{WeekStart: "2023-01-02", ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrNoUninvoicedShipments)
}

func TestGenerate_EntradaInvalida(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.gen.Generate(ctx, dto.GenerateInvoiceRequest{WeekStart: "04/03/2024", ClientID: "c1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.gen.Generate(ctx, dto.GenerateInvoiceRequest{WeekStart: "2024-03-04", ClientID: "nobody"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFiles_AccesoYDescarga(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inv, err := f.gen.Generate(ctx, dto.GenerateInvoiceRequest{WeekStart: "2024-03-04", ClientID: "c1"})
	require.NoError(t, err)

	_, err = f.files.Files(ctx, jwt.Identity{UserID: "x", ClientID: "c2", Role: entity.RoleClient}, inv.Number)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.files.Files(ctx, jwt.Identity{UserID: "x", Role: entity.RoleCare}, "INV-999999")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	links, err := f.files.Files(ctx, jwt.Identity{UserID: "u", ClientID: "c1", Role: entity.RoleClient}, inv.Number)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(links.PDFURL, "http://api.test/api/files/"))
	assert.False(t, links.ExpiresAt.IsZero())

	token := strings.TrimPrefix(links.PDFURL, "http://api.test/api/files/")
	a, name, err := f.files.Open(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, inv.Number+".pdf", name)
	assert.Equal(t, contentTypePDF, a.ContentType)

	_, _, err = f.files.Open(ctx, token+"x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestFiles_GeneraArchivosFaltantes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.gen.artifacts = nil // simula un fallo al renderizar tras el commit

	inv, err := f.gen.Generate(ctx, dto.GenerateInvoiceRequest{WeekStart: "2024-03-04", ClientID: "c1"})
	require.NoError(t, err)
	assert.False(t, inv.HasFiles)
	assert.Zero(t, f.pdf.calls)

	_, err = f.files.Files(ctx, jwt.Identity{UserID: "a", Role: entity.RoleAdmin}, inv.Number)
	require.NoError(t, err)
	assert.Equal(t, 1, f.pdf.calls)
	assert.Equal(t, 3, f.xlsx.rows, "los envíos se cargan por factura")
	assert.True(t, f.invoices.rows[inv.Number].HasArtifacts())
}

func findShipment(m *memShipments, id string) *entity.Shipment {
	for _, s := range m.rows {
		if s.ID == id {
			return s
		}
	}
	return nil
}
