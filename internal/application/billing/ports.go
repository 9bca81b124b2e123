package billing

import (
	"context"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// InvoiceTxRunner ejecuta una función dentro de una transacción con los repos de envíos y facturas.
// Si fn retorna error se hace rollback.
type InvoiceTxRunner interface {
	RunInvoice(ctx context.Context, fn func(
		shipmentRepo repository.ShipmentRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// Artifact archivo almacenado.
type Artifact struct {
	Data        []byte
	ContentType string
}

// ArtifactStore almacenamiento de archivos generados. Get devuelve domain.ErrNotFound si no existe.
type ArtifactStore interface {
	Put(ctx context.Context, key string, a Artifact) error
	Get(ctx context.Context, key string) (Artifact, error)
}

// InvoiceDocument datos necesarios para representar una factura.
type InvoiceDocument struct {
	Invoice   *entity.Invoice
	Client    *entity.Client
	Lines     []*entity.InvoiceLineItem
	Shipments []*entity.Shipment
	Currency  string
}

// InvoicePDFGenerator genera la representación PDF de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// InvoiceXLSXGenerator genera el detalle de la factura en Excel (una fila por envío).
type InvoiceXLSXGenerator interface {
	GenerateInvoiceXLSX(ctx context.Context, doc InvoiceDocument) ([]byte, error)
}

// URLSigner emite y verifica URLs de descarga con vencimiento.
type URLSigner interface {
	Sign(key, kind string) (string, time.Time, error)
	Verify(token string) (key, kind string, err error)
}

// Config parámetros de facturación.
type Config struct {
	TaxRate       decimal.Decimal
	InvoicePrefix string
	Currency      string
}

const (
	KindPDF  = "pdf"
	KindXLSX = "xlsx"

	contentTypePDF  = "application/pdf"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)
