package repository

import (
	"context"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// NextNumber toma el siguiente valor de la secuencia de numeración.
	NextNumber(ctx context.Context) (int64, error)
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateLineItem(ctx context.Context, item *entity.InvoiceLineItem) error
	// GetByNumber nil, nil si no existe.
	GetByNumber(ctx context.Context, number string) (*entity.Invoice, error)
	GetLineItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceLineItem, error)
	ListByClient(ctx context.Context, clientID string, sort Sort, page Page) ([]*entity.Invoice, int, error)
	// ExistsForPeriod indica si el cliente ya tiene una factura con ese período.
	ExistsForPeriod(ctx context.Context, clientID string, start, end time.Time) (bool, error)
	// SetArtifacts registra las claves de los archivos PDF/XLSX ya almacenados.
	SetArtifacts(ctx context.Context, invoiceID, pdfKey, xlsxKey string) error
}
