package repository

import (
	"context"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

// ShipmentRepository define el puerto de persistencia para Shipment.
type ShipmentRepository interface {
	// List devuelve la página pedida y el total de filas que cumplen el filtro.
	List(ctx context.Context, f ShipmentFilter, sort Sort, page Page) ([]*entity.Shipment, int, error)
	// ListCarriers carriers distintos del cliente (opciones del filtro).
	ListCarriers(ctx context.Context, clientID string) ([]string, error)
	// ListInRange envíos del cliente con OrderReceivedAt en [from, to] (días inclusivos), para analítica.
	ListInRange(ctx context.Context, clientID string, from, to time.Time) ([]*entity.Shipment, error)
	// GetByExternalID busca por ShipmentID del sistema de fulfillment. nil, nil si no existe.
	GetByExternalID(ctx context.Context, shipmentID string) (*entity.Shipment, error)
	// Upsert inserta o actualiza por ShipmentID. Sobre un envío facturado o terminal devuelve
	// domain.ErrConflict sin escribir.
	Upsert(ctx context.Context, s *entity.Shipment) error
	// UpdateStatus persiste estado y marcas de tiempo del ciclo de vida.
	UpdateStatus(ctx context.Context, s *entity.Shipment) error

	// ── Facturación (usar dentro de una transacción) ───────────────────────────

	// ListUninvoicedInRange bloquea (FOR UPDATE) los envíos sin factura del período.
	ListUninvoicedInRange(ctx context.Context, clientID string, from, to time.Time) ([]*entity.Shipment, error)
	// ListByInvoice envíos ya facturados en invoiceID (detalle de los archivos).
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Shipment, error)
	// AssignInvoice estampa invoiceID en los envíos; devuelve las filas afectadas.
	AssignInvoice(ctx context.Context, invoiceID string, shipmentIDs []string) (int64, error)
}
