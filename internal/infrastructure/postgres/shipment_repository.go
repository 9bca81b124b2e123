package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

// shipmentSortColumns campo de la API -> columna. Debe cubrir repository.ShipmentSortFields.
var shipmentSortColumns = map[string]string{
	"orderReceivedAt":  "s.order_received_at",
	"labelCreatedAt":   "s.label_created_at",
	"deliveredAt":      "s.delivered_at",
	"carrier":          "s.carrier",
	"status":           "s.status",
	"cost":             "s.cost",
	"zone":             "s.zone",
	"destinationState": "s.destination_state",
	"trackingNumber":   "s.tracking_number",
	"orderId":          "s.order_id",
}

const shipmentColumns = `
	s.id, s.client_id, s.order_id, s.shipment_id, s.tracking_number, s.carrier, s.carrier_service,
	s.channel, s.status, s.cost, s.zone, s.destination_state, s.destination_city, s.origin_fc,
	s.order_received_at, s.label_created_at, s.in_transit_at, s.delivered_at,
	COALESCE(s.invoice_id, ''), COALESCE(s.credit_id, ''), s.created_at, s.updated_at`

// ShipmentRepo implementación de ShipmentRepository (usable con pool o tx).
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

// List página de envíos con total. Orden estable: columna pedida y luego id.
func (r *ShipmentRepo) List(ctx context.Context, f repository.ShipmentFilter, sort repository.Sort, page repository.Page) ([]*entity.Shipment, int, error) {
	w := shipmentWhere(f)

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM shipments s`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count shipments: %w", err)
	}

	query := `SELECT ` + shipmentColumns + ` FROM shipments s` + w.sql() +
		orderBy(shipmentSortColumns, sort.Field, sort.Desc, "s") +
		` LIMIT ` + w.arg(page.Limit) + ` OFFSET ` + w.arg(page.Offset)
	list, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list shipments: %w", err)
	}
	return list, total, nil
}

// shipmentWhere traduce el filtro a SQL.
func shipmentWhere(f repository.ShipmentFilter) *whereBuilder {
	w := &whereBuilder{}
	w.and("s.client_id = " + w.arg(f.ClientID))
	if f.From != nil {
		w.and("s.order_received_at >= " + w.arg(*f.From))
	}
	if f.To != nil {
		w.and("s.order_received_at < " + w.arg(f.To.AddDate(0, 0, 1)))
	}
	if len(f.Statuses) > 0 {
		codes := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			codes[i] = st.String()
		}
		w.and("s.status = ANY(" + w.arg(codes) + ")")
	}
	if len(f.Carriers) > 0 {
		w.and("s.carrier = ANY(" + w.arg(f.Carriers) + ")")
	}
	if len(f.Channels) > 0 {
		w.and("s.channel = ANY(" + w.arg(f.Channels) + ")")
	}
	if len(f.AgeBuckets) > 0 {
		asOf := f.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}
		// antigüedad en días completos desde la etiqueta: label <= asOf-min y label > asOf-(max+1)
		ors := make([]string, 0, len(f.AgeBuckets))
		for _, b := range f.AgeBuckets {
			cond := "s.label_created_at <= " + w.arg(asOf.AddDate(0, 0, -b.MinDays))
			if b.MaxDays >= 0 {
				cond += " AND s.label_created_at > " + w.arg(asOf.AddDate(0, 0, -(b.MaxDays+1)))
			}
			ors = append(ors, "("+cond+")")
		}
		w.and("(" + strings.Join(ors, " OR ") + ")")
	}
	if f.Search != "" {
		p := w.arg(likePattern(f.Search))
		w.and("(s.order_id ILIKE " + p + " OR s.shipment_id ILIKE " + p +
			" OR s.tracking_number ILIKE " + p + " OR s.destination_city ILIKE " + p + ")")
	}
	if f.UndeliveredOnly {
		w.and("s.label_created_at IS NOT NULL AND s.delivered_at IS NULL AND s.status NOT IN ('delivered', 'cancelled')")
	}
	return w
}

// ListCarriers carriers distintos del cliente.
func (r *ShipmentRepo) ListCarriers(ctx context.Context, clientID string) ([]string, error) {
	rows, err := r.q.Query(ctx,
		`SELECT DISTINCT carrier FROM shipments WHERE client_id = $1 AND carrier <> '' ORDER BY carrier`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list carriers: %w", err)
	}
	carriers, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan carriers: %w", err)
	}
	return carriers, nil
}

// ListInRange envíos con order_received_at dentro de los días [from, to].
func (r *ShipmentRepo) ListInRange(ctx context.Context, clientID string, from, to time.Time) ([]*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments s
		WHERE s.client_id = $1 AND s.order_received_at >= $2 AND s.order_received_at < $3
		ORDER BY s.order_received_at, s.id`
	list, err := r.query(ctx, query, clientID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list shipments in range: %w", err)
	}
	return list, nil
}

// GetByExternalID busca por shipment_id.
func (r *ShipmentRepo) GetByExternalID(ctx context.Context, shipmentID string) (*entity.Shipment, error) {
	list, err := r.query(ctx, `SELECT `+shipmentColumns+` FROM shipments s WHERE s.shipment_id = $1`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("get shipment: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Upsert inserta o actualiza por shipment_id. No toca invoice_id ni credit_id.
// Un envío facturado o en estado terminal no se actualiza: devuelve domain.ErrConflict.
func (r *ShipmentRepo) Upsert(ctx context.Context, s *entity.Shipment) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	query := `
		INSERT INTO shipments (id, client_id, order_id, shipment_id, tracking_number, carrier, carrier_service,
			channel, status, cost, zone, destination_state, destination_city, origin_fc,
			order_received_at, label_created_at, in_transit_at, delivered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		ON CONFLICT (shipment_id) DO UPDATE SET
			order_id          = EXCLUDED.order_id,
			tracking_number   = EXCLUDED.tracking_number,
			carrier           = EXCLUDED.carrier,
			carrier_service   = EXCLUDED.carrier_service,
			channel           = EXCLUDED.channel,
			status            = EXCLUDED.status,
			cost              = EXCLUDED.cost,
			zone              = EXCLUDED.zone,
			destination_state = EXCLUDED.destination_state,
			destination_city  = EXCLUDED.destination_city,
			origin_fc         = EXCLUDED.origin_fc,
			order_received_at = EXCLUDED.order_received_at,
			label_created_at  = COALESCE(EXCLUDED.label_created_at, shipments.label_created_at),
			in_transit_at     = COALESCE(EXCLUDED.in_transit_at, shipments.in_transit_at),
			delivered_at      = COALESCE(EXCLUDED.delivered_at, shipments.delivered_at),
			updated_at        = EXCLUDED.updated_at
		WHERE shipments.invoice_id IS NULL AND shipments.status NOT IN ('delivered', 'cancelled')
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.ID, s.ClientID, s.OrderID, s.ShipmentID, s.TrackingNumber, s.Carrier, s.CarrierService,
		s.Channel, s.Status.String(), s.Cost, s.Zone, s.DestinationState, s.DestinationCity, s.OriginFC,
		s.OrderReceivedAt, s.LabelCreatedAt, s.InTransitAt, s.DeliveredAt, s.CreatedAt, s.UpdatedAt,
	).Scan(&s.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("shipment %s cerrado: %w", s.ShipmentID, domain.ErrConflict)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("shipment %s: cliente %q: %w", s.ShipmentID, s.ClientID, domain.ErrInvalidInput)
		}
		return fmt.Errorf("upsert shipment: %w", err)
	}
	return nil
}

// UpdateStatus persiste estado y marcas de tiempo.
func (r *ShipmentRepo) UpdateStatus(ctx context.Context, s *entity.Shipment) error {
	s.UpdatedAt = time.Now()
	_, err := r.q.Exec(ctx, `
		UPDATE shipments
		SET status = $2, label_created_at = $3, in_transit_at = $4, delivered_at = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, s.Status.String(), s.LabelCreatedAt, s.InTransitAt, s.DeliveredAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update shipment status: %w", err)
	}
	return nil
}

// ListUninvoicedInRange bloquea las filas hasta el fin de la transacción.
func (r *ShipmentRepo) ListUninvoicedInRange(ctx context.Context, clientID string, from, to time.Time) ([]*entity.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments s
		WHERE s.client_id = $1 AND s.invoice_id IS NULL
		  AND s.order_received_at >= $2 AND s.order_received_at < $3
		ORDER BY s.order_received_at, s.id
		FOR UPDATE`
	list, err := r.query(ctx, query, clientID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list uninvoiced shipments: %w", err)
	}
	return list, nil
}

// ListByInvoice envíos de una factura.
func (r *ShipmentRepo) ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Shipment, error) {
	list, err := r.query(ctx, `SELECT `+shipmentColumns+` FROM shipments s
		WHERE s.invoice_id = $1 ORDER BY s.order_received_at, s.id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list shipments by invoice: %w", err)
	}
	return list, nil
}

// AssignInvoice estampa la factura solo en filas aún sin facturar.
func (r *ShipmentRepo) AssignInvoice(ctx context.Context, invoiceID string, shipmentIDs []string) (int64, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE shipments SET invoice_id = $1, updated_at = now()
		WHERE id = ANY($2) AND invoice_id IS NULL`, invoiceID, shipmentIDs)
	if err != nil {
		return 0, fmt.Errorf("assign invoice: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ShipmentRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.Shipment, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*entity.Shipment, 0)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var s entity.Shipment
	var code string
	err := row.Scan(
		&s.ID, &s.ClientID, &s.OrderID, &s.ShipmentID, &s.TrackingNumber, &s.Carrier, &s.CarrierService,
		&s.Channel, &code, &s.Cost, &s.Zone, &s.DestinationState, &s.DestinationCity, &s.OriginFC,
		&s.OrderReceivedAt, &s.LabelCreatedAt, &s.InTransitAt, &s.DeliveredAt,
		&s.InvoiceID, &s.CreditID, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan shipment: %w", err)
	}
	s.Status, _ = status.ParseShipment(code)
	return &s, nil
}
