package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

var invoiceSortColumns = map[string]string{
	"createdAt":   "i.created_at",
	"number":      "i.number",
	"total":       "i.total",
	"periodStart": "i.period_start",
}

const invoiceColumns = `
	i.id, i.client_id, i.number, i.period_start, i.period_end, i.shipment_count,
	i.subtotal, i.tax_rate, i.tax, i.total, COALESCE(i.pdf_key, ''), COALESCE(i.xlsx_key, ''), i.created_at`

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// NextNumber siguiente valor de invoice_number_seq. Los números consumidos en una tx
// revertida no se reutilizan.
func (r *InvoiceRepo) NextNumber(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return n, nil
}

// Create persiste la cabecera de la factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.New().String()
	}
	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (id, client_id, number, period_start, period_end, shipment_count,
			subtotal, tax_rate, tax, total, pdf_key, xlsx_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		inv.ID, inv.ClientID, inv.Number, inv.PeriodStart, inv.PeriodEnd, inv.ShipmentCount,
		inv.Subtotal, inv.TaxRate, inv.Tax, inv.Total, nullIfEmpty(inv.PDFKey), nullIfEmpty(inv.XLSXKey), inv.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("invoice number %s: %w", inv.Number, domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateLineItem persiste una línea.
func (r *InvoiceRepo) CreateLineItem(ctx context.Context, item *entity.InvoiceLineItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoice_line_items (id, invoice_id, description, quantity, amount)
		VALUES ($1, $2, $3, $4, $5)`,
		item.ID, item.InvoiceID, item.Description, item.Quantity, item.Amount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice line item: %w", err)
	}
	return nil
}

// GetByNumber obtiene una factura por número.
func (r *InvoiceRepo) GetByNumber(ctx context.Context, number string) (*entity.Invoice, error) {
	row := r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices i WHERE i.number = $1`, number)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetLineItems líneas de una factura.
func (r *InvoiceRepo) GetLineItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, description, quantity, amount
		FROM invoice_line_items WHERE invoice_id = $1 ORDER BY id`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice line items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLineItem
	for rows.Next() {
		var li entity.InvoiceLineItem
		if err := rows.Scan(&li.ID, &li.InvoiceID, &li.Description, &li.Quantity, &li.Amount); err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		list = append(list, &li)
	}
	return list, rows.Err()
}

// ListByClient página de facturas del cliente.
func (r *InvoiceRepo) ListByClient(ctx context.Context, clientID string, sort repository.Sort, page repository.Page) ([]*entity.Invoice, int, error) {
	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM invoices WHERE client_id = $1`, clientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}
	query := `SELECT ` + invoiceColumns + ` FROM invoices i WHERE i.client_id = $1` +
		orderBy(invoiceSortColumns, sort.Field, sort.Desc, "i") + ` LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, clientID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, total, rows.Err()
}

// ExistsForPeriod factura previa del cliente con el mismo período.
func (r *InvoiceRepo) ExistsForPeriod(ctx context.Context, clientID string, start, end time.Time) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM invoices WHERE client_id = $1 AND period_start = $2 AND period_end = $3)`,
		clientID, start, end,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("invoice exists for period: %w", err)
	}
	return exists, nil
}

// SetArtifacts registra las claves del PDF y el XLSX.
func (r *InvoiceRepo) SetArtifacts(ctx context.Context, invoiceID, pdfKey, xlsxKey string) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET pdf_key = $2, xlsx_key = $3 WHERE id = $1`, invoiceID, pdfKey, xlsxKey)
	if err != nil {
		return fmt.Errorf("set invoice artifacts: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.ClientID, &inv.Number, &inv.PeriodStart, &inv.PeriodEnd, &inv.ShipmentCount,
		&inv.Subtotal, &inv.TaxRate, &inv.Tax, &inv.Total, &inv.PDFKey, &inv.XLSXKey, &inv.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
