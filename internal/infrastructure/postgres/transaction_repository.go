package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

var transactionSortColumns = map[string]string{
	"transactionDate": "t.transaction_date",
	"amount":          "t.amount",
	"category":        "t.category",
	"referenceId":     "t.reference_id",
	"status":          "t.status",
}

const transactionColumns = `
	t.id, t.client_id, t.family, t.reference_id, t.category, t.description, t.fulfillment_center,
	t.amount, t.transaction_date, COALESCE(t.invoice_id, ''), t.status, t.created_at`

// TransactionRepo lectura de billing_transactions.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador.
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// List página de transacciones de una familia.
func (r *TransactionRepo) List(ctx context.Context, f repository.TransactionFilter, sort repository.Sort, page repository.Page) ([]*entity.BillingTransaction, int, error) {
	w := &whereBuilder{}
	w.and("t.client_id = " + w.arg(f.ClientID))
	w.and("t.family = " + w.arg(f.Family))
	if f.From != nil {
		w.and("t.transaction_date >= " + w.arg(*f.From))
	}
	if f.To != nil {
		w.and("t.transaction_date < " + w.arg(f.To.AddDate(0, 0, 1)))
	}
	if len(f.Types) > 0 {
		w.and("t.category = ANY(" + w.arg(f.Types) + ")")
	}
	if len(f.Statuses) > 0 {
		codes := make([]string, len(f.Statuses))
		for i, st := range f.Statuses {
			codes[i] = st.String()
		}
		w.and("t.status = ANY(" + w.arg(codes) + ")")
	}
	if f.Search != "" {
		p := w.arg(likePattern(f.Search))
		w.and("(t.reference_id ILIKE " + p + " OR t.description ILIKE " + p + ")")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM billing_transactions t`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	query := `SELECT ` + transactionColumns + ` FROM billing_transactions t` + w.sql() +
		orderBy(transactionSortColumns, sort.Field, sort.Desc, "t") +
		` LIMIT ` + w.arg(page.Limit) + ` OFFSET ` + w.arg(page.Offset)
	list, err := r.query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return list, total, nil
}

// ListInRange transacciones de una familia dentro de los días [from, to].
func (r *TransactionRepo) ListInRange(ctx context.Context, clientID string, family entity.Family, from, to time.Time) ([]*entity.BillingTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM billing_transactions t
		WHERE t.client_id = $1 AND t.family = $2 AND t.transaction_date >= $3 AND t.transaction_date < $4
		ORDER BY t.transaction_date, t.id`
	list, err := r.query(ctx, query, clientID, string(family), from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("list transactions in range: %w", err)
	}
	return list, nil
}

func (r *TransactionRepo) query(ctx context.Context, sql string, args ...any) ([]*entity.BillingTransaction, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := make([]*entity.BillingTransaction, 0)
	for rows.Next() {
		var t entity.BillingTransaction
		var family, code string
		if err := rows.Scan(
			&t.ID, &t.ClientID, &family, &t.ReferenceID, &t.Category, &t.Description, &t.FulfillmentCenter,
			&t.Amount, &t.TransactionDate, &t.InvoiceID, &code, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Family = entity.Family(family)
		t.Status, _ = status.ParseTransaction(code)
		list = append(list, &t)
	}
	return list, rows.Err()
}
