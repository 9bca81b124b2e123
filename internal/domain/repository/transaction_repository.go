package repository

import (
	"context"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
)

// TransactionRepository puerto de lectura de transacciones de facturación.
type TransactionRepository interface {
	List(ctx context.Context, f TransactionFilter, sort Sort, page Page) ([]*entity.BillingTransaction, int, error)
	// ListInRange todas las familias del cliente con TransactionDate en [from, to].
	ListInRange(ctx context.Context, clientID string, family entity.Family, from, to time.Time) ([]*entity.BillingTransaction, error)
}
