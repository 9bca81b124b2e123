package usecase

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
)

// ── Repositorios en memoria para tests ────────────────────────────────────────

type fakeShipmentRepo struct {
	mu         sync.Mutex
	rows       []*entity.Shipment
	carriers   []string
	rangeCalls atomic.Int32
	lastFilter repository.ShipmentFilter
	lastSort   repository.Sort
	lastPage   repository.Page
	listErr    error
	assigned   map[string]string
	started    chan struct{} // se cierra al entrar en ListInRange
	release    chan struct{} // ListInRange espera este canal o la cancelación de su ctx
}

var _ repository.ShipmentRepository = (*fakeShipmentRepo)(nil)

func (f *fakeShipmentRepo) List(_ context.Context, flt repository.ShipmentFilter, s repository.Sort, p repository.Page) ([]*entity.Shipment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter, f.lastSort, f.lastPage = flt, s, p
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	var matched []*entity.Shipment
	for _, r := range f.rows {
		if r.ClientID == flt.ClientID {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	end := p.Offset + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	if p.Offset >= len(matched) {
		return []*entity.Shipment{}, len(matched), nil
	}
	return matched[p.Offset:end], len(matched), nil
}

func (f *fakeShipmentRepo) ListCarriers(_ context.Context, _ string) ([]string, error) {
	return f.carriers, nil
}

func (f *fakeShipmentRepo) ListInRange(ctx context.Context, clientID string, _, _ time.Time) ([]*entity.Shipment, error) {
	f.rangeCalls.Add(1)
	if f.release != nil {
		f.mu.Lock()
		if f.started != nil {
			close(f.started)
			f.started = nil
		}
		f.mu.Unlock()
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	var out []*entity.Shipment
	for _, r := range f.rows {
		if r.ClientID == clientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) GetByExternalID(_ context.Context, id string) (*entity.Shipment, error) {
	for _, r := range f.rows {
		if r.ShipmentID == id {
			return r, nil
		}
	}
	return nil, nil
}

func (f *fakeShipmentRepo) Upsert(_ context.Context, s *entity.Shipment) error {
	f.rows = append(f.rows, s)
	return nil
}

func (f *fakeShipmentRepo) UpdateStatus(_ context.Context, _ *entity.Shipment) error { return nil }

func (f *fakeShipmentRepo) ListUninvoicedInRange(_ context.Context, clientID string, _, _ time.Time) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	for _, r := range f.rows {
		if r.ClientID == clientID && r.InvoiceID == "" {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	for _, r := range f.rows {
		if r.InvoiceID == invoiceID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeShipmentRepo) AssignInvoice(_ context.Context, invoiceID string, ids []string) (int64, error) {
	if f.assigned == nil {
		f.assigned = make(map[string]string)
	}
	for _, id := range ids {
		f.assigned[id] = invoiceID
	}
	return int64(len(ids)), nil
}

type fakeTransactionRepo struct {
	rows       []*entity.BillingTransaction
	lastFilter repository.TransactionFilter
}

var _ repository.TransactionRepository = (*fakeTransactionRepo)(nil)

func (f *fakeTransactionRepo) List(_ context.Context, flt repository.TransactionFilter, _ repository.Sort, _ repository.Page) ([]*entity.BillingTransaction, int, error) {
	f.lastFilter = flt
	var out []*entity.BillingTransaction
	for _, r := range f.rows {
		if r.ClientID == flt.ClientID && string(r.Family) == flt.Family {
			out = append(out, r)
		}
	}
	return out, len(out), nil
}

func (f *fakeTransactionRepo) ListInRange(_ context.Context, clientID string, family entity.Family, _, _ time.Time) ([]*entity.BillingTransaction, error) {
	var out []*entity.BillingTransaction
	for _, r := range f.rows {
		if r.ClientID == clientID && r.Family == family {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeInvoiceRepo struct {
	byNumber map[string]*entity.Invoice
}

var _ repository.InvoiceRepository = (*fakeInvoiceRepo)(nil)

func (f *fakeInvoiceRepo) NextNumber(context.Context) (int64, error) {
	return int64(len(f.byNumber) + 1), nil
}
func (f *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if f.byNumber == nil {
		f.byNumber = make(map[string]*entity.Invoice)
	}
	f.byNumber[inv.Number] = inv
	return nil
}
func (f *fakeInvoiceRepo) CreateLineItem(context.Context, *entity.InvoiceLineItem) error { return nil }
func (f *fakeInvoiceRepo) GetByNumber(_ context.Context, n string) (*entity.Invoice, error) {
	return f.byNumber[n], nil
}
func (f *fakeInvoiceRepo) GetLineItems(context.Context, string) ([]*entity.InvoiceLineItem, error) {
	return nil, nil
}
func (f *fakeInvoiceRepo) ListByClient(_ context.Context, clientID string, _ repository.Sort, _ repository.Page) ([]*entity.Invoice, int, error) {
	var out []*entity.Invoice
	for _, inv := range f.byNumber {
		if inv.ClientID == clientID {
			out = append(out, inv)
		}
	}
	return out, len(out), nil
}
func (f *fakeInvoiceRepo) ExistsForPeriod(context.Context, string, time.Time, time.Time) (bool, error) {
	return false, nil
}
func (f *fakeInvoiceRepo) SetArtifacts(context.Context, string, string, string) error { return nil }
