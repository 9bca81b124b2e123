package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
)

var (
	defaultShipmentSort    = repository.Sort{Field: "orderReceivedAt", Desc: true}
	defaultUndeliveredSort = repository.Sort{Field: "labelCreatedAt", Desc: false} // los más viejos primero
	defaultTransactionSort = repository.Sort{Field: "transactionDate", Desc: true}
	defaultInvoiceSort     = repository.Sort{Field: "createdAt", Desc: true}
)

// ListingUseCase listados paginados de envíos, transacciones y facturas.
// El clientID llega ya resuelto por el middleware (nunca vacío).
type ListingUseCase struct {
	shipments    repository.ShipmentRepository
	transactions repository.TransactionRepository
	invoices     repository.InvoiceRepository
	now          func() time.Time
}

// NewListingUseCase construye el caso de uso.
func NewListingUseCase(
	shipments repository.ShipmentRepository,
	transactions repository.TransactionRepository,
	invoices repository.InvoiceRepository,
) *ListingUseCase {
	return &ListingUseCase{shipments: shipments, transactions: transactions, invoices: invoices, now: time.Now}
}

// ListShipments página de envíos más la lista de carriers del cliente (opciones del filtro).
// undelivered restringe a despachados sin entregar y agrega la antigüedad.
func (uc *ListingUseCase) ListShipments(
	ctx context.Context,
	clientID string,
	req dto.ShipmentListRequest,
	undelivered bool,
) (*dto.ListResponse[dto.ShipmentDTO], error) {
	now := uc.now()
	filter, err := buildShipmentFilter(clientID, req, now)
	if err != nil {
		return nil, err
	}
	filter.UndeliveredOnly = undelivered

	def := defaultShipmentSort
	if undelivered {
		def = defaultUndeliveredSort
	}
	sort, err := resolveSort(repository.ShipmentSortFields, req.SortField, req.SortDirection, def)
	if err != nil {
		return nil, err
	}
	page := resolvePage(req.Limit, req.Offset)

	// Página y carriers en paralelo (consultas independientes)
	type listResult struct {
		rows  []*entity.Shipment
		total int
		err   error
	}
	type carriersResult struct {
		carriers []string
		err      error
	}
	listCh := make(chan listResult, 1)
	carriersCh := make(chan carriersResult, 1)

	go func() {
		rows, total, err := uc.shipments.List(ctx, filter, sort, page)
		listCh <- listResult{rows, total, err}
	}()
	go func() {
		carriers, err := uc.shipments.ListCarriers(ctx, clientID)
		carriersCh <- carriersResult{carriers, err}
	}()

	list := <-listCh
	carriers := <-carriersCh
	if list.err != nil {
		return nil, fmt.Errorf("listing: envíos: %w", list.err)
	}
	if carriers.err != nil {
		return nil, fmt.Errorf("listing: carriers: %w", carriers.err)
	}

	data := make([]dto.ShipmentDTO, 0, len(list.rows))
	for _, s := range list.rows {
		data = append(data, ShipmentToDTO(s, now, undelivered))
	}
	if carriers.carriers == nil {
		carriers.carriers = []string{}
	}
	return &dto.ListResponse[dto.ShipmentDTO]{Data: data, TotalCount: list.total, Carriers: carriers.carriers}, nil
}

// ListTransactions página de transacciones de una familia.
func (uc *ListingUseCase) ListTransactions(
	ctx context.Context,
	clientID, family string,
	req dto.TransactionListRequest,
) (*dto.ListResponse[dto.TransactionDTO], error) {
	fam, ok := entity.ParseFamily(family)
	if !ok {
		return nil, fmt.Errorf("familia %q desconocida: %w", family, domain.ErrInvalidInput)
	}
	from, to, err := parseOptionalDates(req.StartDate, req.EndDate, uc.now().Location())
	if err != nil {
		return nil, err
	}
	filter := repository.TransactionFilter{
		ClientID: clientID,
		Family:   string(fam),
		From:     from,
		To:       to,
		Types:    splitList(req.Type),
		Search:   strings.TrimSpace(req.Search),
	}
	for _, raw := range splitList(req.Status) {
		st, ok := status.ParseTransaction(raw)
		if !ok {
			return nil, fmt.Errorf("status %q desconocido: %w", raw, domain.ErrInvalidInput)
		}
		filter.Statuses = append(filter.Statuses, st)
	}
	sort, err := resolveSort(repository.TransactionSortFields, req.SortField, req.SortDirection, defaultTransactionSort)
	if err != nil {
		return nil, err
	}

	rows, total, err := uc.transactions.List(ctx, filter, sort, resolvePage(req.Limit, req.Offset))
	if err != nil {
		return nil, fmt.Errorf("listing: transacciones: %w", err)
	}
	data := make([]dto.TransactionDTO, 0, len(rows))
	for _, t := range rows {
		data = append(data, TransactionToDTO(t))
	}
	return &dto.ListResponse[dto.TransactionDTO]{Data: data, TotalCount: total}, nil
}

// ListInvoices facturas del cliente.
func (uc *ListingUseCase) ListInvoices(
	ctx context.Context,
	clientID string,
	req dto.InvoiceListRequest,
) (*dto.ListResponse[dto.InvoiceDTO], error) {
	sort, err := resolveSort(repository.InvoiceSortFields, req.SortField, req.SortDirection, defaultInvoiceSort)
	if err != nil {
		return nil, err
	}
	rows, total, err := uc.invoices.ListByClient(ctx, clientID, sort, resolvePage(req.Limit, req.Offset))
	if err != nil {
		return nil, fmt.Errorf("listing: facturas: %w", err)
	}
	data := make([]dto.InvoiceDTO, 0, len(rows))
	for _, inv := range rows {
		data = append(data, InvoiceToDTO(inv))
	}
	return &dto.ListResponse[dto.InvoiceDTO]{Data: data, TotalCount: total}, nil
}

// buildShipmentFilter traduce los query params a filtro de repositorio.
func buildShipmentFilter(clientID string, req dto.ShipmentListRequest, now time.Time) (repository.ShipmentFilter, error) {
	from, to, err := parseOptionalDates(req.StartDate, req.EndDate, now.Location())
	if err != nil {
		return repository.ShipmentFilter{}, err
	}
	f := repository.ShipmentFilter{
		ClientID: clientID,
		From:     from,
		To:       to,
		Carriers: splitList(req.Carrier),
		Channels: splitList(req.Channel),
		AsOf:     now,
		Search:   strings.TrimSpace(req.Search),
	}
	for _, raw := range splitList(req.Status) {
		st, ok := status.ParseShipment(raw)
		if !ok {
			return repository.ShipmentFilter{}, fmt.Errorf("status %q desconocido: %w", raw, domain.ErrInvalidInput)
		}
		f.Statuses = append(f.Statuses, st)
	}
	for _, raw := range splitList(req.Age) {
		b, err := repository.ParseAgeBucket(raw)
		if err != nil {
			return repository.ShipmentFilter{}, fmt.Errorf("%v: %w", err, domain.ErrInvalidInput)
		}
		f.AgeBuckets = append(f.AgeBuckets, b)
	}
	return f, nil
}
