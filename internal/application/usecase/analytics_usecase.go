package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jhoicas/shipdash-api/internal/application/aggregate"
	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/jhoicas/shipdash-api/pkg/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Dimensiones soportadas por GET /api/analytics/shipments/:dimension.
const (
	DimensionCarrier = "carrier"
	DimensionState   = "state"
	DimensionZone    = "zone"
	DimensionHour    = "hour"
	DimensionWeekday = "weekday"
	DimensionDaily   = "daily"
	DimensionTransit = "transit"
	DimensionFC      = "fc"
)

// AnalyticsConfig memoización y SLA.
type AnalyticsConfig struct {
	CacheSize int
	CacheTTL  time.Duration
	SLAHours  int
}

// AnalyticsUseCase orquesta la analítica de envíos y facturación:
//   - Carga los registros del período una vez por (cliente, rango, filtros).
//   - Aplica las funciones puras de aggregate protegidas con aggregate.Safe.
//   - Memoriza resultados en una LRU con vencimiento; singleflight colapsa cálculos idénticos concurrentes.
type AnalyticsUseCase struct {
	shipments    repository.ShipmentRepository
	transactions repository.TransactionRepository
	cache        *expirable.LRU[string, any]
	sf           singleflight.Group
	slaHours     int
	log          *logger.Logger
	now          func() time.Time
}

// NewAnalyticsUseCase construye el caso de uso.
func NewAnalyticsUseCase(
	shipments repository.ShipmentRepository,
	transactions repository.TransactionRepository,
	cfg AnalyticsConfig,
	log *logger.Logger,
) *AnalyticsUseCase {
	size := cfg.CacheSize
	if size <= 0 {
		size = 256
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	sla := cfg.SLAHours
	if sla <= 0 {
		sla = 24
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AnalyticsUseCase{
		shipments:    shipments,
		transactions: transactions,
		cache:        expirable.NewLRU[string, any](size, nil, ttl),
		slaHours:     sla,
		log:          log.Component("analytics"),
		now:          time.Now,
	}
}

// ShipmentOverview panel completo de envíos del período.
func (uc *AnalyticsUseCase) ShipmentOverview(
	ctx context.Context,
	clientID string,
	req dto.AnalyticsRequest,
) (*dto.ShipmentOverviewDTO, error) {
	r, err := parsePeriod(req.StartDate, req.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	key := "overview|" + cacheKey(clientID, r, req)
	return memo(ctx, uc, key, func(ctx context.Context) (*dto.ShipmentOverviewDTO, error) {
		records, err := uc.loadShipments(ctx, clientID, r, req)
		if err != nil {
			return nil, err
		}
		carriers := aggregate.Safe("by_carrier", uc.log, func() []aggregate.CarrierSummary {
			return aggregate.ByCarrier(records, r)
		})
		states := aggregate.Safe("by_state", uc.log, func() []aggregate.StateSummary {
			return aggregate.ByState(records, r)
		})
		zones := aggregate.Safe("by_zone", uc.log, func() []aggregate.ZoneSummary {
			return aggregate.ByZone(records, r)
		})
		hours := aggregate.Safe("by_hour", uc.log, func() []aggregate.HourSummary {
			return aggregate.ByHourOfDay(records, r)
		})
		weekdays := aggregate.Safe("by_weekday", uc.log, func() []aggregate.DayOfWeekSummary {
			return aggregate.ByDayOfWeek(records, r)
		})
		daily := aggregate.Safe("daily", uc.log, func() []aggregate.DailyPoint {
			return aggregate.DailySeries(records, r)
		})
		transit := aggregate.Safe("transit", uc.log, func() []aggregate.TransitStats {
			return aggregate.TransitDistribution(records, r)
		})
		centers := aggregate.Safe("fulfillment_centers", uc.log, func() []aggregate.FulfillmentCenterSummary {
			return aggregate.ByFulfillmentCenter(records, r, uc.slaHours)
		})
		return &dto.ShipmentOverviewDTO{
			Period:             periodDTO(r),
			Costs:              aggregate.Costs(records, r),
			ByCarrier:          carriers,
			ByState:            states,
			ByZone:             zones,
			ByHour:             hours,
			ByWeekday:          weekdays,
			Daily:              daily,
			Transit:            transit,
			FulfillmentCenters: centers,
		}, nil
	})
}

// ShipmentDimension una sola dimensión (para widgets que refrescan por separado).
func (uc *AnalyticsUseCase) ShipmentDimension(
	ctx context.Context,
	clientID, dimension string,
	req dto.AnalyticsRequest,
) (*dto.DimensionDTO, error) {
	r, err := parsePeriod(req.StartDate, req.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	var compute func(records []*entity.Shipment) any
	switch dimension {
	case DimensionCarrier:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.CarrierSummary { return aggregate.ByCarrier(rs, r) })
		}
	case DimensionState:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.StateSummary { return aggregate.ByState(rs, r) })
		}
	case DimensionZone:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.ZoneSummary { return aggregate.ByZone(rs, r) })
		}
	case DimensionHour:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.HourSummary { return aggregate.ByHourOfDay(rs, r) })
		}
	case DimensionWeekday:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.DayOfWeekSummary { return aggregate.ByDayOfWeek(rs, r) })
		}
	case DimensionDaily:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.DailyPoint { return aggregate.DailySeries(rs, r) })
		}
	case DimensionTransit:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.TransitStats { return aggregate.TransitDistribution(rs, r) })
		}
	case DimensionFC:
		compute = func(rs []*entity.Shipment) any {
			return aggregate.Safe(dimension, uc.log, func() []aggregate.FulfillmentCenterSummary {
				return aggregate.ByFulfillmentCenter(rs, r, uc.slaHours)
			})
		}
	default:
		return nil, fmt.Errorf("dimensión %q desconocida: %w", dimension, domain.ErrInvalidInput)
	}

	key := "dim:" + dimension + "|" + cacheKey(clientID, r, req)
	return memo(ctx, uc, key, func(ctx context.Context) (*dto.DimensionDTO, error) {
		records, err := uc.loadShipments(ctx, clientID, r, req)
		if err != nil {
			return nil, err
		}
		return &dto.DimensionDTO{Period: periodDTO(r), Dimension: dimension, Rows: compute(records)}, nil
	})
}

// BillingBreakdown costo de envíos más el total de cada familia de cargos.
// Las seis consultas (envíos + cinco familias) corren en paralelo con errgroup.
func (uc *AnalyticsUseCase) BillingBreakdown(
	ctx context.Context,
	clientID string,
	req dto.AnalyticsRequest,
) (*dto.BillingBreakdownDTO, error) {
	r, err := parsePeriod(req.StartDate, req.EndDate, uc.now())
	if err != nil {
		return nil, err
	}
	key := "billing|" + cacheKey(clientID, r, req)
	return memo(ctx, uc, key, func(ctx context.Context) (*dto.BillingBreakdownDTO, error) {
		var shipments []*entity.Shipment
		perFamily := make([][]*entity.BillingTransaction, len(entity.Families))

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			rows, err := uc.loadShipments(gctx, clientID, r, req)
			shipments = rows
			return err
		})
		for i, fam := range entity.Families {
			i, fam := i, fam
			g.Go(func() error {
				rows, err := uc.transactions.ListInRange(gctx, clientID, fam, r.From, r.To)
				if err != nil {
					return fmt.Errorf("analytics: %s: %w", fam, err)
				}
				perFamily[i] = rows
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var all []*entity.BillingTransaction
		families := make([]dto.FamilyTotalDTO, 0, len(entity.Families))
		grand := aggregate.Costs(shipments, r).TotalCost
		shipping := grand
		for i, fam := range entity.Families {
			rows := aggregate.FilterTransactions(perFamily[i], r)
			total := decimal.Zero
			for _, t := range rows {
				total = total.Add(t.Amount)
			}
			families = append(families, dto.FamilyTotalDTO{Family: string(fam), Count: len(rows), Total: total})
			grand = grand.Add(total)
			all = append(all, rows...)
		}

		categories := aggregate.Safe("billing_categories", uc.log, func() []aggregate.CategorySummary {
			return aggregate.ByBillingCategory(all, r)
		})
		return &dto.BillingBreakdownDTO{
			Period:       periodDTO(r),
			ShippingCost: shipping,
			Families:     families,
			Categories:   categories,
			GrandTotal:   grand,
		}, nil
	})
}

// loadShipments registros del período con los filtros de carrier/canal/estado aplicados.
func (uc *AnalyticsUseCase) loadShipments(
	ctx context.Context,
	clientID string,
	r aggregate.Range,
	req dto.AnalyticsRequest,
) ([]*entity.Shipment, error) {
	key := "rows|" + cacheKey(clientID, r, req)
	return memo(ctx, uc, key, func(ctx context.Context) ([]*entity.Shipment, error) {
		rows, err := uc.shipments.ListInRange(ctx, clientID, r.From, r.To)
		if err != nil {
			return nil, fmt.Errorf("analytics: envíos: %w", err)
		}
		return filterShipments(rows, req)
	})
}

func filterShipments(rows []*entity.Shipment, req dto.AnalyticsRequest) ([]*entity.Shipment, error) {
	carriers := toSet(splitList(req.Carrier))
	channels := toSet(splitList(req.Channel))
	statuses := make(map[status.Shipment]bool)
	for _, raw := range splitList(req.Status) {
		st, ok := status.ParseShipment(raw)
		if !ok {
			return nil, fmt.Errorf("status %q desconocido: %w", raw, domain.ErrInvalidInput)
		}
		statuses[st] = true
	}
	if len(carriers) == 0 && len(channels) == 0 && len(statuses) == 0 {
		return rows, nil
	}
	out := make([]*entity.Shipment, 0, len(rows))
	for _, s := range rows {
		if len(carriers) > 0 && !carriers[strings.ToLower(s.Carrier)] {
			continue
		}
		if len(channels) > 0 && !channels[strings.ToLower(s.Channel)] {
			continue
		}
		if len(statuses) > 0 && !statuses[s.Status] {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// memo consulta la caché y, en un fallo, calcula una sola vez por clave aunque lleguen
// varias peticiones idénticas a la vez. Los errores no se memorizan.
func memo[T any](ctx context.Context, uc *AnalyticsUseCase, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if v, ok := uc.cache.Get(key); ok {
		metrics.RecordCache(true)
		return v.(T), nil
	}
	metrics.RecordCache(false)
	// El cálculo compartido no hereda la cancelación del primer llamador.
	detached := context.WithoutCancel(ctx)
	ch := uc.sf.DoChan(key, func() (any, error) {
		res, err := fn(detached)
		if err != nil {
			return nil, err
		}
		uc.cache.Add(key, res)
		return res, nil
	})
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		if r.Shared {
			uc.log.Debug().Str("key", key).Msg("cálculo compartido")
		}
		return r.Val.(T), nil
	}
}

// cacheKey (cliente, rango, filtros) con listas normalizadas y ordenadas.
func cacheKey(clientID string, r aggregate.Range, req dto.AnalyticsRequest) string {
	norm := func(s string) string {
		parts := splitList(strings.ToLower(s))
		sort.Strings(parts)
		return strings.Join(parts, ",")
	}
	return strings.Join([]string{
		clientID,
		r.From.Format(dateLayout),
		r.To.Format(dateLayout),
		norm(req.Carrier),
		norm(req.Channel),
		norm(req.Status),
	}, "|")
}

func periodDTO(r aggregate.Range) dto.PeriodDTO {
	return dto.PeriodDTO{StartDate: r.From.Format(dateLayout), EndDate: r.To.Format(dateLayout)}
}

func toSet(values []string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[strings.ToLower(v)] = true
	}
	return m
}
