//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/shipdash-api/internal/domain"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/repository"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/jhoicas/shipdash-api/pkg/config"
	"github.com/jhoicas/shipdash-api/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// startDB levanta Postgres 16 (o usa TEST_DATABASE_URL) y aplica las migraciones.
func startDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		c, err := tcpostgres.Run(ctx, "postgres:16-alpine",
			tcpostgres.WithDatabase("shipdash"),
			tcpostgres.WithUsername("shipdash"),
			tcpostgres.WithPassword("shipdash"),
			tcpostgres.BasicWaitStrategies(),
		)
		require.NoError(t, err)
		t.Cleanup(func() { _ = c.Terminate(context.Background()) })
		dsn, err = c.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool, logger.Nop()))
	require.NoError(t, Migrate(ctx, pool, logger.Nop()), "migrar dos veces no falla")

	_, err = pool.Exec(ctx, `INSERT INTO clients (id, name) VALUES ('c1', 'Acme'), ('c2', 'Globex') ON CONFLICT DO NOTHING`)
	require.NoError(t, err)
	return pool
}

func seedShipments(t *testing.T, repo *ShipmentRepo) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	carriers := []string{"UPS", "FedEx", "USPS"}
	for i := 0; i < 9; i++ {
		label := base.Add(time.Duration(i) * time.Hour)
		s := &entity.Shipment{
			ClientID:        "c1",
			OrderID:         "ORD-" + string(rune('A'+i)),
			ShipmentID:      "EXT-" + string(rune('A'+i)),
			Carrier:         carriers[i%3],
			Status:          status.ShipmentInTransit,
			Cost:            decimal.NewNullDecimal(decimal.NewFromInt(int64(10 + i))),
			OrderReceivedAt: base.AddDate(0, 0, i%7),
			LabelCreatedAt:  &label,
		}
		require.NoError(t, repo.Upsert(ctx, s))
	}
}

func TestShipmentRepo_ListYPaginacion(t *testing.T) {
	pool := startDB(t)
	repo := NewShipmentRepository(pool)
	seedShipments(t, repo)
	ctx := context.Background()

	f := repository.ShipmentFilter{ClientID: "c1"}
	sort := repository.Sort{Field: "carrier", Desc: false}

	all, total, err := repo.List(ctx, f, sort, repository.Page{Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 9, total)

	var paged []string
	for k := 0; k < 3; k++ {
		rows, _, err := repo.List(ctx, f, sort, repository.Page{Limit: 3, Offset: k * 3})
		require.NoError(t, err)
		for _, s := range rows {
			paged = append(paged, s.ID)
		}
	}
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	assert.Equal(t, ids, paged, "página k de tamaño n == offset k*n")

	ups, total, err := repo.List(ctx, repository.ShipmentFilter{ClientID: "c1", Carriers: []string{"UPS"}, Search: "ord-a"}, sort, repository.Page{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "EXT-A", ups[0].ShipmentID)

	carriers, err := repo.ListCarriers(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"FedEx", "UPS", "USPS"}, carriers)

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	inRange, err := repo.ListInRange(ctx, "c1", from, from)
	require.NoError(t, err)
	assert.Len(t, inRange, 2, "el día final es inclusivo")
}

func TestShipmentRepo_Antiguedad(t *testing.T) {
	pool := startDB(t)
	repo := NewShipmentRepository(pool)
	seedShipments(t, repo)
	ctx := context.Background()

	bucket, err := repository.ParseAgeBucket("3-5")
	require.NoError(t, err)
	asOf := time.Date(2024, 3, 8, 13, 0, 0, 0, time.UTC) // 4 días después de las etiquetas
	_, total, err := repo.List(ctx, repository.ShipmentFilter{
		ClientID: "c1", AgeBuckets: []repository.AgeBucket{bucket}, AsOf: asOf, UndeliveredOnly: true,
	}, repository.Sort{Field: "labelCreatedAt"}, repository.Page{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 9, total)
}

func TestTxRunner_Facturacion(t *testing.T) {
	pool := startDB(t)
	seedShipments(t, NewShipmentRepository(pool))
	ctx := context.Background()
	runner := NewTxRunner(pool)

	from := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)

	var number int64
	err := runner.RunInvoice(ctx, func(ships repository.ShipmentRepository, invs repository.InvoiceRepository) error {
		rows, err := ships.ListUninvoicedInRange(ctx, "c1", from, to)
		require.NoError(t, err)
		require.Len(t, rows, 9)

		number, err = invs.NextNumber(ctx)
		require.NoError(t, err)
		inv := &entity.Invoice{ClientID: "c1", Number: "INV-TEST", PeriodStart: from, PeriodEnd: to,
			ShipmentCount: len(rows), Subtotal: decimal.NewFromInt(126), Tax: decimal.Zero, Total: decimal.NewFromInt(126)}
		require.NoError(t, invs.Create(ctx, inv))

		ids := make([]string, len(rows))
		for i, s := range rows {
			ids[i] = s.ID
		}
		n, err := ships.AssignInvoice(ctx, inv.ID, ids)
		require.NoError(t, err)
		assert.EqualValues(t, 9, n)
		return nil
	})
	require.NoError(t, err)

	next, err := NewInvoiceRepository(pool).NextNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, number+1, next)

	left, err := NewShipmentRepository(pool).ListUninvoicedInRange(ctx, "c1", from, to)
	require.NoError(t, err)
	assert.Empty(t, left)

	inv, err := NewInvoiceRepository(pool).GetByNumber(ctx, "INV-TEST")
	require.NoError(t, err)
	require.NotNil(t, inv)
	assert.True(t, decimal.NewFromInt(126).Equal(inv.Total))

	missing, err := NewInvoiceRepository(pool).GetByNumber(ctx, "INV-NOPE")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestShipmentRepo_UpsertNoReescribeCerrados(t *testing.T) {
	pool := startDB(t)
	repo := NewShipmentRepository(pool)
	ctx := context.Background()

	received := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	delivered := received.Add(72 * time.Hour)
	s := &entity.Shipment{
		ClientID: "c1", OrderID: "ORD-Z", ShipmentID: "EXT-Z", Carrier: "UPS",
		Status: status.ShipmentDelivered, Cost: decimal.NewNullDecimal(decimal.RequireFromString("12.40")),
		OrderReceivedAt: received, DeliveredAt: &delivered,
	}
	require.NoError(t, repo.Upsert(ctx, s))

	resent := *s
	resent.Carrier = "FedEx"
	resent.Cost = decimal.NewNullDecimal(decimal.NewFromInt(99))
	err := repo.Upsert(ctx, &resent)
	assert.ErrorIs(t, err, domain.ErrConflict)

	got, err := repo.GetByExternalID(ctx, "EXT-Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "UPS", got.Carrier)
	assert.True(t, decimal.RequireFromString("12.40").Equal(got.Cost.Decimal))
}
