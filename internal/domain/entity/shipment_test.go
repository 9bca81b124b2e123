package entity

import (
	"testing"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/stretchr/testify/assert"
)

func ptr(t time.Time) *time.Time { return &t }

func TestShipment_TransitDays(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	s := &Shipment{LabelCreatedAt: ptr(base), DeliveredAt: ptr(base.Add(36 * time.Hour))}
	days, ok := s.TransitDays()
	assert.True(t, ok)
	assert.InDelta(t, 1.5, days, 1e-9)

	// InTransitAt tiene prioridad sobre LabelCreatedAt.
	s.InTransitAt = ptr(base.Add(12 * time.Hour))
	days, ok = s.TransitDays()
	assert.True(t, ok)
	assert.InDelta(t, 1.0, days, 1e-9)

	_, ok = (&Shipment{LabelCreatedAt: ptr(base)}).TransitDays()
	assert.False(t, ok, "sin entrega no hay tránsito")

	_, ok = (&Shipment{DeliveredAt: ptr(base)}).TransitDays()
	assert.False(t, ok, "sin despacho no hay tránsito")
}

func TestShipment_FulfillmentHours(t *testing.T) {
	base := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	s := &Shipment{OrderReceivedAt: base, LabelCreatedAt: ptr(base.Add(30 * time.Hour))}
	h, ok := s.FulfillmentHours()
	assert.True(t, ok)
	assert.InDelta(t, 30.0, h, 1e-9)

	_, ok = (&Shipment{OrderReceivedAt: base}).FulfillmentHours()
	assert.False(t, ok)
}

func TestShipment_Claim(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	s := &Shipment{Status: status.ShipmentInTransit, LabelCreatedAt: ptr(now.AddDate(0, 0, -20))}
	assert.Equal(t, status.ClaimEligible, s.Claim(now))

	s.CreditID = "cr-1"
	assert.Equal(t, status.ClaimFiled, s.Claim(now))
}

func TestParseFamily(t *testing.T) {
	f, ok := ParseFamily("Additional-Services")
	assert.True(t, ok)
	assert.Equal(t, FamilyAdditionalServices, f)

	_, ok = ParseFamily("shipments")
	assert.False(t, ok)
}
