package usecase

import (
	"time"

	"github.com/jhoicas/shipdash-api/internal/application/dto"
	"github.com/jhoicas/shipdash-api/internal/domain/entity"
	"github.com/jhoicas/shipdash-api/internal/domain/status"
)

// ShipmentToDTO fila de envío con badges y reclamo calculados a la fecha now.
// withAge agrega los días desde la etiqueta (tabla de no entregados).
func ShipmentToDTO(s *entity.Shipment, now time.Time, withAge bool) dto.ShipmentDTO {
	claim := s.Claim(now)
	out := dto.ShipmentDTO{
		ID:               s.ID,
		OrderID:          s.OrderID,
		ShipmentID:       s.ShipmentID,
		TrackingNumber:   s.TrackingNumber,
		Carrier:          s.Carrier,
		CarrierService:   s.CarrierService,
		Channel:          s.Channel,
		Status:           s.Status.String(),
		StatusBadge:      status.ShipmentBadge(s.Status),
		Claim:            claim.String(),
		ClaimBadge:       status.ClaimBadge(claim),
		Cost:             s.Cost,
		Zone:             s.Zone,
		DestinationState: s.DestinationState,
		DestinationCity:  s.DestinationCity,
		OriginFC:         s.OriginFC,
		OrderReceivedAt:  s.OrderReceivedAt,
		LabelCreatedAt:   s.LabelCreatedAt,
		InTransitAt:      s.InTransitAt,
		DeliveredAt:      s.DeliveredAt,
		InvoiceID:        s.InvoiceID,
	}
	if days, ok := s.TransitDays(); ok {
		out.TransitDays = &days
	}
	if withAge && s.LabelCreatedAt != nil {
		age := int(now.Sub(*s.LabelCreatedAt).Hours() / 24)
		if age < 0 {
			age = 0
		}
		out.AgeDays = &age
	}
	return out
}

// TransactionToDTO fila de transacción.
func TransactionToDTO(t *entity.BillingTransaction) dto.TransactionDTO {
	return dto.TransactionDTO{
		ID:                t.ID,
		Family:            string(t.Family),
		ReferenceID:       t.ReferenceID,
		Category:          t.Category,
		Description:       t.Description,
		FulfillmentCenter: t.FulfillmentCenter,
		Amount:            t.Amount,
		TransactionDate:   t.TransactionDate,
		InvoiceID:         t.InvoiceID,
		Status:            t.Status.String(),
		StatusBadge:       status.TransactionBadge(t.Status),
	}
}

// InvoiceToDTO factura en respuestas.
func InvoiceToDTO(inv *entity.Invoice) dto.InvoiceDTO {
	return dto.InvoiceDTO{
		ID:            inv.ID,
		ClientID:      inv.ClientID,
		Number:        inv.Number,
		PeriodStart:   inv.PeriodStart.Format(dateLayout),
		PeriodEnd:     inv.PeriodEnd.Format(dateLayout),
		ShipmentCount: inv.ShipmentCount,
		Subtotal:      inv.Subtotal,
		TaxRate:       inv.TaxRate,
		Tax:           inv.Tax,
		Total:         inv.Total,
		HasFiles:      inv.HasArtifacts(),
		CreatedAt:     inv.CreatedAt,
	}
}
