package status

import "time"

// Ventanas de reclamo ante el carrier.
const (
	DamageClaimWindow = 60 * 24 * time.Hour // desde la entrega
	LostClaimAfter    = 15 * 24 * time.Hour // desde el despacho sin entrega
)

// Claim elegibilidad de reclamo (derivada, nunca persistida).
type Claim int

const (
	ClaimNotEligible Claim = iota
	ClaimPending
	ClaimEligible
	ClaimExpired
	ClaimFiled
)

func (c Claim) String() string {
	switch c {
	case ClaimNotEligible:
		return "not_eligible"
	case ClaimPending:
		return "pending"
	case ClaimEligible:
		return "eligible"
	case ClaimExpired:
		return "expired"
	case ClaimFiled:
		return "filed"
	}
	return "not_eligible"
}

// ClaimFacts hechos del envío necesarios para decidir la elegibilidad.
type ClaimFacts struct {
	Status       Shipment
	ShippedAt    *time.Time // InTransitAt o, en su defecto, LabelCreatedAt
	DeliveredAt  *time.Time
	CreditLinked bool
}

// ClaimFor calcula la elegibilidad a la fecha now.
func ClaimFor(f ClaimFacts, now time.Time) Claim {
	if f.CreditLinked {
		return ClaimFiled
	}
	if f.Status == ShipmentCancelled {
		return ClaimNotEligible
	}
	if f.Status == ShipmentDelivered || f.DeliveredAt != nil {
		if f.DeliveredAt == nil {
			return ClaimNotEligible
		}
		if now.Sub(*f.DeliveredAt) <= DamageClaimWindow {
			return ClaimEligible
		}
		return ClaimExpired
	}
	if f.ShippedAt == nil {
		if f.Status.Shipped() {
			return ClaimPending
		}
		return ClaimNotEligible
	}
	if now.Sub(*f.ShippedAt) >= LostClaimAfter {
		return ClaimEligible
	}
	return ClaimPending
}

// ClaimBadge presentación de la elegibilidad de reclamo.
func ClaimBadge(c Claim) Badge {
	switch c {
	case ClaimNotEligible:
		return Badge{Tone: ToneMuted, Icon: "minus-circle", Label: "Not Eligible"}
	case ClaimPending:
		return Badge{Tone: ToneNeutral, Icon: "hourglass", Label: "Pending"}
	case ClaimEligible:
		return Badge{Tone: ToneWarning, Icon: "alert-circle", Label: "Eligible"}
	case ClaimExpired:
		return Badge{Tone: ToneMuted, Icon: "calendar-x", Label: "Expired"}
	case ClaimFiled:
		return Badge{Tone: ToneSuccess, Icon: "check", Label: "Filed"}
	}
	return Badge{Tone: ToneMuted, Icon: "help-circle", Label: "Unknown"}
}
