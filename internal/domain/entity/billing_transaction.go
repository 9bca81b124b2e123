package entity

import (
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/status"
	"github.com/shopspring/decimal"
)

// Family familia de transacción de facturación.
type Family string

const (
	FamilyAdditionalServices Family = "additional_services"
	FamilyReceiving          Family = "receiving"
	FamilyStorage            Family = "storage"
	FamilyCredits            Family = "credits"
	FamilyReturns            Family = "returns"
)

// Families todas las familias en orden de presentación.
var Families = []Family{FamilyAdditionalServices, FamilyReceiving, FamilyStorage, FamilyCredits, FamilyReturns}

// ParseFamily acepta "additional-services", "Receiving", etc.
func ParseFamily(raw string) (Family, bool) {
	f := Family(normalizeKey(raw))
	for _, known := range Families {
		if f == known {
			return f, true
		}
	}
	return "", false
}

// BillingTransaction cargo plano (o crédito, con monto negativo) de una familia.
type BillingTransaction struct {
	ID                string
	ClientID          string
	Family            Family
	ReferenceID       string // orden, ASN, RMA, etc.
	Category          string // tipo de cargo; filtro "type"
	Description       string
	FulfillmentCenter string
	Amount            decimal.Decimal
	TransactionDate   time.Time
	InvoiceID         string // vacío hasta facturar
	Status            status.Transaction
	CreatedAt         time.Time
}
