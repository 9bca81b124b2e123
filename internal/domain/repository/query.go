package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/shipdash-api/internal/domain/status"
)

// Page ventana de resultados (offset/limit) pedida por la tabla.
type Page struct {
	Limit  int
	Offset int
}

// Sort orden solicitado. Field debe pertenecer a la lista blanca de la entidad;
// las implementaciones agregan el id como desempate para que la paginación sea estable.
type Sort struct {
	Field string
	Desc  bool
}

// Campos ordenables por entidad (valores de sortField en la API).
var (
	ShipmentSortFields    = []string{"orderReceivedAt", "labelCreatedAt", "deliveredAt", "carrier", "status", "cost", "zone", "destinationState", "trackingNumber", "orderId"}
	TransactionSortFields = []string{"transactionDate", "amount", "category", "referenceId", "status"}
	InvoiceSortFields     = []string{"createdAt", "number", "total", "periodStart"}
)

// SortAllowed indica si field está en la lista blanca.
func SortAllowed(allowed []string, field string) bool {
	for _, f := range allowed {
		if f == field {
			return true
		}
	}
	return false
}

// AgeBucket rango de días desde la creación de la etiqueta (tabla de no entregados).
// MaxDays < 0 significa abierto ("11+").
type AgeBucket struct {
	Label   string
	MinDays int
	MaxDays int
}

// AgeBuckets buckets soportados por el filtro "age".
var AgeBuckets = []AgeBucket{
	{Label: "0-2", MinDays: 0, MaxDays: 2},
	{Label: "3-5", MinDays: 3, MaxDays: 5},
	{Label: "6-10", MinDays: 6, MaxDays: 10},
	{Label: "11+", MinDays: 11, MaxDays: -1},
}

// ParseAgeBucket busca el bucket por etiqueta.
func ParseAgeBucket(label string) (AgeBucket, error) {
	label = strings.TrimSpace(label)
	for _, b := range AgeBuckets {
		if b.Label == label {
			return b, nil
		}
	}
	return AgeBucket{}, fmt.Errorf("bucket de antigüedad desconocido: %q", label)
}

// Contains indica si una antigüedad en días cae en el bucket.
func (b AgeBucket) Contains(days int) bool {
	if days < b.MinDays {
		return false
	}
	return b.MaxDays < 0 || days <= b.MaxDays
}

// ShipmentFilter filtros del listado de envíos. From/To son días calendario inclusivos.
type ShipmentFilter struct {
	ClientID        string
	From            *time.Time
	To              *time.Time
	Statuses        []status.Shipment
	Carriers        []string
	Channels        []string
	AgeBuckets      []AgeBucket
	AsOf            time.Time // referencia para calcular la antigüedad
	Search          string    // subcadena sin distinguir mayúsculas en order, shipment, tracking o ciudad destino
	UndeliveredOnly bool      // despachados, no entregados ni cancelados
}

// TransactionFilter filtros del listado de transacciones de una familia.
type TransactionFilter struct {
	ClientID string
	Family   string
	From     *time.Time
	To       *time.Time
	Types    []string // categorías
	Statuses []status.Transaction
	Search   string // referencia o descripción
}
