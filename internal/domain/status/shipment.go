// Package status define los estados de envíos, transacciones y reclamos como tipos
// enumerados, con su presentación (badge) resuelta por switch exhaustivo.
package status

import (
	"strings"
)

// Shipment estado del ciclo de vida de un envío.
type Shipment int

const (
	ShipmentUnknown Shipment = iota
	ShipmentProcessing
	ShipmentLabeled
	ShipmentPicked
	ShipmentPacked
	ShipmentShipped
	ShipmentInTransit
	ShipmentOutForDelivery
	ShipmentDelivered
	ShipmentException
	ShipmentOnHold
	ShipmentCancelled
)

// AllShipment en orden de ciclo de vida, seguido de las ramas.
var AllShipment = []Shipment{
	ShipmentProcessing,
	ShipmentLabeled,
	ShipmentPicked,
	ShipmentPacked,
	ShipmentShipped,
	ShipmentInTransit,
	ShipmentOutForDelivery,
	ShipmentDelivered,
	ShipmentException,
	ShipmentOnHold,
	ShipmentCancelled,
}

var shipmentCodes = map[Shipment]string{
	ShipmentUnknown:        "unknown",
	ShipmentProcessing:     "processing",
	ShipmentLabeled:        "labeled",
	ShipmentPicked:         "picked",
	ShipmentPacked:         "packed",
	ShipmentShipped:        "shipped",
	ShipmentInTransit:      "in_transit",
	ShipmentOutForDelivery: "out_for_delivery",
	ShipmentDelivered:      "delivered",
	ShipmentException:      "exception",
	ShipmentOnHold:         "on_hold",
	ShipmentCancelled:      "cancelled",
}

// Alias aceptados del sistema de fulfillment, ya normalizados.
var shipmentAliases = map[string]Shipment{
	"label_created":  ShipmentLabeled,
	"label_printed":  ShipmentLabeled,
	"intransit":      ShipmentInTransit,
	"outfordelivery": ShipmentOutForDelivery,
	"canceled":       ShipmentCancelled,
	"hold":           ShipmentOnHold,
	"onhold":         ShipmentOnHold,
	"pending":        ShipmentProcessing,
}

var shipmentByCode = func() map[string]Shipment {
	m := make(map[string]Shipment, len(shipmentCodes)+len(shipmentAliases))
	for s, code := range shipmentCodes {
		m[code] = s
	}
	for alias, s := range shipmentAliases {
		m[alias] = s
	}
	return m
}()

// String devuelve el código persistido ("in_transit").
func (s Shipment) String() string {
	if code, ok := shipmentCodes[s]; ok {
		return code
	}
	return "unknown"
}

// ParseShipment normaliza mayúsculas, espacios y guiones y busca el código exacto.
// Un valor no reconocido devuelve ShipmentUnknown y false.
func ParseShipment(raw string) (Shipment, bool) {
	s, ok := shipmentByCode[normalize(raw)]
	if !ok || s == ShipmentUnknown {
		return ShipmentUnknown, false
	}
	return s, true
}

// MustShipment como ParseShipment pero ignora el indicador de éxito.
func MustShipment(raw string) Shipment {
	s, _ := ParseShipment(raw)
	return s
}

// Terminal indica si el envío ya no admite cambios de estado.
func (s Shipment) Terminal() bool {
	return s == ShipmentDelivered || s == ShipmentCancelled
}

// Shipped indica si el paquete ya salió del centro de fulfillment.
func (s Shipment) Shipped() bool {
	switch s {
	case ShipmentShipped, ShipmentInTransit, ShipmentOutForDelivery, ShipmentDelivered:
		return true
	case ShipmentUnknown, ShipmentProcessing, ShipmentLabeled, ShipmentPicked, ShipmentPacked,
		ShipmentException, ShipmentOnHold, ShipmentCancelled:
		return false
	}
	return false
}

// rank posición en la progresión lineal; las ramas devuelven -1.
func (s Shipment) rank() int {
	switch s {
	case ShipmentProcessing:
		return 0
	case ShipmentLabeled:
		return 1
	case ShipmentPicked:
		return 2
	case ShipmentPacked:
		return 3
	case ShipmentShipped:
		return 4
	case ShipmentInTransit:
		return 5
	case ShipmentOutForDelivery:
		return 6
	case ShipmentDelivered:
		return 7
	case ShipmentUnknown, ShipmentException, ShipmentOnHold, ShipmentCancelled:
		return -1
	}
	return -1
}

// CanTransition valida un cambio de estado.
//   - delivered y cancelled son terminales.
//   - exception / on_hold se alcanzan desde cualquier estado no terminal.
//   - desde exception / on_hold se puede retomar cualquier estado de la progresión.
//   - en la progresión solo se avanza (se permite saltar pasos).
//   - cancelled se alcanza desde cualquier estado no terminal.
func CanTransition(from, to Shipment) bool {
	if from.Terminal() || to == ShipmentUnknown || from == to {
		return false
	}
	switch to {
	case ShipmentException, ShipmentOnHold, ShipmentCancelled:
		return true
	}
	switch from {
	case ShipmentUnknown, ShipmentException, ShipmentOnHold:
		return to.rank() >= 0
	}
	return to.rank() > from.rank()
}

// ShipmentBadge presentación del estado de un envío.
func ShipmentBadge(s Shipment) Badge {
	switch s {
	case ShipmentProcessing:
		return Badge{Tone: ToneNeutral, Icon: "clock", Label: "Processing"}
	case ShipmentLabeled:
		return Badge{Tone: ToneInfo, Icon: "tag", Label: "Labeled"}
	case ShipmentPicked:
		return Badge{Tone: ToneInfo, Icon: "hand", Label: "Picked"}
	case ShipmentPacked:
		return Badge{Tone: ToneInfo, Icon: "package", Label: "Packed"}
	case ShipmentShipped:
		return Badge{Tone: ToneInfo, Icon: "truck", Label: "Shipped"}
	case ShipmentInTransit:
		return Badge{Tone: ToneInfo, Icon: "truck", Label: "In Transit"}
	case ShipmentOutForDelivery:
		return Badge{Tone: ToneInfo, Icon: "map-pin", Label: "Out for Delivery"}
	case ShipmentDelivered:
		return Badge{Tone: ToneSuccess, Icon: "check-circle", Label: "Delivered"}
	case ShipmentException:
		return Badge{Tone: ToneDanger, Icon: "alert-triangle", Label: "Exception"}
	case ShipmentOnHold:
		return Badge{Tone: ToneWarning, Icon: "pause-circle", Label: "On Hold"}
	case ShipmentCancelled:
		return Badge{Tone: ToneMuted, Icon: "x-circle", Label: "Cancelled"}
	case ShipmentUnknown:
		return Badge{Tone: ToneMuted, Icon: "help-circle", Label: "Unknown"}
	}
	return Badge{Tone: ToneMuted, Icon: "help-circle", Label: "Unknown"}
}

// normalize "In-Transit " -> "in_transit".
func normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.NewReplacer("-", "_", " ", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}
