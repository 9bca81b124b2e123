package entity

import (
	"strings"
	"time"
)

// Client cliente del 3PL; dueño de envíos, transacciones y facturas.
type Client struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// normalizeKey "Additional-Services " -> "additional_services".
func normalizeKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
