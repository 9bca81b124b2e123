package status

// Transaction estado de una transacción de facturación.
type Transaction int

const (
	TransactionPending Transaction = iota
	TransactionInvoiced
	TransactionCredited
)

// String código persistido.
func (t Transaction) String() string {
	switch t {
	case TransactionPending:
		return "pending"
	case TransactionInvoiced:
		return "invoiced"
	case TransactionCredited:
		return "credited"
	}
	return "pending"
}

// ParseTransaction interpreta el código persistido; vacío o desconocido => false.
func ParseTransaction(raw string) (Transaction, bool) {
	switch normalize(raw) {
	case "pending", "uninvoiced":
		return TransactionPending, true
	case "invoiced", "billed":
		return TransactionInvoiced, true
	case "credited":
		return TransactionCredited, true
	}
	return TransactionPending, false
}

// TransactionBadge presentación del estado de una transacción.
func TransactionBadge(t Transaction) Badge {
	switch t {
	case TransactionPending:
		return Badge{Tone: ToneWarning, Icon: "clock", Label: "Pending"}
	case TransactionInvoiced:
		return Badge{Tone: ToneSuccess, Icon: "file-text", Label: "Invoiced"}
	case TransactionCredited:
		return Badge{Tone: ToneInfo, Icon: "rotate-ccw", Label: "Credited"}
	}
	return Badge{Tone: ToneMuted, Icon: "help-circle", Label: "Unknown"}
}
