package status

// Tone color semántico del badge; el front lo traduce a su paleta.
type Tone string

const (
	ToneNeutral Tone = "neutral"
	ToneInfo    Tone = "info"
	ToneSuccess Tone = "success"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneMuted   Tone = "muted"
)

// Badge tupla de presentación de un estado.
type Badge struct {
	Tone  Tone   `json:"tone"`
	Icon  string `json:"icon"`
	Label string `json:"label"`
}
