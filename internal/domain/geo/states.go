// Package geo catálogo de estados de EE. UU. usado por el mapa de desempeño por estado.
package geo

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// UnknownState código de agrupación para destinos sin estado reconocible.
const UnknownState = "UNKNOWN"

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas", "CA": "California",
	"CO": "Colorado", "CT": "Connecticut", "DE": "Delaware", "DC": "District of Columbia",
	"FL": "Florida", "GA": "Georgia", "HI": "Hawaii", "ID": "Idaho", "IL": "Illinois",
	"IN": "Indiana", "IA": "Iowa", "KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana",
	"ME": "Maine", "MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska", "NV": "Nevada",
	"NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico", "NY": "New York",
	"NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio", "OK": "Oklahoma", "OR": "Oregon",
	"PA": "Pennsylvania", "RI": "Rhode Island", "SC": "South Carolina", "SD": "South Dakota",
	"TN": "Tennessee", "TX": "Texas", "UT": "Utah", "VT": "Vermont", "VA": "Virginia",
	"WA": "Washington", "WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
	"PR": "Puerto Rico", "GU": "Guam", "VI": "U.S. Virgin Islands", "AS": "American Samoa",
	"MP": "Northern Mariana Islands",
	"AA": "Armed Forces Americas", "AE": "Armed Forces Europe", "AP": "Armed Forces Pacific",
}

// aliases nombres alternativos que llegan en los feeds de marketplaces (ya plegados con Fold).
var aliases = map[string]string{
	"washington dc":       "DC",
	"washington d.c.":     "DC",
	"d.c.":                "DC",
	"nueva york":          "NY",
	"nueva jersey":        "NJ",
	"nuevo mexico":        "NM",
	"nuevo hampshire":     "NH",
	"carolina del norte":  "NC",
	"carolina del sur":    "SC",
	"dakota del norte":    "ND",
	"dakota del sur":      "SD",
	"virginia occidental": "WV",
	"pensilvania":         "PA",
	"luisiana":            "LA",
	"misisipi":            "MS",
	"misuri":              "MO",
	"hawai":               "HI",
	"islas virgenes":      "VI",
	"virgin islands":      "VI",
}

var codeByName = func() map[string]string {
	m := make(map[string]string, len(stateNames)+len(aliases))
	for code, name := range stateNames {
		m[Fold(name)] = code
	}
	for alias, code := range aliases {
		m[alias] = code
	}
	return m
}()

// Fold minúsculas sin acentos ni espacios repetidos: "  Nuevo  México " -> "nuevo mexico".
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// Aliases copia de los nombres alternativos y su código.
func Aliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// NormalizeState devuelve el código de dos letras para "tx", "Texas", " TX " o "Nuevo México".
// Entradas no reconocidas devuelven UnknownState.
func NormalizeState(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return UnknownState
	}
	if code := strings.ToUpper(s); len(code) == 2 {
		if _, ok := stateNames[code]; ok {
			return code
		}
	}
	if code, ok := codeByName[Fold(s)]; ok {
		return code
	}
	return UnknownState
}

// StateName nombre completo del estado ("Unknown" si no existe).
func StateName(code string) string {
	if name, ok := stateNames[code]; ok {
		return name
	}
	return "Unknown"
}

// Codes todos los códigos conocidos (orden no garantizado).
func Codes() []string {
	out := make([]string, 0, len(stateNames))
	for code := range stateNames {
		out = append(out, code)
	}
	return out
}
