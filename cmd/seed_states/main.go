// seed_states genera el script SQL con el catálogo de estados de EE. UU. (códigos, nombres y
// alias) a partir de internal/domain/geo, para que los reportes SQL usen la misma normalización
// que la ingesta.
//
// Uso: go run ./cmd/seed_states [ruta/alias.csv]
// El CSV opcional trae filas "alias,código" (UTF-8 o ISO-8859-1) que se suman a los alias propios.
// Escribe: internal/infrastructure/postgres/migrations/002_us_states.sql
package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/shipdash-api/internal/domain/geo"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	extra := map[string]string{}
	if len(os.Args) > 1 {
		var err error
		extra, err = readAliases(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Leer alias: %v\n", err)
			os.Exit(1)
		}
	}

	// Ruta del script de salida (relativa al módulo)
	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_us_states.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	states, aliases, err := render(out, extra)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d estados, %d alias\n", outPath, states, aliases)
}

// readAliases lee "alias,código". Los archivos que no son UTF-8 se decodifican como ISO-8859-1.
func readAliases(path string) (map[string]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	out := make(map[string]string)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		alias, code := geo.Fold(rec[0]), strings.ToUpper(strings.TrimSpace(rec[1]))
		if alias == "" || code == "" {
			continue
		}
		if geo.StateName(code) == "Unknown" {
			return nil, fmt.Errorf("línea %d: código %q desconocido", line, code)
		}
		out[alias] = code
	}
}

// render escribe el SQL y devuelve cuántos estados y alias incluyó.
func render(w io.Writer, extra map[string]string) (int, int, error) {
	codes := geo.Codes()
	sort.Strings(codes)

	aliases := geo.Aliases()
	for alias, code := range extra {
		aliases[alias] = code
	}
	names := make([]string, 0, len(aliases))
	for alias := range aliases {
		names = append(names, alias)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("-- Estados y territorios de EE. UU. y alias de normalización\n")
	b.WriteString("-- Generado por cmd/seed_states desde internal/domain/geo\n\n")

	b.WriteString("CREATE TABLE IF NOT EXISTS us_states (\n")
	b.WriteString("    code TEXT PRIMARY KEY,\n")
	b.WriteString("    name TEXT NOT NULL\n")
	b.WriteString(");\n\n")
	b.WriteString("CREATE TABLE IF NOT EXISTS us_state_aliases (\n")
	b.WriteString("    alias TEXT PRIMARY KEY,\n")
	b.WriteString("    code  TEXT NOT NULL REFERENCES us_states (code)\n")
	b.WriteString(");\n\n")

	b.WriteString("-- 1. Estados\n")
	b.WriteString("INSERT INTO us_states (code, name) VALUES\n")
	for i, c := range codes {
		sep := ","
		if i == len(codes)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  ('%s', '%s')%s\n", c, escapeSQL(geo.StateName(c)), sep)
	}
	b.WriteString("ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;\n\n")

	b.WriteString("-- 2. Alias (minúsculas, sin acentos)\n")
	b.WriteString("INSERT INTO us_state_aliases (alias, code) VALUES\n")
	for i, a := range names {
		sep := ","
		if i == len(names)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  ('%s', '%s')%s\n", escapeSQL(a), aliases[a], sep)
	}
	b.WriteString("ON CONFLICT (alias) DO UPDATE SET code = EXCLUDED.code;\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return 0, 0, err
	}
	return len(codes), len(names), nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
