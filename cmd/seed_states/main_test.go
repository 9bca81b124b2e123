package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAliases_Latin1(t *testing.T) {
	// "Nuevo México" en ISO-8859-1 (é = 0xE9)
	path := filepath.Join(t.TempDir(), "alias.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nuevo M\xe9xico,nm\nTejas, TX\n"), 0o600))

	got, err := readAliases(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"nuevo mexico": "NM", "tejas": "TX"}, got)
}

func TestReadAliases_CodigoDesconocido(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alias.csv")
	require.NoError(t, os.WriteFile(path, []byte("Ontario,ON\n"), 0o600))

	_, err := readAliases(path)
	assert.ErrorContains(t, err, "ON")
}

func TestRender(t *testing.T) {
	var b strings.Builder
	states, aliases, err := render(&b, map[string]string{"tejas": "TX"})
	require.NoError(t, err)

	sql := b.String()
	assert.Greater(t, states, 50)
	assert.Contains(t, sql, "('TX', 'Texas'),")
	assert.Contains(t, sql, "('tejas', 'TX')")
	assert.Contains(t, sql, "('WY', 'Wyoming')")
	assert.Equal(t, states+aliases, strings.Count(sql, "  ('"))
}
