package signedurl

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	s, err := NewSigner("secret", 5*time.Minute, "https://api.example.com")
	require.NoError(t, err)

	u, exp, err := s.Sign("invoices/INV-000001.pdf", "pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "https://api.example.com/api/files/"))
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 2*time.Second)

	token := strings.TrimPrefix(u, "https://api.example.com/api/files/")
	key, kind, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "invoices/INV-000001.pdf", key)
	assert.Equal(t, "pdf", kind)
}

func TestVerify_Vencido(t *testing.T) {
	s, err := NewSigner("secret", time.Minute, "")
	require.NoError(t, err)
	base := time.Now()
	s.now = func() time.Time { return base }

	u, _, err := s.Sign("k", "xlsx")
	require.NoError(t, err)
	token := strings.TrimPrefix(u, "/api/files/")

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, _, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_OtroSecreto(t *testing.T) {
	a, _ := NewSigner("a", time.Minute, "")
	b, _ := NewSigner("b", time.Minute, "")
	u, _, err := a.Sign("k", "pdf")
	require.NoError(t, err)

	_, _, err = b.Verify(strings.TrimPrefix(u, "/api/files/"))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewSigner_Invalido(t *testing.T) {
	_, err := NewSigner("", time.Minute, "")
	assert.Error(t, err)
	_, err = NewSigner("s", 0, "")
	assert.Error(t, err)
}
