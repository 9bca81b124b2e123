// Package signedurl emite y verifica tokens de descarga de artefactos con vencimiento.
package signedurl

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken token mal formado, con firma incorrecta o vencido.
var ErrInvalidToken = errors.New("signedurl: token inválido o vencido")

// Claims el token identifica una clave del blob store y el tipo de archivo.
type Claims struct {
	jwt.RegisteredClaims
	Key  string `json:"key"`
	Kind string `json:"kind"` // pdf | xlsx
}

// Signer firma URLs con HS256.
type Signer struct {
	secret  []byte
	ttl     time.Duration
	baseURL string
	now     func() time.Time
}

// NewSigner baseURL es la raíz pública de la API (sin barra final).
func NewSigner(secret string, ttl time.Duration, baseURL string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("signedurl: secret vacío")
	}
	if ttl <= 0 {
		return nil, errors.New("signedurl: ttl debe ser positivo")
	}
	return &Signer{secret: []byte(secret), ttl: ttl, baseURL: baseURL, now: time.Now}, nil
}

// Sign devuelve la URL firmada y su vencimiento.
func (s *Signer) Sign(key, kind string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Key:  key,
		Kind: kind,
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signedurl: firmar: %w", err)
	}
	return s.baseURL + "/api/files/" + url.PathEscape(tok), exp, nil
}

// Verify valida el token y devuelve la clave y el tipo.
func (s *Signer) Verify(token string) (key, kind string, err error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Key == "" {
		return "", "", ErrInvalidToken
	}
	return claims.Key, claims.Kind, nil
}
