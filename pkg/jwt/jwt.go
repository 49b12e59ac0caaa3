package jwt

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims refleja los claims que emite el backend APROAFA al iniciar sesión.
// Tipo es el tipoUsuario crudo; el rol se normaliza en entity.ParseRole.
type Claims struct {
	jwt.RegisteredClaims
	ID   int64  `json:"id,omitempty"`
	Tipo string `json:"tipo,omitempty"`
}

// Generate firma un token HS256 con los mismos claims que el backend.
// Lo usan los servidores falsos de los tests.
func Generate(secret string, idPersona int64, tipoUsuario string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", idPersona),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		ID:   idPersona,
		Tipo: tipoUsuario,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Info es lo que el cliente puede leer del token sin conocer la clave del servidor.
type Info struct {
	Subject   string
	ID        int64
	Tipo      string
	ExpiresAt time.Time // cero si el token no trae exp
}

// Expired indica si exp ya pasó respecto a now. Sin exp nunca expira.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// Inspect decodifica el token SIN verificar la firma.
// Solo es informativo: la validez real la decide el servidor (401).
func Inspect(tokenString string) (Info, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Info{}, fmt.Errorf("jwt: token vacío")
	}
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Info{}, fmt.Errorf("jwt: token ilegible: %w", err)
	}
	info := Info{Subject: claims.Subject, ID: claims.ID, Tipo: claims.Tipo}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
