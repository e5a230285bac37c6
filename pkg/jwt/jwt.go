package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tipos de token emitidos por el login.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más identidad, rol y poderes del usuario.
// Los poderes viajan en el token para que el middleware autorice sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64    `json:"user_id"`
	Email  string   `json:"email"`
	Role   string   `json:"role"`   // "super_admin" | "admin" | "employee"
	Powers []string `json:"powers"` // PRODUCT_BUY, INVENTORY, PRODUCT_SELL
	Type   string   `json:"typ"`
}

// Identity datos del usuario autenticado extraídos del token.
type Identity struct {
	UserID int64
	Email  string
	Role   string
	Powers []string
	Type   string
}

// Generate genera un token JWT firmado (HS256) para la identidad indicada.
func Generate(secret, issuer string, id Identity, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	tokenType := id.Type
	if tokenType == "" {
		tokenType = TokenAccess
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   fmt.Sprintf("%d", id.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		Powers: id.Powers,
		Type:   tokenType,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve la identidad.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (*Identity, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
		Powers: claims.Powers,
		Type:   claims.Type,
	}, nil
}
