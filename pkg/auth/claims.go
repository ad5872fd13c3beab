package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	IsVendor bool
	IsStaff  bool
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. The jti doubles
// as the Redis session key so refresh rotation can revoke prior tokens.
type AccessTokenClaims struct {
	UserID   uuid.UUID `json:"user_id"`
	IsVendor bool      `json:"is_vendor"`
	IsStaff  bool      `json:"is_staff"`
	jwt.RegisteredClaims
}
