package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/miguelantunes/partnerflow-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting an admin JWT.
type AccessTokenPayload struct {
	UserID uuid.UUID
	Email  string
	Role   enums.AdminRole
	JTI    string
}

// AccessTokenClaims represents the typed JWT issued to back-office clients.
type AccessTokenClaims struct {
	UserID uuid.UUID       `json:"user_id"`
	Email  string          `json:"email"`
	Role   enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}

// PortalTokenClaims represents the typed JWT issued to an influencer's portal.
// The token is scoped to exactly one influencer.
type PortalTokenClaims struct {
	InfluencerID uuid.UUID `json:"influencer_id"`
	jwt.RegisteredClaims
}
