package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims the conversation front end signs into the
// bearer token it sends with each chat request. UserID is the stable
// external identifier profiles are keyed by.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}
