package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/mehmetcc/shelfguard/internal/policy"
)

// UnknownSubject is the audit-context placeholder for tokens without a sub
// claim. It never participates in an allow/deny decision.
const UnknownSubject = "unknown"

type Claims struct {
	Sub  string      `json:"sub"`
	Role policy.Role `json:"role"`
	jwt.RegisteredClaims
}

func (c *Claims) normalize() {
	if c.Sub == "" {
		c.Sub = UnknownSubject
	}
	c.Role = policy.ParseRole(string(c.Role))
}
