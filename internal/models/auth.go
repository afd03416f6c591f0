package models

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims represents the JWT payload supplied by the identity provider.
type JWTClaims struct {
	UserID   int64    `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Actor returns the acting user id for audit fields, nil for anonymous claims.
func (c *JWTClaims) Actor() *int64 {
	if c == nil || c.UserID == 0 {
		return nil
	}
	id := c.UserID
	return &id
}

// SubjectID renders the user id as a JWT subject.
func SubjectID(id int64) string {
	return strconv.FormatInt(id, 10)
}
