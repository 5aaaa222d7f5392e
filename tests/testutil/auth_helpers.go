package testutil

import (
	"strings"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/framewave-studio/framewave-portal-api/middleware"
	"github.com/gin-gonic/gin"
)

// MockValidatedClaims builds the ValidatedClaims shape the Auth0 middleware
// produces, carrying the portal role custom claim
func MockValidatedClaims(subject, role string, scopes ...string) *validator.ValidatedClaims {
	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: strings.Join(scopes, " "),
			Role:  role,
		},
	}
}

// SetMockAuthContext populates a Gin context exactly as EnsureValidToken
// does after a successful token validation
func SetMockAuthContext(c *gin.Context, auth0ID, role, accessToken string) {
	c.Set("user_id", auth0ID)
	c.Set("access_token", accessToken)
	c.Set("validated_claims", MockValidatedClaims(auth0ID, role))
}
