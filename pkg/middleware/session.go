package middleware

import (
	"errors"
	"net/http"

	"bitwise74/auth-api/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie is the cookie holding the signed session token
const SessionCookie = "token"

// NewSessionMiddleware only lets requests with a valid session cookie
// through and sets the token's display name as name.
func NewSessionMiddleware(s *security.SessionSigner) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetString("requestID")

		// a missing cookie is the same as an empty one
		token, _ := c.Cookie(SessionCookie)

		name, err := s.Verify(token)
		if err != nil {
			msg := "Token is not valid or has expired!"
			if errors.Is(err, security.ErrMissingSession) {
				msg = "You are not authenticated!"
			}

			zap.L().Debug("Session rejected", zap.Error(err), zap.String("requestID", requestID))

			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"Error":     msg,
				"requestID": requestID,
			})
			return
		}

		c.Set("name", name)
		c.Next()
	}
}
