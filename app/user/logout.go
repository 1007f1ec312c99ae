package user

import (
	"net/http"

	"bitwise74/auth-api/internal"

	"github.com/gin-gonic/gin"
)

// UserLogout only clears the cookie, the token itself stays valid until it expires
func UserLogout(c *gin.Context, d *internal.Deps) {
	setSessionCookie(c, d, "", -1)

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
	})
}
