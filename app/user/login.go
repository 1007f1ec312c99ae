package user

import (
	"net/http"

	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/middleware"
	"bitwise74/auth-api/pkg/security"

	"github.com/gin-gonic/gin"
)

type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserLogin(c *gin.Context, d *internal.Deps) {
	var data loginBody
	if err := c.ShouldBindJSON(&data); err != nil {
		badBody(c, err)
		return
	}

	token, err := d.Accounts.Login(c.Request.Context(), data.Email, data.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, d, token, int(security.SessionTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
	})
}

func setSessionCookie(c *gin.Context, d *internal.Deps, value string, maxAge int) {
	c.SetSameSite(d.Config.Cookie.SameSite)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", d.Config.Cookie.Secure, true)
}
