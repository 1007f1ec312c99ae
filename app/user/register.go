package user

import (
	"net/http"

	"bitwise74/auth-api/internal"

	"github.com/gin-gonic/gin"
)

type registerBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func UserRegister(c *gin.Context, d *internal.Deps) {
	var data registerBody
	if err := c.ShouldBindJSON(&data); err != nil {
		badBody(c, err)
		return
	}

	if err := d.Accounts.Register(c.Request.Context(), data.Name, data.Email, data.Password); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
	})
}
