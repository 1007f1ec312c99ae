package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UserFetch returns the display name carried by the session token. It never
// touches the database.
func UserFetch(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"Status": "Success",
		"name":   c.GetString("name"),
	})
}
