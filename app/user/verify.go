package user

import (
	"net/http"

	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UserVerify(c *gin.Context, d *internal.Deps) {
	err := d.Accounts.VerifyEmail(c.Request.Context(), c.Query("token"))
	if err != nil {
		if service.KindOf(err) == service.KindPersistence {
			requestID := c.GetString("requestID")

			c.JSON(http.StatusInternalServerError, gin.H{
				"Error":     "Internal server error during verification",
				"requestID": requestID,
			})

			zap.L().Error("Failed to update verification status", zap.Error(err), zap.String("requestID", requestID))
			return
		}

		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"Status": "Email verified successfully",
	})
}
