// Package user contains the account handlers: registration, email
// verification, login, logout and the session check
package user

import (
	"errors"
	"net/http"
	"unicode"
	"unicode/utf8"

	"bitwise74/auth-api/internal/service"
	"bitwise74/auth-api/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	err    error
	status int
	msg    string
}

// Checked in order, ErrInsert has to come before ErrPersistence
var errorResponses = []errorResponse{
	{service.ErrMissingFields, http.StatusBadRequest, "Name, email and password are required"},
	{service.ErrMissingCredentials, http.StatusBadRequest, "Email and password are required"},
	{service.ErrMissingToken, http.StatusBadRequest, "Verification token is missing"},
	{service.ErrInvalidOrExpiredToken, http.StatusBadRequest, "Invalid or expired token"},
	{service.ErrEmailExists, http.StatusConflict, "Email already exists"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrIncorrectPassword, http.StatusUnauthorized, "Incorrect password"},
	{service.ErrEmailNotVerified, http.StatusForbidden, "Email not verified"},
	{service.ErrInsert, http.StatusInternalServerError, "Insert data error in server"},
	{service.ErrPersistence, http.StatusInternalServerError, "Database query error"},
	{service.ErrHashing, http.StatusInternalServerError, "Error hashing password"},
	{service.ErrComparison, http.StatusInternalServerError, "Error comparing passwords"},
}

// respondError writes err as {"Error": ...}. Server side failures are logged
// with their cause, the client only sees the fixed message.
func respondError(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	status, msg := http.StatusInternalServerError, "Internal server error"

	var ve *service.ValidationError

	matched := false
	for _, r := range errorResponses {
		if errors.Is(err, r.err) {
			status, msg = r.status, r.msg
			matched = true
			break
		}
	}

	if !matched && errors.As(err, &ve) {
		status, msg = http.StatusBadRequest, capitalize(ve.Error())
	}

	if status >= http.StatusInternalServerError {
		zap.L().Error(msg, zap.Error(err), zap.String("kind", service.KindOf(err).String()), zap.String("requestID", requestID))
	} else {
		zap.L().Debug(msg, zap.Error(err), zap.String("requestID", requestID))
	}

	c.JSON(status, gin.H{
		"Error":     msg,
		"requestID": requestID,
	})
}

func badBody(c *gin.Context, err error) {
	requestID := c.GetString("requestID")

	zap.L().Debug("Can't bind request body", zap.Error(err), zap.String("requestID", requestID))

	if middleware.IsBodyTooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"Error":     "Request body size exceeds limit",
			"requestID": requestID,
		})
		return
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"Error":     "Invalid request body",
		"requestID": requestID,
	})
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}

	return string(unicode.ToUpper(r)) + s[size:]
}
