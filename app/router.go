// Package app wires the HTTP router and everything it depends on
package app

import (
	"time"

	"bitwise74/auth-api/app/root"
	"bitwise74/auth-api/app/user"
	"bitwise74/auth-api/internal"
	"bitwise74/auth-api/pkg/middleware"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"

	maxBodySize = 1 << 20
)

func NewRouter(d *internal.Deps) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     []string{d.Config.ClientURL},
			AllowMethods:     []string{"GET", "POST", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("name"); v != "" {
					fields = append(fields, zap.String("name", v))
				}

				return fields
			},
		}),
		ginzap.RecoveryWithZap(zap.L(), true),
	)

	router.HandleMethodNotAllowed = true

	session := middleware.NewSessionMiddleware(d.Sessions)

	// GET /metrics			-> Prometheus metrics
	router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	m := router.Group("/api", middleware.BodySizeLimiter(maxBodySize))
	{
		// HEAD /api/heartbeat 		-> Used to check if the server and database are alive
		m.HEAD("/heartbeat", func(c *gin.Context) { root.Heartbeat(c, d) })

		// GET /api/user		-> Returns the name of the logged in user
		m.GET("/user", session, user.UserFetch)

		// POST /api/register		-> Registers a new unverified user
		m.POST("/register", func(c *gin.Context) { user.UserRegister(c, d) })

		// POST /api/login		-> Logs in a verified user and sets the session cookie
		m.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /api/logout		-> Clears the session cookie
		m.POST("/logout", func(c *gin.Context) { user.UserLogout(c, d) })

		// GET /api/verify-email	-> Verifies the account holding the token query param
		m.GET("/verify-email", func(c *gin.Context) { user.UserVerify(c, d) })
	}

	return router
}

func makeLogger(level zapcore.Level) error {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, err := cfg.Build()
	if err != nil {
		return err
	}

	zap.ReplaceGlobals(log)
	return nil
}
