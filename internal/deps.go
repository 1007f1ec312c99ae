package internal

import (
	"bitwise74/auth-api/config"
	"bitwise74/auth-api/internal/metrics"
	"bitwise74/auth-api/internal/service"
	"bitwise74/auth-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Accounts *service.AccountService
	Sessions *security.SessionSigner
	Metrics  *metrics.Metrics
	Config   *config.Config
}
