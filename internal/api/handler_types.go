package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/daylog/internal/i18n"
	"github.com/terraincognita07/daylog/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	secretKey     []byte
	location      *time.Location
	cookieSecure  bool
	i18n          *i18n.Manager
	logger        *zap.Logger
	cookieCodec   *secureCookieCodec
	loginLimiter  *attemptLimiter
	now           func() time.Time
	authService   *services.AuthService
	entryService  *services.EntryService
	exportService *services.ExportService
}

const (
	defaultAuthTokenTTL  = 7 * 24 * time.Hour
	rememberAuthTokenTTL = 30 * 24 * time.Hour

	loginAttemptsLimit  = 8
	loginAttemptsWindow = 15 * time.Minute
)

type authClaims struct {
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

type credentialsInput struct {
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

type changePasswordInput struct {
	CurrentPassword string `json:"current_password" form:"current_password"`
	NewPassword     string `json:"new_password" form:"new_password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
}

type submitEntriesInput struct {
	Date string                   `json:"date"`
	Rows []services.EntryRowInput `json:"rows"`
}
