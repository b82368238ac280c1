package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/daylog/internal/i18n"
	"github.com/terraincognita07/daylog/internal/services"
	"go.uber.org/zap"
)

// Dependencies is what NewHandler needs from the process: the two stores of
// the opened backend and the request-independent settings.
type Dependencies struct {
	Entries      services.EntryStore
	Users        services.AuthUserRepository
	IsNotFound   func(error) bool
	SecretKey    string
	Location     *time.Location
	I18n         *i18n.Manager
	CookieSecure bool
	SlotPolicy   services.SlotPolicy
	Logger       *zap.Logger
	Now          func() time.Time
}

func NewHandler(deps Dependencies) (*Handler, error) {
	if deps.Entries == nil || deps.Users == nil {
		return nil, errors.New("entry and user stores are required")
	}
	if deps.I18n == nil {
		return nil, errors.New("i18n manager is required")
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	secretKey := []byte(deps.SecretKey)
	codec, err := newSecureCookieCodec(secretKey)
	if err != nil {
		return nil, err
	}

	entryService := services.NewEntryService(deps.Entries, deps.SlotPolicy, deps.Logger.Named("entries"))
	return &Handler{
		secretKey:     secretKey,
		location:      deps.Location,
		cookieSecure:  deps.CookieSecure,
		i18n:          deps.I18n,
		logger:        deps.Logger,
		cookieCodec:   codec,
		loginLimiter:  newAttemptLimiter(loginAttemptsLimit, loginAttemptsWindow),
		now:           deps.Now,
		authService:   services.NewAuthService(deps.Users, deps.IsNotFound, deps.Logger.Named("auth")),
		entryService:  entryService,
		exportService: services.NewExportService(entryService),
	}, nil
}
