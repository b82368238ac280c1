package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/daylog/internal/api"
	"github.com/terraincognita07/daylog/internal/db"
	"github.com/terraincognita07/daylog/internal/services"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(options *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(options)
			if err != nil {
				return err
			}
			defer func() { _ = rt.Close() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt, options.logger)
		},
	}
}

func serve(ctx context.Context, rt *runtime, log *zap.Logger) error {
	cfg := rt.config
	policy, err := services.ParseSlotPolicy(cfg.Slots.Policy)
	if err != nil {
		return err
	}

	seedAtStartup(rt, log)

	handler, err := api.NewHandler(api.Dependencies{
		Entries:      rt.store.Entries,
		Users:        rt.store.Users,
		IsNotFound:   db.IsNotFound,
		SecretKey:    cfg.Server.SecretKey,
		Location:     cfg.Location(),
		I18n:         rt.i18n,
		CookieSecure: cfg.Server.CookieSecure,
		SlotPolicy:   policy,
		Logger:       log.Named("api"),
	})
	if err != nil {
		return err
	}

	app := newApp(handler, cfg.Server.CookieSecure)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("daylog listening",
			zap.String("addr", "0.0.0.0:"+cfg.Server.Port),
			zap.String("backend", rt.store.Backend),
			zap.String("tz", cfg.Server.Timezone),
		)
		return app.Listen(":" + cfg.Server.Port)
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Warn("server shutdown failed", zap.Error(err))
			return err
		}
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("daylog stopped")
	return nil
}

func newApp(handler *api.Handler, cookieSecure bool) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Daylog",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())
	app.Use(handler.LanguageMiddleware)
	app.Use(csrf.New(csrfMiddlewareConfig(cookieSecure)))

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

// csrfMiddlewareConfig uses the double submit pattern: clients read the
// cookie and echo it in the X-Csrf-Token header on unsafe requests.
func csrfMiddlewareConfig(cookieSecure bool) csrf.Config {
	return csrf.Config{
		KeyLookup:      "header:X-Csrf-Token",
		CookieName:     api.CSRFCookieName,
		CookieSameSite: "Lax",
		CookieHTTPOnly: false,
		CookieSecure:   cookieSecure,
		ContextKey:     "csrf",
	}
}

// seedAtStartup creates the roster on a fresh install. Failures are logged
// and never stop the server.
func seedAtStartup(rt *runtime, log *zap.Logger) {
	status, err := services.InspectSetup(rt.store.Users)
	if err != nil {
		log.Warn("users table unreadable at startup", zap.Error(err))
		return
	}
	if !status.NeedsRoster {
		log.Debug("accounts present, roster seed skipped", zap.Int64("accounts", status.Accounts))
		return
	}
	if !rt.config.Seed.Enabled {
		log.Info("no accounts yet, register one through /api/auth/register")
		return
	}

	roster, err := services.LoadRoster(rt.config.Seed.RosterPath)
	if err != nil {
		log.Warn("roster unreadable, skipping seed", zap.String("path", rt.config.Seed.RosterPath), zap.Error(err))
		return
	}
	created := services.NewSeedService(rt.store.Users, log.Named("seed")).Seed(roster)
	log.Info("roster seeded", zap.Int("accounts", created))
}
