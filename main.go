package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"menu-app/config"
	"menu-app/database"
	authapi "menu-app/internal/api/auth"
	routes "menu-app/internal/app/http"
	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/session"
	"menu-app/internal/infra/mailer"
	"menu-app/internal/infra/ratelimit"
	"menu-app/internal/infra/stripe"
	"menu-app/internal/web"

	"github.com/gin-gonic/gin"
)

// Capacity of the in-process reset limiter.
const limiterMaxKeys = 10000

func main() {
	config.LoadEnv()

	log := newLogger()
	slog.SetDefault(log)

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(config.DB_URL)
	if err != nil {
		log.Error("database init failed", "err", err)
		os.Exit(1)
	}

	limiter, err := newLimiter()
	if err != nil {
		log.Error("rate limiter init failed", "err", err)
		os.Exit(1)
	}

	sessionTTL := time.Duration(config.SESSION_TTL_HOURS) * time.Hour

	deps := routes.Deps{
		DB:      db,
		Log:     log,
		Mail:    newSender(log),
		Limiter: limiter,
		Auth: authapi.Config{
			AppURL:       config.APP_URL,
			MailFrom:     config.MAIL_FROM,
			JWTSecret:    config.JWT_SECRET,
			SessionTTL:   sessionTTL,
			CookieSecure: config.COOKIE_SECURE,
			Google: authapi.GoogleConfig{
				ClientID:     config.GOOGLE_CLIENT_ID,
				ClientSecret: config.GOOGLE_CLIENT_SECRET,
				RedirectURL:  config.GOOGLE_REDIRECT_URL,
			},
		},
		Session: middleware.SessionConfig{
			Secret: config.JWT_SECRET,
			TTL:    sessionTTL,
			Secure: config.COOKIE_SECURE,
			Gate:   session.Gate{DefaultDeny: config.GATE_DEFAULT_DENY},
		},
		AppURL:              config.APP_URL,
		CORSOrigin:          config.CORS_ORIGIN,
		StripeWebhookSecret: config.STRIPE_WEBHOOK_SECRET,
		StripeProductID:     config.STRIPE_PRODUCT_ID,
	}
	// A nil *Client must not become a non-nil Gateway.
	if sc := stripe.NewClient(config.STRIPE_SECRET_KEY); sc != nil {
		deps.Stripe = sc
	} else {
		log.Warn("STRIPE_SECRET_KEY not set, billing disabled")
	}

	r := gin.New()
	r.SetHTMLTemplate(web.Templates())
	routes.RegisterRoutes(r, deps)

	log.Info("listening", "port", config.PORT, "env", config.APP_ENV)
	if err := r.Run(":" + config.PORT); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if config.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// newSender prefers Resend, then SMTP, then logging the mail.
func newSender(log *slog.Logger) mailer.Sender {
	switch {
	case config.RESEND_API_KEY != "":
		return mailer.NewResendSender(config.RESEND_API_KEY)
	case config.SMTP_HOST != "":
		return mailer.NewSMTPSender(config.SMTP_HOST, config.SMTP_PORT, config.SMTP_USER, config.SMTP_PASSWORD)
	default:
		log.Warn("no mail provider configured, mails are logged only")
		return mailer.LogSender{Log: log}
	}
}

func newLimiter() (ratelimit.Limiter, error) {
	if config.REDIS_URL == "" {
		return ratelimit.NewMemoryStore(ratelimit.PasswordResetWindow, limiterMaxKeys), nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	rdb, err := ratelimit.NewRedisClient(ctx, config.REDIS_URL)
	if err != nil {
		return nil, err
	}
	return ratelimit.NewRedisStore(rdb, ratelimit.PasswordResetWindow), nil
}
