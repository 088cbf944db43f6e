package routes

import (
	"log/slog"
	"net/http"
	"time"

	adminapi "menu-app/internal/api/admin"
	authapi "menu-app/internal/api/auth"
	"menu-app/internal/api/billing"
	"menu-app/internal/api/menus"
	"menu-app/internal/api/plans"
	siteapi "menu-app/internal/api/site"
	stripewebhooks "menu-app/internal/api/stripewebhook"
	"menu-app/internal/api/users"
	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/routing"
	"menu-app/internal/infra/mailer"
	"menu-app/internal/infra/metrics"
	"menu-app/internal/infra/ratelimit"
	"menu-app/internal/infra/stripe"
	"menu-app/internal/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Per-IP token bucket on /api/.
const (
	apiRPS   = 10
	apiBurst = 30
)

// Deps are the collaborators the handlers are built from. Stripe may be
// nil; billing handlers then answer 500.
type Deps struct {
	DB      *gorm.DB
	Log     *slog.Logger
	Mail    mailer.Sender
	Limiter ratelimit.Limiter
	Stripe  stripe.Gateway

	Auth    authapi.Config
	Session middleware.SessionConfig

	AppURL              string
	CORSOrigin          string
	StripeWebhookSecret string
	StripeProductID     string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{d.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.SessionGate(d.Session))

	authH := authapi.NewHandler(d.DB, d.Mail, d.Limiter, d.Auth)
	siteH := siteapi.NewHandler(d.DB, d.Auth.Google.Configured())
	usersH := users.NewHandler(d.DB, d.AppURL)
	adminH := adminapi.NewHandler(d.DB, d.AppURL)
	menusH := menus.NewHandler(d.DB)
	billingH := billing.NewHandler(d.DB, d.Stripe, d.AppURL)
	plansH := plans.NewHandler(d.DB, d.Stripe, d.StripeProductID)
	webhookH := stripewebhooks.NewHandler(d.DB, d.StripeWebhookSecret)

	// Public surface
	r.GET("/", siteH.Landing)
	r.GET("/menu/:slug", siteH.Menu)
	r.StaticFS("/static", web.Static())
	r.GET("/favicon.ico", func(c *gin.Context) {
		c.FileFromFS("favicon.ico", web.Static())
	})
	r.GET("/metrics", metrics.Handler())
	for _, p := range routing.LegalPages() {
		r.GET(p, siteH.LegalPage)
	}

	// Auth pages and browser flows
	for _, p := range siteapi.AuthPages() {
		r.GET(p, siteH.AuthPage)
	}
	r.POST("/auth/login", authH.Login)
	r.GET("/auth/logout", authH.Logout)
	r.POST("/auth/logout", authH.Logout)
	r.GET("/auth/google", authH.GoogleStart)
	r.GET("/auth/google/callback", authH.GoogleCallback)

	// Signed raw body: must not pass through the sanitizer.
	r.POST("/api/stripe/webhook", webhookH.StripeWebhook)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(apiRPS, apiBurst))
	api.Use(middleware.SanitizeAndCleanInputMiddleware())
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/plans", plansH.ListPlans)

	auth := api.Group("/auth")
	auth.POST("/create-user", authH.CreateUser)
	auth.POST("/login", authH.Login)
	auth.POST("/logout", authH.Logout)
	auth.GET("/confirm-email", authH.ConfirmEmail)
	auth.POST("/resend-confirmation", authH.ResendConfirmation)
	auth.POST("/request-password-reset", authH.RequestPasswordReset)
	auth.POST("/validate-reset-token", authH.ValidateResetToken)
	auth.POST("/reset-password", authH.ResetPassword)

	// Owner dashboard
	admin := r.Group("/admin")
	admin.Use(middleware.RequireSession(), middleware.LoadEntitlements(d.DB))
	admin.Use(middleware.SanitizeAndCleanInputMiddleware())

	admin.GET("", usersH.GetDashboard)
	admin.PUT("/profile", usersH.UpdateProfile)

	admin.GET("/restaurants", adminH.ListRestaurants)
	admin.POST("/restaurants", middleware.RequireRestaurantCapacity(d.DB), adminH.CreateRestaurant)
	admin.GET("/restaurants/:id", adminH.GetRestaurant)
	admin.PUT("/restaurants/:id", adminH.UpdateRestaurant)
	admin.DELETE("/restaurants/:id", adminH.DeleteRestaurant)
	admin.GET("/templates", adminH.ListTemplates)
	admin.GET("/activity", adminH.ListActivity)

	admin.GET("/restaurants/:id/categories", menusH.ListCategories)
	admin.POST("/restaurants/:id/categories", menusH.CreateCategory)
	admin.PUT("/restaurants/:id/categories/reorder", menusH.ReorderCategories)
	admin.PUT("/categories/:id", menusH.UpdateCategory)
	admin.DELETE("/categories/:id", menusH.DeleteCategory)
	admin.POST("/categories/:id/items", menusH.CreateItem)
	admin.PUT("/categories/:id/items/reorder", menusH.ReorderItems)
	admin.PUT("/items/:id", menusH.UpdateItem)
	admin.DELETE("/items/:id", menusH.DeleteItem)

	admin.GET("/subscription", billingH.GetSubscription)
	admin.POST("/subscription/upgrade", billingH.UpgradeSubscription)
	admin.POST("/billing/checkout", billingH.CreateCheckoutSession)
	admin.POST("/billing/portal", billingH.CreateBillingPortal)
	admin.POST("/billing/change-plan", billingH.ChangePlan)
	admin.POST("/plans/sync", plansH.SyncPlansFromStripe)

	r.NoRoute(siteH.NotFound)
}
