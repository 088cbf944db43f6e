package billing

import (
	"net/http"
	"time"

	"menu-app/internal/app/http/middleware"
	"menu-app/internal/infra/stripe"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Handler struct {
	db      *gorm.DB
	gateway stripe.Gateway
	appURL  string
	now     func() time.Time
}

// NewHandler wires the billing endpoints. gateway may be nil; Stripe
// backed endpoints then answer 500.
func NewHandler(db *gorm.DB, gateway stripe.Gateway, appURL string) *Handler {
	return &Handler{db: db, gateway: gateway, appURL: appURL, now: time.Now}
}

func mustUserID(c *gin.Context) (string, bool) {
	s, ok := middleware.CurrentSession(c)
	if !ok || s.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return s.UserID, true
}

func (h *Handler) mustGateway(c *gin.Context) bool {
	if h.gateway == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stripe key not configured"})
		return false
	}
	return true
}
