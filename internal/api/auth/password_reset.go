package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"menu-app/internal/domain/users"
	"menu-app/internal/infra/mailer"
	"menu-app/internal/infra/metrics"
	"menu-app/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const resetRequestedMsg = "If an account exists for this email, a reset link has been sent."

// POST /api/auth/request-password-reset
func (h *Handler) RequestPasswordReset(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}
	email := normalizeEmail(body.Email)

	if !h.admit(c, ratelimit.EmailKey("password-reset", email)) {
		metrics.PasswordResetRequests.WithLabelValues("limited").Inc()
		return
	}

	var user users.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.PasswordResetRequests.WithLabelValues("unknown").Inc()
		c.JSON(http.StatusOK, gin.H{"message": resetRequestedMsg})
		return
	}
	if err != nil {
		slog.Error("lookup user failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request password reset"})
		return
	}

	token, err := h.issueToken(h.db, user.ID, users.TokenPasswordReset, users.PasswordResetTTL)
	if err != nil {
		slog.Error("store reset token failed", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request password reset"})
		return
	}

	link := h.cfg.AppURL + "/auth/reset-password?token=" + url.QueryEscape(token)
	msg, err := mailer.PasswordResetEmail(h.cfg.MailFrom, user.Email, link)
	if err == nil {
		err = h.deliver(c, "password_reset", msg)
	}
	if err != nil {
		metrics.PasswordResetRequests.WithLabelValues("error").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send password reset email"})
		return
	}

	metrics.PasswordResetRequests.WithLabelValues("sent").Inc()
	c.JSON(http.StatusOK, gin.H{"message": resetRequestedMsg})
}

// POST /api/auth/validate-reset-token
func (h *Handler) ValidateResetToken(c *gin.Context) {
	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	t, err := h.lookupToken(body.Token, users.TokenPasswordReset)
	if err != nil {
		h.tokenError(c, err)
		return
	}

	var user users.User
	if err := h.db.Select("email").First(&user, "id = ?", t.UserID).Error; err != nil {
		h.tokenError(c, errTokenInvalid)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "email": user.Email})
}

// POST /api/auth/reset-password
func (h *Handler) ResetPassword(c *gin.Context) {
	var body struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Token == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token and password are required"})
		return
	}
	if !isPasswordStrong(body.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": weakPasswordMsg})
		return
	}

	t, err := h.lookupToken(body.Token, users.TokenPasswordReset)
	if err != nil {
		h.tokenError(c, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&users.User{}).Where("id = ?", t.UserID).Update("password", string(hashed)).Error; err != nil {
			return err
		}
		return tx.Delete(t).Error
	})
	if err != nil {
		slog.Error("reset password failed", "user_id", t.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated. You can now log in."})
}

func (h *Handler) sendConfirmation(c *gin.Context, user users.User, token string) error {
	link := h.cfg.AppURL + "/api/auth/confirm-email?token=" + url.QueryEscape(token)
	msg, err := mailer.ConfirmationEmail(h.cfg.MailFrom, user.Email, displayName(user), link)
	if err != nil {
		slog.Error("render confirmation email failed", "err", err)
		return err
	}
	return h.deliver(c, "confirm_email", msg)
}

// sendWelcome is best effort; confirmation already succeeded.
func (h *Handler) sendWelcome(c *gin.Context, user users.User) {
	msg, err := mailer.WelcomeEmail(h.cfg.MailFrom, user.Email, displayName(user), h.cfg.AppURL+"/admin")
	if err != nil {
		slog.Error("render welcome email failed", "err", err)
		return
	}
	_ = h.deliver(c, "welcome", msg)
}

func (h *Handler) deliver(c *gin.Context, kind string, msg mailer.Message) error {
	if h.mail == nil {
		metrics.EmailsSent.WithLabelValues(kind, "error").Inc()
		slog.Error("send email failed", "kind", kind, "err", mailer.ErrNotConfigured)
		return mailer.ErrNotConfigured
	}
	id, err := h.mail.Send(c.Request.Context(), msg)
	if err != nil {
		metrics.EmailsSent.WithLabelValues(kind, "error").Inc()
		slog.Error("send email failed", "kind", kind, "to", msg.To, "err", err)
		return err
	}
	metrics.EmailsSent.WithLabelValues(kind, "sent").Inc()
	slog.Info("email sent", "kind", kind, "id", id)
	return nil
}

func displayName(u users.User) string {
	if u.Profile != nil && u.Profile.FullName != "" {
		return u.Profile.FullName
	}
	return u.Email
}
