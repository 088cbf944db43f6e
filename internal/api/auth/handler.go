package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"menu-app/internal/app/http/middleware"
	"menu-app/internal/domain/session"
	"menu-app/internal/domain/users"
	"menu-app/internal/infra/mailer"
	"menu-app/internal/infra/ratelimit"
	"menu-app/internal/infra/sessiontoken"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Config struct {
	AppURL       string
	MailFrom     string
	JWTSecret    string
	SessionTTL   time.Duration
	CookieSecure bool

	Google GoogleConfig
}

type Handler struct {
	db      *gorm.DB
	mail    mailer.Sender
	limiter ratelimit.Limiter
	cfg     Config
	now     func() time.Time
}

func NewHandler(db *gorm.DB, mail mailer.Sender, limiter ratelimit.Limiter, cfg Config) *Handler {
	return &Handler{db: db, mail: mail, limiter: limiter, cfg: cfg, now: time.Now}
}

var (
	errTokenInvalid = errors.New("invalid token")
	errTokenExpired = errors.New("token expired")
	errBadLogin     = errors.New("invalid credentials")
	errUnconfirmed  = errors.New("email not confirmed")
	errNoPassword   = errors.New("account uses google sign-in")
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func isPasswordStrong(password string) bool {
	if len(password) < 8 {
		return false
	}
	hasLetter := false
	hasDigit := false
	for _, c := range password {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
			hasLetter = true
		case '0' <= c && c <= '9':
			hasDigit = true
		}
	}
	return hasLetter && hasDigit
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const weakPasswordMsg = "Password must be at least 8 characters long and contain both letters and numbers"

// POST /api/auth/create-user
func (h *Handler) CreateUser(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		FullName string `json:"full_name" binding:"required"`
		Company  string `json:"company"`
		Phone    string `json:"phone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	email := normalizeEmail(input.Email)
	if !emailPattern.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email format"})
		return
	}
	if !isPasswordStrong(input.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": weakPasswordMsg})
		return
	}

	var existing int64
	if err := h.db.Model(&users.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		slog.Error("lookup user failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "A user with this email already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}
	hash := string(hashed)

	user := users.User{
		Email:        email,
		Password:     &hash,
		AuthProvider: users.ProviderLocal,
	}
	var token string

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		profile := users.UserProfile{
			UserID:   user.ID,
			FullName: strings.TrimSpace(input.FullName),
			Company:  strings.TrimSpace(input.Company),
			Phone:    strings.TrimSpace(input.Phone),
		}
		if err := tx.Create(&profile).Error; err != nil {
			return err
		}
		user.Profile = &profile

		token, err = h.issueToken(tx, user.ID, users.TokenEmailConfirm, users.EmailConfirmTTL)
		return err
	})
	if err != nil {
		slog.Error("create user failed", "email", email, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	if err := h.sendConfirmation(c, user, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User created, but the confirmation email could not be sent"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created. Please check your email to confirm your account.",
		"user_id": user.ID,
	})
}

// POST /api/auth/login (JSON) and POST /auth/login (form)
func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	isForm := !strings.HasPrefix(c.ContentType(), "application/json")

	if err := c.ShouldBind(&input); err != nil {
		if isForm {
			c.Redirect(http.StatusFound, "/auth/login?error=missing")
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.authenticate(normalizeEmail(input.Email), input.Password)
	if err != nil {
		status, msg, code := http.StatusUnauthorized, "Invalid credentials", "invalid"
		switch {
		case errors.Is(err, errUnconfirmed):
			status, msg, code = http.StatusForbidden, "Please confirm your email before logging in", "unconfirmed"
		case errors.Is(err, errNoPassword):
			msg, code = "This account uses Google sign-in", "google"
		case !errors.Is(err, errBadLogin):
			slog.Error("login failed", "err", err)
			status, msg, code = http.StatusInternalServerError, "Login failed", "server"
		}
		if isForm {
			c.Redirect(http.StatusFound, "/auth/login?error="+code)
			return
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if err := h.startSession(c, user); err != nil {
		slog.Error("issue session failed", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create session"})
		return
	}

	if isForm {
		c.Redirect(http.StatusFound, session.AdminPath)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged in", "user_id": user.ID})
}

func (h *Handler) authenticate(email, password string) (*users.User, error) {
	var user users.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errBadLogin
	}
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() {
		return nil, errNoPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return nil, errBadLogin
	}
	if user.EmailConfirmedAt == nil {
		return nil, errUnconfirmed
	}
	return &user, nil
}

func (h *Handler) startSession(c *gin.Context, user *users.User) error {
	now := h.now()
	token, _, err := sessiontoken.Issue(session.Session{
		UserID:           user.ID,
		Email:            user.Email,
		EmailConfirmedAt: user.EmailConfirmedAt,
	}, h.cfg.JWTSecret, now, h.cfg.SessionTTL)
	if err != nil {
		return err
	}

	if err := h.db.Model(&users.User{}).Where("id = ?", user.ID).Update("last_sign_in_at", now).Error; err != nil {
		slog.Warn("update last sign-in failed", "user_id", user.ID, "err", err)
	}
	middleware.SetSessionCookie(c, token, h.cfg.SessionTTL, h.cfg.CookieSecure)
	return nil
}

// GET|POST /auth/logout redirect; POST /api/auth/logout answers JSON.
func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, h.cfg.CookieSecure)
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
		return
	}
	c.Redirect(http.StatusFound, session.LoginPath)
}

// GET /api/auth/confirm-email?token=
func (h *Handler) ConfirmEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing token"})
		return
	}

	t, err := h.lookupToken(token, users.TokenEmailConfirm)
	if err != nil {
		h.tokenError(c, err)
		return
	}

	now := h.now()
	var user users.User
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Profile").First(&user, "id = ?", t.UserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("email_confirmed_at", now).Error; err != nil {
			return err
		}
		return tx.Delete(t).Error
	})
	if err != nil {
		slog.Error("confirm email failed", "user_id", t.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm email"})
		return
	}

	h.sendWelcome(c, user)
	c.Redirect(http.StatusFound, session.LoginPath+"?confirmed=1")
}

// POST /api/auth/resend-confirmation
func (h *Handler) ResendConfirmation(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid email"})
		return
	}
	email := normalizeEmail(body.Email)

	if !h.admit(c, ratelimit.EmailKey("confirm-email", email)) {
		return
	}

	var user users.User
	if err := h.db.Preload("Profile").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		slog.Error("lookup user failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resend confirmation"})
		return
	}
	if user.EmailConfirmedAt != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already confirmed"})
		return
	}

	token, err := h.issueToken(h.db, user.ID, users.TokenEmailConfirm, users.EmailConfirmTTL)
	if err != nil {
		slog.Error("store confirmation token failed", "user_id", user.ID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store confirmation token"})
		return
	}
	if err := h.sendConfirmation(c, user, token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send confirmation email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Confirmation email resent"})
}

// issueToken replaces any token of the same type for the user.
func (h *Handler) issueToken(db *gorm.DB, userID, kind string, ttl time.Duration) (string, error) {
	token, err := users.NewToken()
	if err != nil {
		return "", err
	}
	if err := db.Where("user_id = ? AND type = ?", userID, kind).Delete(&users.VerificationToken{}).Error; err != nil {
		return "", err
	}
	t := users.VerificationToken{
		UserID:    userID,
		Token:     token,
		Type:      kind,
		ExpiresAt: h.now().Add(ttl),
	}
	if err := db.Create(&t).Error; err != nil {
		return "", err
	}
	return token, nil
}

func (h *Handler) lookupToken(token, kind string) (*users.VerificationToken, error) {
	var t users.VerificationToken
	err := h.db.Where("token = ? AND type = ?", token, kind).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errTokenInvalid
	}
	if err != nil {
		return nil, err
	}
	if t.Expired(h.now()) {
		return &t, errTokenExpired
	}
	return &t, nil
}

func (h *Handler) tokenError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errTokenExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token expired", "expired": true})
	case errors.Is(err, errTokenInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid token", "valid": false})
	default:
		slog.Error("token lookup failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check token"})
	}
}

// admit applies the rate limiter and writes the error response when the
// request is refused.
func (h *Handler) admit(c *gin.Context, key string) bool {
	ok, err := h.limiter.Allow(c.Request.Context(), key)
	if err != nil {
		slog.Error("rate limiter unavailable", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Rate limiter unavailable"})
		return false
	}
	if !ok {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests. Please wait a few seconds and try again."})
		return false
	}
	return true
}
