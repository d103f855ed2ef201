package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

const (
	stateCookie = "oauth_state"
	nextCookie  = "oauth_next"
	userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

type GoogleOAuthHandler struct {
	DB              *gorm.DB
	Session         Session
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
	Log             *zap.Logger
}

func (h *GoogleOAuthHandler) Routes(r fiber.Router) {
	r.Get("/auth/google/start", h.GoogleStart)
	r.Get("/auth/google/callback", h.GoogleCallback)
}

func (h *GoogleOAuthHandler) oauthCfg() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.GoogleClientID,
		ClientSecret: h.GoogleSecret,
		RedirectURL:  h.GoogleRedirect,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}
}

func randomState(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// tempCookie sets a short-lived cookie, or expires it when maxAge < 0.
func (h *GoogleOAuthHandler) tempCookie(c *fiber.Ctx, name, value string, maxAge int) {
	ck := &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		Secure:   h.Session.Secure,
		SameSite: "Lax",
	}
	if maxAge < 0 {
		ck.Expires = time.Unix(0, 0)
	} else {
		ck.MaxAge = maxAge
	}
	c.Cookie(ck)
}

func (h *GoogleOAuthHandler) GoogleStart(c *fiber.Ctx) error {
	if h.GoogleClientID == "" {
		return apperr.New(apperr.KindInternal, "Google sign-in is not configured")
	}

	st := randomState(32)
	h.tempCookie(c, stateCookie, st, 10*60)
	h.tempCookie(c, nextCookie, safeNext(c.Query("next", "/")), 10*60)

	return c.Redirect(h.oauthCfg().AuthCodeURL(st, oauth2.AccessTypeOffline), http.StatusTemporaryRedirect)
}

// safeNext only allows same-site relative paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (h *GoogleOAuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		return apperr.Invalid("Missing code/state")
	}

	if st := c.Cookies(stateCookie); st == "" || st != state {
		return apperr.Invalid("Invalid state")
	}
	next := safeNext(c.Cookies(nextCookie, "/"))

	cfg := h.oauthCfg()
	tok, err := cfg.Exchange(c.UserContext(), code)
	if err != nil {
		h.Log.Warn("google code exchange failed", zap.Error(err))
		return apperr.Invalid("Failed to exchange code")
	}

	resp, err := cfg.Client(c.UserContext(), tok).Get(userInfoURL)
	if err != nil {
		return apperr.Invalid("Failed to fetch userinfo")
	}
	defer resp.Body.Close()

	var gu googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&gu); err != nil {
		return apperr.Invalid("Failed to decode userinfo")
	}

	u, err := h.upsertUser(c, gu)
	if err != nil {
		return err
	}

	if !u.IsActive {
		return c.Redirect(h.FrontendBaseURL+"/auth/login?err="+url.QueryEscape("Account is inactive"), http.StatusTemporaryRedirect)
	}

	if _, err := h.Session.issue(c, u); err != nil {
		return err
	}
	h.tempCookie(c, stateCookie, "", -1)
	h.tempCookie(c, nextCookie, "", -1)

	return c.Redirect(h.FrontendBaseURL+next, http.StatusTemporaryRedirect)
}

// upsertUser finds the account by email or creates a STUDENT with an
// unusable random password.
func (h *GoogleOAuthHandler) upsertUser(c *fiber.Ctx, gu googleUserInfo) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(gu.Email))
	name := strings.TrimSpace(gu.Name)
	if email == "" {
		return nil, apperr.Invalid("Email not found from Google")
	}

	tx := h.DB.WithContext(c.UserContext())

	var u models.User
	err := tx.Where("email = ?", email).First(&u).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		hashed, err := utils.HashPassword(randomState(24))
		if err != nil {
			return nil, apperr.Internal("Failed to create account", err)
		}
		if name == "" {
			name = email
		}
		u = models.User{
			Name:          name,
			Email:         email,
			EmailVerified: gu.VerifiedEmail,
			Image:         gu.Picture,
			Password:      hashed,
			Role:          models.RoleStudent,
			IsActive:      true,
		}
		if err := tx.Create(&u).Error; err != nil {
			return nil, apperr.Internal("Failed to create account", err)
		}
		h.Log.Info("user created via google", zap.String("userId", u.ID.String()))
	case err != nil:
		return nil, apperr.Internal("Failed to load account", err)
	default:
		updates := map[string]interface{}{}
		if name != "" && u.Name != name {
			updates["name"] = name
		}
		if gu.VerifiedEmail && !u.EmailVerified {
			updates["email_verified"] = true
		}
		if gu.Picture != "" && u.Image != gu.Picture {
			updates["image"] = gu.Picture
		}
		if len(updates) > 0 {
			if err := tx.Model(&u).Updates(updates).Error; err != nil {
				h.Log.Warn("google profile sync failed", zap.Error(err))
			}
		}
	}
	return &u, nil
}
