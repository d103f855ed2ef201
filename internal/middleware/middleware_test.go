package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/apperr"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/models"
	"github.com/Windi-Fikriyansyah/skillbridge_be/internal/utils"
)

const (
	testSecret = "test-secret"
	testCookie = "sb_token"
)

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			switch apperr.KindOf(err) {
			case apperr.KindUnauthorized:
				code = fiber.StatusUnauthorized
			case apperr.KindForbidden:
				code = fiber.StatusForbidden
			}
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			return c.SendStatus(code)
		},
	})

	app.Get("/private", JWTFromRequest(testSecret, testCookie, nil), RequireRoles(models.RoleTutor, models.RoleAdmin), func(c *fiber.Ctx) error {
		id, _ := UserID(c)
		return c.SendString(id.String() + "|" + string(Role(c)))
	})
	app.Get("/public", OptionalJWT(testSecret, testCookie, nil), func(c *fiber.Ctx) error {
		return c.SendString("role=" + string(Role(c)))
	})
	return app
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := utils.SignJWT(testSecret, userID, role, 60)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestJWTFromRequestAndRoles(t *testing.T) {
	app := newTestApp()
	uid := uuid.New().String()

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, fiber.StatusUnauthorized},
		{"garbage token", bearer("nope"), fiber.StatusUnauthorized},
		{"student forbidden", bearer(token(t, uid, "STUDENT")), fiber.StatusForbidden},
		{"tutor via bearer", bearer(token(t, uid, "TUTOR")), fiber.StatusOK},
		{"admin via cookie", cookie(token(t, uid, "admin")), fiber.StatusOK},
		{"non-uuid subject", bearer(token(t, "42", "ADMIN")), fiber.StatusUnauthorized},
		{"unknown role", bearer(token(t, uid, "client")), fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/private", nil)
			tt.setup(r)
			resp, err := app.Test(r)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}

func TestOptionalJWT(t *testing.T) {
	app := newTestApp()

	anon, _ := app.Test(httptest.NewRequest("GET", "/public", nil))
	if body := readBody(t, anon); body != "role=" {
		t.Fatalf("anonymous body = %q", body)
	}

	r := httptest.NewRequest("GET", "/public", nil)
	bearer(token(t, uuid.New().String(), "ADMIN"))(r)
	resp, _ := app.Test(r)
	if body := readBody(t, resp); body != "role=ADMIN" {
		t.Fatalf("admin body = %q", body)
	}

	bad := httptest.NewRequest("GET", "/public", nil)
	bearer("expired-or-garbage")(bad)
	resp, _ = app.Test(bad)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("invalid optional token must not fail the request, got %d", resp.StatusCode)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func bearer(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+tok) }
}

func cookie(tok string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Cookie", testCookie+"="+tok) }
}

type storedRoles map[uuid.UUID]models.Role

func (s storedRoles) CurrentRole(ctx context.Context, userID uuid.UUID) (models.Role, error) {
	role, ok := s[userID]
	if !ok {
		return "", apperr.Unauthorized("Unauthorized")
	}
	if role == "" {
		return "", errors.New("connection reset")
	}
	return role, nil
}

func TestStoredRoleWinsOverClaim(t *testing.T) {
	promoted := uuid.New()
	demoted := uuid.New()
	broken := uuid.New()
	roles := storedRoles{promoted: models.RoleTutor, demoted: models.RoleStudent, broken: ""}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			switch apperr.KindOf(err) {
			case apperr.KindUnauthorized:
				code = fiber.StatusUnauthorized
			case apperr.KindForbidden:
				code = fiber.StatusForbidden
			}
			return c.SendStatus(code)
		},
	})
	app.Get("/private", JWTFromRequest(testSecret, testCookie, roles), RequireRoles(models.RoleTutor), func(c *fiber.Ctx) error {
		return c.SendString(string(Role(c)))
	})
	app.Get("/public", OptionalJWT(testSecret, testCookie, roles), func(c *fiber.Ctx) error {
		return c.SendString("role=" + string(Role(c)))
	})

	tests := []struct {
		name   string
		user   uuid.UUID
		claim  string
		status int
	}{
		{"approved since login", promoted, "STUDENT", fiber.StatusOK},
		{"demoted since login", demoted, "TUTOR", fiber.StatusForbidden},
		{"deleted user", uuid.New(), "TUTOR", fiber.StatusUnauthorized},
		{"lookup failure", broken, "TUTOR", fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/private", nil)
			bearer(token(t, tt.user.String(), tt.claim))(r)
			resp, err := app.Test(r)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}

	r := httptest.NewRequest("GET", "/public", nil)
	bearer(token(t, promoted.String(), "STUDENT"))(r)
	resp, _ := app.Test(r)
	if body := readBody(t, resp); body != "role=TUTOR" {
		t.Fatalf("optional auth body = %q", body)
	}

	r = httptest.NewRequest("GET", "/public", nil)
	bearer(token(t, uuid.New().String(), "ADMIN"))(r)
	resp, _ = app.Test(r)
	if body := readBody(t, resp); body != "role=" {
		t.Fatalf("unknown user must stay anonymous, body = %q", body)
	}
}
