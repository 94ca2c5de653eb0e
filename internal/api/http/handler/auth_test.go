package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yonathan001/Appointment/config"
	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/internal/service/auth"
	jwttoken "github.com/yonathan001/Appointment/pkg/token"
)

const (
	testAccessCookie  = "appt_access"
	testRefreshCookie = "appt_refresh"
)

func newAuthTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "handler.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	tokens, err := jwttoken.New(jwttoken.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "appointment-backend",
		Audience:   "appointment-clients",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("failed to build token manager: %v", err)
	}

	cfg := &config.Config{}
	cfg.Authentication.Cookie = config.CookieConfig{
		AccessName:  testAccessCookie,
		RefreshName: testRefreshCookie,
		Path:        "/",
		Secure:      true,
		HTTPOnly:    true,
		SameSite:    "Lax",
	}

	cookies := jwttoken.NewCookieWriter(cfg)
	svc := auth.New(db, rdb, tokens, cfg)
	h := NewAuthHandler(svc, tokens, cookies)

	app := fiber.New()
	app.Post("/auth/register", h.Register)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/refresh", h.Refresh)
	app.Post("/auth/logout", h.Logout)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, cookies ...*http.Cookie) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	return resp
}

func registerAccount(t *testing.T, app *fiber.App) {
	t.Helper()
	resp := postJSON(t, app, "/auth/register", fiber.Map{
		"email":      "kalkidan@example.com",
		"password":   "s3cret-password",
		"first_name": "Kalkidan",
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("register status = %d, want %d", resp.StatusCode, fiber.StatusCreated)
	}
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginCookies(t *testing.T) {
	app := newAuthTestApp(t)
	registerAccount(t, app)

	t.Run("success sets both cookies with future expiry", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "kalkidan@example.com",
			"password": "s3cret-password",
		})
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}

		access := cookieByName(resp, testAccessCookie)
		refresh := cookieByName(resp, testRefreshCookie)
		if access == nil || refresh == nil {
			t.Fatalf("expected both auth cookies, got %v", resp.Cookies())
		}

		for _, c := range []*http.Cookie{access, refresh} {
			if !c.HttpOnly {
				t.Errorf("cookie %s should be http-only", c.Name)
			}
			if !c.Secure {
				t.Errorf("cookie %s should be secure", c.Name)
			}
			if c.Path != "/" {
				t.Errorf("cookie %s path = %q, want /", c.Name, c.Path)
			}
			if !c.Expires.After(time.Now()) {
				t.Errorf("cookie %s expires in the past: %v", c.Name, c.Expires)
			}
		}

		// Expiry should track the configured TTLs, not some fixed horizon.
		wantAccess := time.Now().Add(15 * time.Minute)
		if d := access.Expires.Sub(wantAccess); d < -time.Minute || d > time.Minute {
			t.Errorf("access expiry %v not near %v", access.Expires, wantAccess)
		}
		wantRefresh := time.Now().Add(7 * 24 * time.Hour)
		if d := refresh.Expires.Sub(wantRefresh); d < -time.Minute || d > time.Minute {
			t.Errorf("refresh expiry %v not near %v", refresh.Expires, wantRefresh)
		}
	})

	t.Run("wrong password sets no cookies", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "kalkidan@example.com",
			"password": "wrong",
		})
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
		}
		if len(resp.Cookies()) != 0 {
			t.Errorf("expected no cookies, got %v", resp.Cookies())
		}
	})

	t.Run("unknown email is indistinguishable from wrong password", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "nobody@example.com",
			"password": "whatever",
		})
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
		}
	})
}

func TestRefreshCookies(t *testing.T) {
	app := newAuthTestApp(t)
	registerAccount(t, app)

	login := postJSON(t, app, "/auth/login", fiber.Map{
		"email":    "kalkidan@example.com",
		"password": "s3cret-password",
	})
	refreshCookie := cookieByName(login, testRefreshCookie)
	if refreshCookie == nil {
		t.Fatal("login did not set a refresh cookie")
	}

	t.Run("valid refresh cookie yields fresh cookies", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/refresh", nil, refreshCookie)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		if cookieByName(resp, testAccessCookie) == nil {
			t.Error("expected a fresh access cookie")
		}
		if cookieByName(resp, testRefreshCookie) == nil {
			t.Error("expected a fresh refresh cookie")
		}
	})

	t.Run("missing cookie is unauthenticated with no cookies", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/refresh", nil)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
		}
		if len(resp.Cookies()) != 0 {
			t.Errorf("expected no cookies, got %v", resp.Cookies())
		}
	})

	t.Run("body token is ignored without the cookie", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/refresh", fiber.Map{
			"refresh_token": refreshCookie.Value,
		})
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
		}
	})

	t.Run("garbage cookie is unauthenticated", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/refresh", nil, &http.Cookie{
			Name:  testRefreshCookie,
			Value: "not-a-token",
		})
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
		}
	})
}

func TestLogoutCookies(t *testing.T) {
	app := newAuthTestApp(t)
	registerAccount(t, app)

	assertCleared := func(t *testing.T, resp *http.Response) {
		t.Helper()
		for _, name := range []string{testAccessCookie, testRefreshCookie} {
			c := cookieByName(resp, name)
			if c == nil {
				t.Fatalf("logout did not touch cookie %s", name)
			}
			if c.Value != "" {
				t.Errorf("cookie %s still has a value", name)
			}
			if !c.Expires.Before(time.Now()) {
				t.Errorf("cookie %s not expired: %v", name, c.Expires)
			}
			// Deletion only works when the attributes match set-time.
			if c.Path != "/" || !c.HttpOnly || !c.Secure {
				t.Errorf("cookie %s deletion attributes differ from set-time: %+v", name, c)
			}
		}
	}

	t.Run("after login clears both cookies", func(t *testing.T) {
		login := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "kalkidan@example.com",
			"password": "s3cret-password",
		})
		refreshCookie := cookieByName(login, testRefreshCookie)

		resp := postJSON(t, app, "/auth/logout", nil, refreshCookie)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		assertCleared(t, resp)
	})

	t.Run("without a session still succeeds", func(t *testing.T) {
		resp := postJSON(t, app, "/auth/logout", nil)
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
		}
		assertCleared(t, resp)
	})

	t.Run("refresh after logout is rejected", func(t *testing.T) {
		login := postJSON(t, app, "/auth/login", fiber.Map{
			"email":    "kalkidan@example.com",
			"password": "s3cret-password",
		})
		refreshCookie := cookieByName(login, testRefreshCookie)

		_ = postJSON(t, app, "/auth/logout", nil, refreshCookie)

		resp := postJSON(t, app, "/auth/refresh", nil, refreshCookie)
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusUnauthorized)
		}
	})
}
