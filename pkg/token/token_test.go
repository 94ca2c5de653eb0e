package jwttoken

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testConfig() Config {
	return Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		Issuer:     "appointment-backend",
		Audience:   "appointment-clients",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"short secret", func(c *Config) { c.Secret = []byte("too short") }},
		{"missing issuer", func(c *Config) { c.Issuer = "" }},
		{"missing audience", func(c *Config) { c.Audience = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg); err == nil {
				t.Error("New() should reject invalid config")
			}
		})
	}
}

func TestIssueAndVerify(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	userID := uuid.Must(uuid.NewV7())
	sessionID := uuid.Must(uuid.NewV7())

	t.Run("access token", func(t *testing.T) {
		tok, err := m.IssueAccess(userID, &sessionID)
		if err != nil {
			t.Fatalf("IssueAccess() error = %v", err)
		}

		claims, err := m.Verify(tok)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims.Type != TokenTypeAccess {
			t.Errorf("Type = %q, want %q", claims.Type, TokenTypeAccess)
		}
		if claims.UserID != userID {
			t.Errorf("UserID = %v, want %v", claims.UserID, userID)
		}
		if claims.SessionID == nil || *claims.SessionID != sessionID {
			t.Errorf("SessionID = %v, want %v", claims.SessionID, sessionID)
		}
		if claims.TokenID == "" {
			t.Error("TokenID should not be empty")
		}
		if claims.IsExpired() {
			t.Error("fresh token should not be expired")
		}
	})

	t.Run("refresh token", func(t *testing.T) {
		tok, err := m.IssueRefresh(userID, &sessionID)
		if err != nil {
			t.Fatalf("IssueRefresh() error = %v", err)
		}

		claims, err := m.Verify(tok)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims.Type != TokenTypeRefresh {
			t.Errorf("Type = %q, want %q", claims.Type, TokenTypeRefresh)
		}
	})

	t.Run("no session id", func(t *testing.T) {
		tok, err := m.IssueAccess(userID, nil)
		if err != nil {
			t.Fatalf("IssueAccess() error = %v", err)
		}
		claims, err := m.Verify(tok)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if claims.SessionID != nil {
			t.Errorf("SessionID = %v, want nil", claims.SessionID)
		}
	})

	t.Run("unique jti per token", func(t *testing.T) {
		t1, _ := m.IssueAccess(userID, nil)
		t2, _ := m.IssueAccess(userID, nil)
		c1, _ := m.Verify(t1)
		c2, _ := m.Verify(t2)
		if c1.TokenID == c2.TokenID {
			t.Error("two tokens should carry distinct jti values")
		}
	})
}

func TestVerifyRejects(t *testing.T) {
	m, err := New(testConfig())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	userID := uuid.Must(uuid.NewV7())
	good, err := m.IssueAccess(userID, nil)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Verify("not.a.token"); err == nil {
			t.Error("Verify() should reject garbage")
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		if _, err := m.Verify(good + "x"); err == nil {
			t.Error("Verify() should reject a modified token")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testConfig()
		other.Secret = []byte("ffffffffffffffffffffffffffffffff")
		m2, err := New(other)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := m2.Verify(good); err == nil {
			t.Error("Verify() should reject a token signed with another key")
		}
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := testConfig()
		other.Issuer = "someone-else"
		m2, err := New(other)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if _, err := m2.Verify(good); err == nil {
			t.Error("Verify() should reject a token from another issuer")
		}
	})

	t.Run("expired", func(t *testing.T) {
		cfg := testConfig()
		cfg.AccessTTL = -time.Minute
		// bypass the TTL default by issuing directly
		m2 := &Manager{cfg: cfg, parser: m.parser}
		tok, err := m2.issue(TokenTypeAccess, userID, nil, -time.Minute)
		if err != nil {
			t.Fatalf("issue() error = %v", err)
		}
		if _, err := m.Verify(tok); err == nil {
			t.Error("Verify() should reject an expired token")
		}
	})
}
