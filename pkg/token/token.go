package jwttoken

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Config struct {
	Secret []byte

	Issuer   string
	Audience string

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type Manager struct {
	cfg    Config
	parser *jwt.Parser
}

func New(cfg Config) (*Manager, error) {
	if len(cfg.Secret) < 32 {
		return nil, ErrConfig{Msg: "Secret must be at least 32 bytes"}
	}
	if cfg.Issuer == "" {
		return nil, ErrConfig{Msg: "Issuer is required"}
	}
	if cfg.Audience == "" {
		return nil, ErrConfig{Msg: "Audience is required"}
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}

	p := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
		jwt.WithAudience(cfg.Audience),
		jwt.WithExpirationRequired(),
	)

	return &Manager{cfg: cfg, parser: p}, nil
}

func (m *Manager) AccessTTL() time.Duration  { return m.cfg.AccessTTL }
func (m *Manager) RefreshTTL() time.Duration { return m.cfg.RefreshTTL }

func (m *Manager) IssueAccess(userID uuid.UUID, sessionID *uuid.UUID) (string, error) {
	return m.issue(TokenTypeAccess, userID, sessionID, m.cfg.AccessTTL)
}

func (m *Manager) IssueRefresh(userID uuid.UUID, sessionID *uuid.UUID) (string, error) {
	return m.issue(TokenTypeRefresh, userID, sessionID, m.cfg.RefreshTTL)
}

func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	var raw rawClaims

	tok, err := m.parser.ParseWithClaims(tokenStr, &raw, func(*jwt.Token) (any, error) {
		return m.cfg.Secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}
	if !tok.Valid {
		return nil, ErrInvalidToken{Err: jwt.ErrTokenUnverifiable}
	}

	claims, err := raw.toClaims()
	if err != nil {
		return nil, ErrInvalidToken{Err: err}
	}

	return claims, nil
}

func (m *Manager) issue(tt TokenType, userID uuid.UUID, sessionID *uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()

	raw := rawClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Audience:  jwt.ClaimStrings{m.cfg.Audience},
			Subject:   userID.String(),
			ID:        randHex(16),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Type:   string(tt),
		UserID: userID.String(),
	}
	if sessionID != nil {
		raw.SessionID = sessionID.String()
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, &raw)
	return tok.SignedString(m.cfg.Secret)
}

func randHex(nBytes int) string {
	b := make([]byte, nBytes)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// rawClaims is the on-the-wire claim set.
type rawClaims struct {
	jwt.RegisteredClaims

	Type      string `json:"typ"`
	UserID    string `json:"uid"`
	SessionID string `json:"sid,omitempty"`
}

func (r *rawClaims) toClaims() (*Claims, error) {
	uid, err := uuid.Parse(r.UserID)
	if err != nil {
		return nil, err
	}

	out := &Claims{
		Type:    TokenType(r.Type),
		UserID:  uid,
		Issuer:  r.Issuer,
		TokenID: r.ID,
		Subject: r.Subject,
	}
	if len(r.Audience) > 0 {
		out.Audience = r.Audience[0]
	}
	if r.IssuedAt != nil {
		out.IssuedAt = r.IssuedAt.Time
	}
	if r.NotBefore != nil {
		out.NotBefore = r.NotBefore.Time
	}
	if r.ExpiresAt != nil {
		out.ExpiresAt = r.ExpiresAt.Time
	}

	// sid is optional
	if r.SessionID != "" {
		sid, err := uuid.Parse(r.SessionID)
		if err != nil {
			return nil, err
		}
		out.SessionID = &sid
	}

	return out, nil
}
