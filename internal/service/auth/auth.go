package auth

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yonathan001/Appointment/config"
	"github.com/yonathan001/Appointment/internal/model"
	"github.com/yonathan001/Appointment/pkg/authorize"
	jwttoken "github.com/yonathan001/Appointment/pkg/token"
	"github.com/yonathan001/Appointment/pkg/util/password"
)

// redisKeySession returns the Redis key for a session. The stored value is
// the jti of the refresh token currently bound to the session.
func redisKeySession(sessionID string) string { return "session:" + sessionID }

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

type LoginRequest struct {
	Email    string
	Password string
}

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until access token expires
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req LoginRequest) (*AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	db     *gorm.DB
	rdb    *redis.Client
	tokens *jwttoken.Manager
	cfg    *config.Config
}

func New(db *gorm.DB, rdb *redis.Client, tokens *jwttoken.Manager, cfg *config.Config) Service {
	return &authService{
		db:     db,
		rdb:    rdb,
		tokens: tokens,
		cfg:    cfg,
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

// Register creates a booking-client account. Staff and admin accounts are
// created through the user service, never through self-registration.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*model.User, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !reEmail.MatchString(req.Email) {
		return nil, ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return nil, ErrPasswordTooShort
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailAlreadyExists
	}

	passHash, err := password.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		Email:        req.Email,
		PasswordHash: passHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         authorize.RoleClient,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return u, nil
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*AuthTokens, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", req.Email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			// same error as a bad password, so the response never
			// discloses whether the account exists
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := password.Verify(u.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(ctx, &u)
}

// ---------------------------------------------------------------------------
// RefreshTokens
// ---------------------------------------------------------------------------

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != jwttoken.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == nil {
		return nil, ErrInvalidToken
	}

	sessionKey := redisKeySession(claims.SessionID.String())

	boundJTI, err := s.rdb.Get(ctx, sessionKey).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	rotate := s.cfg.Authentication.JWT.RotateRefresh

	// With rotation on, a refresh token is single-use: the session only
	// accepts the jti it is currently bound to. A replayed token kills
	// the whole session.
	if rotate && boundJTI != claims.TokenID {
		if err := s.rdb.Del(ctx, sessionKey).Err(); err != nil {
			slog.Warn("failed to revoke session after refresh replay", "session_id", claims.SessionID, "error", err)
		}
		return nil, ErrInvalidToken
	}

	accessToken, err := s.tokens.IssueAccess(claims.UserID, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	newRefresh := refreshToken
	if rotate {
		newRefresh, err = s.tokens.IssueRefresh(claims.UserID, claims.SessionID)
		if err != nil {
			return nil, fmt.Errorf("issue refresh token: %w", err)
		}
		newClaims, err := s.tokens.Verify(newRefresh)
		if err != nil {
			return nil, fmt.Errorf("verify issued refresh token: %w", err)
		}
		if err := s.rdb.Set(ctx, sessionKey, newClaims.TokenID, s.tokens.RefreshTTL()).Err(); err != nil {
			return nil, fmt.Errorf("rebind session: %w", err)
		}
	} else {
		// Extend session TTL; the refresh token stays valid until logout.
		if err := s.rdb.Expire(ctx, sessionKey, s.tokens.RefreshTTL()).Err(); err != nil {
			return nil, fmt.Errorf("extend session: %w", err)
		}
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.rdb.Del(ctx, redisKeySession(sessionID.String())).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		// Session already expired — not an error from the client's perspective
		slog.Debug("logout: session not found in Redis (already expired)", "session_id", sessionID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Sessions
// ---------------------------------------------------------------------------

func (s *authService) createSession(ctx context.Context, u *model.User) (*AuthTokens, error) {
	sessionID := uuid.Must(uuid.NewV7())

	accessToken, err := s.tokens.IssueAccess(u.ID, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.tokens.IssueRefresh(u.ID, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	refreshClaims, err := s.tokens.Verify(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("verify issued refresh token: %w", err)
	}

	key := redisKeySession(sessionID.String())
	if err := s.rdb.Set(ctx, key, refreshClaims.TokenID, s.tokens.RefreshTTL()).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	// Best-effort; not critical path.
	now := time.Now()
	if err := s.db.WithContext(ctx).Model(u).Update("last_login_at", now).Error; err != nil {
		slog.Warn("failed to record last login", "user_id", u.ID, "error", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
	}, nil
}

// SessionExists reports whether a session is still live. The auth
// middleware uses it to reject access tokens whose session was revoked.
func SessionExists(ctx context.Context, rdb *redis.Client, sessionID uuid.UUID) (bool, error) {
	err := rdb.Get(ctx, redisKeySession(sessionID.String())).Err()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
