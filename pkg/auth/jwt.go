package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/shashiranjanraj/foodhub/config"
)

var (
	ErrTokenInvalid  = errors.New("auth: invalid or expired token")
	ErrTokenRevoked  = errors.New("auth: token revoked")
	ErrTokenReplayed = errors.New("auth: token id not recognised")
	ErrNoSessions    = errors.New("auth: session store unavailable")
)

// Claims is the JWT payload. jti, iss, aud, iat and exp live in
// RegisteredClaims.
type Claims struct {
	UUID string `json:"uuid"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
}

// Options configures a TokenService.
type Options struct {
	Secret     []byte
	Issuer     string
	Audience   string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// OptionsFromConfig reads JWT_* and *_TOKEN_TTL settings.
func OptionsFromConfig() Options {
	return Options{
		Secret:     []byte(config.JWTSecret()),
		Issuer:     config.Get("JWT_ISSUER", config.AppName()),
		Audience:   config.Get("JWT_AUDIENCE", "api"),
		AccessTTL:  config.AccessTokenTTL(),
		RefreshTTL: config.RefreshTokenTTL(),
	}
}

// TokenService signs HS256 tokens and tracks live sessions in Redis.
//
// Keys:
//
//	access:{uuid}       current access token for the user
//	jti:{jti}           access token id → uuid
//	refresh:{uuid}      current refresh token
//	refresh_jti:{jti}   refresh token id → uuid
//
// A token is accepted only while it is the stored token for its subject and
// its jti key still exists, so logging in again or logging out invalidates
// earlier tokens immediately.
type TokenService struct {
	rdb  redis.Cmdable
	opts Options
	now  func() time.Time
}

func NewTokenService(rdb redis.Cmdable, opts Options) *TokenService {
	if c, ok := rdb.(*redis.Client); ok && c == nil {
		rdb = nil
	}
	return &TokenService{rdb: rdb, opts: opts, now: time.Now}
}

type tokenKind struct {
	tokenKey string
	jtiKey   string
	ttl      func(Options) time.Duration
}

var (
	accessKind  = tokenKind{tokenKey: "access:", jtiKey: "jti:", ttl: func(o Options) time.Duration { return o.AccessTTL }}
	refreshKind = tokenKind{tokenKey: "refresh:", jtiKey: "refresh_jti:", ttl: func(o Options) time.Duration { return o.RefreshTTL }}
)

// Issue mints and stores a fresh access/refresh pair for subject.
func (s *TokenService) Issue(ctx context.Context, subject, role string) (TokenPair, error) {
	if s.rdb == nil {
		return TokenPair{}, ErrNoSessions
	}

	access, err := s.mint(ctx, accessKind, subject, role)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.mint(ctx, refreshKind, subject, role)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *TokenService) mint(ctx context.Context, kind tokenKind, subject, role string) (string, error) {
	now := s.now()
	ttl := kind.ttl(s.opts)
	jti := uuid.NewString()

	claims := Claims{
		UUID: subject,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Issuer:    s.opts.Issuer,
			Audience:  jwt.ClaimStrings{s.opts.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.opts.Secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, kind.tokenKey+subject, signed, ttl)
		p.Set(ctx, kind.jtiKey+jti, subject, ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("auth: store session: %w", err)
	}
	return signed, nil
}

// VerifyAccess checks signature, issuer, audience and expiry, then that the
// token is still the live session for its subject.
func (s *TokenService) VerifyAccess(ctx context.Context, token string) (*Claims, error) {
	return s.verify(ctx, accessKind, token)
}

// VerifyRefresh is VerifyAccess for refresh tokens.
func (s *TokenService) VerifyRefresh(ctx context.Context, token string) (*Claims, error) {
	return s.verify(ctx, refreshKind, token)
}

func (s *TokenService) verify(ctx context.Context, kind tokenKind, token string) (*Claims, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}
	if s.rdb == nil {
		return nil, ErrNoSessions
	}

	stored, err := s.rdb.Get(ctx, kind.tokenKey+claims.UUID).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrTokenRevoked
	case err != nil:
		return nil, fmt.Errorf("auth: load session: %w", err)
	case stored != token:
		return nil, ErrTokenRevoked
	}

	n, err := s.rdb.Exists(ctx, kind.jtiKey+claims.ID).Result()
	if err != nil {
		return nil, fmt.Errorf("auth: load jti: %w", err)
	}
	if n == 0 {
		return nil, ErrTokenReplayed
	}
	return claims, nil
}

func (s *TokenService) parse(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return s.opts.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.opts.Issuer),
		jwt.WithAudience(s.opts.Audience),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UUID == "" || claims.ID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// Revoke deletes both sessions of subject together with their jti keys.
func (s *TokenService) Revoke(ctx context.Context, subject string) error {
	if s.rdb == nil {
		return ErrNoSessions
	}

	keys := []string{accessKind.tokenKey + subject, refreshKind.tokenKey + subject}
	for _, kind := range []tokenKind{accessKind, refreshKind} {
		stored, err := s.rdb.Get(ctx, kind.tokenKey+subject).Result()
		if err != nil {
			continue
		}
		if jti := unverifiedJTI(stored); jti != "" {
			keys = append(keys, kind.jtiKey+jti)
		}
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("auth: revoke: %w", err)
	}
	return nil
}

// unverifiedJTI reads the jti of a token we issued ourselves earlier. The
// signature was checked when it was stored.
func unverifiedJTI(token string) string {
	var c Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &c); err != nil {
		return ""
	}
	return c.ID
}

// ─── Passwords ────────────────────────────────────────────────────────────────

// HashPassword returns a bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether plain matches hash.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
