package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/accounts-api/internal/config"
	"github.com/phrazzld/accounts-api/internal/platform/logger"
)

// hmacJWTService is an implementation of JWTService using HMAC-SHA signing.
type hmacJWTService struct {
	signingKey []byte
	lifetimes  map[Purpose]time.Duration
	timeFunc   func() time.Time // Injectable for testing
	clockSkew  time.Duration    // Leeway applied to exp/nbf checks of session tokens
}

// jwtCustomClaims defines the structure of JWT claims we use
type jwtCustomClaims struct {
	UserID      uuid.UUID `json:"uid"`
	TokenType   string    `json:"type"`
	Fingerprint string    `json:"fp,omitempty"`
	jwt.RegisteredClaims
}

// Ensure hmacJWTService implements JWTService interface
var _ JWTService = (*hmacJWTService)(nil)

// NewJWTService creates a new JWT service using HMAC-SHA256 signing. Every
// purpose takes its lifetime from cfg.
func NewJWTService(cfg config.AuthConfig) (JWTService, error) {
	if len(cfg.JWTSecret) < 32 {
		return nil, fmt.Errorf("jwt secret must be at least 32 characters")
	}

	minutes := func(n int) time.Duration { return time.Duration(n) * time.Minute }

	return &hmacJWTService{
		signingKey: []byte(cfg.JWTSecret),
		lifetimes: map[Purpose]time.Duration{
			PurposeAccess:        minutes(cfg.TokenLifetimeMinutes),
			PurposeRefresh:       minutes(cfg.RefreshTokenLifetimeMinutes),
			PurposeActivate:      minutes(cfg.ActivationTokenLifetimeMinutes),
			PurposeResetPassword: minutes(cfg.ResetTokenLifetimeMinutes),
			PurposeConfirmEmail:  minutes(cfg.EmailChangeTokenLifetimeMinutes),
		},
		timeFunc:  time.Now,
		clockSkew: 2 * time.Minute,
	}, nil
}

// GenerateToken creates a signed JWT access token with user claims.
func (s *hmacJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, userID, PurposeAccess, "")
}

// ValidateToken validates a JWT access token and returns the claims if valid.
func (s *hmacJWTService) ValidateToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.verify(ctx, tokenString, PurposeAccess, nil, s.clockSkew)
}

// GenerateRefreshToken creates a signed JWT refresh token with user claims.
func (s *hmacJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	return s.sign(ctx, userID, PurposeRefresh, "")
}

// ValidateRefreshToken validates a JWT refresh token and returns the claims if valid.
func (s *hmacJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error) {
	return s.verify(ctx, tokenString, PurposeRefresh, nil, s.clockSkew)
}

// IssueActionToken creates a link token bound to purpose and state.
func (s *hmacJWTService) IssueActionToken(
	ctx context.Context,
	userID uuid.UUID,
	purpose Purpose,
	state string,
) (string, error) {
	if purpose == PurposeAccess || purpose == PurposeRefresh {
		return "", fmt.Errorf("%s is not an action token purpose", purpose)
	}
	return s.sign(ctx, userID, purpose, s.fingerprint(purpose, state))
}

// VerifyActionToken validates a link token against purpose and state.
// Link tokens expire exactly at their lifetime; no clock skew is allowed.
func (s *hmacJWTService) VerifyActionToken(
	ctx context.Context,
	tokenString string,
	purpose Purpose,
	state string,
) (*Claims, error) {
	want := s.fingerprint(purpose, state)
	return s.verify(ctx, tokenString, purpose, &want, 0)
}

// fingerprint is a keyed digest of the account state a token is bound to.
func (s *hmacJWTService) fingerprint(purpose Purpose, state string) string {
	mac := hmac.New(sha256.New, s.signingKey)
	mac.Write([]byte(purpose))
	mac.Write([]byte{0})
	mac.Write([]byte(state))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *hmacJWTService) sign(ctx context.Context, userID uuid.UUID, purpose Purpose, fp string) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := jwtCustomClaims{
		UserID:      userID,
		TokenType:   string(purpose),
		Fingerprint: fp,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetimes[purpose])),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign JWT",
			"error", err,
			"user_id", userID,
			"token_type", purpose,
			"signing_method", jwt.SigningMethodHS256.Name)
		return "", fmt.Errorf("failed to sign %s token with HMAC-SHA256: %w", purpose, err)
	}

	return signed, nil
}

// verify parses tokenString and checks its purpose. When wantFP is non-nil
// the token's fingerprint must equal it.
func (s *hmacJWTService) verify(
	ctx context.Context,
	tokenString string,
	purpose Purpose,
	wantFP *string,
	leeway time.Duration,
) (*Claims, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwtCustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(leeway),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			log.Debug("token validation failed: token expired", "token_type", purpose)
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
			log.Debug("token validation failed: token not yet valid", "token_type", purpose)
			return nil, ErrTokenNotYetValid
		default:
			log.Debug("token validation failed",
				"error", err,
				"token_type", purpose,
				"error_type", fmt.Sprintf("%T", err))
			return nil, ErrInvalidToken
		}
	}

	claims, ok := token.Claims.(*jwtCustomClaims)
	if !ok || !token.Valid {
		log.Debug("token validation failed: invalid claims")
		return nil, ErrInvalidToken
	}

	if claims.TokenType != string(purpose) {
		log.Debug("token validation failed: wrong token type",
			"expected", purpose,
			"actual", claims.TokenType)
		return nil, ErrWrongTokenType
	}

	if claims.Subject != claims.UserID.String() {
		log.Debug("token validation failed: subject mismatch")
		return nil, ErrInvalidToken
	}

	if wantFP != nil && !hmac.Equal([]byte(claims.Fingerprint), []byte(*wantFP)) {
		log.Debug("token validation failed: stale state", "token_type", purpose)
		return nil, ErrStaleToken
	}

	return &Claims{
		UserID:    claims.UserID,
		TokenType: claims.TokenType,
		Subject:   claims.Subject,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
		ID:        claims.ID,
	}, nil
}
