package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/nazmulhs/campushub/pkg/errors"
)

// Token lifetimes applied when the configuration leaves them unset.
const (
	DefaultUserTokenTTL  = 7 * 24 * time.Hour
	DefaultGuestTokenTTL = 24 * time.Hour
)

// JWTConfig bundles the configuration required to build a JWTService.
type JWTConfig struct {
	Secret        string
	Issuer        string
	UserTokenTTL  time.Duration
	GuestTokenTTL time.Duration
	Clock         func() time.Time
}

// Claims represents the custom claims embedded in member tokens.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// GuestClaims represents the claims embedded in guest tokens. Guests carry no
// role; access is scoped to the listed event IDs.
type GuestClaims struct {
	GuestID  string   `json:"guest_id"`
	EventIDs []string `json:"events"`
	jwt.RegisteredClaims
}

// JWTService issues and validates member and guest tokens.
type JWTService struct {
	secret   []byte
	issuer   string
	userTTL  time.Duration
	guestTTL time.Duration
	now      func() time.Time
}

// NewJWTService constructs a JWTService instance when provided with the required configuration.
func NewJWTService(cfg JWTConfig) (*JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt: secret must be provided")
	}

	userTTL := cfg.UserTokenTTL
	if userTTL <= 0 {
		userTTL = DefaultUserTokenTTL
	}

	guestTTL := cfg.GuestTokenTTL
	if guestTTL <= 0 {
		guestTTL = DefaultGuestTokenTTL
	}

	now := time.Now
	if cfg.Clock != nil {
		now = cfg.Clock
	}

	return &JWTService{
		secret:   []byte(cfg.Secret),
		issuer:   cfg.Issuer,
		userTTL:  userTTL,
		guestTTL: guestTTL,
		now:      now,
	}, nil
}

// GenerateUserToken issues a signed JWT for a member account.
func (s *JWTService) GenerateUserToken(userID, role string) (string, error) {
	if userID == "" {
		return "", errors.New("jwt: user id is required")
	}

	now := s.now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.userTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return s.sign(claims)
}

// GenerateGuestToken issues a short-lived token scoped to the guest's events.
func (s *JWTService) GenerateGuestToken(guestID string, eventIDs []string) (string, error) {
	if guestID == "" {
		return "", errors.New("jwt: guest id is required")
	}

	now := s.now()
	claims := &GuestClaims{
		GuestID:  guestID,
		EventIDs: append([]string(nil), eventIDs...),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   guestID,
			Issuer:    s.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.guestTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return s.sign(claims)
}

// ValidateUserToken parses a member token, mapping failures onto the
// application error vocabulary.
func (s *JWTService) ValidateUserToken(tokenString string) (*Claims, error) {
	var claims Claims
	if err := s.parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	return &claims, nil
}

// ValidateGuestToken parses a guest token.
func (s *JWTService) ValidateGuestToken(tokenString string) (*GuestClaims, error) {
	var claims GuestClaims
	if err := s.parse(tokenString, &claims); err != nil {
		return nil, err
	}
	if claims.GuestID == "" {
		return nil, apperrors.ErrTokenInvalid
	}
	return &claims, nil
}

func (s *JWTService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

func (s *JWTService) parse(tokenString string, claims jwt.Claims) error {
	if tokenString == "" {
		return apperrors.ErrTokenInvalid
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	_, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.ErrTokenExpired
	default:
		return apperrors.ErrTokenInvalid.WithInternal(err)
	}

	if s.issuer != "" {
		issuer, err := claims.GetIssuer()
		if err != nil || issuer != s.issuer {
			return apperrors.ErrTokenInvalid
		}
	}

	return nil
}
