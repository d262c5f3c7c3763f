package token

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	Issuer = "Auth service"

	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

var (
	// ErrEncoding means the signing key is unusable. This is a configuration
	// problem, not a user error, and should be treated as an alarm.
	ErrEncoding = errors.New("error while JWT encoding")

	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims is the decoded payload of an access or refresh token.
type Claims struct {
	UserLogin string `json:"user_login"`
	UserRole  string `json:"user_role"`
	TokenType string `json:"type"`
	jwtlib.RegisteredClaims
}

// Codec issues and verifies RS256-signed token pairs. The private key is
// optional: services that only validate tokens (search API, admin panel)
// construct a verify-only codec from the public key.
type Codec struct {
	private    *rsa.PrivateKey
	public     *rsa.PublicKey
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(privateKeyPEM, publicKeyPEM []byte, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	private, err := jwtlib.ParseRSAPrivateKeyFromPEM(privateKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	c, err := NewVerifier(publicKeyPEM, accessTTL, refreshTTL)
	if err != nil {
		return nil, err
	}
	c.private = private
	return c, nil
}

// NewVerifier builds a codec that can decode tokens but not issue them.
func NewVerifier(publicKeyPEM []byte, accessTTL, refreshTTL time.Duration) (*Codec, error) {
	public, err := jwtlib.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("parsing public key: %w", err)
	}
	return &Codec{
		public:     public,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}, nil
}

func (c *Codec) RefreshTTL() time.Duration { return c.refreshTTL }

// Issue mints an access/refresh pair for the subject. Both tokens share the
// same iat so expiry math stays correlated.
func (c *Codec) Issue(userLogin, userRole string) (access, refresh string, err error) {
	if c.private == nil {
		return "", "", ErrEncoding
	}

	iat := time.Now().UTC()

	access, err = c.sign(userLogin, userRole, TypeAccess, iat, iat.Add(c.accessTTL))
	if err != nil {
		return "", "", err
	}
	refresh, err = c.sign(userLogin, userRole, TypeRefresh, iat, iat.Add(c.refreshTTL))
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (c *Codec) sign(userLogin, userRole, tokenType string, iat, exp time.Time) (string, error) {
	claims := Claims{
		UserLogin: userLogin,
		UserRole:  userRole,
		TokenType: tokenType,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			IssuedAt:  jwtlib.NewNumericDate(iat),
			ExpiresAt: jwtlib.NewNumericDate(exp),
		},
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims).SignedString(c.private)
	if err != nil {
		return "", ErrEncoding
	}
	return signed, nil
}

// Decode verifies the signature against the public key and the exp claim
// against the clock. iat is deliberately not checked against the clock.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return c.public, nil
	}, jwtlib.WithValidMethods([]string{"RS256"}))
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
