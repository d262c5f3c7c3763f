package token

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKeyPair(t *testing.T) (privatePEM, publicPEM []byte) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privatePEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicDER})
	return privatePEM, publicPEM
}

func TestIssueAndDecode_AccessToken(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)
	codec, err := New(privatePEM, publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	access, _, err := codec.Issue("admin", "admin")
	require.NoError(t, err)

	claims, err := codec.Decode(access)
	require.NoError(t, err)

	assert.Equal(t, "Auth service", claims.Issuer)
	assert.Equal(t, "admin", claims.UserLogin)
	assert.Equal(t, "admin", claims.UserRole)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.Equal(t, int64(900), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())
}

func TestIssueAndDecode_RefreshToken(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)
	codec, err := New(privatePEM, publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	access, refresh, err := codec.Issue("general_user", "general")
	require.NoError(t, err)

	claims, err := codec.Decode(refresh)
	require.NoError(t, err)

	assert.Equal(t, TypeRefresh, claims.TokenType)
	assert.Equal(t, int64(864000), claims.ExpiresAt.Unix()-claims.IssuedAt.Unix())

	// Both tokens of a pair share iat.
	accessClaims, err := codec.Decode(access)
	require.NoError(t, err)
	assert.Equal(t, accessClaims.IssuedAt.Unix(), claims.IssuedAt.Unix())
}

func TestDecode_Garbage(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)
	codec, err := New(privatePEM, publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	_, err = codec.Decode("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecode_WrongKey(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)
	codec, err := New(privatePEM, publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	_, otherPublicPEM := testKeyPair(t)
	verifier, err := NewVerifier(otherPublicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	access, _, err := codec.Issue("admin", "admin")
	require.NoError(t, err)

	_, err = verifier.Decode(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecode_Expired(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)
	codec, err := New(privatePEM, publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	// Sign an already-expired token with the same key: signature is valid,
	// expiry alone must reject it.
	expired, err := codec.sign("admin", "admin", TypeAccess,
		time.Now().Add(-2*time.Hour), time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = codec.Decode(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestDecode_RejectsNonRS256(t *testing.T) {
	privatePEM, publicPEM := testKeyPair(t)
	codec, err := New(privatePEM, publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	hsToken, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{
		UserLogin: "admin",
		UserRole:  "admin",
		TokenType: TypeAccess,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Issuer:    Issuer,
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = codec.Decode(hsToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifierCannotIssue(t *testing.T) {
	_, publicPEM := testKeyPair(t)
	verifier, err := NewVerifier(publicPEM, 15*time.Minute, 240*time.Hour)
	require.NoError(t, err)

	_, _, err = verifier.Issue("admin", "admin")
	assert.ErrorIs(t, err, ErrEncoding)
}
