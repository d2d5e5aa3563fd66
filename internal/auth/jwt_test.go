package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmonkez12/family-health-api/internal/clock"
)

var issuedAt = time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestNewJWTService_RejectsInsecureSecretInProduction(t *testing.T) {
	_, err := NewJWTService("", true, nil)
	assert.ErrorIs(t, err, ErrInsecureKey)

	_, err = NewJWTService(DefaultInsecureSecret, true, nil)
	assert.ErrorIs(t, err, ErrInsecureKey)

	svc, err := NewJWTService("", false, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte(DefaultInsecureSecret), svc.secret)
}

func TestJWTService_ValidityWindow(t *testing.T) {
	clk := clock.NewManual(issuedAt)
	svc, err := NewJWTService("test-secret", true, clk)
	require.NoError(t, err)

	issued, err := svc.CreateToken(7, "ann@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.True(t, issued.ExpiresAt.Equal(issuedAt.Add(time.Hour)))

	claims, err := svc.VerifyToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "ann@example.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.ExpiresAt.Equal(issuedAt.Add(time.Hour)))

	clk.Set(issuedAt.Add(time.Hour - time.Nanosecond))
	_, err = svc.VerifyToken(issued.Token)
	assert.NoError(t, err)

	clk.Set(issuedAt.Add(time.Hour))
	_, err = svc.VerifyToken(issued.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidityWindowKeepsSubSecondIssueTime(t *testing.T) {
	issued := time.Date(2024, time.March, 10, 12, 0, 0, 900_000_000, time.UTC)
	clk := clock.NewManual(issued)
	svc, err := NewJWTService("test-secret", false, clk)
	require.NoError(t, err)

	tok, err := svc.CreateToken(7, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, tok.ExpiresAt.Equal(issued.Add(time.Hour)))

	clk.Set(issued.Add(time.Hour - 500*time.Millisecond))
	claims, err := svc.VerifyToken(tok.Token)
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Equal(issued.Add(time.Hour)), claims.ExpiresAt)

	clk.Set(issued.Add(time.Hour - time.Nanosecond))
	_, err = svc.VerifyToken(tok.Token)
	assert.NoError(t, err)

	clk.Set(issued.Add(time.Hour))
	_, err = svc.VerifyToken(tok.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestNumericDate_RoundTrip(t *testing.T) {
	at := time.Date(2024, time.March, 10, 13, 0, 0, 123_456_789, time.UTC)

	b, err := numericDate{Time: at}.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "1710075600.123456789", string(b))

	var got numericDate
	require.NoError(t, got.UnmarshalJSON(b))
	assert.True(t, got.Equal(at))

	require.NoError(t, got.UnmarshalJSON([]byte("1710075600")))
	assert.True(t, got.Equal(at.Truncate(time.Second)))

	assert.Error(t, got.UnmarshalJSON([]byte(`"soon"`)))
}

func TestJWTService_TokensHaveDistinctIDs(t *testing.T) {
	svc, err := NewJWTService("test-secret", false, clock.NewManual(issuedAt))
	require.NoError(t, err)

	a, err := svc.CreateToken(1, "a@example.com")
	require.NoError(t, err)
	b, err := svc.CreateToken(1, "a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	clk := clock.NewManual(issuedAt)
	ours, err := NewJWTService("ours", false, clk)
	require.NoError(t, err)
	theirs, err := NewJWTService("theirs", false, clk)
	require.NoError(t, err)

	forged, err := theirs.CreateToken(1, "a@example.com")
	require.NoError(t, err)

	_, err = ours.VerifyToken(forged.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Signature is checked before expiry.
	clk.Advance(2 * time.Hour)
	_, err = ours.VerifyToken(forged.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsSwappedPayload(t *testing.T) {
	svc, err := NewJWTService("test-secret", false, clock.NewManual(issuedAt))
	require.NoError(t, err)

	a, err := svc.CreateToken(1, "a@example.com")
	require.NoError(t, err)
	b, err := svc.CreateToken(2, "b@example.com")
	require.NoError(t, err)

	pa := strings.Split(a.Token, ".")
	pb := strings.Split(b.Token, ".")
	tampered := strings.Join([]string{pa[0], pb[1], pa[2]}, ".")

	_, err = svc.VerifyToken(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc, err := NewJWTService("test-secret", false, nil)
	require.NoError(t, err)

	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := svc.VerifyToken(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}
