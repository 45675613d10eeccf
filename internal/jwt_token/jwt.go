package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	id "helpapp/pkg/domain"
	dErrors "helpapp/pkg/domain-errors"
	"helpapp/pkg/requestcontext"
)

// DeviceTokenClaims represents the JWT claims carried by a paired handset.
type DeviceTokenClaims struct {
	DeviceID string `json:"device_id"`
	Env      string `json:"env,omitempty"`
	jwt.RegisteredClaims
}

// JWTService issues and validates device tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
	env        string
}

func NewJWTService(signingKey, issuer, audience string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
	}
}

// SetEnv annotates issued tokens with an environment string (e.g. "dev").
func (s *JWTService) SetEnv(env string) {
	s.env = env
}

// GenerateDeviceToken signs a token for the given device. The JTI is returned
// alongside so callers can log it.
func (s *JWTService) GenerateDeviceToken(ctx context.Context, deviceID id.DeviceID) (string, string, error) {
	if deviceID.IsNil() {
		return "", "", dErrors.New(dErrors.CodeInvalidInput, "device ID required")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	jti := hex.EncodeToString(b)
	now := requestcontext.Now(ctx)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, DeviceTokenClaims{
		DeviceID: deviceID.String(),
		Env:      s.env,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   deviceID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*DeviceTokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &DeviceTokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*DeviceTokenClaims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}
