package token

import (
	"errors"
	"time"

	"enapm-backend/internal/clock"
	"enapm-backend/internal/fault"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService signs payloads as HS256 JWTs with an expiration. The clock is
// injected so expiry is deterministic in tests.
type JWTService struct {
	key        []byte
	expiration time.Duration
	clock      clock.Clock
}

func NewJWTService(secret string, expiration time.Duration, clk clock.Clock) *JWTService {
	return &JWTService{key: []byte(secret), expiration: expiration, clock: clk}
}

func (s *JWTService) Sign(payload map[string]any) (string, error) {
	claims := jwt.MapClaims{}
	for k, v := range payload {
		claims[k] = v
	}
	now := s.clock.Now()
	claims["iat"] = jwt.NewNumericDate(now)
	claims["exp"] = jwt.NewNumericDate(now.Add(s.expiration))

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fault.Unknown(err)
	}
	return signed, nil
}

func (s *JWTService) Verify(token string) (map[string]any, error) {
	parsed, err := jwt.ParseWithClaims(token, jwt.MapClaims{},
		func(t *jwt.Token) (any, error) {
			return s.key, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fault.ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fault.ErrUnknownSignature
		default:
			return nil, fault.WrapTokenVerification(err)
		}
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fault.WrapTokenVerification(errors.New("unexpected claims type"))
	}

	payload := make(map[string]any, len(claims))
	for k, v := range claims {
		if k == "iat" || k == "exp" {
			continue
		}
		payload[k] = v
	}
	return payload, nil
}
