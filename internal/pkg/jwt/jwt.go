package jwt

import (
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	// GenerateAccessToken issues a token scoped to a single dashboard
	GenerateAccessToken(dashboardID string) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
}

type JWTService struct {
	accessTokenExpirationTime time.Duration
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func NewJWTService(secretKey string, accessTokenExpirationTime time.Duration) Service {
	return &JWTService{
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) GenerateAccessToken(dashboardID string) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpirationTime).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"jti":          uuid.NewString(),
		"dashboard_id": dashboardID,
		"type":         "access",
		"exp":          expiresAt,
	})
	return tokenString, expiresAt, err
}
