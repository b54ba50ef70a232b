package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"paystack-billing/internal/domain"
	"paystack-billing/internal/domain/model"
	"paystack-billing/internal/domain/ports/adapter"
)

var _ adapter.IdentityResolver = (*JWTResolver)(nil)

// Claims is the subset of the auth provider's access token we read.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// JWTResolver validates HS256 access tokens issued by the auth provider.
// Tokens with role=service_role resolve to the service identity; the
// configured service-role key is also accepted verbatim.
type JWTResolver struct {
	secret     []byte
	serviceKey string
	leeway     time.Duration
}

func NewJWTResolver(secret, serviceRoleKey string) *JWTResolver {
	return &JWTResolver{secret: []byte(secret), serviceKey: serviceRoleKey, leeway: 30 * time.Second}
}

func (r *JWTResolver) Resolve(ctx context.Context, token string) (*model.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(r.secret) == 0 {
		return nil, domain.ErrUnauthorized
	}
	if r.serviceKey != "" && subtle.ConstantTimeCompare([]byte(token), []byte(r.serviceKey)) == 1 {
		return model.ServiceIdentity(), nil
	}

	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithLeeway(r.leeway))
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthorized
	}

	if claims.Role == model.RoleService {
		return model.ServiceIdentity(), nil
	}
	if claims.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return &model.Identity{Subject: claims.Subject, Email: claims.Email, Role: claims.Role}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", errors.New("missing bearer token")
	}
	tok := strings.TrimSpace(header[7:])
	if tok == "" {
		return "", errors.New("missing bearer token")
	}
	return tok, nil
}

// Mint signs claims with the resolver's secret. Used by dev tooling and tests.
func (r *JWTResolver) Mint(subject, email, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
}
