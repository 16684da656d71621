// Package auth issues and verifies the signed, time-bounded access tokens
// that carry a user's identity and role. Verification is stateless: there
// is no server-side session or revocation list.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/jobscreen/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the access token lifetime used when none is configured.
const DefaultTTL = 30 * time.Minute

// Claims are the registered JWT claims plus the role of the subject.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// Identity is what a valid token proves about its bearer.
type Identity struct {
	Subject string
	Role    string
}

// TokenService signs and verifies access tokens with an HMAC secret.
type TokenService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a TokenService for one of HS256, HS384 or HS512.
// A non-positive ttl selects DefaultTTL.
func NewTokenService(secret string, algorithm string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("empty token secret")
	}
	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{secret: []byte(secret), method: method, ttl: ttl, now: time.Now}, nil
}

// TTL reports the default token lifetime.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for subject/role valid for the default TTL.
func (s *TokenService) Issue(subject, role string) (string, error) {
	return s.IssueWithTTL(subject, role, s.ttl)
}

// IssueWithTTL signs a token for subject/role valid for ttl.
func (s *TokenService) IssueWithTTL(subject, role string, ttl time.Duration) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(s.method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: role,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, structure and expiry. It returns
// common.ErrTokenExpired for an expired token and common.ErrInvalidToken
// for anything else that is wrong with it.
func (s *TokenService) Verify(tokenString string) (*Identity, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return &Identity{Subject: claims.Subject, Role: claims.Role}, nil
}
