package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dmitrymomot/tenantgate/pkg/access"
)

// MinKeyLength is the shortest accepted HS256 signing key.
const MinKeyLength = 32

// Claims carry the caller identity. Subject is the user ID.
type Claims struct {
	jwt.RegisteredClaims
	OrganizationID uuid.UUID `json:"org,omitempty"`
}

// Identity converts the claims to the facade's identity.
func (c *Claims) Identity() (*access.Identity, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil || userID == uuid.Nil {
		return nil, ErrInvalidClaims
	}
	return &access.Identity{UserID: userID, OrganizationID: c.OrganizationID}, nil
}

// Service signs and verifies HS256 tokens.
type Service struct {
	key    []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithIssuer sets and requires the iss claim.
func WithIssuer(iss string) ServiceOption {
	return func(s *Service) { s.issuer = iss }
}

// WithTTL sets the lifetime of issued tokens. Default is one hour.
func WithTTL(d time.Duration) ServiceOption {
	return func(s *Service) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithClock overrides time for issuing and validation.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService returns a Service for key. Keys shorter than MinKeyLength are rejected.
func NewService(key []byte, opts ...ServiceOption) (*Service, error) {
	if len(key) < MinKeyLength {
		return nil, ErrInvalidSigningKey
	}
	s := &Service{key: key, ttl: time.Hour, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Issue signs a token for id.
func (s *Service) Issue(id access.Identity) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
		OrganizationID: id.OrganizationID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Parse verifies the token and returns the identity it carries.
func (s *Service) Parse(token string) (*access.Identity, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}, opts...)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return claims.Identity()
}
