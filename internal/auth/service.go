package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DivXPro/canvas-editor-sub000/internal/typeid"
)

var ErrInvalidToken = errors.New("invalid token")

// DefaultTTL is how long a session token stays valid.
const DefaultTTL = 24 * time.Hour

type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       DefaultTTL,
		now:       time.Now,
	}
}

// Claims identify one editing session on one project.
type Claims struct {
	SessionID string `json:"sessionId"`
	ProjectID string `json:"projectId"`
}

// Session is an issued token and what it grants.
type Session struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ProjectID string    `json:"projectId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type sessionClaims struct {
	ProjectID string `json:"prj"`
	jwt.RegisteredClaims
}

// IssueSessionToken signs a token for a new session on projectID.
func (s *Service) IssueSessionToken(projectID string) (*Session, error) {
	if projectID == "" {
		return nil, errors.New("issue token: empty project id")
	}
	now := s.now()
	sess := &Session{
		SessionID: typeid.NewSessionID(),
		ProjectID: projectID,
		ExpiresAt: now.Add(s.ttl).Truncate(time.Second),
	}

	claims := sessionClaims{
		ProjectID: projectID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.SessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	sess.Token = signed
	return sess, nil
}

// ValidateToken checks the signature and expiry of tokenString.
func (s *Service) ValidateToken(tokenString string) (*Claims, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" || claims.ProjectID == "" {
		return nil, ErrInvalidToken
	}
	return &Claims{SessionID: claims.Subject, ProjectID: claims.ProjectID}, nil
}
