package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// Tokens are issued by the external auth service; this package only
// verifies them and reads the caller identity.

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleOwner    Role = "owner"
)

// CanManage reports whether the role may view team data and correct timecards.
func (r Role) CanManage() bool {
	return r == RoleManager || r == RoleOwner
}

var (
	ErrInvalidToken          = errors.New("invalid or missing access token")
	ErrManagerAccessRequired = errors.New("manager access required")
	ErrEmployeeMismatch      = errors.New("token does not belong to this employee")
)

// Identity is the verified caller of a request.
type Identity struct {
	UserID     string
	EmployeeID string
	Name       string
	Role       Role
}

type Service interface {
	JWTAuth() *jwtauth.JWTAuth
	// IssueAccessToken signs a token the way the auth service does. Used by
	// tests and local tooling.
	IssueAccessToken(identity Identity, ttl time.Duration) (string, error)
}

type JWTService struct {
	tokenAuth *jwtauth.JWTAuth
}

func NewJWTService(secretKey string) Service {
	return &JWTService{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
	}
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func (j *JWTService) IssueAccessToken(identity Identity, ttl time.Duration) (string, error) {
	claims := map[string]interface{}{
		"user_id":     identity.UserID,
		"employee_id": identity.EmployeeID,
		"name":        identity.Name,
		"role":        string(identity.Role),
		"type":        "access",
		"exp":         time.Now().Add(ttl).Unix(),
	}
	_, token, err := j.tokenAuth.Encode(claims)
	return token, err
}

// FromContext reads the identity of a request that passed the jwtauth verifier.
func FromContext(ctx context.Context) (Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil || claims == nil {
		return Identity{}, ErrInvalidToken
	}

	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return Identity{}, ErrInvalidToken
	}

	identity := Identity{}
	identity.UserID, _ = claims["user_id"].(string)
	identity.EmployeeID, _ = claims["employee_id"].(string)
	identity.Name, _ = claims["name"].(string)
	role, _ := claims["role"].(string)
	identity.Role = Role(role)

	if identity.UserID == "" || identity.Role == "" {
		return Identity{}, ErrInvalidToken
	}
	return identity, nil
}
