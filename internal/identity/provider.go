// Package identity is the system's identity provider: it owns credentials,
// the disabled flag, and the role claim, and it issues and verifies the
// bearer tokens every API request carries. The rest of the system treats it
// as an external collaborator behind the Provider interface.
package identity

import (
	"context"
	"errors"

	"github.com/policydesk/insurance-crm/internal/models"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token expired")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrEmailTaken         = errors.New("email already registered")
)

// Account is an identity-provider account. Role is the custom claim stamped
// into issued tokens; it is the authoritative role for authorization.
type Account struct {
	UID         string      `bson:"uid" json:"uid"`
	Email       string      `bson:"email" json:"email"`
	DisplayName string      `bson:"displayName" json:"displayName"`
	Disabled    bool        `bson:"disabled" json:"disabled"`
	Role        models.Role `bson:"role,omitempty" json:"role,omitempty"`
}

// Provider is the identity-provider surface the lifecycle manager and the
// HTTP handlers depend on. Every call is fallible and non-transactional
// with respect to the local store.
type Provider interface {
	CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error)
	UpdateAccount(ctx context.Context, uid, displayName, email string) error
	SetDisabled(ctx context.Context, uid string, disabled bool) error
	DeleteAccount(ctx context.Context, uid string) error
	SetRoleClaim(ctx context.Context, uid string, role models.Role) error
	GetAccount(ctx context.Context, uid string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	CountAccounts(ctx context.Context) (int64, error)

	Authenticate(ctx context.Context, email, password string) (*Account, error)
	ChangePassword(ctx context.Context, uid, currentPassword, newPassword string) error
	IssueToken(account *Account) (string, error)
	VerifyToken(tokenString string) (*models.Claims, error)
}
