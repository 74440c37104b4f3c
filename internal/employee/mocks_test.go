package employee

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/policydesk/insurance-crm/internal/identity"
	"github.com/policydesk/insurance-crm/internal/models"
)

// MockProvider is a mock implementation of identity.Provider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) CreateAccount(ctx context.Context, email, password, displayName string) (*identity.Account, error) {
	args := m.Called(ctx, email, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockProvider) UpdateAccount(ctx context.Context, uid, displayName, email string) error {
	args := m.Called(ctx, uid, displayName, email)
	return args.Error(0)
}

func (m *MockProvider) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	args := m.Called(ctx, uid, disabled)
	return args.Error(0)
}

func (m *MockProvider) DeleteAccount(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

func (m *MockProvider) SetRoleClaim(ctx context.Context, uid string, role models.Role) error {
	args := m.Called(ctx, uid, role)
	return args.Error(0)
}

func (m *MockProvider) GetAccount(ctx context.Context, uid string) (*identity.Account, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockProvider) GetAccountByEmail(ctx context.Context, email string) (*identity.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockProvider) CountAccounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProvider) Authenticate(ctx context.Context, email, password string) (*identity.Account, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Account), args.Error(1)
}

func (m *MockProvider) ChangePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	args := m.Called(ctx, uid, currentPassword, newPassword)
	return args.Error(0)
}

func (m *MockProvider) IssueToken(account *identity.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}

func (m *MockProvider) VerifyToken(tokenString string) (*models.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Claims), args.Error(1)
}

// MockUserCollection is a mock implementation of db.UserCollection
type MockUserCollection struct {
	mock.Mock
}

func (m *MockUserCollection) InsertUser(ctx context.Context, user models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserCollection) FindUserByUID(ctx context.Context, uid string) (*models.User, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUserByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserCollection) FindUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserCollection) UpdateUserFields(ctx context.Context, uid string, fields bson.M) error {
	args := m.Called(ctx, uid, fields)
	return args.Error(0)
}

func (m *MockUserCollection) DeleteUserByUID(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// MockPendingOpCollection is a mock implementation of db.PendingOpCollection
type MockPendingOpCollection struct {
	mock.Mock
}

func (m *MockPendingOpCollection) InsertPendingOp(ctx context.Context, op models.PendingOp) (primitive.ObjectID, error) {
	args := m.Called(ctx, op)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockPendingOpCollection) UpdatePendingOp(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockPendingOpCollection) FindUncommitted(ctx context.Context) ([]models.PendingOp, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PendingOp), args.Error(1)
}

func (m *MockPendingOpCollection) DeletePendingOp(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
