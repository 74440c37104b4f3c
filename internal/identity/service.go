package identity

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/policydesk/insurance-crm/internal/models"
)

type accountDoc struct {
	UID          string      `bson:"uid"`
	Email        string      `bson:"email"`
	DisplayName  string      `bson:"displayName"`
	PasswordHash string      `bson:"password_hash"`
	Disabled     bool        `bson:"disabled"`
	Role         models.Role `bson:"role,omitempty"`
	CreatedAt    time.Time   `bson:"created_at"`
	UpdatedAt    time.Time   `bson:"updated_at"`
}

// Service is the Mongo-backed Provider implementation.
type Service struct {
	collection *mongo.Collection
	jwtSecret  []byte
	tokenExp   time.Duration
}

// NewService creates the identity service. The signing secret and token
// lifetime come from JWT_SECRET and JWT_EXPIRY.
func NewService(collection *mongo.Collection) (*Service, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default-secret-key-change-in-production"
	}

	exp := 24 * time.Hour
	if expStr := os.Getenv("JWT_EXPIRY"); expStr != "" {
		if parsed, err := time.ParseDuration(expStr); err == nil {
			exp = parsed
		}
	}

	return &Service{
		collection: collection,
		jwtSecret:  []byte(secret),
		tokenExp:   exp,
	}, nil
}

// CreateAccount registers a new identity account with a fresh uid.
func (s *Service) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Err()
	if err == nil {
		return nil, ErrEmailTaken
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	doc := accountDoc{
		UID:          uuid.NewString(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Disabled:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	return &Account{UID: doc.UID, Email: doc.Email, DisplayName: doc.DisplayName}, nil
}

// UpdateAccount updates the display name and email of an account.
func (s *Service) UpdateAccount(ctx context.Context, uid, displayName, email string) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"displayName": displayName,
		"email":       email,
		"updated_at":  time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// SetDisabled flips the disabled flag. A disabled account cannot log in and
// its existing tokens are rejected on the next verification of identity.
func (s *Service) SetDisabled(ctx context.Context, uid string, disabled bool) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"disabled":   disabled,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("set disabled: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// DeleteAccount removes an account permanently.
func (s *Service) DeleteAccount(ctx context.Context, uid string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"uid": uid})
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// SetRoleClaim stamps the custom role claim onto an account. Tokens issued
// afterwards carry the new role.
func (s *Service) SetRoleClaim(ctx context.Context, uid string, role models.Role) error {
	res, err := s.collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("set role claim: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// GetAccount fetches one account by uid.
func (s *Service) GetAccount(ctx context.Context, uid string) (*Account, error) {
	var doc accountDoc
	err := s.collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return docToAccount(&doc), nil
}

// GetAccountByEmail fetches one account by email.
func (s *Service) GetAccountByEmail(ctx context.Context, email string) (*Account, error) {
	var doc accountDoc
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return docToAccount(&doc), nil
}

// CountAccounts returns the total number of registered accounts. The
// first-manager bootstrap rule checks this count.
func (s *Service) CountAccounts(ctx context.Context) (int64, error) {
	count, err := s.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count accounts: %w", err)
	}
	return count, nil
}

// Authenticate verifies email+password and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Account, error) {
	var doc accountDoc
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if doc.Disabled {
		return nil, ErrAccountDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return docToAccount(&doc), nil
}

// ChangePassword replaces the credential after verifying the current one.
func (s *Service) ChangePassword(ctx context.Context, uid, currentPassword, newPassword string) error {
	var doc accountDoc
	err := s.collection.FindOne(ctx, bson.M{"uid": uid}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrAccountNotFound
		}
		return fmt.Errorf("lookup account: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(doc.PasswordHash), []byte(currentPassword)) != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	_, err = s.collection.UpdateOne(ctx, bson.M{"uid": uid}, bson.M{"$set": bson.M{
		"password_hash": string(hash),
		"updated_at":    time.Now(),
	}})
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// IssueToken generates a signed bearer token for an account.
func (s *Service) IssueToken(account *Account) (string, error) {
	claims := jwt.MapClaims{
		"uid":   account.UID,
		"email": account.Email,
		"role":  string(account.Role),
		"exp":   time.Now().Add(s.tokenExp).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken validates a bearer token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*models.Claims, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	uid, ok := claims["uid"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)
	roleStr, ok := claims["role"].(string)
	if !ok {
		return nil, ErrInvalidToken
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		UID:   uid,
		Email: email,
		Role:  models.Role(roleStr),
		Exp:   int64(exp),
	}, nil
}

func docToAccount(doc *accountDoc) *Account {
	return &Account{
		UID:         doc.UID,
		Email:       doc.Email,
		DisplayName: doc.DisplayName,
		Disabled:    doc.Disabled,
		Role:        doc.Role,
	}
}
